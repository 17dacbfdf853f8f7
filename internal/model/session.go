package model

import "time"

// Session rules
const (
	StartingRedraws = 3
	WinThreshold    = 30 // found words needed to win
)

// GameSessionID uniquely identifies a game session
type GameSessionID string

// FoundWord is an accepted, scored word
type FoundWord struct {
	Word       string
	Score      int
	Positions  []Position
	Horizontal bool
}

// GameSession is the complete state of one player's game
type GameSession struct {
	ID       GameSessionID
	PlayerID PlayerID

	Board       *Board
	Rack        *Rack
	FoundWords  []FoundWord
	Score       int
	RedrawsLeft int
	Won         bool
	Selected    *Position // UI cell selection, nil if none

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasWord returns true if the word text was already accepted
func (s *GameSession) HasWord(word string) bool {
	for _, fw := range s.FoundWords {
		if fw.Word == word {
			return true
		}
	}
	return false
}

// WordCount returns the number of accepted words
func (s *GameSession) WordCount() int {
	return len(s.FoundWords)
}

// Clone returns a deep copy of the session
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Board = s.Board.Clone()
	c.Rack = s.Rack.Clone()
	if s.FoundWords != nil {
		c.FoundWords = make([]FoundWord, len(s.FoundWords))
		for i, fw := range s.FoundWords {
			positions := make([]Position, len(fw.Positions))
			copy(positions, fw.Positions)
			fw.Positions = positions
			c.FoundWords[i] = fw
		}
	}
	if s.Selected != nil {
		sel := *s.Selected
		c.Selected = &sel
	}
	return &c
}

// SessionSummary is a lightweight listing record
type SessionSummary struct {
	ID        GameSessionID
	Score     int
	WordCount int
	Won       bool
	UpdatedAt time.Time
}

// Summary returns the listing record for the session
func (s *GameSession) Summary() SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Score:     s.Score,
		WordCount: len(s.FoundWords),
		Won:       s.Won,
		UpdatedAt: s.UpdatedAt,
	}
}
