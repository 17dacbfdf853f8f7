package game

import (
	"fmt"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/board"
	"github.com/mcoot/wordgrid-go/internal/services/rack"
	"github.com/mcoot/wordgrid-go/internal/services/scoring"
)

// Outcome is the result of a word submission
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeNoNewWords Outcome = "no_new_words"
)

// SubmitResult is returned by Engine.Submit
type SubmitResult struct {
	Session *model.GameSession
	Words   []model.FoundWord // newly accepted words, discovery order
	Outcome Outcome
	NowWon  bool // the win flag flipped during this submission
	Gained  int  // points added by this submission
}

// Engine applies game operations to sessions. Every operation works on a
// copy: the input session is never modified. Rejected operations return
// the input session unchanged with applied=false.
type Engine struct {
	scorer *scoring.Service
	racks  *rack.Generator
}

// NewEngine creates a new Engine
func NewEngine(scorer *scoring.Service, racks *rack.Generator) *Engine {
	return &Engine{
		scorer: scorer,
		racks:  racks,
	}
}

// NewSession creates a fresh session with the standard board and a full rack
func (e *Engine) NewSession() *model.GameSession {
	return &model.GameSession{
		Board:       board.NewBoard(),
		Rack:        model.NewRack(e.racks.Generate()),
		FoundWords:  []model.FoundWord{},
		RedrawsLeft: model.StartingRedraws,
	}
}

// NewSeededSession creates a fresh session whose board starts with fixed
// letters the player cannot remove
func (e *Engine) NewSeededSession(seeds []model.SeededLetter) (*model.GameSession, error) {
	session := e.NewSession()
	for _, seed := range seeds {
		if err := board.Seed(session.Board, seed.Position, seed.Letter); err != nil {
			return nil, fmt.Errorf("seeding (%d,%d): %w", seed.Position.Row, seed.Position.Col, err)
		}
	}
	return session, nil
}

// Place moves one instance of letter from the rack onto an empty cell and
// refills the rack
func (e *Engine) Place(s *model.GameSession, pos model.Position, letter rune) (*model.GameSession, bool) {
	upper, ok := board.NormalizeLetter(letter)
	if !ok || !board.CanPlace(s.Board, pos) || !s.Rack.Contains(upper) {
		return s, false
	}

	next := s.Clone()
	rack.Take(next.Rack, upper)
	board.Place(next.Board, pos, upper)
	e.racks.Refill(next.Rack)
	next.Selected = nil
	return next, true
}

// Remove returns a player-placed letter to the rack
func (e *Engine) Remove(s *model.GameSession, pos model.Position) (*model.GameSession, bool) {
	cell := s.Board.Get(pos)
	if cell.IsEmpty() || cell.PlacedBy != model.PlacedByPlayer {
		return s, false
	}

	next := s.Clone()
	letter, _ := board.Remove(next.Board, pos)
	rack.Return(next.Rack, letter)
	return next, true
}

// RecallAll returns every player-placed letter to the rack in row-major order
func (e *Engine) RecallAll(s *model.GameSession) (*model.GameSession, bool) {
	positions := s.Board.PlayerPositions()

	next := s.Clone()
	for _, pos := range positions {
		letter, _ := board.Remove(next.Board, pos)
		rack.Return(next.Rack, letter)
	}
	next.Selected = nil
	return next, len(positions) > 0 || s.Selected != nil
}

// Shuffle reorders the rack
func (e *Engine) Shuffle(s *model.GameSession) (*model.GameSession, bool) {
	next := s.Clone()
	e.racks.Shuffle(next.Rack)
	return next, true
}

// Redraw replaces the rack with a fresh one, spending a redraw
func (e *Engine) Redraw(s *model.GameSession) (*model.GameSession, bool) {
	if s.RedrawsLeft <= 0 {
		return s, false
	}

	next := s.Clone()
	e.racks.Redraw(next.Rack)
	next.RedrawsLeft--
	return next, true
}

// DroppedLetters reports the letters that a full rack evicted when returned
// letters were added to before, leaving after
func DroppedLetters(before *model.Rack, returned []rune, after *model.Rack) string {
	left := after.Counts()
	var dropped []rune
	for _, l := range append(append([]rune{}, before.Letters...), returned...) {
		if left[l] > 0 {
			left[l]--
			continue
		}
		dropped = append(dropped, l)
	}
	return string(dropped)
}

// Select marks a cell as selected, or clears the selection for an
// off-board position
func (e *Engine) Select(s *model.GameSession, pos model.Position) (*model.GameSession, bool) {
	next := s.Clone()
	if s.Board.IsValidPosition(pos) {
		p := pos
		next.Selected = &p
	} else {
		next.Selected = nil
	}
	return next, true
}

// Submit scans the board for dictionary words not yet found, records and
// scores them, and consumes the bonuses they cover. All words in one
// submission are scored against the bonuses as they stood before it.
func (e *Engine) Submit(s *model.GameSession) SubmitResult {
	candidates := e.scorer.FindWords(s.Board)

	seen := make(map[string]bool, len(candidates))
	var fresh []model.FoundWord
	for _, w := range candidates {
		if seen[w.Word] || s.HasWord(w.Word) {
			continue
		}
		seen[w.Word] = true
		fresh = append(fresh, w)
	}

	if len(fresh) == 0 {
		return SubmitResult{Session: s, Outcome: OutcomeNoNewWords}
	}

	next := s.Clone()
	gained := 0
	for _, w := range fresh {
		next.FoundWords = append(next.FoundWords, w)
		gained += w.Score
		scoring.ConsumeBonuses(next.Board, w)
	}
	next.Score += gained

	nowWon := false
	if !next.Won && len(next.FoundWords) >= model.WinThreshold {
		next.Won = true
		nowWon = true
	}

	return SubmitResult{
		Session: next,
		Words:   fresh,
		Outcome: OutcomeAccepted,
		NowWon:  nowWon,
		Gained:  gained,
	}
}
