package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventLetterPlaced    EventType = "letter_placed"
	EventLetterRemoved   EventType = "letter_removed"
	EventLettersRecalled EventType = "letters_recalled"
	EventRackShuffled    EventType = "rack_shuffled"
	EventRackRedrawn     EventType = "rack_redrawn"
	EventWordsFound      EventType = "words_found"
	EventGameWon         EventType = "game_won"
	EventSessionEnded    EventType = "session_ended"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID GameSessionID
	PlayerID  PlayerID
	Payload   any // Type-specific data
}

// LetterPayload contains data for placement and removal events
type LetterPayload struct {
	Position Position
	Letter   rune
	Dropped  string // letters a full rack could not take back
}

// RackPayload contains data for rack-changing events
type RackPayload struct {
	Rack        string
	RedrawsLeft int
	Dropped     string // letters a full rack could not take back
}

// WordsFoundPayload contains data for words found events
type WordsFoundPayload struct {
	Words      []FoundWord
	TotalScore int
	WordCount  int
}

// GameWonPayload contains data for game won events
type GameWonPayload struct {
	Score     int
	WordCount int
}

// SessionEndedPayload contains the final state of an ended session
type SessionEndedPayload struct {
	Score     int
	WordCount int
	Won       bool
}
