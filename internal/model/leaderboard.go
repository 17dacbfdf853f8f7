package model

import "time"

// LeaderboardEntry records the result of a finished game session
type LeaderboardEntry struct {
	SessionID   GameSessionID
	PlayerID    PlayerID
	DisplayName string
	Score       int
	WordCount   int
	Won         bool
	CompletedAt time.Time
}
