package storage

import (
	"context"
	"sort"
	"time"

	"github.com/mcoot/wordgrid-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Game session operations
	SaveSession(ctx context.Context, session *model.GameSession) error
	GetSession(ctx context.Context, id model.GameSessionID) (*model.GameSession, error)
	DeleteSession(ctx context.Context, id model.GameSessionID) error
	GetSessionsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.GameSession, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error

	// Leaderboard operations
	SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error
	// GetLeaderboard returns entries completed at or after since (zero for all),
	// best score first, ties broken by earlier completion
	GetLeaderboard(ctx context.Context, since time.Time, limit int) ([]model.LeaderboardEntry, error)
}

// SortLeaderboard orders entries best score first, earlier completion first on ties
func SortLeaderboard(entries []model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CompletedAt.Before(entries[j].CompletedAt)
	})
}

// SortSessions orders sessions most recently updated first
func SortSessions(sessions []*model.GameSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}
