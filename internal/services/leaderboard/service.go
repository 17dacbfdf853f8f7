package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/wordgrid-go/internal/dependencies/clock"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/storage"
)

// Period selects the window of a leaderboard query
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodAllTime Period = "alltime"
)

// Limits for leaderboard queries
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ErrInvalidPeriod is returned for an unknown period name
var ErrInvalidPeriod = errors.New("invalid leaderboard period")

// ParsePeriod converts a query value into a Period, defaulting to daily
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDaily:
		return PeriodDaily, nil
	case PeriodAllTime:
		return PeriodAllTime, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Service records finished games and serves top lists
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new LeaderboardService
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "leaderboard")),
	}
}

// Record stores the result of a finished session. A later record for the
// same session replaces the earlier one.
func (s *Service) Record(ctx context.Context, entry *model.LeaderboardEntry) error {
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = s.clock.Now()
	}
	if err := s.storage.SaveLeaderboardEntry(ctx, entry); err != nil {
		s.logger.Error("failed to record leaderboard entry",
			slog.String("session_id", string(entry.SessionID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("leaderboard entry recorded",
		slog.String("session_id", string(entry.SessionID)),
		slog.String("player_id", string(entry.PlayerID)),
		slog.Int("score", entry.Score),
		slog.Bool("won", entry.Won),
	)
	return nil
}

// Daily returns the best entries completed since the start of the current UTC day
func (s *Service) Daily(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.storage.GetLeaderboard(ctx, StartOfDay(s.clock.Now()), clampLimit(limit))
}

// AllTime returns the best entries ever recorded
func (s *Service) AllTime(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.storage.GetLeaderboard(ctx, time.Time{}, clampLimit(limit))
}

// Top returns the best entries for the given period
func (s *Service) Top(ctx context.Context, period Period, limit int) ([]model.LeaderboardEntry, error) {
	switch period {
	case PeriodDaily:
		return s.Daily(ctx, limit)
	case PeriodAllTime:
		return s.AllTime(ctx, limit)
	default:
		return nil, ErrInvalidPeriod
	}
}

// StartOfDay returns midnight UTC of the day containing t
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Interface for dependency injection
type ServiceInterface interface {
	Record(ctx context.Context, entry *model.LeaderboardEntry) error
	Daily(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	AllTime(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	Top(ctx context.Context, period Period, limit int) ([]model.LeaderboardEntry, error)
}

var _ ServiceInterface = (*Service)(nil)
