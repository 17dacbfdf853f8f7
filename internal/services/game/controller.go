package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/wordgrid-go/internal/dependencies/clock"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
	"github.com/mcoot/wordgrid-go/internal/storage"
)

// Notifier receives session events after state has been saved
type Notifier interface {
	Publish(event model.Event)
}

// NopNotifier discards all events
type NopNotifier struct{}

func (NopNotifier) Publish(model.Event) {}

// Controller hosts game sessions: it loads and saves sessions through
// storage, applies engine operations, and publishes events
type Controller struct {
	storage     storage.Storage
	engine      *Engine
	leaderboard leaderboard.ServiceInterface
	notifier    Notifier
	clock       clock.Clock
	logger      *slog.Logger
	locks       *keyedMutex
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	engine *Engine,
	leaderboard leaderboard.ServiceInterface,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		storage:     storage,
		engine:      engine,
		leaderboard: leaderboard,
		notifier:    notifier,
		clock:       clock,
		logger:      logger.With(slog.String("component", "game")),
		locks:       newKeyedMutex(),
	}
}

// CreateSession starts a new game session for the player, optionally with
// fixed letters already on the board
func (c *Controller) CreateSession(ctx context.Context, playerID model.PlayerID, seeds ...model.SeededLetter) (*model.GameSession, error) {
	if _, err := c.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	session, err := c.engine.NewSeededSession(seeds)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()
	session.ID = model.GameSessionID(uuid.NewString())
	session.PlayerID = playerID
	session.CreatedAt = now
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("rack", session.Rack.String()),
		slog.Int("seeded", session.Board.OccupiedCount()),
	)
	return session, nil
}

// GetSession returns a session owned by the player
func (c *Controller) GetSession(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		return nil, model.ErrNotSessionOwner
	}
	return session, nil
}

// ListSessions returns the player's sessions, most recently updated first
func (c *Controller) ListSessions(ctx context.Context, playerID model.PlayerID) ([]model.SessionSummary, error) {
	sessions, err := c.storage.GetSessionsForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summary())
	}
	return summaries, nil
}

// Place puts a rack letter on the board
func (c *Controller) Place(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position, letter rune) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		next, applied := c.engine.Place(s, pos, letter)
		if !applied {
			return s, false, nil
		}
		return next, true, []model.Event{
			c.event(next, model.EventLetterPlaced, model.LetterPayload{Position: pos, Letter: next.Board.Get(pos).Letter}),
		}
	})
}

// Remove returns a placed letter to the rack
func (c *Controller) Remove(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		letter := s.Board.Get(pos).Letter
		next, applied := c.engine.Remove(s, pos)
		if !applied {
			return s, false, nil
		}
		return next, true, []model.Event{
			c.event(next, model.EventLetterRemoved, model.LetterPayload{
				Position: pos,
				Letter:   letter,
				Dropped:  DroppedLetters(s.Rack, []rune{letter}, next.Rack),
			}),
		}
	})
}

// Recall returns every placed letter to the rack
func (c *Controller) Recall(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		var returned []rune
		for _, pos := range s.Board.PlayerPositions() {
			returned = append(returned, s.Board.Get(pos).Letter)
		}
		next, applied := c.engine.RecallAll(s)
		if !applied {
			return s, false, nil
		}
		payload := c.rackPayload(next)
		payload.Dropped = DroppedLetters(s.Rack, returned, next.Rack)
		return next, true, []model.Event{
			c.event(next, model.EventLettersRecalled, payload),
		}
	})
}

// Shuffle reorders the rack
func (c *Controller) Shuffle(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		next, applied := c.engine.Shuffle(s)
		if !applied {
			return s, false, nil
		}
		return next, true, []model.Event{
			c.event(next, model.EventRackShuffled, c.rackPayload(next)),
		}
	})
}

// Redraw spends a redraw for a fresh rack
func (c *Controller) Redraw(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		next, applied := c.engine.Redraw(s)
		if !applied {
			return s, false, nil
		}
		return next, true, []model.Event{
			c.event(next, model.EventRackRedrawn, c.rackPayload(next)),
		}
	})
}

// Select sets or clears the selected cell
func (c *Controller) Select(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position) (*model.GameSession, bool, error) {
	return c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		next, applied := c.engine.Select(s, pos)
		return next, applied, nil
	})
}

// Submit scans the board for new words. A submission that flips the win
// flag also publishes game_won and records a leaderboard entry.
func (c *Controller) Submit(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (SubmitResult, error) {
	var result SubmitResult
	_, _, err := c.update(ctx, id, playerID, func(s *model.GameSession) (*model.GameSession, bool, []model.Event) {
		result = c.engine.Submit(s)
		if result.Outcome != OutcomeAccepted {
			return s, false, nil
		}
		next := result.Session
		events := []model.Event{
			c.event(next, model.EventWordsFound, model.WordsFoundPayload{
				Words:      result.Words,
				TotalScore: next.Score,
				WordCount:  next.WordCount(),
			}),
		}
		if result.NowWon {
			events = append(events, c.event(next, model.EventGameWon, model.GameWonPayload{
				Score:     next.Score,
				WordCount: next.WordCount(),
			}))
		}
		return next, true, events
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if result.Outcome == OutcomeAccepted {
		c.logger.Info("words accepted",
			slog.String("session_id", string(id)),
			slog.Int("new_words", len(result.Words)),
			slog.Int("gained", result.Gained),
			slog.Int("score", result.Session.Score),
		)
	}
	if result.NowWon {
		c.logger.Info("game won",
			slog.String("session_id", string(id)),
			slog.Int("score", result.Session.Score),
		)
		c.recordResult(ctx, result.Session)
	}
	return result, nil
}

// EndSession deletes the session. Unwon sessions with a positive score are
// recorded on the leaderboard; won sessions were recorded when they were won.
func (c *Controller) EndSession(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) error {
	unlock := c.locks.Lock(string(id))
	defer unlock()

	session, err := c.GetSession(ctx, id, playerID)
	if err != nil {
		return err
	}

	if err := c.storage.DeleteSession(ctx, id); err != nil {
		return err
	}

	if !session.Won && session.Score > 0 {
		c.recordResult(ctx, session)
	}

	c.notifier.Publish(c.event(session, model.EventSessionEnded, model.SessionEndedPayload{
		Score:     session.Score,
		WordCount: session.WordCount(),
		Won:       session.Won,
	}))

	c.logger.Info("session ended",
		slog.String("session_id", string(id)),
		slog.Int("score", session.Score),
		slog.Bool("won", session.Won),
	)
	return nil
}

type mutation func(s *model.GameSession) (next *model.GameSession, applied bool, events []model.Event)

// update runs op on the stored session under the session lock, saving and
// publishing only when the operation applied
func (c *Controller) update(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, op mutation) (*model.GameSession, bool, error) {
	unlock := c.locks.Lock(string(id))
	defer unlock()

	session, err := c.GetSession(ctx, id, playerID)
	if err != nil {
		return nil, false, err
	}

	next, applied, events := op(session)
	if !applied {
		return session, false, nil
	}

	next.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, next); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, false, err
	}

	for _, e := range events {
		c.notifier.Publish(e)
	}
	return next, true, nil
}

func (c *Controller) recordResult(ctx context.Context, session *model.GameSession) {
	if c.leaderboard == nil {
		return
	}

	displayName := string(session.PlayerID)
	player, err := c.storage.GetPlayer(ctx, session.PlayerID)
	if err == nil {
		displayName = player.DisplayName
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		c.logger.Warn("failed to load player for leaderboard",
			slog.String("player_id", string(session.PlayerID)),
			slog.String("error", err.Error()),
		)
	}

	err = c.leaderboard.Record(ctx, &model.LeaderboardEntry{
		SessionID:   session.ID,
		PlayerID:    session.PlayerID,
		DisplayName: displayName,
		Score:       session.Score,
		WordCount:   session.WordCount(),
		Won:         session.Won,
		CompletedAt: c.clock.Now(),
	})
	if err != nil {
		c.logger.Error("failed to record leaderboard entry",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Controller) event(s *model.GameSession, t model.EventType, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: c.clock.Now(),
		SessionID: s.ID,
		PlayerID:  s.PlayerID,
		Payload:   payload,
	}
}

func (c *Controller) rackPayload(s *model.GameSession) model.RackPayload {
	return model.RackPayload{Rack: s.Rack.String(), RedrawsLeft: s.RedrawsLeft}
}

// keyedMutex hands out one mutex per key, dropping it when unused
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock acquires the lock for key and returns its release func
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, playerID model.PlayerID, seeds ...model.SeededLetter) (*model.GameSession, error)
	GetSession(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, error)
	ListSessions(ctx context.Context, playerID model.PlayerID) ([]model.SessionSummary, error)
	Place(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position, letter rune) (*model.GameSession, bool, error)
	Remove(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position) (*model.GameSession, bool, error)
	Recall(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error)
	Shuffle(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error)
	Redraw(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (*model.GameSession, bool, error)
	Select(ctx context.Context, id model.GameSessionID, playerID model.PlayerID, pos model.Position) (*model.GameSession, bool, error)
	Submit(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) (SubmitResult, error)
	EndSession(ctx context.Context, id model.GameSessionID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
