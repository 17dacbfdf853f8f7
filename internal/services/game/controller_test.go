package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordgrid-go/internal/dependencies/mocks"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/dictionary"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
	"github.com/mcoot/wordgrid-go/internal/services/rack"
	"github.com/mcoot/wordgrid-go/internal/services/scoring"
	"github.com/mcoot/wordgrid-go/internal/storage/memory"
	"github.com/mcoot/wordgrid-go/internal/testutil"
)

// recordingNotifier collects published events
type recordingNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *recordingNotifier) Publish(event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []model.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]model.EventType, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	random      *mocks.MockRandom
	notifier    *recordingNotifier
	leaderboard *leaderboard.Service
	controller  *Controller
	ctx         context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.notifier = &recordingNotifier{}
	s.ctx = context.Background()

	dict := dictionary.New(s.storage)
	s.Require().NoError(dict.LoadWords([]string{"CAT", "CATS", "DOG"}))

	engine := NewEngine(scoring.New(dict), rack.NewGenerator(s.random))
	s.leaderboard = leaderboard.New(s.storage, s.clock, testutil.NopLogger())
	s.controller = NewController(s.storage, engine, s.leaderboard, s.notifier, s.clock, testutil.NopLogger())

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice", IsGuest: true}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-2", DisplayName: "Bob", IsGuest: true}))
}

// newSession creates a session for player-1 holding the given rack
func (s *ControllerSuite) newSession(letters string) *model.GameSession {
	session, err := s.controller.CreateSession(s.ctx, "player-1")
	s.Require().NoError(err)

	session.Rack = model.NewRack([]rune(letters))
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	return session
}

func (s *ControllerSuite) placeWord(id model.GameSessionID, start model.Position, word string) {
	for i, letter := range word {
		_, applied, err := s.controller.Place(s.ctx, id, "player-1", model.Position{Row: start.Row, Col: start.Col + i}, letter)
		s.Require().NoError(err)
		s.Require().True(applied, "placing %c", letter)
	}
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionSucceeds() {
	session, err := s.controller.CreateSession(s.ctx, "player-1")
	s.Require().NoError(err)

	s.NotEmpty(session.ID)
	s.Equal(model.PlayerID("player-1"), session.PlayerID)
	s.Equal(s.clock.Now(), session.CreatedAt)
	s.Equal(model.RackCapacity, session.Rack.Len())

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.Rack.String(), stored.Rack.String())
}

func (s *ControllerSuite) TestCreateSeededSession() {
	session, err := s.controller.CreateSession(s.ctx, "player-1",
		model.SeededLetter{Position: model.Position{Row: 4, Col: 4}, Letter: 'C'})
	s.Require().NoError(err)

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal('C', stored.Board.Get(model.Position{Row: 4, Col: 4}).Letter)
	s.Equal(model.PlacedByFixed, stored.Board.Get(model.Position{Row: 4, Col: 4}).PlacedBy)

	_, err = s.controller.CreateSession(s.ctx, "player-1",
		model.SeededLetter{Position: model.Position{Row: -1, Col: 0}, Letter: 'C'})
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *ControllerSuite) TestCreateSessionUnknownPlayer() {
	_, err := s.controller.CreateSession(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestCreateSessionIDsAreUnique() {
	a, err := s.controller.CreateSession(s.ctx, "player-1")
	s.Require().NoError(err)
	b, err := s.controller.CreateSession(s.ctx, "player-1")
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

// GetSession / ListSessions tests

func (s *ControllerSuite) TestGetSessionChecksOwnership() {
	session := s.newSession("CATSDOGE")

	_, err := s.controller.GetSession(s.ctx, session.ID, "player-2")
	s.ErrorIs(err, model.ErrNotSessionOwner)

	got, err := s.controller.GetSession(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.Equal(session.ID, got.ID)
}

func (s *ControllerSuite) TestGetSessionNotFound() {
	_, err := s.controller.GetSession(s.ctx, "missing", "player-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestListSessionsMostRecentFirst() {
	first := s.newSession("CATSDOGE")
	s.clock.Advance(time.Minute)
	second := s.newSession("CATSDOGE")
	s.clock.Advance(time.Minute)

	// Touch the first session so it becomes most recent
	_, applied, err := s.controller.Shuffle(s.ctx, first.ID, "player-1")
	s.Require().NoError(err)
	s.Require().True(applied)

	summaries, err := s.controller.ListSessions(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)
	s.Equal(first.ID, summaries[0].ID)
	s.Equal(second.ID, summaries[1].ID)

	others, err := s.controller.ListSessions(s.ctx, "player-2")
	s.Require().NoError(err)
	s.Empty(others)
}

// Mutation tests

func (s *ControllerSuite) TestPlaceSavesAndPublishes() {
	session := s.newSession("CATSDOGE")
	s.clock.Advance(time.Minute)

	next, applied, err := s.controller.Place(s.ctx, session.ID, "player-1", model.Position{Row: 4, Col: 4}, 'c')
	s.Require().NoError(err)
	s.Require().True(applied)
	s.Equal(s.clock.Now(), next.UpdatedAt)

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal('C', stored.Board.Get(model.Position{Row: 4, Col: 4}).Letter)

	s.Require().Equal([]model.EventType{model.EventLetterPlaced}, s.notifier.types())
	payload, ok := s.notifier.events[0].Payload.(model.LetterPayload)
	s.Require().True(ok)
	s.Equal('C', payload.Letter)
	s.Equal(session.ID, s.notifier.events[0].SessionID)
}

func (s *ControllerSuite) TestRejectedOperationDoesNotSaveOrPublish() {
	session := s.newSession("CATSDOGE")
	s.clock.Advance(time.Minute)

	got, applied, err := s.controller.Place(s.ctx, session.ID, "player-1", model.Position{Row: 4, Col: 4}, 'Z')
	s.Require().NoError(err)
	s.False(applied)
	s.Equal(session.UpdatedAt, got.UpdatedAt)
	s.Empty(s.notifier.types())

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.UpdatedAt, stored.UpdatedAt)
}

func (s *ControllerSuite) TestMutationsRequireOwnership() {
	session := s.newSession("CATSDOGE")

	_, _, err := s.controller.Place(s.ctx, session.ID, "player-2", model.Position{Row: 4, Col: 4}, 'C')
	s.ErrorIs(err, model.ErrNotSessionOwner)

	_, err = s.controller.Submit(s.ctx, session.ID, "player-2")
	s.ErrorIs(err, model.ErrNotSessionOwner)

	s.ErrorIs(s.controller.EndSession(s.ctx, session.ID, "player-2"), model.ErrNotSessionOwner)
}

func (s *ControllerSuite) TestRemoveRecallShuffleRedraw() {
	session := s.newSession("CATSDOGE")
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "CAT")

	_, applied, err := s.controller.Remove(s.ctx, session.ID, "player-1", model.Position{Row: 4, Col: 6})
	s.Require().NoError(err)
	s.True(applied)

	_, applied, err = s.controller.Recall(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.True(applied)

	_, applied, err = s.controller.Shuffle(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.True(applied)

	next, applied, err := s.controller.Redraw(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.True(applied)
	s.Equal(model.StartingRedraws-1, next.RedrawsLeft)
	s.Zero(next.Board.OccupiedCount())

	s.Equal([]model.EventType{
		model.EventLetterPlaced, model.EventLetterPlaced, model.EventLetterPlaced,
		model.EventLetterRemoved,
		model.EventLettersRecalled,
		model.EventRackShuffled,
		model.EventRackRedrawn,
	}, s.notifier.types())
}

func (s *ControllerSuite) TestEventsReportDroppedLetters() {
	session := s.newSession("CATSDOGE")
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "C")

	// The refilled A makes way for the returned C
	next, applied, err := s.controller.Remove(s.ctx, session.ID, "player-1", model.Position{Row: 4, Col: 4})
	s.Require().NoError(err)
	s.Require().True(applied)
	s.Equal(model.RackCapacity, next.Rack.Len())

	removed := s.notifier.events[len(s.notifier.events)-1].Payload.(model.LetterPayload)
	s.Equal('C', removed.Letter)
	s.Equal("A", removed.Dropped)

	// After a redraw no drawn letter is left to evict, so the returned letters go
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "CAT")
	_, applied, err = s.controller.Redraw(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.Require().True(applied)

	next, applied, err = s.controller.Recall(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.Require().True(applied)
	s.Zero(next.Board.OccupiedCount())

	recalled := s.notifier.events[len(s.notifier.events)-1].Payload.(model.RackPayload)
	s.Equal(next.Rack.String(), recalled.Rack)
	s.Equal("CAT", recalled.Dropped)
}

func (s *ControllerSuite) TestSelectPersistsWithoutEvent() {
	session := s.newSession("CATSDOGE")

	next, applied, err := s.controller.Select(s.ctx, session.ID, "player-1", model.Position{Row: 2, Col: 3})
	s.Require().NoError(err)
	s.True(applied)
	s.Equal(model.Position{Row: 2, Col: 3}, *next.Selected)

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.Selected)
	s.Empty(s.notifier.types())
}

// Submit tests

func (s *ControllerSuite) TestSubmitPublishesWordsFound() {
	session := s.newSession("CATSDOGE")
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "CAT")

	result, err := s.controller.Submit(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.Equal(OutcomeAccepted, result.Outcome)
	s.Equal(30, result.Session.Score)

	types := s.notifier.types()
	s.Equal(model.EventWordsFound, types[len(types)-1])

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, stored.Score)
	s.True(stored.HasWord("CAT"))
}

func (s *ControllerSuite) TestSubmitWithNoNewWords() {
	session := s.newSession("CATSDOGE")

	result, err := s.controller.Submit(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.Equal(OutcomeNoNewWords, result.Outcome)
	s.Empty(s.notifier.types())
}

func (s *ControllerSuite) TestSubmitWinRecordsLeaderboard() {
	session := s.newSession("CATSDOGE")
	session.FoundWords = fillerWords(model.WinThreshold - 1)
	s.Require().NoError(s.storage.SaveSession(s.ctx, session))
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "CAT")

	result, err := s.controller.Submit(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)
	s.True(result.NowWon)

	types := s.notifier.types()
	s.Equal([]model.EventType{model.EventWordsFound, model.EventGameWon}, types[len(types)-2:])

	entries, err := s.leaderboard.AllTime(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Alice", entries[0].DisplayName)
	s.True(entries[0].Won)
	s.Equal(30, entries[0].Score)
	s.Equal(model.WinThreshold, entries[0].WordCount)
}

// EndSession tests

func (s *ControllerSuite) TestEndSessionRecordsScoredSession() {
	session := s.newSession("CATSDOGE")
	s.placeWord(session.ID, model.Position{Row: 4, Col: 4}, "CAT")
	_, err := s.controller.Submit(s.ctx, session.ID, "player-1")
	s.Require().NoError(err)

	s.Require().NoError(s.controller.EndSession(s.ctx, session.ID, "player-1"))

	_, err = s.storage.GetSession(s.ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionNotFound)

	types := s.notifier.types()
	s.Equal(model.EventSessionEnded, types[len(types)-1])

	entries, err := s.leaderboard.AllTime(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.False(entries[0].Won)
	s.Equal(30, entries[0].Score)
}

func (s *ControllerSuite) TestEndSessionWithoutScoreSkipsLeaderboard() {
	session := s.newSession("CATSDOGE")

	s.Require().NoError(s.controller.EndSession(s.ctx, session.ID, "player-1"))

	entries, err := s.leaderboard.AllTime(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ControllerSuite) TestEndSessionNotFound() {
	s.ErrorIs(s.controller.EndSession(s.ctx, "missing", "player-1"), model.ErrSessionNotFound)
}

// Concurrency tests

func (s *ControllerSuite) TestConcurrentPlacementsAreSerialized() {
	session := s.newSession("CATSDOGE")

	var wg sync.WaitGroup
	for col := 0; col < 8; col++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			_, _, _ = s.controller.Shuffle(s.ctx, session.ID, "player-1")
			_, _, _ = s.controller.Select(s.ctx, session.ID, "player-1", model.Position{Row: 0, Col: col})
		}(col)
	}
	wg.Wait()

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(sortedLetters(model.NewRack([]rune("CATSDOGE"))), sortedLetters(stored.Rack))
	s.Len(s.notifier.types(), 8)
}

func (s *ControllerSuite) TestKeyedMutexReleasesKeys() {
	locks := newKeyedMutex()

	unlock := locks.Lock("a")
	s.Len(locks.locks, 1)
	unlock()
	s.Empty(locks.locks)
}
