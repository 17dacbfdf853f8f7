package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/services/game"
	"github.com/mcoot/wordgrid-go/internal/services/leaderboard"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.LoadTestDictionary())
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// startSession creates a guest and a session holding the given rack
func (s *IntegrationSuite) startSession(name, letters string) (model.PlayerID, *model.GameSession) {
	auth, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)

	session, err := s.app.GameController.CreateSession(s.ctx, auth.PlayerID)
	s.Require().NoError(err)

	session.Rack = model.NewRack([]rune(letters))
	s.Require().NoError(s.app.Storage.SaveSession(s.ctx, session))
	return auth.PlayerID, session
}

func (s *IntegrationSuite) place(id model.GameSessionID, player model.PlayerID, row, col int, letter rune) {
	_, applied, err := s.app.GameController.Place(s.ctx, id, player, model.Position{Row: row, Col: col}, letter)
	s.Require().NoError(err)
	s.Require().True(applied, "placing %c at (%d,%d)", letter, row, col)
}

// Test: place, submit, extend and finish a session
func (s *IntegrationSuite) TestCompleteSessionFlow() {
	player, session := s.startSession("Alice", "CATSDOGE")

	// Step 1: a fresh session has a full rack and no words
	s.Equal(model.RackCapacity, session.Rack.Len())
	s.Zero(session.Score)

	// Step 2: spell CAT across a row without bonuses
	s.place(session.ID, player, 4, 4, 'C')
	s.place(session.ID, player, 4, 5, 'A')
	s.place(session.ID, player, 4, 6, 'T')

	result, err := s.app.GameController.Submit(s.ctx, session.ID, player)
	s.Require().NoError(err)
	s.Equal(game.OutcomeAccepted, result.Outcome)
	s.Require().Len(result.Words, 1)
	s.Equal("CAT", result.Words[0].Word)
	s.Equal(30, result.Gained)

	// Step 3: submitting again finds nothing new
	result, err = s.app.GameController.Submit(s.ctx, session.ID, player)
	s.Require().NoError(err)
	s.Equal(game.OutcomeNoNewWords, result.Outcome)

	// Step 4: extend to CATS
	s.place(session.ID, player, 4, 7, 'S')
	result, err = s.app.GameController.Submit(s.ctx, session.ID, player)
	s.Require().NoError(err)
	s.Require().Len(result.Words, 1)
	s.Equal("CATS", result.Words[0].Word)
	s.Equal(70, result.Session.Score)

	// Step 5: the listing reflects progress
	summaries, err := s.app.GameController.ListSessions(s.ctx, player)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(2, summaries[0].WordCount)

	// Step 6: ending the session records it on the leaderboard
	s.Require().NoError(s.app.GameController.EndSession(s.ctx, session.ID, player))

	entries, err := s.app.LeaderboardService.Top(s.ctx, leaderboard.PeriodDaily, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Alice", entries[0].DisplayName)
	s.Equal(70, entries[0].Score)
	s.False(entries[0].Won)
}

// Test: events reach the session hub and the hub goes away with the session
func (s *IntegrationSuite) TestSessionEndRemovesHub() {
	player, session := s.startSession("Alice", "CATSDOGE")

	hub := s.app.HubManager.GetOrCreateHub(session.ID)
	s.NotNil(hub)
	s.place(session.ID, player, 4, 4, 'C')
	s.Equal(1, s.app.HubManager.HubCount())

	s.Require().NoError(s.app.GameController.EndSession(s.ctx, session.ID, player))
	s.Nil(s.app.HubManager.GetHub(session.ID))
}

// Test: two players cannot touch each other's sessions
func (s *IntegrationSuite) TestSessionsAreIsolatedPerPlayer() {
	alice, aliceSession := s.startSession("Alice", "CATSDOGE")
	bob, _ := s.startSession("Bob", "CATSDOGE")

	_, _, err := s.app.GameController.Place(s.ctx, aliceSession.ID, bob, model.Position{Row: 0, Col: 0}, 'C')
	s.ErrorIs(err, model.ErrNotSessionOwner)

	aliceList, err := s.app.GameController.ListSessions(s.ctx, alice)
	s.Require().NoError(err)
	s.Len(aliceList, 1)

	bobList, err := s.app.GameController.ListSessions(s.ctx, bob)
	s.Require().NoError(err)
	s.Len(bobList, 1)
	s.NotEqual(aliceList[0].ID, bobList[0].ID)
}

// Test: redraws run out
func (s *IntegrationSuite) TestRedrawLimit() {
	player, session := s.startSession("Alice", "CATSDOGE")

	for i := 0; i < session.RedrawsLeft; i++ {
		_, applied, err := s.app.GameController.Redraw(s.ctx, session.ID, player)
		s.Require().NoError(err)
		s.True(applied)
	}

	updated, applied, err := s.app.GameController.Redraw(s.ctx, session.ID, player)
	s.Require().NoError(err)
	s.False(applied)
	s.Zero(updated.RedrawsLeft)
}
