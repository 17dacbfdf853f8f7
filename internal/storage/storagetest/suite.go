// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/storage"
)

// Suite runs the common storage contract against a backend.
// Embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newSession(id model.GameSessionID, playerID model.PlayerID, updated time.Time) *model.GameSession {
	b := model.NewBoard(model.BoardSize)
	b.Cells[7][7].Bonus = model.BonusCenterStar
	b.Cells[7][7].Letter = 'C'
	b.Cells[7][7].PlacedBy = model.PlacedByPlayer
	b.Cells[0][0].Bonus = model.BonusTripleWord
	b.Cells[0][0].Consumed = true
	selected := model.Position{Row: 3, Col: 4}
	return &model.GameSession{
		ID:       id,
		PlayerID: playerID,
		Board:    b,
		Rack:     &model.Rack{Letters: []rune("ABCDEFG"), Drawn: []rune("G")},
		FoundWords: []model.FoundWord{{
			Word:       "CAT",
			Score:      30,
			Positions:  []model.Position{{Row: 7, Col: 7}, {Row: 7, Col: 8}, {Row: 7, Col: 9}},
			Horizontal: true,
		}},
		Score:       30,
		RedrawsLeft: 2,
		Selected:    &selected,
		CreatedAt:   baseTime,
		UpdatedAt:   updated,
	}
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   baseTime,
	}

	err := s.Storage.SavePlayer(s.Ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	_ = s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", DisplayName: "Alice"})

	err := s.Storage.DeletePlayer(s.Ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *Suite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	retrieved, err := s.Storage.GetRegisteredPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash", retrieved.PasswordHash)

	byName, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)
}

func (s *Suite) TestGetRegisteredPlayerNotFound() {
	_, err := s.Storage.GetRegisteredPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *Suite) TestSaveAndGetSession() {
	session := newSession("session-1", "player-1", baseTime)
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	retrieved, err := s.Storage.GetSession(s.Ctx, "session-1")
	s.Require().NoError(err)

	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.PlayerID, retrieved.PlayerID)
	s.Equal(session.Board, retrieved.Board)
	s.Equal(session.Rack, retrieved.Rack)
	s.Equal(session.FoundWords, retrieved.FoundWords)
	s.Equal(30, retrieved.Score)
	s.Equal(2, retrieved.RedrawsLeft)
	s.False(retrieved.Won)
	s.Require().NotNil(retrieved.Selected)
	s.Equal(model.Position{Row: 3, Col: 4}, *retrieved.Selected)
	s.True(session.UpdatedAt.Equal(retrieved.UpdatedAt))
}

func (s *Suite) TestSaveSessionOverwrites() {
	session := newSession("session-1", "player-1", baseTime)
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	session.Score = 90
	session.Won = true
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	retrieved, err := s.Storage.GetSession(s.Ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(90, retrieved.Score)
	s.True(retrieved.Won)
}

func (s *Suite) TestGetSessionIsIsolatedFromCaller() {
	session := newSession("session-1", "player-1", baseTime)
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	session.Board.Cells[7][7].Letter = 'Z'
	retrieved, err := s.Storage.GetSession(s.Ctx, "session-1")
	s.Require().NoError(err)
	s.Equal('C', retrieved.Board.Cells[7][7].Letter)
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Storage.GetSession(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestDeleteSession() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, newSession("session-1", "player-1", baseTime)))

	s.Require().NoError(s.Storage.DeleteSession(s.Ctx, "session-1"))

	_, err := s.Storage.GetSession(s.Ctx, "session-1")
	s.ErrorIs(err, model.ErrSessionNotFound)

	sessions, err := s.Storage.GetSessionsForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *Suite) TestGetSessionsForPlayer() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, newSession("old", "player-1", baseTime)))
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, newSession("new", "player-1", baseTime.Add(time.Hour))))
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, newSession("other", "player-2", baseTime)))

	sessions, err := s.Storage.GetSessionsForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(sessions, 2)
	s.Equal(model.GameSessionID("new"), sessions[0].ID)
	s.Equal(model.GameSessionID("old"), sessions[1].ID)
}

func (s *Suite) TestGetSessionsForPlayerEmpty() {
	sessions, err := s.Storage.GetSessionsForPlayer(s.Ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(sessions)
}

// Dictionary tests

func (s *Suite) TestSaveAndGetDictionaryWords() {
	words := []string{"CAT", "DOG", "SUN"}
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, words))

	retrieved, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.Require().NoError(err)
	s.ElementsMatch(words, retrieved)
}

func (s *Suite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *Suite) TestSaveDictionaryWordsReplacesExisting() {
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, []string{"OLD", "WORDS"}))
	s.Require().NoError(s.Storage.SaveDictionaryWords(s.Ctx, []string{"NEW"}))

	retrieved, err := s.Storage.GetDictionaryWords(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]string{"NEW"}, retrieved)
}

// Leaderboard tests

func entry(id string, score int, completed time.Time) *model.LeaderboardEntry {
	return &model.LeaderboardEntry{
		SessionID:   model.GameSessionID(id),
		PlayerID:    model.PlayerID("player-" + id),
		DisplayName: "Player " + id,
		Score:       score,
		WordCount:   score / 30,
		CompletedAt: completed,
	}
}

func (s *Suite) TestLeaderboardOrdering() {
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("a", 100, baseTime.Add(2*time.Minute))))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("b", 300, baseTime)))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("c", 100, baseTime.Add(time.Minute))))

	entries, err := s.Storage.GetLeaderboard(s.Ctx, time.Time{}, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(model.GameSessionID("b"), entries[0].SessionID)
	s.Equal(model.GameSessionID("c"), entries[1].SessionID)
	s.Equal(model.GameSessionID("a"), entries[2].SessionID)
	s.Equal("Player b", entries[0].DisplayName)
	s.Equal(10, entries[0].WordCount)
}

func (s *Suite) TestLeaderboardSinceAndLimit() {
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("yesterday", 900, baseTime.Add(-24*time.Hour))))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("a", 100, baseTime)))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("b", 200, baseTime.Add(time.Hour))))

	entries, err := s.Storage.GetLeaderboard(s.Ctx, baseTime, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.GameSessionID("b"), entries[0].SessionID)

	entries, err = s.Storage.GetLeaderboard(s.Ctx, time.Time{}, 1)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.GameSessionID("yesterday"), entries[0].SessionID)
}

func (s *Suite) TestLeaderboardEntryReplacedBySession() {
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("a", 100, baseTime)))
	s.Require().NoError(s.Storage.SaveLeaderboardEntry(s.Ctx, entry("a", 250, baseTime)))

	entries, err := s.Storage.GetLeaderboard(s.Ctx, time.Time{}, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(250, entries[0].Score)
}

func (s *Suite) TestLeaderboardEmpty() {
	entries, err := s.Storage.GetLeaderboard(s.Ctx, time.Time{}, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
