package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Redis-specific tests

func (s *StorageSuite) TestGuestPlayerTTL() {
	guestPlayer := &model.Player{
		ID:      "guest-1",
		IsGuest: true,
	}
	registeredPlayer := &model.Player{
		ID:      "registered-1",
		IsGuest: false,
	}

	_ = s.storage.SavePlayer(s.Ctx, guestPlayer)
	_ = s.storage.SavePlayer(s.Ctx, registeredPlayer)

	// Check that guest has TTL and registered doesn't
	guestTTL := s.mini.TTL(playerKey(guestPlayer.ID))
	registeredTTL := s.mini.TTL(playerKey(registeredPlayer.ID))

	s.True(guestTTL > 0, "Guest player should have TTL")
	s.Equal(time.Duration(0), registeredTTL, "Registered player should not have TTL")
}

func (s *StorageSuite) TestSessionTTL() {
	session := &model.GameSession{ID: "session-1", PlayerID: "player-1", Board: model.NewBoard(model.BoardSize), Rack: &model.Rack{}}
	s.Require().NoError(s.storage.SaveSession(s.Ctx, session))

	s.True(s.mini.TTL(sessionKey(session.ID)) > 0, "Session should have TTL")
	s.True(s.mini.TTL(sessionsForPlayerIndexKey(session.PlayerID)) > 0, "Session index should have TTL")
}

func (s *StorageSuite) TestExpiredSessionDroppedFromListing() {
	session := &model.GameSession{ID: "session-1", PlayerID: "player-1", Board: model.NewBoard(model.BoardSize), Rack: &model.Rack{}}
	s.Require().NoError(s.storage.SaveSession(s.Ctx, session))

	// Remove the value but leave the index entry behind
	s.mini.Del(sessionKey(session.ID))

	sessions, err := s.storage.GetSessionsForPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *StorageSuite) TestDeleteSessionRemovesIndexEntry() {
	session := &model.GameSession{ID: "session-1", PlayerID: "player-1", Board: model.NewBoard(model.BoardSize), Rack: &model.Rack{}}
	s.Require().NoError(s.storage.SaveSession(s.Ctx, session))
	s.Require().NoError(s.storage.DeleteSession(s.Ctx, session.ID))

	members, err := s.mini.SMembers(sessionsForPlayerIndexKey("player-1"))
	if err == nil {
		s.Empty(members)
	}
}

func (s *StorageSuite) TestDeleteMissingSessionIsNoop() {
	s.NoError(s.storage.DeleteSession(s.Ctx, "nope"))
}

func (s *StorageSuite) TestLeaderboardUsesSortedSet() {
	entry := &model.LeaderboardEntry{SessionID: "s1", Score: 100, CompletedAt: time.Unix(1700000000, 0).UTC()}
	s.Require().NoError(s.storage.SaveLeaderboardEntry(s.Ctx, entry))

	score, err := s.mini.ZScore(leaderboardByTimeKey(), "s1")
	s.Require().NoError(err)
	s.Equal(float64(1700000000), score)
	s.True(s.mini.Exists(leaderboardEntriesKey()))
}

func (s *StorageSuite) TestDictionaryNoTTL() {
	_ = s.storage.SaveDictionaryWords(s.Ctx, []string{"CAT"})

	ttl := s.mini.TTL(dictionaryKey())
	s.Equal(time.Duration(0), ttl, "Dictionary should not have TTL")
}
