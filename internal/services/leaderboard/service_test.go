package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordgrid-go/internal/dependencies/mocks"
	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/storage/memory"
	"github.com/mcoot/wordgrid-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) record(id string, score int, at time.Time) {
	err := s.service.Record(s.ctx, &model.LeaderboardEntry{
		SessionID:   model.GameSessionID(id),
		PlayerID:    "player-1",
		Score:       score,
		CompletedAt: at,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestRecordDefaultsCompletionTime() {
	err := s.service.Record(s.ctx, &model.LeaderboardEntry{SessionID: "s1", Score: 10})
	s.Require().NoError(err)

	entries, err := s.service.AllTime(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.True(entries[0].CompletedAt.Equal(s.clock.Now()))
}

func (s *ServiceSuite) TestDailyExcludesEarlierDays() {
	s.record("yesterday", 500, time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC))
	s.record("midnight", 100, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	s.record("morning", 200, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	entries, err := s.service.Daily(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.GameSessionID("morning"), entries[0].SessionID)
	s.Equal(model.GameSessionID("midnight"), entries[1].SessionID)
}

func (s *ServiceSuite) TestAllTimeIncludesEverything() {
	s.record("yesterday", 500, time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC))
	s.record("today", 200, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	entries, err := s.service.Top(s.ctx, PeriodAllTime, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.GameSessionID("yesterday"), entries[0].SessionID)
}

func (s *ServiceSuite) TestLimitIsClamped() {
	for i := 0; i < MaxLimit+5; i++ {
		s.record(fmt.Sprintf("s%d", i), i, s.clock.Now())
	}

	entries, err := s.service.AllTime(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(entries, DefaultLimit)

	entries, err = s.service.AllTime(s.ctx, 1000)
	s.Require().NoError(err)
	s.Len(entries, MaxLimit)
}

func (s *ServiceSuite) TestTopInvalidPeriod() {
	_, err := s.service.Top(s.ctx, Period("weekly"), 10)
	s.ErrorIs(err, ErrInvalidPeriod)
}

func (s *ServiceSuite) TestParsePeriod() {
	p, err := ParsePeriod("")
	s.Require().NoError(err)
	s.Equal(PeriodDaily, p)

	p, err = ParsePeriod("alltime")
	s.Require().NoError(err)
	s.Equal(PeriodAllTime, p)

	_, err = ParsePeriod("monthly")
	s.ErrorIs(err, ErrInvalidPeriod)
}

func (s *ServiceSuite) TestStartOfDay() {
	loc := time.FixedZone("UTC+10", 10*60*60)
	t := time.Date(2024, 1, 2, 5, 0, 0, 0, loc) // 2024-01-01 19:00 UTC
	s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartOfDay(t))
}
