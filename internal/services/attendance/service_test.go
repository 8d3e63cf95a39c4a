package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/irisgate/irisgate/internal/dependencies/mocks"
	"github.com/irisgate/irisgate/internal/storage/memory"
	"github.com/irisgate/irisgate/internal/testutil"
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
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRecordAppendsEvent() {
	event, err := s.service.Record(s.ctx, "profile-1", "Alice", "session-1")
	s.Require().NoError(err)

	s.NotEmpty(event.ID)
	s.Equal("Alice", event.DisplayName)
	s.Equal(s.clock.Now(), event.RecordedAt)

	events, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(event.ID, events[0].ID)
}

func (s *ServiceSuite) TestRepeatedRecordsKeepOrder() {
	_, err := s.service.Record(s.ctx, "profile-1", "Alice", "session-1")
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	_, err = s.service.Record(s.ctx, "profile-2", "Bob", "session-2")
	s.Require().NoError(err)

	events, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("Alice", events[0].DisplayName)
	s.Equal("Bob", events[1].DisplayName)
	s.True(events[0].RecordedAt.Before(events[1].RecordedAt))
}
