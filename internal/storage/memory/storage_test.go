package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/irisgate/irisgate/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Profile tests

func (s *StorageSuite) TestSaveAndGetProfile() {
	profile := &model.UserProfile{
		ID:          "profile-1",
		DisplayName: "Alice",
		Feature:     model.FaceFeature{0.1, 0.2, 0.3},
		CreatedAt:   time.Now(),
	}

	err := s.storage.SaveProfile(s.ctx, profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal(profile.ID, retrieved.ID)
	s.Equal(profile.DisplayName, retrieved.DisplayName)
	s.Equal(profile.Feature, retrieved.Feature)
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSaveProfileWithIrisTemplate() {
	profile := &model.UserProfile{
		ID:          "profile-1",
		DisplayName: "Alice",
		Feature:     model.FaceFeature{0.1},
		Iris: &model.IrisTemplate{
			Code: []bool{true, false, true},
			Mask: []bool{true, true, false},
		},
	}

	err := s.storage.SaveProfile(s.ctx, profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved.Iris)
	s.Equal(profile.Iris.Code, retrieved.Iris.Code)
	s.Equal(profile.Iris.Mask, retrieved.Iris.Mask)
}

func (s *StorageSuite) TestListProfilesOrderedByEnrollment() {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_ = s.storage.SaveProfile(s.ctx, &model.UserProfile{ID: "p-b", DisplayName: "Bob", CreatedAt: base.Add(time.Minute)})
	_ = s.storage.SaveProfile(s.ctx, &model.UserProfile{ID: "p-a", DisplayName: "Alice", CreatedAt: base})

	profiles, err := s.storage.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 2)
	s.Equal("Alice", profiles[0].DisplayName)
	s.Equal("Bob", profiles[1].DisplayName)
}

func (s *StorageSuite) TestListProfilesEmpty() {
	profiles, err := s.storage.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Empty(profiles)
}

func (s *StorageSuite) TestDeleteProfile() {
	profile := &model.UserProfile{ID: "profile-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	err := s.storage.DeleteProfile(s.ctx, "profile-1")
	s.Require().NoError(err)

	_, err = s.storage.GetProfile(s.ctx, "profile-1")
	s.ErrorIs(err, model.ErrProfileNotFound)

	profiles, err := s.storage.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Empty(profiles)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.VerificationSession{
		ID:          "session-1",
		State:       model.StateCheckingLiveness,
		PendingName: "Alice",
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.State, retrieved.State)
	s.Equal("Alice", retrieved.PendingName)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	_ = s.storage.SaveSession(s.ctx, &model.VerificationSession{ID: "session-1"})

	err := s.storage.DeleteSession(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Attendance tests

func (s *StorageSuite) TestAppendAndListAttendance() {
	first := &model.AttendanceEvent{ID: "event-1", ProfileID: "p-1", DisplayName: "Alice"}
	second := &model.AttendanceEvent{ID: "event-2", ProfileID: "p-2", DisplayName: "Bob"}

	s.Require().NoError(s.storage.AppendAttendance(s.ctx, first))
	s.Require().NoError(s.storage.AppendAttendance(s.ctx, second))

	events, err := s.storage.ListAttendance(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("event-1", string(events[0].ID))
	s.Equal("event-2", string(events[1].ID))
}

func (s *StorageSuite) TestListAttendanceEmpty() {
	events, err := s.storage.ListAttendance(s.ctx)
	s.Require().NoError(err)
	s.Empty(events)
}
