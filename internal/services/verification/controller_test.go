package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/irisgate/irisgate/internal/dependencies/mocks"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/services/attendance"
	"github.com/irisgate/irisgate/internal/services/identity"
	"github.com/irisgate/irisgate/internal/services/liveness"
	"github.com/irisgate/irisgate/internal/storage/memory"
	"github.com/irisgate/irisgate/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()

	s.controller = NewController(
		s.storage,
		identity.New(identity.DefaultConfig()),
		liveness.New(liveness.DefaultConfig()),
		attendance.New(s.storage, s.clock, logger),
		s.clock,
		s.random,
		DefaultConfig(),
		logger,
	)
	s.ctx = context.Background()
}

// enroll stores a profile directly, bypassing the enrollment service.
func (s *ControllerSuite) enroll(name string, feature model.FaceFeature) *model.UserProfile {
	profile := &model.UserProfile{
		ID:          model.ProfileID("profile-" + name),
		DisplayName: name,
		Feature:     feature,
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveProfile(s.ctx, profile))
	return profile
}

func (s *ControllerSuite) newSession() *model.VerificationSession {
	s.random.QueueString("SESSION00001")
	session, err := s.controller.CreateSession(s.ctx)
	s.Require().NoError(err)
	return session
}

// openEyes and closedEyes produce landmark sets with eye aspect ratios
// of 0.5 and 0.1 respectively, either side of the 0.25 threshold.
func openEyes() *model.FaceLandmarks {
	eye := model.EyePoints{
		{X: 0, Y: 0}, {X: 1, Y: -1}, {X: 3, Y: -1},
		{X: 4, Y: 0}, {X: 3, Y: 1}, {X: 1, Y: 1},
	}
	return &model.FaceLandmarks{LeftEye: eye, RightEye: eye}
}

func closedEyes() *model.FaceLandmarks {
	eye := model.EyePoints{
		{X: 0, Y: 0}, {X: 1, Y: -0.2}, {X: 3, Y: -0.2},
		{X: 4, Y: 0}, {X: 3, Y: 0.2}, {X: 1, Y: 0.2},
	}
	return &model.FaceLandmarks{LeftEye: eye, RightEye: eye}
}

func frameWith(feature model.FaceFeature, lm *model.FaceLandmarks) *model.FrameObservation {
	return &model.FrameObservation{
		Faces: []model.FaceObservation{{Landmarks: lm, Feature: feature}},
	}
}

func emptyFrame() *model.FrameObservation {
	return &model.FrameObservation{}
}

// CreateSession tests

func (s *ControllerSuite) TestCreateSessionStartsWaiting() {
	session := s.newSession()

	s.Equal(model.SessionID("SESSION00001"), session.ID)
	s.Equal(model.StateWaitingForFace, session.State)
	s.Equal(s.clock.Now(), session.CreatedAt)
}

func (s *ControllerSuite) TestCreateSessionIsPersisted() {
	session := s.newSession()

	retrieved, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(model.StateWaitingForFace, retrieved.State)
}

// WaitingForFace tests

func (s *ControllerSuite) TestTickUnknownSessionFails() {
	_, err := s.controller.Tick(s.ctx, "nope", emptyFrame())
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestTickWithNoEnrolledProfiles() {
	session := s.newSession()

	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{1, 0}, openEyes()))
	s.Require().NoError(err)

	s.Equal(model.SeverityError, status.Severity)
	s.Contains(status.Message, "enroll")

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateWaitingForFace, retrieved.State)
}

func (s *ControllerSuite) TestTickWithNoFaceIsIdempotent() {
	s.enroll("alice", model.FaceFeature{1, 0, 0})
	session := s.newSession()

	status, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)
	s.Equal(model.SeverityNeutral, status.Severity)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateWaitingForFace, retrieved.State)
	s.Equal(session.UpdatedAt, retrieved.UpdatedAt)
}

func (s *ControllerSuite) TestTickWithUnrecognizedFaceStaysWaiting() {
	s.enroll("alice", model.FaceFeature{1, 0, 0})
	session := s.newSession()

	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{10, 10, 10}, openEyes()))
	s.Require().NoError(err)

	s.Equal(model.SeverityError, status.Severity)
	s.Equal("Face not recognized", status.Message)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateWaitingForFace, retrieved.State)
	s.Empty(retrieved.PendingProfileID)
}

func (s *ControllerSuite) TestTickWithRecognizedFaceStartsLivenessCheck() {
	profile := s.enroll("alice", model.FaceFeature{1, 0, 0})
	session := s.newSession()

	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{1, 0, 0}, openEyes()))
	s.Require().NoError(err)

	s.Equal(model.SeverityInfo, status.Severity)
	s.Contains(status.Message, "alice")
	s.Contains(status.Message, "blink")

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateCheckingLiveness, retrieved.State)
	s.Equal(profile.ID, retrieved.PendingProfileID)
	s.Equal("alice", retrieved.PendingName)
	s.Equal(0, retrieved.BlinkCounter)
	s.Equal(s.clock.Now(), retrieved.StateChangedAt)
}

func (s *ControllerSuite) TestTickMatchesNearestOfSeveralProfiles() {
	s.enroll("alice", model.FaceFeature{1, 0, 0})
	bob := s.enroll("bob", model.FaceFeature{0, 1, 0})
	session := s.newSession()

	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{0.1, 0.9, 0}, openEyes()))
	s.Require().NoError(err)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(bob.ID, retrieved.PendingProfileID)
}

// CheckingLiveness tests

// advanceToLiveness enrolls alice and ticks a session into the liveness
// check.
func (s *ControllerSuite) advanceToLiveness() (*model.UserProfile, *model.VerificationSession) {
	profile := s.enroll("alice", model.FaceFeature{1, 0, 0})
	session := s.newSession()

	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{1, 0, 0}, openEyes()))
	s.Require().NoError(err)

	return profile, session
}

func (s *ControllerSuite) TestBlinkSequenceConfirmsLiveness() {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	// Three closed frames, then one open frame completes the blink
	for i := 0; i < 3; i++ {
		s.clock.Advance(100 * time.Millisecond)
		status, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
		s.Equal(model.SeverityInfo, status.Severity)
	}

	s.clock.Advance(100 * time.Millisecond)
	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)

	s.Equal(model.SeveritySuccess, status.Severity)
	s.Contains(status.Message, "Liveness confirmed")

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateVerifying, retrieved.State)
	s.Equal(0, retrieved.BlinkCounter)
}

func (s *ControllerSuite) TestSingleClosedFrameIsNotABlink() {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
	s.Require().NoError(err)

	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)
	s.Equal(model.SeverityInfo, status.Severity)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateCheckingLiveness, retrieved.State)
	s.Equal(0, retrieved.BlinkCounter)
}

func (s *ControllerSuite) TestSustainedClosureIsNotABlink() {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	for i := 0; i < 7; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
	}

	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateCheckingLiveness, retrieved.State)
}

func (s *ControllerSuite) TestFaceLossResetsBlinkCounter() {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	for i := 0; i < 3; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
	}

	_, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateCheckingLiveness, retrieved.State)
	s.Equal(0, retrieved.BlinkCounter)
}

func (s *ControllerSuite) TestLivenessTimeoutReturnsToWaiting() {
	_, session := s.advanceToLiveness()

	s.clock.Advance(11 * time.Second)
	status, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	s.Equal(model.SeverityError, status.Severity)
	s.Contains(status.Message, "timed out")

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateWaitingForFace, retrieved.State)
	s.Empty(retrieved.PendingProfileID)
	s.Empty(retrieved.PendingName)
	s.Equal(0, retrieved.BlinkCounter)
}

func (s *ControllerSuite) TestBlinkJustBeforeTimeoutStillCounts() {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	for i := 0; i < 2; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
	}

	s.clock.Advance(10 * time.Second)
	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateVerifying, retrieved.State)
}

// Attendance recording

func (s *ControllerSuite) TestAttendanceIsRecordedExactlyOnce() {
	profile, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	for i := 0; i < 3; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
	}
	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)

	// Ride out the dwell and tick well past final success
	s.clock.Advance(6 * time.Second)
	for i := 0; i < 5; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
		s.Require().NoError(err)
	}

	events, err := s.storage.ListAttendance(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(profile.ID, events[0].ProfileID)
	s.Equal("alice", events[0].DisplayName)
	s.Equal(session.ID, events[0].SessionID)
}

// Verifying tests

// advanceToVerifying runs a full identity match and blink.
func (s *ControllerSuite) advanceToVerifying() *model.VerificationSession {
	_, session := s.advanceToLiveness()
	feature := model.FaceFeature{1, 0, 0}

	for i := 0; i < 3; i++ {
		_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, closedEyes()))
		s.Require().NoError(err)
	}
	_, err := s.controller.Tick(s.ctx, session.ID, frameWith(feature, openEyes()))
	s.Require().NoError(err)

	return session
}

func (s *ControllerSuite) TestVerifyingReportsProgress() {
	session := s.advanceToVerifying()

	s.clock.Advance(2500 * time.Millisecond)
	status, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	s.Equal(model.SeverityInfo, status.Severity)
	s.Equal(50, status.Progress)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateVerifying, retrieved.State)
}

func (s *ControllerSuite) TestVerifyingIgnoresFaceLoss() {
	session := s.advanceToVerifying()

	s.clock.Advance(time.Second)
	status, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	s.Equal(model.SeverityInfo, status.Severity)
	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateVerifying, retrieved.State)
}

func (s *ControllerSuite) TestDwellCompletionReachesFinalSuccess() {
	session := s.advanceToVerifying()

	s.clock.Advance(5 * time.Second)
	status, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	s.Equal(model.SeveritySuccess, status.Severity)
	s.Equal(100, status.Progress)
	s.Contains(status.Message, "alice")

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateFinalSuccess, retrieved.State)
}

// FinalSuccess tests

func (s *ControllerSuite) TestFinalSuccessPersistsUntilReset() {
	session := s.advanceToVerifying()
	s.clock.Advance(5 * time.Second)
	_, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	// Further ticks keep reporting success without state changes
	s.clock.Advance(time.Minute)
	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{1, 0, 0}, openEyes()))
	s.Require().NoError(err)
	s.Equal(model.SeveritySuccess, status.Severity)
	s.Equal(100, status.Progress)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateFinalSuccess, retrieved.State)
}

func (s *ControllerSuite) TestResetReturnsSessionToWaiting() {
	session := s.advanceToVerifying()
	s.clock.Advance(5 * time.Second)
	_, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	reset, err := s.controller.ResetSession(s.ctx, session.ID)
	s.Require().NoError(err)

	s.Equal(model.StateWaitingForFace, reset.State)
	s.Empty(reset.PendingProfileID)
	s.Empty(reset.PendingName)
	s.Equal(0, reset.BlinkCounter)
}

func (s *ControllerSuite) TestResetSessionAllowsReVerification() {
	session := s.advanceToVerifying()
	s.clock.Advance(5 * time.Second)
	_, err := s.controller.Tick(s.ctx, session.ID, emptyFrame())
	s.Require().NoError(err)

	_, err = s.controller.ResetSession(s.ctx, session.ID)
	s.Require().NoError(err)

	status, err := s.controller.Tick(s.ctx, session.ID, frameWith(model.FaceFeature{1, 0, 0}, openEyes()))
	s.Require().NoError(err)
	s.Equal(model.SeverityInfo, status.Severity)

	retrieved, _ := s.controller.GetSession(s.ctx, session.ID)
	s.Equal(model.StateCheckingLiveness, retrieved.State)
}
