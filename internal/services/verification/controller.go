// Package verification drives the per-session state machine that takes
// a subject from first sight through identity match, liveness check and
// dwell to a recorded verification.
package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/irisgate/irisgate/internal/dependencies/clock"
	"github.com/irisgate/irisgate/internal/dependencies/random"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/services/attendance"
	"github.com/irisgate/irisgate/internal/services/identity"
	"github.com/irisgate/irisgate/internal/services/liveness"
	"github.com/irisgate/irisgate/internal/storage"
)

// Config holds the state machine timing parameters.
type Config struct {
	// LivenessTimeout bounds how long a matched subject has to blink
	// before the session falls back to waiting
	LivenessTimeout time.Duration

	// VerifyDuration is the dwell the subject must hold after liveness
	// before the session reaches final success
	VerifyDuration time.Duration
}

// DefaultConfig returns the canonical timing parameters.
func DefaultConfig() Config {
	return Config{
		LivenessTimeout: 10 * time.Second,
		VerifyDuration:  5 * time.Second,
	}
}

// Controller manages verification sessions and their state transitions.
// All timing is measured lazily against the injected clock on each tick;
// there are no background timers.
type Controller struct {
	storage           storage.Storage
	identityService   *identity.Service
	livenessDetector  *liveness.Detector
	attendanceService *attendance.Service
	clock             clock.Clock
	random            random.Random
	cfg               Config
	logger            *slog.Logger
}

// NewController creates a verification controller.
func NewController(
	storage storage.Storage,
	identityService *identity.Service,
	livenessDetector *liveness.Detector,
	attendanceService *attendance.Service,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:           storage,
		identityService:   identityService,
		livenessDetector:  livenessDetector,
		attendanceService: attendanceService,
		clock:             clock,
		random:            random,
		cfg:               cfg,
		logger:            logger,
	}
}

// CreateSession starts a new session in the waiting state.
func (c *Controller) CreateSession(ctx context.Context) (*model.VerificationSession, error) {
	now := c.clock.Now()
	session := &model.VerificationSession{
		ID:             model.SessionID(c.random.String(12, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")),
		State:          model.StateWaitingForFace,
		StateChangedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created",
		slog.String("session_id", string(session.ID)),
	)

	return session, nil
}

// GetSession retrieves a session by ID.
func (c *Controller) GetSession(ctx context.Context, sessionID model.SessionID) (*model.VerificationSession, error) {
	return c.storage.GetSession(ctx, sessionID)
}

// ResetSession returns a session to the waiting state, dropping any
// matched subject and blink progress. This is the acknowledgment path
// out of final success, and also works from any other state.
func (c *Controller) ResetSession(ctx context.Context, sessionID model.SessionID) (*model.VerificationSession, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.toWaiting(session)

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("session reset",
		slog.String("session_id", string(sessionID)),
	)

	return session, nil
}

// Tick consumes one camera frame's observations and advances the
// session, returning the status to render. Ticks are cheap and
// idempotent when nothing changes: a frame with no usable face in the
// waiting state mutates nothing.
func (c *Controller) Tick(ctx context.Context, sessionID model.SessionID, frame *model.FrameObservation) (model.Status, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return model.Status{}, err
	}

	now := c.clock.Now()

	switch session.State {
	case model.StateWaitingForFace:
		return c.tickWaiting(ctx, session, frame, now)
	case model.StateCheckingLiveness:
		return c.tickLiveness(ctx, session, frame, now)
	case model.StateVerifying:
		return c.tickVerifying(ctx, session, now)
	case model.StateFinalSuccess:
		return model.Status{
			Message:  fmt.Sprintf("Attendance marked for %s", session.PendingName),
			Severity: model.SeveritySuccess,
			Progress: 100,
		}, nil
	default:
		return model.Status{}, fmt.Errorf("session %s in unknown state %q", session.ID, session.State)
	}
}

func (c *Controller) tickWaiting(ctx context.Context, session *model.VerificationSession, frame *model.FrameObservation, now time.Time) (model.Status, error) {
	profiles, err := c.storage.ListProfiles(ctx)
	if err != nil {
		// A flaky profile store should not kill the camera loop; warn
		// and keep waiting
		c.logger.Warn("failed to list profiles",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return model.Status{
			Message:  "Profile store unavailable",
			Severity: model.SeverityError,
		}, nil
	}

	if len(profiles) == 0 {
		return model.Status{
			Message:  "No enrolled users. Please enroll first.",
			Severity: model.SeverityError,
		}, nil
	}

	face := frame.PrimaryFace()
	if face == nil || len(face.Feature) == 0 {
		return model.Status{
			Message:  "Please look at the camera",
			Severity: model.SeverityNeutral,
		}, nil
	}

	match, err := c.identityService.BestMatch(face.Feature, profiles)
	if err != nil {
		return model.Status{}, err
	}

	if !match.Matched {
		return model.Status{
			Message:  "Face not recognized",
			Severity: model.SeverityError,
		}, nil
	}

	session.State = model.StateCheckingLiveness
	session.PendingProfileID = match.Profile.ID
	session.PendingName = match.Profile.DisplayName
	session.BlinkCounter = 0
	session.StateChangedAt = now
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return model.Status{}, err
	}

	c.logger.Info("identity matched",
		slog.String("session_id", string(session.ID)),
		slog.String("profile_id", string(match.Profile.ID)),
		slog.String("display_name", match.Profile.DisplayName),
		slog.Float64("distance", match.Distance),
	)

	return model.Status{
		Message:  fmt.Sprintf("Hello %s, please blink to verify", match.Profile.DisplayName),
		Severity: model.SeverityInfo,
	}, nil
}

func (c *Controller) tickLiveness(ctx context.Context, session *model.VerificationSession, frame *model.FrameObservation, now time.Time) (model.Status, error) {
	if now.Sub(session.StateChangedAt) > c.cfg.LivenessTimeout {
		name := session.PendingName
		c.toWaiting(session)

		if err := c.storage.SaveSession(ctx, session); err != nil {
			return model.Status{}, err
		}

		c.logger.Info("liveness check timed out",
			slog.String("session_id", string(session.ID)),
			slog.String("display_name", name),
		)

		return model.Status{
			Message:  "Verification timed out. Please try again.",
			Severity: model.SeverityError,
		}, nil
	}

	var landmarks *model.FaceLandmarks
	if face := frame.PrimaryFace(); face != nil {
		landmarks = face.Landmarks
	}

	blinked, counter := c.livenessDetector.Observe(landmarks, session.BlinkCounter)

	if blinked {
		// Attendance is recorded exactly once, on this transition. A
		// sink failure is logged by the attendance service and must not
		// stop the subject's verification.
		if _, err := c.attendanceService.Record(ctx, session.PendingProfileID, session.PendingName, session.ID); err != nil {
			c.logger.Warn("continuing verification without attendance record",
				slog.String("session_id", string(session.ID)),
			)
		}

		session.State = model.StateVerifying
		session.BlinkCounter = 0
		session.StateChangedAt = now
		session.UpdatedAt = now

		if err := c.storage.SaveSession(ctx, session); err != nil {
			return model.Status{}, err
		}

		c.logger.Info("liveness confirmed",
			slog.String("session_id", string(session.ID)),
			slog.String("display_name", session.PendingName),
		)

		return model.Status{
			Message:  fmt.Sprintf("Liveness confirmed. Verifying %s...", session.PendingName),
			Severity: model.SeveritySuccess,
		}, nil
	}

	if counter != session.BlinkCounter {
		session.BlinkCounter = counter
		session.UpdatedAt = now
		if err := c.storage.SaveSession(ctx, session); err != nil {
			return model.Status{}, err
		}
	}

	return model.Status{
		Message:  fmt.Sprintf("%s, please blink to verify", session.PendingName),
		Severity: model.SeverityInfo,
	}, nil
}

func (c *Controller) tickVerifying(ctx context.Context, session *model.VerificationSession, now time.Time) (model.Status, error) {
	elapsed := now.Sub(session.StateChangedAt)

	if elapsed >= c.cfg.VerifyDuration {
		session.State = model.StateFinalSuccess
		session.StateChangedAt = now
		session.UpdatedAt = now

		if err := c.storage.SaveSession(ctx, session); err != nil {
			return model.Status{}, err
		}

		c.logger.Info("verification complete",
			slog.String("session_id", string(session.ID)),
			slog.String("profile_id", string(session.PendingProfileID)),
			slog.String("display_name", session.PendingName),
		)

		return model.Status{
			Message:  fmt.Sprintf("Attendance marked for %s", session.PendingName),
			Severity: model.SeveritySuccess,
			Progress: 100,
		}, nil
	}

	progress := int(elapsed * 100 / c.cfg.VerifyDuration)
	if progress > 100 {
		progress = 100
	}

	return model.Status{
		Message:  fmt.Sprintf("Hold still, verifying %s...", session.PendingName),
		Severity: model.SeverityInfo,
		Progress: progress,
	}, nil
}

// toWaiting rewinds a session to the waiting state in place.
func (c *Controller) toWaiting(session *model.VerificationSession) {
	now := c.clock.Now()
	session.State = model.StateWaitingForFace
	session.ClearPending()
	session.StateChangedAt = now
	session.UpdatedAt = now
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context) (*model.VerificationSession, error)
	GetSession(ctx context.Context, sessionID model.SessionID) (*model.VerificationSession, error)
	ResetSession(ctx context.Context, sessionID model.SessionID) (*model.VerificationSession, error)
	Tick(ctx context.Context, sessionID model.SessionID, frame *model.FrameObservation) (model.Status, error)
}

var _ ControllerInterface = (*Controller)(nil)
