// Package enrollment creates user profiles from a single captured
// frame: a face feature vector plus an optional iris capture.
package enrollment

import (
	"context"
	"image"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/irisgate/irisgate/internal/dependencies/clock"
	"github.com/irisgate/irisgate/internal/iris"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/storage"
)

// Capture is the enrollment-time input: the detected faces of the
// capture frame and, optionally, a gray eye-region crop for iris
// template generation.
type Capture struct {
	Faces    []model.FaceObservation
	EyeImage image.Image // nil when no iris capture was taken
}

// Result is the outcome of an enrollment. NearestDistance is the face
// distance to the closest profile that existed before this enrollment,
// a diagnostic for operators tuning the matching tolerance; nil when
// this was the first profile.
type Result struct {
	Profile         *model.UserProfile
	NearestDistance *float64
}

// Service enrolls new profiles. Enrollment is append-only: repeating a
// display name creates a second independent profile rather than
// overwriting the first.
type Service struct {
	storage storage.Storage
	engine  *iris.Engine
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates an enrollment service.
func New(storage storage.Storage, engine *iris.Engine, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		engine:  engine,
		clock:   clk,
		logger:  logger,
	}
}

// Enroll validates the capture and persists a new profile.
//
// Exactly one face must be present in the capture frame; zero or
// several are explicit errors the operator can retry. The face feature
// is mandatory, the iris capture optional. A storage failure is
// surfaced to the caller as a failed enrollment.
func (s *Service) Enroll(ctx context.Context, displayName string, capture Capture) (*Result, error) {
	if displayName == "" {
		return nil, model.ErrMissingDisplayName
	}

	switch len(capture.Faces) {
	case 0:
		return nil, model.ErrNoFaceDetected
	case 1:
	default:
		return nil, model.ErrMultipleFacesDetected
	}

	face := capture.Faces[0]
	if len(face.Feature) == 0 {
		return nil, model.ErrMissingFaceFeature
	}

	nearest := s.nearestDistance(ctx, face.Feature)

	profile := &model.UserProfile{
		ID:          model.ProfileID(uuid.NewString()),
		DisplayName: displayName,
		Feature:     face.Feature,
		CreatedAt:   s.clock.Now(),
	}

	if capture.EyeImage != nil {
		profile.Iris = s.engine.CreateTemplate(capture.EyeImage)
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("failed to save profile",
			slog.String("display_name", displayName),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("profile enrolled",
		slog.String("profile_id", string(profile.ID)),
		slog.String("display_name", displayName),
		slog.Bool("has_iris", profile.Iris != nil),
	)

	return &Result{Profile: profile, NearestDistance: nearest}, nil
}

// nearestDistance reports how close the new feature sits to the
// existing enrollment set. Purely diagnostic; a listing failure here
// must not block the enrollment itself.
func (s *Service) nearestDistance(ctx context.Context, feature model.FaceFeature) *float64 {
	existing, err := s.storage.ListProfiles(ctx)
	if err != nil || len(existing) == 0 {
		return nil
	}

	best := feature.Distance(existing[0].Feature)
	for _, p := range existing[1:] {
		if d := feature.Distance(p.Feature); d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return nil
	}
	return &best
}

// Profiles returns the enrolled profile set in enrollment order. An
// empty set is a valid result, not an error.
func (s *Service) Profiles(ctx context.Context) ([]*model.UserProfile, error) {
	return s.storage.ListProfiles(ctx)
}
