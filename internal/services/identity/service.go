// Package identity matches a live face feature against the enrolled
// profile set by nearest Euclidean distance.
package identity

import (
	"github.com/irisgate/irisgate/internal/model"
)

// Config holds the identity matching parameters.
type Config struct {
	// Tolerance is the largest feature distance accepted as the same person
	Tolerance float64
}

// DefaultConfig returns the canonical face matching tolerance.
func DefaultConfig() Config {
	return Config{Tolerance: 0.6}
}

// Match is the outcome of one identity comparison.
type Match struct {
	Profile  *model.UserProfile
	Distance float64
	Matched  bool
}

// Service performs nearest-neighbour face matching. It holds no state
// beyond configuration; the profile set is passed per call so callers
// control snapshotting.
type Service struct {
	cfg Config
}

// New creates an identity matching service.
func New(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// BestMatch compares the live feature against every enrolled profile
// and returns the nearest one. Matched is true only when the nearest
// distance is within tolerance. An empty profile set returns
// ErrNoEnrolledProfiles.
func (s *Service) BestMatch(feature model.FaceFeature, profiles []*model.UserProfile) (Match, error) {
	if len(profiles) == 0 {
		return Match{}, model.ErrNoEnrolledProfiles
	}

	best := Match{Distance: -1}
	for _, p := range profiles {
		d := feature.Distance(p.Feature)
		if best.Distance < 0 || d < best.Distance {
			best = Match{Profile: p, Distance: d}
		}
	}
	best.Matched = best.Distance < s.cfg.Tolerance
	return best, nil
}
