package model

import (
	"math"
	"time"
)

// ProfileID uniquely identifies an enrolled user profile
type ProfileID string

// FaceFeature is a fixed-length face embedding produced by an external
// encoder. The core only ever compares features by Euclidean distance.
type FaceFeature []float64

// Distance returns the Euclidean distance between two features.
// Features of different lengths are maximally distant.
func (f FaceFeature) Distance(other FaceFeature) float64 {
	if len(f) != len(other) || len(f) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range f {
		d := f[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// UserProfile is one enrolled identity: a display name, a face feature,
// and optionally an iris template captured at enrollment.
// Profiles are immutable once created; re-enrollment creates a new profile.
type UserProfile struct {
	ID          ProfileID
	DisplayName string
	Feature     FaceFeature
	Iris        *IrisTemplate // nil if no iris was captured at enrollment

	CreatedAt time.Time
}
