// Package liveness detects a completed blink from per-frame eye
// landmarks, as evidence that the subject is a live human rather than a
// photograph.
package liveness

import (
	"math"

	"github.com/irisgate/irisgate/internal/model"
)

// Config holds the blink detection parameters.
type Config struct {
	// EARThreshold is the eye aspect ratio below which the eyes are
	// judged closed for the frame
	EARThreshold float64

	// MinBlinkFrames and MaxBlinkFrames bound the closed-eye run length
	// (inclusive) accepted as a natural blink. Shorter runs are camera
	// noise; longer runs are sustained closure, not a blink.
	MinBlinkFrames int
	MaxBlinkFrames int
}

// DefaultConfig returns the canonical blink parameters.
func DefaultConfig() Config {
	return Config{
		EARThreshold:   0.25,
		MinBlinkFrames: 2,
		MaxBlinkFrames: 6,
	}
}

// Detector is a stateless blink classifier; the closed-frame counter it
// operates on is owned by the verification session, so one Detector can
// serve any number of concurrent sessions.
type Detector struct {
	cfg Config
}

// New creates a Detector with the given config.
func New(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Observe consumes one frame's landmarks and the session's current
// closed-frame counter, and returns whether a completed blink is
// confirmed on this frame along with the updated counter.
//
// A nil landmark set (no face this frame) resets the counter without
// signalling. A blink is signalled exactly once: on the first open-eye
// frame ending a closed run whose length falls inside the configured
// band. The counter resets on every open-eye frame regardless.
func (d *Detector) Observe(lm *model.FaceLandmarks, counter int) (bool, int) {
	if lm == nil {
		return false, 0
	}

	ear := (EyeAspectRatio(lm.LeftEye) + EyeAspectRatio(lm.RightEye)) / 2

	if ear < d.cfg.EARThreshold {
		return false, counter + 1
	}

	blinked := counter >= d.cfg.MinBlinkFrames && counter <= d.cfg.MaxBlinkFrames
	return blinked, 0
}

// EyeAspectRatio computes the EAR from the six eye boundary points:
// the sum of the two vertical lid distances over twice the horizontal
// corner distance. A degenerate eye with zero width yields 0 rather
// than a division fault.
func EyeAspectRatio(eye model.EyePoints) float64 {
	v1 := dist(eye[1], eye[5])
	v2 := dist(eye[2], eye[4])
	h := dist(eye[0], eye[3])
	if h == 0 {
		return 0
	}
	return (v1 + v2) / (2 * h)
}

func dist(a, b model.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
