package model

import "errors"

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoEnrolledProfiles = errors.New("no enrolled profiles")

	// Enrollment errors
	ErrNoFaceDetected        = errors.New("no face detected in frame")
	ErrMultipleFacesDetected = errors.New("multiple faces detected in frame")
	ErrMissingFaceFeature    = errors.New("face feature vector is missing")
	ErrMissingDisplayName    = errors.New("display name is required")

	// Iris errors
	ErrTemplateLengthMismatch = errors.New("iris templates have different lengths")
	ErrEmptyEyeImage          = errors.New("eye image is empty")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Attendance errors
	ErrAttendanceNotRecorded = errors.New("attendance event not recorded")
)
