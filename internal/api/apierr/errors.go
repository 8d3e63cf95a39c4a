package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidImage       = "INVALID_IMAGE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidKey         = "INVALID_KEY"
	CodeProfileNotFound    = "PROFILE_NOT_FOUND"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeNoEnrolledProfiles = "NO_ENROLLED_PROFILES"
	CodeNoFaceDetected     = "NO_FACE_DETECTED"
	CodeMultipleFaces      = "MULTIPLE_FACES_DETECTED"
	CodeMissingFeature     = "MISSING_FACE_FEATURE"
	CodeMissingDisplayName = "MISSING_DISPLAY_NAME"
	CodeTemplateMismatch   = "TEMPLATE_LENGTH_MISMATCH"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrNoEnrolledProfiles):
		return &httpError{http.StatusConflict, APIError{CodeNoEnrolledProfiles, "No profiles enrolled"}}
	case errors.Is(err, model.ErrNoFaceDetected):
		return &httpError{http.StatusBadRequest, APIError{CodeNoFaceDetected, "No face detected in capture"}}
	case errors.Is(err, model.ErrMultipleFacesDetected):
		return &httpError{http.StatusBadRequest, APIError{CodeMultipleFaces, "Capture must contain exactly one face"}}
	case errors.Is(err, model.ErrMissingFaceFeature):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingFeature, "Capture is missing the face feature"}}
	case errors.Is(err, model.ErrMissingDisplayName):
		return &httpError{http.StatusBadRequest, APIError{CodeMissingDisplayName, "Display name is required"}}
	case errors.Is(err, model.ErrTemplateLengthMismatch):
		return &httpError{http.StatusBadRequest, APIError{CodeTemplateMismatch, "Templates have different lengths"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidKey):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidKey, "Invalid operator key"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInvalidImageError creates an error for an undecodable eye image
func NewInvalidImageError() error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidImage, "Eye image could not be decoded"}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
