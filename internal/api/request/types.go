package request

import "github.com/irisgate/irisgate/internal/model"

// LoginRequest is the request body for exchanging the operator key
type LoginRequest struct {
	Key string `json:"key"`
}

// EnrollRequest is the request body for enrolling a profile. Faces are
// the detections from the capture frame; EyeImage is an optional
// base64-encoded PNG or JPEG eye-region crop for iris enrollment.
type EnrollRequest struct {
	DisplayName string                  `json:"display_name"`
	Faces       []model.FaceObservation `json:"faces"`
	EyeImage    string                  `json:"eye_image,omitempty"`
}

// FrameRequest is the request body for submitting one camera frame to
// a verification session
type FrameRequest struct {
	Faces []model.FaceObservation `json:"faces"`
}
