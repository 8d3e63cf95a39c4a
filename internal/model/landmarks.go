package model

// Point is a 2D landmark position in frame pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyePoints holds the six boundary landmarks of one eye in the
// conventional order: outer corner, upper lid (two points), inner
// corner, lower lid (two points). The eye aspect ratio is computed
// from exactly this ordering.
type EyePoints [6]Point

// FaceLandmarks is the per-face landmark set delivered by the external
// landmark provider for one frame. Consumed read-only and discarded
// after the frame.
type FaceLandmarks struct {
	LeftEye  EyePoints `json:"left_eye"`
	RightEye EyePoints `json:"right_eye"`
}

// FaceObservation is everything the external providers report about one
// detected face in one frame. Feature may be empty when the embedding
// stage did not run; Landmarks may be nil when the mesh was not
// resolved for this face.
type FaceObservation struct {
	Landmarks *FaceLandmarks `json:"landmarks,omitempty"`
	Feature   FaceFeature    `json:"feature,omitempty"`
}

// FrameObservation is the per-frame input to the verification state
// machine: zero or more observed faces. An empty Faces slice means no
// face was detected in the frame.
type FrameObservation struct {
	Faces []FaceObservation `json:"faces"`
}

// PrimaryFace returns the first observed face, or nil if the frame
// contains none. The verification workflow is single-subject; when
// several faces are present the first reported one drives the session.
func (o *FrameObservation) PrimaryFace() *FaceObservation {
	if o == nil || len(o.Faces) == 0 {
		return nil
	}
	return &o.Faces[0]
}
