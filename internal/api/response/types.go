package response

import (
	"time"

	"github.com/irisgate/irisgate/internal/model"
)

// Profile is the API representation of an enrolled profile. The raw
// feature vector and iris template stay server-side.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	HasIris     bool      `json:"has_iris"`
	CreatedAt   time.Time `json:"created_at"`

	// NearestDistance is only set on enrollment responses: the face
	// distance to the closest profile enrolled before this one
	NearestDistance *float64 `json:"nearest_distance,omitempty"`
}

// ProfileFromModel converts a model profile to its API representation
func ProfileFromModel(p *model.UserProfile) Profile {
	return Profile{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		HasIris:     p.Iris != nil,
		CreatedAt:   p.CreatedAt,
	}
}

// ProfileList is the API representation of the enrolled profile set
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// ProfileListFromModel converts a profile slice to its API representation
func ProfileListFromModel(profiles []*model.UserProfile) ProfileList {
	out := ProfileList{Profiles: make([]Profile, 0, len(profiles))}
	for _, p := range profiles {
		out.Profiles = append(out.Profiles, ProfileFromModel(p))
	}
	return out
}

// Session is the API representation of a verification session
type Session struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	PendingName    string    `json:"pending_name,omitempty"`
	StateChangedAt time.Time `json:"state_changed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// SessionFromModel converts a model session to its API representation
func SessionFromModel(s *model.VerificationSession) Session {
	return Session{
		ID:             string(s.ID),
		State:          string(s.State),
		PendingName:    s.PendingName,
		StateChangedAt: s.StateChangedAt,
		CreatedAt:      s.CreatedAt,
	}
}

// AttendanceEvent is the API representation of one attendance record
type AttendanceEvent struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	DisplayName string    `json:"display_name"`
	SessionID   string    `json:"session_id"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// AttendanceEventFromModel converts a model event to its API representation
func AttendanceEventFromModel(e *model.AttendanceEvent) AttendanceEvent {
	return AttendanceEvent{
		ID:          string(e.ID),
		ProfileID:   string(e.ProfileID),
		DisplayName: e.DisplayName,
		SessionID:   string(e.SessionID),
		RecordedAt:  e.RecordedAt,
	}
}

// AttendanceList is the API representation of the attendance log
type AttendanceList struct {
	Events []AttendanceEvent `json:"events"`
}

// AttendanceListFromModel converts an event slice to its API representation
func AttendanceListFromModel(events []*model.AttendanceEvent) AttendanceList {
	out := AttendanceList{Events: make([]AttendanceEvent, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, AttendanceEventFromModel(e))
	}
	return out
}

// Token is the API representation of an issued operator token
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
