package storage

import (
	"context"

	"github.com/irisgate/irisgate/internal/model"
)

// Storage defines the interface for data persistence. The matching path
// treats the profile set as read-only; enrollment writes a profile
// fully before it becomes visible to matching calls.
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.UserProfile) error
	GetProfile(ctx context.Context, id model.ProfileID) (*model.UserProfile, error)
	ListProfiles(ctx context.Context) ([]*model.UserProfile, error)
	DeleteProfile(ctx context.Context, id model.ProfileID) error

	// Session operations
	SaveSession(ctx context.Context, session *model.VerificationSession) error
	GetSession(ctx context.Context, id model.SessionID) (*model.VerificationSession, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// Attendance operations
	AppendAttendance(ctx context.Context, event *model.AttendanceEvent) error
	ListAttendance(ctx context.Context) ([]*model.AttendanceEvent, error)
}
