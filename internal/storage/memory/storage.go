package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles   map[model.ProfileID]*model.UserProfile
	sessions   map[model.SessionID]*model.VerificationSession
	attendance []*model.AttendanceEvent
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles: make(map[model.ProfileID]*model.UserProfile),
		sessions: make(map[model.SessionID]*model.VerificationSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		result = append(result, p)
	}
	// Stable enrollment order
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	return nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.VerificationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.VerificationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Attendance operations

func (s *Storage) AppendAttendance(ctx context.Context, event *model.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance = append(s.attendance, event)
	return nil
}

func (s *Storage) ListAttendance(ctx context.Context) ([]*model.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.AttendanceEvent, len(s.attendance))
	copy(result, s.attendance)
	return result, nil
}
