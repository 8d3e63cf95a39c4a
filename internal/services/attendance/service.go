// Package attendance records verified-presence events. Recording is
// best-effort from the session's point of view: a sink failure is
// logged and reported but must never abort a verification in flight.
package attendance

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/irisgate/irisgate/internal/dependencies/clock"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/storage"
)

// Service appends attendance events to storage.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates an attendance service.
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger,
	}
}

// Record appends one event for the given profile and session.
func (s *Service) Record(ctx context.Context, profileID model.ProfileID, displayName string, sessionID model.SessionID) (*model.AttendanceEvent, error) {
	event := &model.AttendanceEvent{
		ID:          model.AttendanceEventID(uuid.NewString()),
		ProfileID:   profileID,
		DisplayName: displayName,
		SessionID:   sessionID,
		RecordedAt:  s.clock.Now(),
	}

	if err := s.storage.AppendAttendance(ctx, event); err != nil {
		s.logger.Error("failed to record attendance",
			slog.String("profile_id", string(profileID)),
			slog.String("session_id", string(sessionID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("attendance recorded",
		slog.String("event_id", string(event.ID)),
		slog.String("profile_id", string(profileID)),
		slog.String("display_name", displayName),
	)

	return event, nil
}

// List returns all recorded events in append order.
func (s *Service) List(ctx context.Context) ([]*model.AttendanceEvent, error) {
	return s.storage.ListAttendance(ctx)
}
