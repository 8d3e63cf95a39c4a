package model

import "time"

// AttendanceEventID uniquely identifies an attendance record
type AttendanceEventID string

// AttendanceEvent records one completed liveness confirmation for a
// verified subject. Emitted exactly once per session pass, when the
// session moves from CheckingLiveness to Verifying.
type AttendanceEvent struct {
	ID          AttendanceEventID
	ProfileID   ProfileID
	DisplayName string
	SessionID   SessionID
	RecordedAt  time.Time
}
