package model

import "time"

// SessionID uniquely identifies a verification session
type SessionID string

// SessionState represents the current phase of a verification session
type SessionState string

const (
	StateWaitingForFace   SessionState = "waiting_for_face"  // No subject engaged yet
	StateCheckingLiveness SessionState = "checking_liveness" // Identity matched, awaiting a blink
	StateVerifying        SessionState = "verifying"         // Liveness confirmed, dwell countdown
	StateFinalSuccess     SessionState = "final_success"     // Verified, awaiting acknowledgment
)

// VerificationSession is the per-camera workflow state. Exactly one live
// session exists per verification attempt; all mutable per-frame state
// (blink counter, timestamps, pending profile) is owned by it.
type VerificationSession struct {
	ID    SessionID
	State SessionState

	// Subject matched in WaitingForFace, pending liveness confirmation.
	// Cleared on reset and timeout.
	PendingProfileID ProfileID
	PendingName      string

	// Consecutive closed-eye frames observed in CheckingLiveness
	BlinkCounter int

	// Wall-clock time of the last state transition; timeouts and the
	// dwell countdown are measured from it
	StateChangedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClearPending drops the matched subject and blink progress.
func (s *VerificationSession) ClearPending() {
	s.PendingProfileID = ""
	s.PendingName = ""
	s.BlinkCounter = 0
}

// StatusSeverity is the severity token attached to every status emitted
// by the state machine, consumed by an external renderer.
type StatusSeverity string

const (
	SeverityNeutral StatusSeverity = "neutral"
	SeverityInfo    StatusSeverity = "info"
	SeveritySuccess StatusSeverity = "success"
	SeverityError   StatusSeverity = "error"
)

// Status is the tuple returned from every state-machine tick.
// Progress is 0 outside Verifying/FinalSuccess and 0-100 within.
type Status struct {
	Message  string         `json:"message"`
	Severity StatusSeverity `json:"severity"`
	Progress int            `json:"progress"`
}
