package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case ProfileList:
		o.printProfileList(v)
	case Session:
		o.printSession(v)
	case Status:
		o.printStatus(v)
	case AttendanceList:
		o.printAttendanceList(v)
	case TokenResult:
		o.printTokenResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile response type (matches API)
type Profile struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"display_name"`
	HasIris         bool      `json:"has_iris"`
	CreatedAt       time.Time `json:"created_at"`
	NearestDistance *float64  `json:"nearest_distance,omitempty"`
}

// ProfileList response type
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// Session response type
type Session struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	PendingName    string    `json:"pending_name,omitempty"`
	StateChangedAt time.Time `json:"state_changed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// Status response type
type Status struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Progress int    `json:"progress"`
}

// AttendanceEvent response type
type AttendanceEvent struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	DisplayName string    `json:"display_name"`
	SessionID   string    `json:"session_id"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// AttendanceList response type
type AttendanceList struct {
	Events []AttendanceEvent `json:"events"`
}

// TokenResult response type
type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printProfile(p Profile) {
	irisStr := "no"
	if p.HasIris {
		irisStr = "yes"
	}
	fmt.Printf("Profile: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Printf("Iris enrolled: %s\n", irisStr)
	fmt.Printf("Enrolled at: %s\n", p.CreatedAt.Format(time.RFC3339))
	if p.NearestDistance != nil {
		fmt.Printf("Nearest existing profile distance: %.4f\n", *p.NearestDistance)
	}
}

func (o *Output) printProfileList(l ProfileList) {
	fmt.Printf("Profiles (%d):\n", len(l.Profiles))
	for _, p := range l.Profiles {
		irisStr := ""
		if p.HasIris {
			irisStr = " [iris]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, irisStr)
	}
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session: %s\n", s.ID)
	fmt.Printf("State: %s\n", s.State)
	if s.PendingName != "" {
		fmt.Printf("Subject: %s\n", s.PendingName)
	}
	fmt.Printf("State changed: %s\n", s.StateChangedAt.Format(time.RFC3339))
}

func (o *Output) printStatus(s Status) {
	fmt.Printf("[%s] %s", s.Severity, s.Message)
	if s.Progress > 0 {
		fmt.Printf(" (%d%%)", s.Progress)
	}
	fmt.Println()
}

func (o *Output) printAttendanceList(l AttendanceList) {
	fmt.Printf("Attendance events (%d):\n", len(l.Events))
	for _, e := range l.Events {
		fmt.Printf("  - %s at %s (session %s)\n", e.DisplayName, e.RecordedAt.Format(time.RFC3339), e.SessionID)
	}
}

func (o *Output) printTokenResult(t TokenResult) {
	fmt.Printf("Token: %s\n", t.Token)
	fmt.Printf("Expires: %s\n", t.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
