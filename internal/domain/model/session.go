package model

import "time"

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// ValidSessionStatus reports whether s is one of the known states.
func ValidSessionStatus(s SessionStatus) bool {
	switch s {
	case SessionStatusPending, SessionStatusInProgress, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// Session is one interview-preparation track: a target role, an experience
// level and the topics to drill. Questions hang off the session by reference.
// The owning user is immutable after creation.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Role        string        `json:"role"`
	Experience  string        `json:"experience"`
	Topics      []string      `json:"topics"`
	Description string        `json:"description,omitempty"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
