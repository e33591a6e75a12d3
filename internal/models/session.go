package models

import "time"

// SessionStatus represents the lifecycle of a scheduled class session.
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "SCHEDULED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// Valid reports whether the session status is a known value.
func (s SessionStatus) Valid() bool {
	return s == SessionStatusScheduled || s == SessionStatusCancelled
}

// Session is one scheduled class instance.
type Session struct {
	ID        string        `db:"id" json:"id"`
	StudioID  string        `db:"studio_id" json:"studio_id"`
	ClassType string        `db:"class_type" json:"class_type"`
	Coach     *string       `db:"coach" json:"coach,omitempty"`
	StartsAt  time.Time     `db:"starts_at" json:"starts_at"`
	EndsAt    *time.Time    `db:"ends_at" json:"ends_at,omitempty"`
	Capacity  int           `db:"capacity" json:"capacity"`
	Status    SessionStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Status   SessionStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
