package models

import "time"

// AttendanceStatus represents the state of one attendance record.
type AttendanceStatus string

const (
	AttendanceStatusCheckedIn AttendanceStatus = "CHECKED_IN"
	AttendanceStatusCancelled AttendanceStatus = "CANCELLED"
	AttendanceStatusNoShow    AttendanceStatus = "NO_SHOW"
)

// Valid reports whether the attendance status is a known value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusCheckedIn, AttendanceStatusCancelled, AttendanceStatusNoShow:
		return true
	}
	return false
}

// Attendance is the event record of a member checking in to a session.
// (studio_id, session_id, member_id) is unique, which is what makes the
// check-in transaction idempotent. Rows are never deleted.
type Attendance struct {
	ID          string           `db:"id" json:"id"`
	StudioID    string           `db:"studio_id" json:"studio_id"`
	SessionID   string           `db:"session_id" json:"session_id"`
	MemberID    string           `db:"member_id" json:"member_id"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CheckedInAt time.Time        `db:"checked_in_at" json:"checked_in_at"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceDetail augments a record with member and session context for
// list views and the admin UI.
type AttendanceDetail struct {
	Attendance
	MemberName      string    `db:"member_name" json:"member_name"`
	SessionStartsAt time.Time `db:"session_starts_at" json:"session_starts_at"`
	ClassType       string    `db:"class_type" json:"class_type"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	Status    AttendanceStatus
	SessionID string
	MemberID  string
	Page      int
	PageSize  int
}
