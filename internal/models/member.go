package models

import "time"

// MemberStatus represents the lifecycle of a studio member.
type MemberStatus string

// Possible member statuses. Only ACTIVE members may check in.
const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusFrozen   MemberStatus = "FROZEN"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// Valid reports whether the status is one of the known values.
func (s MemberStatus) Valid() bool {
	switch s {
	case MemberStatusActive, MemberStatusFrozen, MemberStatusInactive:
		return true
	}
	return false
}

// Member is a person registered with one studio.
type Member struct {
	ID        string       `db:"id" json:"id"`
	StudioID  string       `db:"studio_id" json:"studio_id"`
	FirstName string       `db:"first_name" json:"first_name"`
	LastName  string       `db:"last_name" json:"last_name"`
	Email     *string      `db:"email" json:"email,omitempty"`
	Phone     *string      `db:"phone" json:"phone,omitempty"`
	Status    MemberStatus `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// MemberFilter narrows member listings.
type MemberFilter struct {
	Status   MemberStatus
	Search   string
	Page     int
	PageSize int
}
