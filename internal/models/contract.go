package models

import "time"

// ContractStatus represents the lifecycle of a contract.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusPaused    ContractStatus = "PAUSED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
	ContractStatusExpired   ContractStatus = "EXPIRED"
)

// Valid reports whether the contract status is a known value.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusPaused, ContractStatusCancelled, ContractStatusExpired:
		return true
	}
	return false
}

// Contract binds a member to a plan. PlanTypeSnapshot and
// ClassLimitSnapshot are frozen at creation; RemainingClasses is set only
// for LIMITED snapshots and is decremented exclusively by the check-in
// transaction, never below zero.
type Contract struct {
	ID                 string         `db:"id" json:"id"`
	StudioID           string         `db:"studio_id" json:"studio_id"`
	MemberID           string         `db:"member_id" json:"member_id"`
	PlanID             string         `db:"plan_id" json:"plan_id"`
	Status             ContractStatus `db:"status" json:"status"`
	PlanTypeSnapshot   PlanType       `db:"plan_type_snapshot" json:"plan_type_snapshot"`
	ClassLimitSnapshot *int           `db:"class_limit_snapshot" json:"class_limit_snapshot,omitempty"`
	RemainingClasses   *int           `db:"remaining_classes" json:"remaining_classes,omitempty"`
	StartDate          time.Time      `db:"start_date" json:"start_date"`
	EndDate            *time.Time     `db:"end_date" json:"end_date,omitempty"`
	PausedFrom         *time.Time     `db:"paused_from" json:"paused_from,omitempty"`
	PausedUntil        *time.Time     `db:"paused_until" json:"paused_until,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// ContractDetail augments a contract with member and plan context.
type ContractDetail struct {
	Contract
	MemberName string `db:"member_name" json:"member_name"`
	PlanName   string `db:"plan_name" json:"plan_name"`
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	Status   ContractStatus
	MemberID string
	Page     int
	PageSize int
}
