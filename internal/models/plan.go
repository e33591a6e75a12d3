package models

import "time"

// PlanType distinguishes unlimited memberships from class-credit packs.
type PlanType string

const (
	PlanTypeUnlimited PlanType = "UNLIMITED"
	PlanTypeLimited   PlanType = "LIMITED"
)

// Valid reports whether the plan type is a known value.
func (t PlanType) Valid() bool {
	return t == PlanTypeUnlimited || t == PlanTypeLimited
}

// BillingPeriod describes how a plan is billed.
type BillingPeriod string

const (
	BillingPeriodMonthly BillingPeriod = "MONTHLY"
	BillingPeriodYearly  BillingPeriod = "YEARLY"
	BillingPeriodOneTime BillingPeriod = "ONE_TIME"
)

// Valid reports whether the billing period is a known value.
func (b BillingPeriod) Valid() bool {
	switch b {
	case BillingPeriodMonthly, BillingPeriodYearly, BillingPeriodOneTime:
		return true
	}
	return false
}

// Plan is a membership template. Contracts snapshot its type and class
// limit at creation time, so later plan edits never affect existing
// contracts.
type Plan struct {
	ID            string        `db:"id" json:"id"`
	StudioID      string        `db:"studio_id" json:"studio_id"`
	Name          string        `db:"name" json:"name"`
	Type          PlanType      `db:"type" json:"type"`
	ClassLimit    *int          `db:"class_limit" json:"class_limit,omitempty"`
	PriceCents    int           `db:"price_cents" json:"price_cents"`
	BillingPeriod BillingPeriod `db:"billing_period" json:"billing_period"`
	IsActive      bool          `db:"is_active" json:"is_active"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// PlanFilter narrows plan listings.
type PlanFilter struct {
	Type     PlanType
	IsActive *bool
	Page     int
	PageSize int
}
