package models

import "time"

// PaymentStatus represents the state of a bookkeeping payment record.
type PaymentStatus string

const (
	PaymentStatusRecorded PaymentStatus = "RECORDED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusVoid     PaymentStatus = "VOID"
)

// Valid reports whether the payment status is a known value.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusRecorded, PaymentStatusRefunded, PaymentStatusVoid:
		return true
	}
	return false
}

// Payment is a financial bookkeeping row. It is never mutated by
// attendance logic; actual processing happens outside this system.
type Payment struct {
	ID          string        `db:"id" json:"id"`
	StudioID    string        `db:"studio_id" json:"studio_id"`
	MemberID    string        `db:"member_id" json:"member_id"`
	ContractID  *string       `db:"contract_id" json:"contract_id,omitempty"`
	AmountCents int           `db:"amount_cents" json:"amount_cents"`
	Status      PaymentStatus `db:"status" json:"status"`
	PaidAt      time.Time     `db:"paid_at" json:"paid_at"`
	Note        *string       `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Status     PaymentStatus
	MemberID   string
	ContractID string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}
