package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gymstack/studio-ops-api/internal/models"
)

// DashboardRepository aggregates studio activity for the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary computes the dashboard aggregates for one studio and date range.
func (r *DashboardRepository) Summary(ctx context.Context, studioID string, from, to time.Time) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	const revenueQuery = `SELECT COALESCE(SUM(amount_cents), 0) FROM payments
WHERE studio_id = $1 AND status = $2 AND paid_at BETWEEN $3 AND $4`
	if err := r.db.GetContext(ctx, &summary.RevenueCentsTotal, revenueQuery, studioID, models.PaymentStatusRecorded, from, to); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	const paymentsQuery = `SELECT COUNT(*) FROM payments WHERE studio_id = $1 AND paid_at BETWEEN $2 AND $3`
	if err := r.db.GetContext(ctx, &summary.PaymentsCount, paymentsQuery, studioID, from, to); err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}

	const checkinsQuery = `SELECT COUNT(*) FROM attendance
WHERE studio_id = $1 AND status = $2 AND checked_in_at BETWEEN $3 AND $4`
	if err := r.db.GetContext(ctx, &summary.AttendanceCheckinsCount, checkinsQuery, studioID, models.AttendanceStatusCheckedIn, from, to); err != nil {
		return nil, fmt.Errorf("count check-ins: %w", err)
	}

	const cancelledQuery = `SELECT COUNT(*) FROM attendance
WHERE studio_id = $1 AND status = $2 AND created_at BETWEEN $3 AND $4`
	if err := r.db.GetContext(ctx, &summary.AttendanceCancelledCount, cancelledQuery, studioID, models.AttendanceStatusCancelled, from, to); err != nil {
		return nil, fmt.Errorf("count cancelled attendance: %w", err)
	}

	const activeMembersQuery = `SELECT COUNT(*) FROM members WHERE studio_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &summary.ActiveMembersCount, activeMembersQuery, studioID, models.MemberStatusActive); err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}

	const sessionsQuery = `SELECT COUNT(*) FROM sessions
WHERE studio_id = $1 AND status = $2 AND starts_at BETWEEN $3 AND $4`
	if err := r.db.GetContext(ctx, &summary.SessionsScheduledCount, sessionsQuery, studioID, models.SessionStatusScheduled, from, to); err != nil {
		return nil, fmt.Errorf("count scheduled sessions: %w", err)
	}
	if err := r.db.GetContext(ctx, &summary.SessionsCancelledCount, sessionsQuery, studioID, models.SessionStatusCancelled, from, to); err != nil {
		return nil, fmt.Errorf("count cancelled sessions: %w", err)
	}

	return summary, nil
}
