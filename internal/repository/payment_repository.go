package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/gymstack/studio-ops-api/internal/models"
)

// PaymentRepository handles persistence of payment bookkeeping rows.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments filtered by the provided criteria, newest first.
func (r *PaymentRepository) List(ctx context.Context, studioID string, filter models.PaymentFilter) ([]models.Payment, int, error) {
	conditions := []string{"studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.MemberID != "" {
		conditions = append(conditions, fmt.Sprintf("member_id = $%d", len(args)+1))
		args = append(args, filter.MemberID)
	}
	if filter.ContractID != "" {
		conditions = append(conditions, fmt.Sprintf("contract_id = $%d", len(args)+1))
		args = append(args, filter.ContractID)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("paid_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("paid_at <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, studio_id, member_id, contract_id, amount_cents, status, paid_at, note, created_at
FROM payments%s ORDER BY paid_at DESC LIMIT %d OFFSET %d`, clause, size, offset)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

// Create persists a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentStatusRecorded
	}
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now().UTC()
	}
	payment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO payments (id, studio_id, member_id, contract_id, amount_cents, status, paid_at, note, created_at)
VALUES (:id, :studio_id, :member_id, :contract_id, :amount_cents, :status, :paid_at, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}
