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

// ContractRepository handles persistence of contracts.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository constructs the repository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractDetailColumns = `c.id, c.studio_id, c.member_id, c.plan_id, c.status, c.plan_type_snapshot,
c.class_limit_snapshot, c.remaining_classes, c.start_date, c.end_date, c.paused_from, c.paused_until,
c.created_at, c.updated_at, m.first_name || ' ' || m.last_name AS member_name, p.name AS plan_name`

const contractDetailJoins = `FROM contracts c
JOIN members m ON m.id = c.member_id
JOIN plans p ON p.id = c.plan_id`

// FindByID returns a contract scoped to the studio.
func (r *ContractRepository) FindByID(ctx context.Context, studioID, id string) (*models.Contract, error) {
	const query = `SELECT id, studio_id, member_id, plan_id, status, plan_type_snapshot, class_limit_snapshot,
remaining_classes, start_date, end_date, paused_from, paused_until, created_at, updated_at
FROM contracts WHERE id = $1 AND studio_id = $2`
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, query, id, studioID); err != nil {
		return nil, err
	}
	return &contract, nil
}

// FindDetailByID returns a contract with member and plan context.
func (r *ContractRepository) FindDetailByID(ctx context.Context, studioID, id string) (*models.ContractDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE c.id = $1 AND c.studio_id = $2`, contractDetailColumns, contractDetailJoins)
	var detail models.ContractDetail
	if err := r.db.GetContext(ctx, &detail, query, id, studioID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListActiveByMember returns every ACTIVE contract for the member. The
// eligibility check needs all of them: more than one is an ambiguous state
// it must surface, not resolve.
func (r *ContractRepository) ListActiveByMember(ctx context.Context, studioID, memberID string) ([]models.Contract, error) {
	const query = `SELECT id, studio_id, member_id, plan_id, status, plan_type_snapshot, class_limit_snapshot,
remaining_classes, start_date, end_date, paused_from, paused_until, created_at, updated_at
FROM contracts WHERE studio_id = $1 AND member_id = $2 AND status = $3`
	var contracts []models.Contract
	if err := r.db.SelectContext(ctx, &contracts, query, studioID, memberID, models.ContractStatusActive); err != nil {
		return nil, fmt.Errorf("list active contracts: %w", err)
	}
	return contracts, nil
}

// List returns contracts for the studio, newest first.
func (r *ContractRepository) List(ctx context.Context, studioID string, filter models.ContractFilter) ([]models.ContractDetail, int, error) {
	conditions := []string{"c.studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.MemberID != "" {
		conditions = append(conditions, fmt.Sprintf("c.member_id = $%d", len(args)+1))
		args = append(args, filter.MemberID)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s%s ORDER BY c.created_at DESC LIMIT %d OFFSET %d`,
		contractDetailColumns, contractDetailJoins, clause, size, offset)

	var contracts []models.ContractDetail
	if err := r.db.SelectContext(ctx, &contracts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", contractDetailJoins, clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}
	return contracts, total, nil
}

// Create persists a new contract record.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	contract.CreatedAt = now
	contract.UpdatedAt = now
	const query = `INSERT INTO contracts (id, studio_id, member_id, plan_id, status, plan_type_snapshot,
class_limit_snapshot, remaining_classes, start_date, end_date, paused_from, paused_until, created_at, updated_at)
VALUES (:id, :studio_id, :member_id, :plan_id, :status, :plan_type_snapshot, :class_limit_snapshot,
:remaining_classes, :start_date, :end_date, :paused_from, :paused_until, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contract); err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// Pause flips an ACTIVE contract to PAUSED recording the pause window.
func (r *ContractRepository) Pause(ctx context.Context, studioID, id string, pausedFrom time.Time, pausedUntil *time.Time) error {
	const query = `UPDATE contracts SET status = $3, paused_from = $4, paused_until = $5, updated_at = $6
WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, models.ContractStatusPaused, pausedFrom, pausedUntil, time.Now().UTC()); err != nil {
		return fmt.Errorf("pause contract: %w", err)
	}
	return nil
}

// Cancel marks a contract CANCELLED, preserving an end date already set.
func (r *ContractRepository) Cancel(ctx context.Context, studioID, id string, endDate time.Time) error {
	const query = `UPDATE contracts SET status = $3, end_date = COALESCE(end_date, $4), updated_at = $5
WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, models.ContractStatusCancelled, endDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("cancel contract: %w", err)
	}
	return nil
}
