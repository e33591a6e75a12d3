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

// PlanRepository handles persistence of membership plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository constructs the repository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// FindByID returns a plan scoped to the studio.
func (r *PlanRepository) FindByID(ctx context.Context, studioID, id string) (*models.Plan, error) {
	const query = `SELECT id, studio_id, name, type, class_limit, price_cents, billing_period, is_active, created_at, updated_at
FROM plans WHERE id = $1 AND studio_id = $2`
	var plan models.Plan
	if err := r.db.GetContext(ctx, &plan, query, id, studioID); err != nil {
		return nil, err
	}
	return &plan, nil
}

// List returns plans filtered by the provided criteria.
func (r *PlanRepository) List(ctx context.Context, studioID string, filter models.PlanFilter) ([]models.Plan, int, error) {
	conditions := []string{"studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, studio_id, name, type, class_limit, price_cents, billing_period, is_active, created_at, updated_at
FROM plans%s ORDER BY name LIMIT %d OFFSET %d`, clause, size, offset)

	var plans []models.Plan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list plans: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM plans%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}
	return plans, total, nil
}

// Create persists a new plan record.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	const query = `INSERT INTO plans (id, studio_id, name, type, class_limit, price_cents, billing_period, is_active, created_at, updated_at)
VALUES (:id, :studio_id, :name, :type, :class_limit, :price_cents, :billing_period, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// Update overwrites the mutable plan fields. Existing contracts keep their
// snapshots and are unaffected.
func (r *PlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	plan.UpdatedAt = time.Now().UTC()
	const query = `UPDATE plans SET name = :name, type = :type, class_limit = :class_limit,
price_cents = :price_cents, billing_period = :billing_period, is_active = :is_active, updated_at = :updated_at
WHERE id = :id AND studio_id = :studio_id`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

// Deactivate marks a plan inactive so no new contracts reference it.
func (r *PlanRepository) Deactivate(ctx context.Context, studioID, id string) error {
	const query = `UPDATE plans SET is_active = FALSE, updated_at = $3 WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate plan: %w", err)
	}
	return nil
}
