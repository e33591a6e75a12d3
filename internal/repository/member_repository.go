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

// MemberRepository handles persistence of studio members.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs the repository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// FindByID returns a member scoped to the studio.
func (r *MemberRepository) FindByID(ctx context.Context, studioID, id string) (*models.Member, error) {
	const query = `SELECT id, studio_id, first_name, last_name, email, phone, status, created_at, updated_at
FROM members WHERE id = $1 AND studio_id = $2`
	var member models.Member
	if err := r.db.GetContext(ctx, &member, query, id, studioID); err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns members filtered by the provided criteria.
func (r *MemberRepository) List(ctx context.Context, studioID string, filter models.MemberFilter) ([]models.Member, int, error) {
	conditions := []string{"studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, studio_id, first_name, last_name, email, phone, status, created_at, updated_at
FROM members%s ORDER BY last_name, first_name LIMIT %d OFFSET %d`, clause, size, offset)

	var members []models.Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM members%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	return members, total, nil
}

// Create persists a new member record.
func (r *MemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	if member.Status == "" {
		member.Status = models.MemberStatusActive
	}
	now := time.Now().UTC()
	member.CreatedAt = now
	member.UpdatedAt = now
	const query = `INSERT INTO members (id, studio_id, first_name, last_name, email, phone, status, created_at, updated_at)
VALUES (:id, :studio_id, :first_name, :last_name, :email, :phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// Update overwrites the mutable member fields.
func (r *MemberRepository) Update(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE members SET first_name = :first_name, last_name = :last_name, email = :email,
phone = :phone, status = :status, updated_at = :updated_at
WHERE id = :id AND studio_id = :studio_id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// UpdateStatus transitions a member's status, scoped to the studio.
func (r *MemberRepository) UpdateStatus(ctx context.Context, studioID, id string, status models.MemberStatus) error {
	const query = `UPDATE members SET status = $3, updated_at = $4 WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	return nil
}
