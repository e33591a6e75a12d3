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

// SessionRepository handles persistence of scheduled class sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindByID returns a session scoped to the studio.
func (r *SessionRepository) FindByID(ctx context.Context, studioID, id string) (*models.Session, error) {
	const query = `SELECT id, studio_id, class_type, coach, starts_at, ends_at, capacity, status, created_at, updated_at
FROM sessions WHERE id = $1 AND studio_id = $2`
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id, studioID); err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns sessions filtered by the provided criteria, soonest first.
func (r *SessionRepository) List(ctx context.Context, studioID string, filter models.SessionFilter) ([]models.Session, int, error) {
	conditions := []string{"studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("starts_at <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, studio_id, class_type, coach, starts_at, ends_at, capacity, status, created_at, updated_at
FROM sessions%s ORDER BY starts_at LIMIT %d OFFSET %d`, clause, size, offset)

	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sessions%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// Create persists a new session record.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = models.SessionStatusScheduled
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	const query = `INSERT INTO sessions (id, studio_id, class_type, coach, starts_at, ends_at, capacity, status, created_at, updated_at)
VALUES (:id, :studio_id, :class_type, :coach, :starts_at, :ends_at, :capacity, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update overwrites the mutable session fields.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sessions SET class_type = :class_type, coach = :coach, starts_at = :starts_at,
ends_at = :ends_at, capacity = :capacity, updated_at = :updated_at
WHERE id = :id AND studio_id = :studio_id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// UpdateStatus transitions a session's status, scoped to the studio.
func (r *SessionRepository) UpdateStatus(ctx context.Context, studioID, id string, status models.SessionStatus) error {
	const query = `UPDATE sessions SET status = $3, updated_at = $4 WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}
