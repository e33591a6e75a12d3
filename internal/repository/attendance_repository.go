package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gymstack/studio-ops-api/internal/models"
)

// Sentinel errors surfaced by the check-in transaction. The service layer
// maps them onto the idempotent-duplicate and insufficient-credit outcomes.
var (
	ErrDuplicateCheckIn   = errors.New("attendance already exists for session and member")
	ErrNoClassesRemaining = errors.New("no classes remaining on contract")
)

const pqUniqueViolation = "23505"

// AttendanceRepository handles persistence of attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CheckIn atomically creates the attendance row and, when
// decrementContractID is non-empty, consumes one class credit from that
// contract. Insert runs first: a duplicate key aborts the transaction before
// the decrement can run, so a repeated check-in can never burn a second
// credit. The decrement predicate (status ACTIVE, remaining_classes > 0) is
// evaluated inside the UPDATE itself; zero affected rows means a concurrent
// check-in consumed the last credit, and the whole transaction — attendance
// row included — rolls back.
func (r *AttendanceRepository) CheckIn(ctx context.Context, att *models.Attendance, decrementContractID string) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if att.CheckedInAt.IsZero() {
		att.CheckedInAt = now
	}
	if att.Status == "" {
		att.Status = models.AttendanceStatusCheckedIn
	}
	att.CreatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin check-in: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	const insert = `INSERT INTO attendance (id, studio_id, session_id, member_id, status, checked_in_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := tx.ExecContext(ctx, insert, att.ID, att.StudioID, att.SessionID, att.MemberID, att.Status, att.CheckedInAt, att.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateCheckIn
		}
		return fmt.Errorf("insert attendance: %w", err)
	}

	if decrementContractID != "" {
		const decrement = `UPDATE contracts
SET remaining_classes = remaining_classes - 1, updated_at = $4
WHERE id = $1 AND studio_id = $2 AND status = $3 AND remaining_classes > 0`
		result, err := tx.ExecContext(ctx, decrement, decrementContractID, att.StudioID, models.ContractStatusActive, now)
		if err != nil {
			return fmt.Errorf("decrement remaining classes: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement rows affected: %w", err)
		}
		if affected != 1 {
			return ErrNoClassesRemaining
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit check-in: %w", err)
	}
	committed = true
	return nil
}

const attendanceDetailColumns = `a.id, a.studio_id, a.session_id, a.member_id, a.status, a.checked_in_at, a.created_at,
m.first_name || ' ' || m.last_name AS member_name, s.starts_at AS session_starts_at, s.class_type`

const attendanceDetailJoins = `FROM attendance a
JOIN members m ON m.id = a.member_id
JOIN sessions s ON s.id = a.session_id`

// FindByID returns an attendance record scoped to the studio.
func (r *AttendanceRepository) FindByID(ctx context.Context, studioID, id string) (*models.Attendance, error) {
	const query = `SELECT id, studio_id, session_id, member_id, status, checked_in_at, created_at
FROM attendance WHERE id = $1 AND studio_id = $2`
	var att models.Attendance
	if err := r.db.GetContext(ctx, &att, query, id, studioID); err != nil {
		return nil, err
	}
	return &att, nil
}

// FindDetailByKey returns the record for the natural key with member and
// session context. Used to serve the idempotent duplicate path.
func (r *AttendanceRepository) FindDetailByKey(ctx context.Context, studioID, sessionID, memberID string) (*models.AttendanceDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s
WHERE a.studio_id = $1 AND a.session_id = $2 AND a.member_id = $3`, attendanceDetailColumns, attendanceDetailJoins)
	var detail models.AttendanceDetail
	if err := r.db.GetContext(ctx, &detail, query, studioID, sessionID, memberID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindDetailByID returns one record with member and session context.
func (r *AttendanceRepository) FindDetailByID(ctx context.Context, studioID, id string) (*models.AttendanceDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s
WHERE a.id = $1 AND a.studio_id = $2`, attendanceDetailColumns, attendanceDetailJoins)
	var detail models.AttendanceDetail
	if err := r.db.GetContext(ctx, &detail, query, id, studioID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns attendance records for the studio, newest first.
func (r *AttendanceRepository) List(ctx context.Context, studioID string, filter models.AttendanceFilter) ([]models.AttendanceDetail, int, error) {
	conditions := []string{"a.studio_id = $1"}
	args := []interface{}{studioID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, fmt.Sprintf("a.session_id = $%d", len(args)+1))
		args = append(args, filter.SessionID)
	}
	if filter.MemberID != "" {
		conditions = append(conditions, fmt.Sprintf("a.member_id = $%d", len(args)+1))
		args = append(args, filter.MemberID)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s%s ORDER BY a.created_at DESC LIMIT %d OFFSET %d`,
		attendanceDetailColumns, attendanceDetailJoins, clause, size, offset)

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s%s", attendanceDetailJoins, clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return records, total, nil
}

// UpdateStatus transitions an attendance record, scoped to the studio.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, studioID, id string, status models.AttendanceStatus) error {
	const query = `UPDATE attendance SET status = $3 WHERE id = $1 AND studio_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, studioID, status); err != nil {
		return fmt.Errorf("update attendance status: %w", err)
	}
	return nil
}
