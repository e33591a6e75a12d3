package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/gymstack/studio-ops-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryCheckInDecrementsCredit(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(sqlmock.AnyArg(), "studio-1", "sess-1", "mem-1", models.AttendanceStatusCheckedIn, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts")).
		WithArgs("con-1", "studio-1", models.ContractStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	att := &models.Attendance{StudioID: "studio-1", SessionID: "sess-1", MemberID: "mem-1"}
	err := repo.CheckIn(context.Background(), att, "con-1")
	require.NoError(t, err)
	require.NotEmpty(t, att.ID)
	require.Equal(t, models.AttendanceStatusCheckedIn, att.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCheckInUnlimitedSkipsDecrement(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(sqlmock.AnyArg(), "studio-1", "sess-1", "mem-1", models.AttendanceStatusCheckedIn, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	att := &models.Attendance{StudioID: "studio-1", SessionID: "sess-1", MemberID: "mem-1"}
	err := repo.CheckIn(context.Background(), att, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCheckInDuplicateRollsBack(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(sqlmock.AnyArg(), "studio-1", "sess-1", "mem-1", models.AttendanceStatusCheckedIn, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: pqUniqueViolation})
	mock.ExpectRollback()

	att := &models.Attendance{StudioID: "studio-1", SessionID: "sess-1", MemberID: "mem-1"}
	err := repo.CheckIn(context.Background(), att, "con-1")
	require.ErrorIs(t, err, ErrDuplicateCheckIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCheckInNoCreditRollsBack(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(sqlmock.AnyArg(), "studio-1", "sess-1", "mem-1", models.AttendanceStatusCheckedIn, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts")).
		WithArgs("con-1", "studio-1", models.ContractStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	att := &models.Attendance{StudioID: "studio-1", SessionID: "sess-1", MemberID: "mem-1"}
	err := repo.CheckIn(context.Background(), att, "con-1")
	require.ErrorIs(t, err, ErrNoClassesRemaining)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "studio_id", "session_id", "member_id", "status", "checked_in_at", "created_at"}).
		AddRow("att-1", "studio-1", "sess-1", "mem-1", models.AttendanceStatusCheckedIn, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, studio_id, session_id, member_id, status, checked_in_at, created_at")).
		WithArgs("att-1", "studio-1").
		WillReturnRows(rows)

	att, err := repo.FindByID(context.Background(), "studio-1", "att-1")
	require.NoError(t, err)
	require.Equal(t, "att-1", att.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE attendance SET status = $3 WHERE id = $1 AND studio_id = $2")).
		WithArgs("att-1", "studio-1", models.AttendanceStatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "studio-1", "att-1", models.AttendanceStatusCancelled)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
