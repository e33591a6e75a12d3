package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/gymstack/studio-ops-api/internal/models"
)

func newContractRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func contractRows() *sqlmock.Rows {
	limit := 10
	return sqlmock.NewRows([]string{
		"id", "studio_id", "member_id", "plan_id", "status", "plan_type_snapshot", "class_limit_snapshot",
		"remaining_classes", "start_date", "end_date", "paused_from", "paused_until", "created_at", "updated_at",
	}).AddRow("con-1", "studio-1", "mem-1", "plan-1", models.ContractStatusActive, models.PlanTypeLimited, limit,
		limit, time.Now(), nil, nil, nil, time.Now(), time.Now())
}

func TestContractRepositoryListActiveByMember(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contracts WHERE studio_id = $1 AND member_id = $2 AND status = $3")).
		WithArgs("studio-1", "mem-1", models.ContractStatusActive).
		WillReturnRows(contractRows())

	contracts, err := repo.ListActiveByMember(context.Background(), "studio-1", "mem-1")
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	require.Equal(t, models.PlanTypeLimited, contracts[0].PlanTypeSnapshot)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contracts")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	limit := 8
	contract := &models.Contract{
		StudioID:           "studio-1",
		MemberID:           "mem-1",
		PlanID:             "plan-1",
		Status:             models.ContractStatusActive,
		PlanTypeSnapshot:   models.PlanTypeLimited,
		ClassLimitSnapshot: &limit,
		RemainingClasses:   &limit,
		StartDate:          time.Now(),
	}
	err := repo.Create(context.Background(), contract)
	require.NoError(t, err)
	require.NotEmpty(t, contract.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryCancelPreservesEndDate(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts SET status = $3, end_date = COALESCE(end_date, $4), updated_at = $5")).
		WithArgs("con-1", "studio-1", models.ContractStatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), "studio-1", "con-1", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryPause(t *testing.T) {
	db, mock, cleanup := newContractRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts SET status = $3, paused_from = $4, paused_until = $5, updated_at = $6")).
		WithArgs("con-1", "studio-1", models.ContractStatusPaused, sqlmock.AnyArg(), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Pause(context.Background(), "studio-1", "con-1", time.Now().UTC(), nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
