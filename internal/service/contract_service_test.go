package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

const testPlan = "5be5f6b8-9d7e-47b4-b3ba-5f4c3a2e1d03"

type mockContractRepo struct {
	contracts map[string]models.Contract
	created   *models.Contract
	paused    []string
	cancelled []string
}

func (m *mockContractRepo) FindByID(ctx context.Context, studioID, id string) (*models.Contract, error) {
	if c, ok := m.contracts[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockContractRepo) FindDetailByID(ctx context.Context, studioID, id string) (*models.ContractDetail, error) {
	if c, ok := m.contracts[id]; ok {
		return &models.ContractDetail{Contract: c}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockContractRepo) List(ctx context.Context, studioID string, filter models.ContractFilter) ([]models.ContractDetail, int, error) {
	return nil, 0, nil
}

func (m *mockContractRepo) Create(ctx context.Context, contract *models.Contract) error {
	if m.contracts == nil {
		m.contracts = make(map[string]models.Contract)
	}
	if contract.ID == "" {
		contract.ID = "new-contract"
	}
	m.contracts[contract.ID] = *contract
	m.created = contract
	return nil
}

func (m *mockContractRepo) Pause(ctx context.Context, studioID, id string, pausedFrom time.Time, pausedUntil *time.Time) error {
	if c, ok := m.contracts[id]; ok {
		c.Status = models.ContractStatusPaused
		m.contracts[id] = c
	}
	m.paused = append(m.paused, id)
	return nil
}

func (m *mockContractRepo) Cancel(ctx context.Context, studioID, id string, endDate time.Time) error {
	if c, ok := m.contracts[id]; ok {
		c.Status = models.ContractStatusCancelled
		m.contracts[id] = c
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

type mockPlanReader struct {
	plans map[string]*models.Plan
}

func (m *mockPlanReader) FindByID(ctx context.Context, studioID, id string) (*models.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func newContractFixture(repo *mockContractRepo, plan *models.Plan) *ContractService {
	members := &mockMemberReader{members: map[string]*models.Member{
		testMember: {ID: testMember, StudioID: testStudio, Status: models.MemberStatusActive},
	}}
	plans := &mockPlanReader{plans: map[string]*models.Plan{}}
	if plan != nil {
		plans.plans[testPlan] = plan
	}
	return NewContractService(repo, members, plans, validator.New(), zap.NewNop())
}

func TestContractCreateSnapshotsLimitedPlan(t *testing.T) {
	limit := 12
	repo := &mockContractRepo{}
	svc := newContractFixture(repo, &models.Plan{ID: testPlan, Type: models.PlanTypeLimited, ClassLimit: &limit, IsActive: true})

	detail, err := svc.Create(context.Background(), testStudio, CreateContractRequest{
		MemberID:  testMember,
		PlanID:    testPlan,
		StartDate: "2026-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusActive, detail.Status)
	assert.Equal(t, models.PlanTypeLimited, repo.created.PlanTypeSnapshot)
	require.NotNil(t, repo.created.RemainingClasses)
	assert.Equal(t, limit, *repo.created.RemainingClasses)
	require.NotNil(t, repo.created.ClassLimitSnapshot)
	assert.Equal(t, limit, *repo.created.ClassLimitSnapshot)
}

func TestContractCreateUnlimitedCarriesNilCredit(t *testing.T) {
	repo := &mockContractRepo{}
	svc := newContractFixture(repo, &models.Plan{ID: testPlan, Type: models.PlanTypeUnlimited, IsActive: true})

	_, err := svc.Create(context.Background(), testStudio, CreateContractRequest{
		MemberID:  testMember,
		PlanID:    testPlan,
		StartDate: "2026-09-01",
	})
	require.NoError(t, err)
	assert.Nil(t, repo.created.RemainingClasses)
	assert.Nil(t, repo.created.ClassLimitSnapshot)
}

func TestContractCreateRejectsInactivePlan(t *testing.T) {
	repo := &mockContractRepo{}
	svc := newContractFixture(repo, &models.Plan{ID: testPlan, Type: models.PlanTypeUnlimited, IsActive: false})

	_, err := svc.Create(context.Background(), testStudio, CreateContractRequest{
		MemberID:  testMember,
		PlanID:    testPlan,
		StartDate: "2026-09-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestContractPauseRequiresActive(t *testing.T) {
	repo := &mockContractRepo{contracts: map[string]models.Contract{
		"con-1": {ID: "con-1", StudioID: testStudio, Status: models.ContractStatusCancelled},
	}}
	svc := newContractFixture(repo, nil)

	_, err := svc.Pause(context.Background(), testStudio, "con-1", PauseContractRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.paused)
}

func TestContractPause(t *testing.T) {
	repo := &mockContractRepo{contracts: map[string]models.Contract{
		"con-1": {ID: "con-1", StudioID: testStudio, Status: models.ContractStatusActive},
	}}
	svc := newContractFixture(repo, nil)

	detail, err := svc.Pause(context.Background(), testStudio, "con-1", PauseContractRequest{PausedUntil: "2026-10-01"})
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusPaused, detail.Status)
	assert.Contains(t, repo.paused, "con-1")
}

func TestContractCancelRejectsAlreadyCancelled(t *testing.T) {
	repo := &mockContractRepo{contracts: map[string]models.Contract{
		"con-1": {ID: "con-1", StudioID: testStudio, Status: models.ContractStatusCancelled},
	}}
	svc := newContractFixture(repo, nil)

	_, err := svc.Cancel(context.Background(), testStudio, "con-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.cancelled)
}

func TestContractCancelPausedContract(t *testing.T) {
	repo := &mockContractRepo{contracts: map[string]models.Contract{
		"con-1": {ID: "con-1", StudioID: testStudio, Status: models.ContractStatusPaused},
	}}
	svc := newContractFixture(repo, nil)

	detail, err := svc.Cancel(context.Background(), testStudio, "con-1")
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusCancelled, detail.Status)
	assert.Contains(t, repo.cancelled, "con-1")
}
