package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type mockPlanRepo struct {
	plans   map[string]models.Plan
	created *models.Plan
	updated *models.Plan
}

func (m *mockPlanRepo) FindByID(ctx context.Context, studioID, id string) (*models.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPlanRepo) List(ctx context.Context, studioID string, filter models.PlanFilter) ([]models.Plan, int, error) {
	return nil, 0, nil
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *models.Plan) error {
	if m.plans == nil {
		m.plans = make(map[string]models.Plan)
	}
	if plan.ID == "" {
		plan.ID = "new-plan"
	}
	m.plans[plan.ID] = *plan
	m.created = plan
	return nil
}

func (m *mockPlanRepo) Update(ctx context.Context, plan *models.Plan) error {
	m.plans[plan.ID] = *plan
	m.updated = plan
	return nil
}

func (m *mockPlanRepo) Deactivate(ctx context.Context, studioID, id string) error {
	if p, ok := m.plans[id]; ok {
		p.IsActive = false
		m.plans[id] = p
	}
	return nil
}

func TestPlanCreateLimitedRequiresClassLimit(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), testStudio, CreatePlanRequest{
		Name:          "10er Karte",
		Type:          models.PlanTypeLimited,
		PriceCents:    12000,
		BillingPeriod: models.BillingPeriodOneTime,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlanCreateUnlimitedRejectsClassLimit(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{}, validator.New(), zap.NewNop())

	limit := 10
	_, err := svc.Create(context.Background(), testStudio, CreatePlanRequest{
		Name:          "Flat",
		Type:          models.PlanTypeUnlimited,
		ClassLimit:    &limit,
		PriceCents:    8900,
		BillingPeriod: models.BillingPeriodMonthly,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlanCreateLimited(t *testing.T) {
	repo := &mockPlanRepo{}
	svc := NewPlanService(repo, validator.New(), zap.NewNop())

	limit := 10
	plan, err := svc.Create(context.Background(), testStudio, CreatePlanRequest{
		Name:          "10er Karte",
		Type:          models.PlanTypeLimited,
		ClassLimit:    &limit,
		PriceCents:    12000,
		BillingPeriod: models.BillingPeriodOneTime,
	})
	require.NoError(t, err)
	assert.True(t, plan.IsActive)
	require.NotNil(t, repo.created.ClassLimit)
	assert.Equal(t, limit, *repo.created.ClassLimit)
}

func TestPlanUpdateTypeSwitchRevalidatesLimit(t *testing.T) {
	limit := 10
	repo := &mockPlanRepo{plans: map[string]models.Plan{
		"plan-1": {ID: "plan-1", StudioID: testStudio, Name: "10er Karte", Type: models.PlanTypeLimited, ClassLimit: &limit, PriceCents: 12000, BillingPeriod: models.BillingPeriodOneTime, IsActive: true},
	}}
	svc := NewPlanService(repo, validator.New(), zap.NewNop())

	unlimited := models.PlanTypeUnlimited
	_, err := svc.Update(context.Background(), testStudio, "plan-1", UpdatePlanRequest{Type: &unlimited})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestPlanDeactivateAlreadyInactive(t *testing.T) {
	repo := &mockPlanRepo{plans: map[string]models.Plan{
		"plan-1": {ID: "plan-1", StudioID: testStudio, Type: models.PlanTypeUnlimited, IsActive: false},
	}}
	svc := NewPlanService(repo, validator.New(), zap.NewNop())

	_, err := svc.Deactivate(context.Background(), testStudio, "plan-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}
