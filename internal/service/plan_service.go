package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type planRepository interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Plan, error)
	List(ctx context.Context, studioID string, filter models.PlanFilter) ([]models.Plan, int, error)
	Create(ctx context.Context, plan *models.Plan) error
	Update(ctx context.Context, plan *models.Plan) error
	Deactivate(ctx context.Context, studioID, id string) error
}

// CreatePlanRequest describes plan creation.
type CreatePlanRequest struct {
	Name          string               `json:"name" validate:"required"`
	Type          models.PlanType      `json:"type" validate:"required"`
	ClassLimit    *int                 `json:"class_limit"`
	PriceCents    int                  `json:"price_cents" validate:"required,gt=0"`
	BillingPeriod models.BillingPeriod `json:"billing_period" validate:"required"`
}

// UpdatePlanRequest describes a partial plan update.
type UpdatePlanRequest struct {
	Name          *string               `json:"name" validate:"omitempty,min=1"`
	Type          *models.PlanType      `json:"type"`
	ClassLimit    *int                  `json:"class_limit"`
	PriceCents    *int                  `json:"price_cents" validate:"omitempty,gt=0"`
	BillingPeriod *models.BillingPeriod `json:"billing_period"`
	IsActive      *bool                 `json:"is_active"`
}

// PlanService manages membership plan templates.
type PlanService struct {
	repo      planRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs PlanService.
func NewPlanService(repo planRepository, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, validator: validate, logger: logger}
}

// List returns plans with pagination metadata.
func (s *PlanService) List(ctx context.Context, studioID string, filter models.PlanFilter) ([]models.Plan, *models.Pagination, error) {
	plans, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return plans, pagination, nil
}

// Get returns a plan by id.
func (s *PlanService) Get(ctx context.Context, studioID, id string) (*models.Plan, error) {
	plan, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	return plan, nil
}

// Create registers a new plan template.
func (s *PlanService) Create(ctx context.Context, studioID string, req CreatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	if err := validateClassLimit(req.Type, req.ClassLimit); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		StudioID:      studioID,
		Name:          req.Name,
		Type:          req.Type,
		ClassLimit:    req.ClassLimit,
		PriceCents:    req.PriceCents,
		BillingPeriod: req.BillingPeriod,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	return plan, nil
}

// Update applies the provided fields. Existing contracts carry snapshots and
// are never retroactively changed by a plan edit.
func (s *PlanService) Update(ctx context.Context, studioID, id string, req UpdatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}

	plan, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Type != nil {
		plan.Type = *req.Type
	}
	if req.ClassLimit != nil || req.Type != nil {
		if req.ClassLimit != nil {
			plan.ClassLimit = req.ClassLimit
		}
		if err := validateClassLimit(plan.Type, plan.ClassLimit); err != nil {
			return nil, err
		}
	}
	if req.PriceCents != nil {
		plan.PriceCents = *req.PriceCents
	}
	if req.BillingPeriod != nil {
		plan.BillingPeriod = *req.BillingPeriod
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if !plan.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid type, expected: UNLIMITED, LIMITED")
	}
	if !plan.BillingPeriod.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid billing_period, expected: MONTHLY, YEARLY, ONE_TIME")
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update plan")
	}
	return plan, nil
}

// Deactivate blocks new contracts from referencing the plan.
func (s *PlanService) Deactivate(ctx context.Context, studioID, id string) (*models.Plan, error) {
	plan, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "plan is already inactive")
	}
	if err := s.repo.Deactivate(ctx, studioID, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate plan")
	}
	plan.IsActive = false
	s.logger.Info("plan deactivated", zap.String("studio_id", studioID), zap.String("plan_id", id))
	return plan, nil
}

// validateClassLimit enforces the LIMITED/UNLIMITED class_limit coupling.
func validateClassLimit(planType models.PlanType, classLimit *int) error {
	if !planType.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid type, expected: UNLIMITED, LIMITED")
	}
	if planType == models.PlanTypeLimited && (classLimit == nil || *classLimit <= 0) {
		return appErrors.Clone(appErrors.ErrValidation, "class_limit must be > 0 when type is LIMITED")
	}
	if planType == models.PlanTypeUnlimited && classLimit != nil {
		return appErrors.Clone(appErrors.ErrValidation, "class_limit must be null when type is UNLIMITED")
	}
	return nil
}
