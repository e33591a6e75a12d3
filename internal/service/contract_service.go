package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type contractRepository interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Contract, error)
	FindDetailByID(ctx context.Context, studioID, id string) (*models.ContractDetail, error)
	List(ctx context.Context, studioID string, filter models.ContractFilter) ([]models.ContractDetail, int, error)
	Create(ctx context.Context, contract *models.Contract) error
	Pause(ctx context.Context, studioID, id string, pausedFrom time.Time, pausedUntil *time.Time) error
	Cancel(ctx context.Context, studioID, id string, endDate time.Time) error
}

type planReader interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Plan, error)
}

const dateLayout = "2006-01-02"

// CreateContractRequest describes contract creation.
type CreateContractRequest struct {
	MemberID  string `json:"member_id" validate:"required,uuid"`
	PlanID    string `json:"plan_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// PauseContractRequest describes an optional pause horizon.
type PauseContractRequest struct {
	PausedUntil string `json:"paused_until" validate:"omitempty,datetime=2006-01-02"`
}

// ContractService drives the contract lifecycle.
type ContractService struct {
	repo      contractRepository
	members   memberReader
	plans     planReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContractService constructs ContractService.
func NewContractService(repo contractRepository, members memberReader, plans planReader, validate *validator.Validate, logger *zap.Logger) *ContractService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{repo: repo, members: members, plans: plans, validator: validate, logger: logger}
}

// List returns contracts with pagination metadata.
func (s *ContractService) List(ctx context.Context, studioID string, filter models.ContractFilter) ([]models.ContractDetail, *models.Pagination, error) {
	contracts, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contracts")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return contracts, pagination, nil
}

// Create binds a member to a plan, snapshotting the plan's type and class
// limit so later plan edits never touch this contract. LIMITED snapshots
// start with remaining_classes = class_limit; UNLIMITED contracts carry
// null and are never decremented.
func (s *ContractService) Create(ctx context.Context, studioID string, req CreateContractRequest) (*models.ContractDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contract payload")
	}

	if _, err := s.members.FindByID(ctx, studioID, req.MemberID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}

	plan, err := s.plans.FindByID(ctx, studioID, req.PlanID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if !plan.IsActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "plan is not active")
	}
	if plan.Type == models.PlanTypeLimited && (plan.ClassLimit == nil || *plan.ClassLimit <= 0) {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "plan is misconfigured: LIMITED plan has no valid class_limit")
	}

	startDate, _ := time.Parse(dateLayout, req.StartDate)
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, _ := time.Parse(dateLayout, req.EndDate)
		endDate = &parsed
	}

	var remaining *int
	if plan.Type == models.PlanTypeLimited {
		limit := *plan.ClassLimit
		remaining = &limit
	}

	contract := &models.Contract{
		StudioID:           studioID,
		MemberID:           req.MemberID,
		PlanID:             req.PlanID,
		Status:             models.ContractStatusActive,
		PlanTypeSnapshot:   plan.Type,
		ClassLimitSnapshot: plan.ClassLimit,
		RemainingClasses:   remaining,
		StartDate:          startDate,
		EndDate:            endDate,
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contract")
	}

	detail, err := s.repo.FindDetailByID(ctx, studioID, contract.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract detail")
	}

	s.logger.Info("contract created",
		zap.String("studio_id", studioID),
		zap.String("contract_id", contract.ID),
		zap.String("plan_type", string(plan.Type)),
	)
	return detail, nil
}

// Pause suspends an ACTIVE contract. No credit recalculation happens.
func (s *ContractService) Pause(ctx context.Context, studioID, id string, req PauseContractRequest) (*models.ContractDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pause payload")
	}

	contract, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	if contract.Status != models.ContractStatusActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only ACTIVE contracts can be paused")
	}

	var pausedUntil *time.Time
	if req.PausedUntil != "" {
		parsed, _ := time.Parse(dateLayout, req.PausedUntil)
		pausedUntil = &parsed
	}

	if err := s.repo.Pause(ctx, studioID, id, today(), pausedUntil); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to pause contract")
	}
	return s.detail(ctx, studioID, id)
}

// Cancel terminates any non-CANCELLED contract, defaulting the end date to
// today when unset. No credit recalculation happens.
func (s *ContractService) Cancel(ctx context.Context, studioID, id string) (*models.ContractDetail, error) {
	contract, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	if contract.Status == models.ContractStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "contract is already cancelled")
	}

	if err := s.repo.Cancel(ctx, studioID, id, today()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel contract")
	}
	return s.detail(ctx, studioID, id)
}

// Get loads one contract with member and plan names.
func (s *ContractService) Get(ctx context.Context, studioID, id string) (*models.ContractDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	return detail, nil
}

func (s *ContractService) detail(ctx context.Context, studioID, id string) (*models.ContractDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, studioID, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract detail")
	}
	return detail, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
