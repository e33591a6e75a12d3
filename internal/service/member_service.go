package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type memberRepository interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Member, error)
	List(ctx context.Context, studioID string, filter models.MemberFilter) ([]models.Member, int, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	UpdateStatus(ctx context.Context, studioID, id string, status models.MemberStatus) error
}

// CreateMemberRequest describes member creation.
type CreateMemberRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

// UpdateMemberRequest describes a partial member update.
type UpdateMemberRequest struct {
	FirstName *string              `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string              `json:"last_name" validate:"omitempty,min=1"`
	Email     *string              `json:"email" validate:"omitempty,email"`
	Phone     *string              `json:"phone"`
	Status    *models.MemberStatus `json:"status"`
}

// MemberService manages the member roster.
type MemberService struct {
	repo      memberRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMemberService constructs MemberService.
func NewMemberService(repo memberRepository, validate *validator.Validate, logger *zap.Logger) *MemberService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{repo: repo, validator: validate, logger: logger}
}

// List returns members with pagination metadata.
func (s *MemberService) List(ctx context.Context, studioID string, filter models.MemberFilter) ([]models.Member, *models.Pagination, error) {
	members, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return members, pagination, nil
}

// Get returns a member by id.
func (s *MemberService) Get(ctx context.Context, studioID, id string) (*models.Member, error) {
	member, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	return member, nil
}

// Create registers a new ACTIVE member.
func (s *MemberService) Create(ctx context.Context, studioID string, req CreateMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	member := &models.Member{
		StudioID:  studioID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    models.MemberStatusActive,
	}
	if req.Email != "" {
		member.Email = &req.Email
	}
	if req.Phone != "" {
		member.Phone = &req.Phone
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create member")
	}
	return member, nil
}

// Update applies the provided fields to a member.
func (s *MemberService) Update(ctx context.Context, studioID, id string, req UpdateMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid status, expected: ACTIVE, FROZEN, INACTIVE")
	}

	member, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Email != nil {
		member.Email = req.Email
	}
	if req.Phone != nil {
		member.Phone = req.Phone
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member")
	}
	return member, nil
}

// Deactivate marks a member INACTIVE, blocking future check-ins.
func (s *MemberService) Deactivate(ctx context.Context, studioID, id string) (*models.Member, error) {
	member, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	if member.Status == models.MemberStatusInactive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "member is already inactive")
	}
	if err := s.repo.UpdateStatus(ctx, studioID, id, models.MemberStatusInactive); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate member")
	}
	member.Status = models.MemberStatusInactive
	s.logger.Info("member deactivated", zap.String("studio_id", studioID), zap.String("member_id", id))
	return member, nil
}
