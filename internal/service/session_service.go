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

type sessionRepository interface {
	FindByID(ctx context.Context, studioID, id string) (*models.Session, error)
	List(ctx context.Context, studioID string, filter models.SessionFilter) ([]models.Session, int, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, studioID, id string, status models.SessionStatus) error
}

// CreateSessionRequest describes session creation.
type CreateSessionRequest struct {
	ClassType string     `json:"class_type" validate:"required"`
	Coach     string     `json:"coach"`
	StartsAt  time.Time  `json:"starts_at" validate:"required"`
	EndsAt    *time.Time `json:"ends_at"`
	Capacity  int        `json:"capacity" validate:"required,gt=0"`
}

// UpdateSessionRequest describes a partial session update.
type UpdateSessionRequest struct {
	ClassType *string    `json:"class_type" validate:"omitempty,min=1"`
	Coach     *string    `json:"coach"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	Capacity  *int       `json:"capacity" validate:"omitempty,gt=0"`
}

// SessionService manages the class schedule.
type SessionService struct {
	repo      sessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(repo sessionRepository, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, validator: validate, logger: logger}
}

// List returns sessions with pagination metadata.
func (s *SessionService) List(ctx context.Context, studioID string, filter models.SessionFilter) ([]models.Session, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, studioID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	page, size := models.NormalizePaging(filter.Page, filter.PageSize)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sessions, pagination, nil
}

// Get returns a session by id.
func (s *SessionService) Get(ctx context.Context, studioID, id string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, studioID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Create schedules a new session.
func (s *SessionService) Create(ctx context.Context, studioID string, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if req.EndsAt != nil && !req.EndsAt.After(req.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}

	session := &models.Session{
		StudioID:  studioID,
		ClassType: req.ClassType,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Capacity:  req.Capacity,
		Status:    models.SessionStatusScheduled,
	}
	if req.Coach != "" {
		session.Coach = &req.Coach
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Update applies the provided fields to a session.
func (s *SessionService) Update(ctx context.Context, studioID, id string, req UpdateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	session, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "cancelled sessions cannot be edited")
	}

	if req.ClassType != nil {
		session.ClassType = *req.ClassType
	}
	if req.Coach != nil {
		session.Coach = req.Coach
	}
	if req.StartsAt != nil {
		session.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		session.EndsAt = req.EndsAt
	}
	if req.Capacity != nil {
		session.Capacity = *req.Capacity
	}
	if session.EndsAt != nil && !session.EndsAt.After(session.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ends_at must be after starts_at")
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return session, nil
}

// Cancel marks a session CANCELLED, blocking future check-ins against it.
func (s *SessionService) Cancel(ctx context.Context, studioID, id string) (*models.Session, error) {
	session, err := s.Get(ctx, studioID, id)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is already cancelled")
	}
	if err := s.repo.UpdateStatus(ctx, studioID, id, models.SessionStatusCancelled); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel session")
	}
	session.Status = models.SessionStatusCancelled
	s.logger.Info("session cancelled", zap.String("studio_id", studioID), zap.String("session_id", id))
	return session, nil
}
