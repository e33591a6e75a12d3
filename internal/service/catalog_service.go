package service

import (
	"context"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type catalogRepository interface {
	ListActiveCoaches(ctx context.Context, studioID string) ([]models.Coach, error)
	ListActiveClassTypes(ctx context.Context, studioID string) ([]models.ClassType, error)
}

// CatalogService serves the active coach and class-type lookups used when
// scheduling sessions.
type CatalogService struct {
	repo catalogRepository
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(repo catalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Coaches returns the studio's active coaches.
func (s *CatalogService) Coaches(ctx context.Context, studioID string) ([]models.Coach, error) {
	coaches, err := s.repo.ListActiveCoaches(ctx, studioID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load coaches")
	}
	return coaches, nil
}

// ClassTypes returns the studio's active class types.
func (s *CatalogService) ClassTypes(ctx context.Context, studioID string) ([]models.ClassType, error) {
	classTypes, err := s.repo.ListActiveClassTypes(ctx, studioID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class types")
	}
	return classTypes, nil
}
