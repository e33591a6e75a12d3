package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gymstack/studio-ops-api/internal/models"
)

// CatalogRepository serves the read-only coach and class-type lookups.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListActiveCoaches returns the studio's active coaches ordered by name.
func (r *CatalogRepository) ListActiveCoaches(ctx context.Context, studioID string) ([]models.Coach, error) {
	const query = `SELECT id, studio_id, name, is_active, created_at, updated_at
FROM coaches WHERE studio_id = $1 AND is_active = TRUE ORDER BY name`
	var coaches []models.Coach
	if err := r.db.SelectContext(ctx, &coaches, query, studioID); err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return coaches, nil
}

// ListActiveClassTypes returns the studio's active class types ordered by name.
func (r *CatalogRepository) ListActiveClassTypes(ctx context.Context, studioID string) ([]models.ClassType, error) {
	const query = `SELECT id, studio_id, name, default_capacity, duration_minutes, is_active, created_at, updated_at
FROM class_types WHERE studio_id = $1 AND is_active = TRUE ORDER BY name`
	var classTypes []models.ClassType
	if err := r.db.SelectContext(ctx, &classTypes, query, studioID); err != nil {
		return nil, fmt.Errorf("list class types: %w", err)
	}
	return classTypes, nil
}
