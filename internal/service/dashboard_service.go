package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type dashboardRepository interface {
	Summary(ctx context.Context, studioID string, from, to time.Time) (*models.DashboardSummary, error)
}

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService serves studio summary aggregates with a best-effort
// Redis cache in front of the aggregate queries.
type DashboardService struct {
	repo     dashboardRepository
	cache    cacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(repo dashboardRepository, cache cacheRepository, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Summary returns aggregates for the given date range. Empty bounds
// default to today. Cache failures fall through to the database.
func (s *DashboardService) Summary(ctx context.Context, studioID, fromStr, toStr string) (*models.DashboardSummary, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	from := today
	if fromStr != "" {
		parsed, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	to := today
	if toStr != "" {
		parsed, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD")
		}
		to = parsed
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to date must not be before from date")
	}

	key := fmt.Sprintf("dashboard:%s:%s:%s", studioID, from.Format(dateLayout), to.Format(dateLayout))
	if s.cache != nil {
		var cached models.DashboardSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if err != appErrors.ErrCacheMiss {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	summary, err := s.repo.Summary(ctx, studioID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard summary")
	}
	summary.From = from.Format(dateLayout)
	summary.To = to.Format(dateLayout)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}
