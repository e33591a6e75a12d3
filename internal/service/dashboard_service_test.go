package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gymstack/studio-ops-api/internal/models"
	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
)

type mockDashboardRepo struct {
	summary *models.DashboardSummary
	hits    int
}

func (m *mockDashboardRepo) Summary(ctx context.Context, studioID string, from, to time.Time) (*models.DashboardSummary, error) {
	m.hits++
	s := *m.summary
	return &s, nil
}

type mockCache struct {
	store map[string][]byte
	sets  int
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if raw, ok := m.store[key]; ok {
		summary := dest.(*models.DashboardSummary)
		summary.RevenueCentsTotal = int64(len(raw))
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = []byte("cached")
	m.sets++
	return nil
}

func TestDashboardSummaryPopulatesCache(t *testing.T) {
	repo := &mockDashboardRepo{summary: &models.DashboardSummary{RevenueCentsTotal: 5000}}
	cache := &mockCache{}
	svc := NewDashboardService(repo, cache, time.Minute, zap.NewNop())

	summary, err := svc.Summary(context.Background(), testStudio, "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), summary.RevenueCentsTotal)
	assert.Equal(t, "2026-08-01", summary.From)
	assert.Equal(t, "2026-08-31", summary.To)
	assert.Equal(t, 1, repo.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardSummaryServesFromCache(t *testing.T) {
	repo := &mockDashboardRepo{summary: &models.DashboardSummary{}}
	cache := &mockCache{store: map[string][]byte{
		"dashboard:" + testStudio + ":2026-08-01:2026-08-31": []byte("cached"),
	}}
	svc := NewDashboardService(repo, cache, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background(), testStudio, "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.Zero(t, repo.hits)
}

func TestDashboardSummaryRejectsInvertedRange(t *testing.T) {
	svc := NewDashboardService(&mockDashboardRepo{summary: &models.DashboardSummary{}}, nil, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background(), testStudio, "2026-08-31", "2026-08-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardSummaryRejectsBadDate(t *testing.T) {
	svc := NewDashboardService(&mockDashboardRepo{summary: &models.DashboardSummary{}}, nil, time.Minute, zap.NewNop())

	_, err := svc.Summary(context.Background(), testStudio, "31-08-2026", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
