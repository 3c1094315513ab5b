package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcastrillonv/parqueadero/internal/cache"
	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) RevenueByDay(ctx context.Context, from, to time.Time) ([]repository.RevenueRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RevenueRow), args.Error(1)
}

func (m *MockReportRepository) PaymentStats(ctx context.Context, now time.Time) (*repository.PaymentStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PaymentStats), args.Error(1)
}

func (m *MockReportRepository) Occupancy(ctx context.Context) (*repository.OccupancySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.OccupancySummary), args.Error(1)
}

func TestReportService_RevenueByDay(t *testing.T) {
	t.Run("defaults to the last 30 days", func(t *testing.T) {
		reports := &MockReportRepository{}
		reports.On("RevenueByDay", mock.Anything, fixedNow.AddDate(0, 0, -30), fixedNow).
			Return([]repository.RevenueRow{
				{Day: fixedNow.Truncate(24 * time.Hour), Count: 3, Total: decimal.NewFromInt(27000)},
			}, nil)

		svc := NewReportService(reports).WithClock(func() time.Time { return fixedNow })

		rows, err := svc.RevenueByDay(context.Background(), nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 3, rows[0].Count)
		reports.AssertExpectations(t)
	})

	t.Run("explicit range", func(t *testing.T) {
		from := fixedNow.AddDate(0, -1, 0)
		to := fixedNow

		reports := &MockReportRepository{}
		reports.On("RevenueByDay", mock.Anything, from, to).
			Return([]repository.RevenueRow{}, nil)

		svc := NewReportService(reports).WithClock(func() time.Time { return fixedNow })

		_, err := svc.RevenueByDay(context.Background(), &from, &to)
		require.NoError(t, err)
		reports.AssertExpectations(t)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		from := fixedNow
		to := fixedNow.AddDate(0, 0, -1)

		svc := NewReportService(&MockReportRepository{})

		_, err := svc.RevenueByDay(context.Background(), &from, &to)
		require.ErrorIs(t, err, domain.ErrValidationFailed)
	})
}

func TestReportService_PaymentStats(t *testing.T) {
	reports := &MockReportRepository{}
	reports.On("PaymentStats", mock.Anything, fixedNow).Return(&repository.PaymentStats{
		TodayTotal: decimal.NewFromInt(54000),
		TodayCount: 6,
		ByMethod: []repository.MethodTotal{
			{Method: domain.MethodCash, Count: 4, Total: decimal.NewFromInt(36000)},
			{Method: domain.MethodCard, Count: 2, Total: decimal.NewFromInt(18000)},
		},
	}, nil)

	svc := NewReportService(reports).WithClock(func() time.Time { return fixedNow })

	stats, err := svc.PaymentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TodayCount)
	assert.Len(t, stats.ByMethod, 2)
}

func TestReportService_Occupancy(t *testing.T) {
	reports := &MockReportRepository{}
	reports.On("Occupancy", mock.Anything).Return(&repository.OccupancySummary{
		Total:     50,
		Available: 32,
		Occupied:  15,
		Reserved:  2,
	}, nil)

	svc := NewReportService(reports)

	occ, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, occ.Total)
}

// memoryCache is an in-process stand-in for the Postgres report cache
type memoryCache struct {
	entries map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if raw, ok := c.entries[key]; ok {
		return raw, nil
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func TestReportService_Occupancy_CachesResult(t *testing.T) {
	reports := &MockReportRepository{}
	reports.On("Occupancy", mock.Anything).Return(&repository.OccupancySummary{
		Total:    50,
		Occupied: 15,
	}, nil).Once()

	svc := NewReportService(reports).
		WithCache(&memoryCache{entries: map[string][]byte{}}, 30*time.Second)

	first, err := svc.Occupancy(context.Background())
	require.NoError(t, err)

	// Second call is served from the cache, the repository saw one query.
	second, err := svc.Occupancy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Occupied, second.Occupied)
	reports.AssertNumberOfCalls(t, "Occupancy", 1)
}

func TestReportService_RevenueByDay_CachesPerRange(t *testing.T) {
	from := fixedNow.AddDate(0, 0, -7)
	to := fixedNow

	reports := &MockReportRepository{}
	reports.On("RevenueByDay", mock.Anything, from, to).
		Return([]repository.RevenueRow{
			{Day: fixedNow.Truncate(24 * time.Hour), Count: 2, Total: decimal.NewFromInt(18000)},
		}, nil).Once()

	svc := NewReportService(reports).
		WithClock(func() time.Time { return fixedNow }).
		WithCache(&memoryCache{entries: map[string][]byte{}}, 30*time.Second)

	_, err := svc.RevenueByDay(context.Background(), &from, &to)
	require.NoError(t, err)

	rows, err := svc.RevenueByDay(context.Background(), &from, &to)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Count)
	reports.AssertNumberOfCalls(t, "RevenueByDay", 1)
}
