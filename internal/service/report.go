package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// ReportCache holds serialized reporting aggregates with a TTL, so
// dashboard polling is served without re-running the aggregate queries.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReportService exposes the reporting aggregates
type ReportService struct {
	reports  repository.ReportRepositoryInterface
	cache    ReportCache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewReportService(reports repository.ReportRepositoryInterface) *ReportService {
	return &ReportService{reports: reports, now: time.Now}
}

// WithClock overrides the time source, used by tests
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// WithCache serves occupancy and revenue reports from a cache
func (s *ReportService) WithCache(cache ReportCache, ttl time.Duration) *ReportService {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// RevenueByDay returns settled revenue per day. Without an explicit range it
// covers the last 30 days.
func (s *ReportService) RevenueByDay(ctx context.Context, from, to *time.Time) ([]repository.RevenueRow, error) {
	end := s.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}

	if end.Before(start) {
		return nil, domain.ErrValidationFailed.WithMessage("to precedes from")
	}

	key := fmt.Sprintf("report:revenue:%s:%s", start.Format("20060102"), end.Format("20060102"))
	var cached []repository.RevenueRow
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	rows, err := s.reports.RevenueByDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, rows)
	return rows, nil
}

// PaymentStats returns the dashboard payment summary
func (s *ReportService) PaymentStats(ctx context.Context) (*repository.PaymentStats, error) {
	return s.reports.PaymentStats(ctx, s.now())
}

// Occupancy returns the grid slot counts by state
func (s *ReportService) Occupancy(ctx context.Context) (*repository.OccupancySummary, error) {
	const key = "report:occupancy"

	var cached repository.OccupancySummary
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	summary, err := s.reports.Occupancy(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, summary)
	return summary, nil
}

// fromCache loads a cached report into out. Any cache failure reads as a
// miss, the aggregate query is the fallback.
func (s *ReportService) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, out) == nil
}

func (s *ReportService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	_ = s.cache.Set(ctx, key, raw, s.cacheTTL)
}
