package service

import (
	"context"
	"time"

	"tenantvault-backend/internal/cache"
	"tenantvault-backend/internal/domain"
	"tenantvault-backend/internal/repository"
)

const caseMetricsKey = "metrics:cases"

type metricsService struct {
	cases repository.CaseRepository
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewMetricsService(cases repository.CaseRepository, c cache.Cache, ttl time.Duration) MetricsService {
	return &metricsService{
		cases: cases,
		cache: c,
		ttl:   ttl,
		now:   time.Now,
	}
}

// CaseMetrics returns the lifecycle counts, served from the injected TTL
// cache so the admin page does not hammer the cases table.
func (s *metricsService) CaseMetrics(ctx context.Context) (*CaseMetrics, error) {
	if cached, ok := s.cache.Get(caseMetricsKey); ok {
		if m, ok := cached.(*CaseMetrics); ok {
			return m, nil
		}
	}

	counts, err := s.cases.CountByDeletionStatus(ctx)
	if err != nil {
		return nil, err
	}

	m := &CaseMetrics{
		Active:          counts[domain.DeletionStatusActive],
		PendingDeletion: counts[domain.DeletionStatusPendingDeletion],
		ComputedAt:      s.now(),
	}
	s.cache.Set(caseMetricsKey, m, s.ttl)
	return m, nil
}
