package memory

import (
	"context"
	"sort"
	"sync"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// MetricStore is an in-memory implementation of storage.MetricStore.
// Rows are keyed by the natural composite key (ad_id, date_start, hour);
// upserting an existing key replaces the row.
type MetricStore struct {
	mu   sync.RWMutex
	data map[domain.MetricKey]*domain.NormalizedMetric
}

// NewMetricStore creates a new in-memory metric store.
func NewMetricStore() *MetricStore {
	return &MetricStore{
		data: make(map[domain.MetricKey]*domain.NormalizedMetric),
	}
}

// UpsertBulk inserts or updates metrics keyed by (ad_id, date_start, hour).
func (s *MetricStore) UpsertBulk(_ context.Context, metrics []*domain.NormalizedMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	for _, m := range metrics {
		if m == nil || m.AdID == "" || m.DateStart == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range metrics {
		cp := *m
		s.data[m.Key()] = &cp
	}
	return nil
}

// GetByAccount retrieves all metrics for an account, ordered by
// (date_start, hour, ad_id) ASC.
func (s *MetricStore) GetByAccount(_ context.Context, accountID string) ([]*domain.NormalizedMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NormalizedMetric
	for _, m := range s.data {
		if m.AccountID == accountID {
			cp := *m
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.DateStart != b.DateStart {
			return a.DateStart < b.DateStart
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.AdID < b.AdID
	})

	return result, nil
}

// CountByAccount returns the number of stored rows for an account.
func (s *MetricStore) CountByAccount(_ context.Context, accountID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.data {
		if m.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

var _ storage.MetricStore = (*MetricStore)(nil)
