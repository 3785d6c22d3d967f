package postgres

import (
	"context"
	"fmt"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// MetricStore implements storage.MetricStore using PostgreSQL.
// Upserts are keyed on (ad_id, date_start, hour) so re-ingesting an
// overlapping date range replaces rows instead of duplicating them.
type MetricStore struct {
	pool *Pool
}

// NewMetricStore creates a new MetricStore.
func NewMetricStore(pool *Pool) *MetricStore {
	return &MetricStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MetricStore = (*MetricStore)(nil)

// UpsertBulk inserts or updates metrics keyed by (ad_id, date_start, hour).
// The batch runs in a single transaction: either every row in the slice is
// applied or none is, which keeps chunk-level accounting exact.
func (s *MetricStore) UpsertBulk(ctx context.Context, metrics []*domain.NormalizedMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	for _, m := range metrics {
		if m == nil || m.AdID == "" || m.DateStart == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO metrics (
			account_id, campaign_id, campaign_name, adset_id, ad_id, ad_name,
			date_start, hour, spend, impressions, reach, clicks, leads,
			cpl, cpm, frequency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (ad_id, date_start, hour) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			campaign_id = EXCLUDED.campaign_id,
			campaign_name = EXCLUDED.campaign_name,
			adset_id = EXCLUDED.adset_id,
			ad_name = EXCLUDED.ad_name,
			spend = EXCLUDED.spend,
			impressions = EXCLUDED.impressions,
			reach = EXCLUDED.reach,
			clicks = EXCLUDED.clicks,
			leads = EXCLUDED.leads,
			cpl = EXCLUDED.cpl,
			cpm = EXCLUDED.cpm,
			frequency = EXCLUDED.frequency
	`

	for _, m := range metrics {
		_, err := tx.Exec(ctx, query,
			m.AccountID, m.CampaignID, m.CampaignName, m.AdsetID, m.AdID, m.AdName,
			m.DateStart, m.Hour, m.Spend, m.Impressions, m.Reach, m.Clicks, m.Leads,
			m.CPL, m.CPM, m.Frequency,
		)
		if err != nil {
			return fmt.Errorf("upsert metric %s/%s/%d: %w", m.AdID, m.DateStart, m.Hour, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}
	return nil
}

// GetByAccount retrieves all metrics for an account, ordered by
// (date_start, hour, ad_id) ASC.
func (s *MetricStore) GetByAccount(ctx context.Context, accountID string) ([]*domain.NormalizedMetric, error) {
	query := `
		SELECT account_id, campaign_id, campaign_name, adset_id, ad_id, ad_name,
		       date_start, hour, spend, impressions, reach, clicks, leads,
		       cpl, cpm, frequency
		FROM metrics
		WHERE account_id = $1
		ORDER BY date_start ASC, hour ASC, ad_id ASC
	`

	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("get metrics by account: %w", err)
	}
	defer rows.Close()

	var result []*domain.NormalizedMetric
	for rows.Next() {
		var m domain.NormalizedMetric
		err := rows.Scan(
			&m.AccountID, &m.CampaignID, &m.CampaignName, &m.AdsetID, &m.AdID, &m.AdName,
			&m.DateStart, &m.Hour, &m.Spend, &m.Impressions, &m.Reach, &m.Clicks, &m.Leads,
			&m.CPL, &m.CPM, &m.Frequency,
		)
		if err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return result, nil
}

// CountByAccount returns the number of stored rows for an account.
func (s *MetricStore) CountByAccount(ctx context.Context, accountID string) (int, error) {
	query := `SELECT COUNT(*) FROM metrics WHERE account_id = $1`

	var count int
	if err := s.pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count metrics by account: %w", err)
	}
	return count, nil
}
