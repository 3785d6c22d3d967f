package clickhouse

import (
	"context"
	"fmt"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// MetricWarehouse implements storage.MetricWarehouse using ClickHouse.
// The backing table is a ReplacingMergeTree ordered by (ad_id, date_start, hour),
// so repeated inserts of the same key collapse to the latest row at merge time.
type MetricWarehouse struct {
	conn *Conn
}

// NewMetricWarehouse creates a new MetricWarehouse.
func NewMetricWarehouse(conn *Conn) *MetricWarehouse {
	return &MetricWarehouse{conn: conn}
}

// Compile-time interface check.
var _ storage.MetricWarehouse = (*MetricWarehouse)(nil)

// InsertBulk appends metrics to the warehouse.
func (w *MetricWarehouse) InsertBulk(ctx context.Context, metrics []*domain.NormalizedMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(ctx, `
		INSERT INTO hourly_metrics (
			account_id, campaign_id, campaign_name, adset_id, ad_id, ad_name,
			date_start, hour, spend, impressions, reach, clicks, leads,
			cpl, cpm, frequency
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range metrics {
		err = batch.Append(
			m.AccountID, m.CampaignID, m.CampaignName, m.AdsetID, m.AdID, m.AdName,
			m.DateStart, uint8(m.Hour), m.Spend,
			uint64(m.Impressions), uint64(m.Reach), uint64(m.Clicks), uint64(m.Leads),
			m.CPL, m.CPM, m.Frequency,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}
