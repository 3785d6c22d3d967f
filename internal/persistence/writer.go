// Package persistence writes normalized metrics to the shared store in
// fixed-size chunks with idempotent upserts.
package persistence

import (
	"context"
	"log"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// DefaultChunkSize is the number of rows per upsert chunk.
const DefaultChunkSize = 500

// Writer persists normalized metrics. Chunks are written in order; on a
// chunk failure the writer stops immediately, leaving earlier chunks
// committed (partial-success contract).
type Writer struct {
	metricStore  storage.MetricStore
	accountStore storage.AccountStore
	warehouse    storage.MetricWarehouse // optional analytics mirror
	chunkSize    int
	now          func() time.Time
}

// WriterOptions contains configuration for creating a Writer.
type WriterOptions struct {
	MetricStore  storage.MetricStore
	AccountStore storage.AccountStore
	Warehouse    storage.MetricWarehouse // optional
	ChunkSize    int                     // default 500
	Now          func() time.Time        // default time.Now
}

// NewWriter creates a new persistence writer.
func NewWriter(opts WriterOptions) *Writer {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Writer{
		metricStore:  opts.MetricStore,
		accountStore: opts.AccountStore,
		warehouse:    opts.Warehouse,
		chunkSize:    chunkSize,
		now:          now,
	}
}

// Write upserts metrics in ordered chunks and reports how many rows were
// committed. Rows without a natural key (missing ad ID or date) are dropped
// up front so one malformed upstream row cannot poison its chunk. On success
// it updates the account's last-synced marker and mirrors rows to the
// warehouse; both are best-effort side effects that never fail the write.
func (w *Writer) Write(ctx context.Context, accountID string, metrics []*domain.NormalizedMetric) domain.WriteStatus {
	metrics = dropKeyless(accountID, metrics)
	if len(metrics) == 0 {
		return domain.WriteStatus{Success: true, InsertedCount: 0}
	}

	inserted := 0
	for start := 0; start < len(metrics); start += w.chunkSize {
		end := start + w.chunkSize
		if end > len(metrics) {
			end = len(metrics)
		}
		chunk := metrics[start:end]

		if err := w.metricStore.UpsertBulk(ctx, chunk); err != nil {
			return domain.WriteStatus{
				Success:       false,
				InsertedCount: inserted,
				Error:         err.Error(),
			}
		}
		inserted += len(chunk)
	}

	if err := w.accountStore.UpdateLastSynced(ctx, accountID, w.now()); err != nil {
		log.Printf("[persistence] update last synced for %s: %v", accountID, err)
	}

	if w.warehouse != nil {
		if err := w.warehouse.InsertBulk(ctx, metrics); err != nil {
			log.Printf("[persistence] warehouse mirror for %s: %v", accountID, err)
		}
	}

	return domain.WriteStatus{Success: true, InsertedCount: inserted}
}

// dropKeyless filters out rows missing the (ad_id, date_start) key the
// stores require. Returns the input unchanged when every row is keyed.
func dropKeyless(accountID string, metrics []*domain.NormalizedMetric) []*domain.NormalizedMetric {
	keyed := metrics[:0:0]
	dropped := 0
	for _, m := range metrics {
		if m == nil || m.AdID == "" || m.DateStart == "" {
			dropped++
			continue
		}
		keyed = append(keyed, m)
	}
	if dropped == 0 {
		return metrics
	}
	log.Printf("[persistence] account %s: dropped %d rows without an ad/date key", accountID, dropped)
	return keyed
}
