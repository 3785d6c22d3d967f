package domain

// NormalizedMetric is one hourly performance row derived from a RawInsightRow.
// The natural key for persistence is (AdID, DateStart, Hour); re-ingesting an
// overlapping range replaces prior values for the key instead of duplicating.
type NormalizedMetric struct {
	AccountID    string
	CampaignID   string
	CampaignName string
	AdsetID      string
	AdID         string
	AdName       string
	DateStart    string // YYYY-MM-DD
	Hour         int    // 0-23, advertiser time zone
	Spend        float64
	Impressions  int64
	Reach        int64
	Clicks       int64
	Leads        int64
	CPL          float64 // spend/leads, 0 when leads == 0
	CPM          float64 // spend/impressions*1000, 0 when impressions == 0
	Frequency    float64 // impressions/reach, 0 when reach == 0
}

// MetricKey is the natural composite key of a NormalizedMetric.
type MetricKey struct {
	AdID      string
	DateStart string
	Hour      int
}

// Key returns the natural key of the metric.
func (m *NormalizedMetric) Key() MetricKey {
	return MetricKey{AdID: m.AdID, DateStart: m.DateStart, Hour: m.Hour}
}

// WriteStatus is the outcome of a chunked metric write. Partial success is
// possible: InsertedCount covers the chunks committed before a failure.
type WriteStatus struct {
	Success       bool
	InsertedCount int
	Error         string
}
