package domain

// InsightAction is a typed action count attached to a raw insight row.
// The ads API reports counts as strings ("3", "12.0").
type InsightAction struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// RawInsightRow is one per-(campaign, ad, hour, day) record as returned by
// the advertising API. Numeric fields arrive as strings and may be absent;
// normalization applies zero defaults.
type RawInsightRow struct {
	AccountID    string          `json:"account_id"`
	CampaignID   string          `json:"campaign_id"`
	CampaignName string          `json:"campaign_name"`
	AdsetID      string          `json:"adset_id"`
	AdID         string          `json:"ad_id"`
	AdName       string          `json:"ad_name"`
	DateStart    string          `json:"date_start"`
	DateStop     string          `json:"date_stop"`
	Hour         string          `json:"hourly_stats_aggregated_by_advertiser_time_zone"`
	Spend        string          `json:"spend"`
	Impressions  string          `json:"impressions"`
	Reach        string          `json:"reach"`
	Clicks       string          `json:"clicks"`
	Actions      []InsightAction `json:"actions"`
}

// Action types that count as a lead. Both on-platform lead form submissions
// and offsite conversions are treated as leads; this conflation is a
// deliberate business rule.
const (
	ActionTypeLead              = "lead"
	ActionTypeOffsiteConversion = "offsite_conversion"
)
