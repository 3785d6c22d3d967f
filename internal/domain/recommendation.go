package domain

// Recommendation actions.
const (
	ActionPause   = "PAUSE"
	ActionScale   = "SCALE"
	ActionMonitor = "MONITOR"
)

// Recommendation entity types.
const (
	EntityTypeAd       = "ad"
	EntityTypeCampaign = "campaign"
)

// Recommendation is a rule-derived suggested action on an advertising entity.
type Recommendation struct {
	Action     string
	EntityID   string
	EntityType string
	Reason     string
	Priority   string // RiskLow | RiskMedium | RiskHigh constants reused as priority
}
