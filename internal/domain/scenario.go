package domain

// LTVAssumption is the assumed lifetime value of one lead, in currency units.
// Revenue projections multiply lead counts by this constant.
const LTVAssumption = 3000.0

// Risk level constants.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Scenario ID constants.
const (
	ScenarioBaseline   = "baseline"
	ScenarioScale20    = "scale_20"
	ScenarioScale50    = "scale_50"
	ScenarioEfficiency = "efficiency"
)

// Projection holds the financial outcome of a scenario.
type Projection struct {
	Spend   float64
	Leads   float64
	CPL     float64
	Revenue float64 // leads * LTVAssumption
	Profit  float64 // revenue - spend
}

// Scenario is a named what-if spend/performance projection.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Assumptions string
	RiskLevel   string
	Projected   Projection
}

// SimulationResult contains the baseline and all projected scenarios.
// Scenario ordering is insertion order (scale-ups before efficiency) and is
// significant only for display.
type SimulationResult struct {
	Baseline  Scenario
	Scenarios []Scenario
}
