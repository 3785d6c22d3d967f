// Package simulation projects financial outcomes under spend-adjustment
// scenarios.
package simulation

import (
	"fmt"

	"leadpulse/internal/domain"
)

// Scenario parameters. CPL degradation factors model diminishing returns:
// spend never scales linearly past a 30% increase without a CPL penalty.
// This is a business constraint, not a tuning knob.
const (
	scale20SpendFactor = 1.20
	scale20CPLFactor   = 1.07
	scale50SpendFactor = 1.50
	scale50CPLFactor   = 1.18
	efficiencyFactor   = 0.90
)

// Simulate aggregates metrics and projects a baseline plus scale and
// efficiency scenarios. Returns nil when metrics is empty: callers treat the
// absence of a result as "insufficient data" rather than zeroed projections.
func Simulate(metrics []*domain.NormalizedMetric) *domain.SimulationResult {
	if len(metrics) == 0 {
		return nil
	}

	var totalSpend float64
	var totalLeads int64
	for _, m := range metrics {
		totalSpend += m.Spend
		totalLeads += m.Leads
	}

	var avgCPL float64
	if totalLeads > 0 {
		avgCPL = totalSpend / float64(totalLeads)
	}

	leads := float64(totalLeads)
	baseline := domain.Scenario{
		ID:          domain.ScenarioBaseline,
		Name:        "Current trajectory",
		Description: "Hold spend and performance at observed levels.",
		Assumptions: "No change to budgets or targeting.",
		RiskLevel:   domain.RiskLow,
		Projected:   project(totalSpend, leads),
	}

	scenarios := []domain.Scenario{
		scaleScenario(domain.ScenarioScale20, "Scale spend +20%", domain.RiskMedium,
			totalSpend, avgCPL, scale20SpendFactor, scale20CPLFactor),
		scaleScenario(domain.ScenarioScale50, "Scale spend +50%", domain.RiskHigh,
			totalSpend, avgCPL, scale50SpendFactor, scale50CPLFactor),
		efficiencyScenario(totalSpend, leads),
	}

	return &domain.SimulationResult{Baseline: baseline, Scenarios: scenarios}
}

// scaleScenario projects a spend increase with a degraded CPL.
func scaleScenario(id, name, risk string, totalSpend, avgCPL, spendFactor, cplFactor float64) domain.Scenario {
	scaledSpend := totalSpend * spendFactor
	scaledCPL := avgCPL * cplFactor

	var projectedLeads float64
	if scaledCPL > 0 {
		projectedLeads = scaledSpend / scaledCPL
	}

	return domain.Scenario{
		ID:   id,
		Name: name,
		Description: fmt.Sprintf("Increase spend %.0f%% across current campaigns.",
			(spendFactor-1)*100),
		Assumptions: fmt.Sprintf("CPL degrades %.0f%% from diminishing returns.",
			(cplFactor-1)*100),
		RiskLevel: risk,
		Projected: project(scaledSpend, projectedLeads),
	}
}

// efficiencyScenario models cutting the worst-performing spend while
// holding total leads constant; profit improves purely from cost reduction.
func efficiencyScenario(totalSpend, leads float64) domain.Scenario {
	cutSpend := totalSpend * efficiencyFactor
	return domain.Scenario{
		ID:          domain.ScenarioEfficiency,
		Name:        "Trim inefficient spend -10%",
		Description: "Pause the worst-performing spend while keeping total leads.",
		Assumptions: "Bottom 10% of spend produces no incremental leads.",
		RiskLevel:   domain.RiskLow,
		Projected:   project(cutSpend, leads),
	}
}

func project(spend, leads float64) domain.Projection {
	revenue := leads * domain.LTVAssumption

	var cpl float64
	if leads > 0 {
		cpl = spend / leads
	}

	return domain.Projection{
		Spend:   spend,
		Leads:   leads,
		CPL:     cpl,
		Revenue: revenue,
		Profit:  revenue - spend,
	}
}
