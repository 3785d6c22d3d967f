// Package reporting renders the executive summary for a pipeline run.
package reporting

import (
	"fmt"
	"strings"

	"leadpulse/internal/domain"
)

// InsufficientData is returned when no simulation could run.
const InsufficientData = "# Executive Summary\n\nInsufficient data: no performance rows were available for this period, so no projections or recommendations were produced.\n"

// RenderSummary renders the simulation, optimization plan, and accumulated
// errors into a Markdown report. It degrades to a short insufficient-data
// message when sim is nil rather than failing.
func RenderSummary(sim *domain.SimulationResult, plan []domain.Recommendation, errs []string) string {
	if sim == nil {
		return InsufficientData
	}

	var sb strings.Builder

	sb.WriteString("# Executive Summary\n\n")

	// Overall performance
	base := sim.Baseline.Projected
	sb.WriteString("## Performance\n\n")
	sb.WriteString(fmt.Sprintf("Current period: %.2f spent for %.0f leads (CPL %.2f), projected profit %.2f.\n\n",
		base.Spend, base.Leads, base.CPL, base.Profit))

	// Scenarios
	sb.WriteString("## Scenarios\n\n")
	sb.WriteString(fmt.Sprintf("- **%s** (%s risk): projected profit %.2f\n",
		sim.Baseline.Name, sim.Baseline.RiskLevel, base.Profit))
	for _, sc := range sim.Scenarios {
		sb.WriteString(fmt.Sprintf("- **%s** (%s risk): projected profit %.2f — %s\n",
			sc.Name, sc.RiskLevel, sc.Projected.Profit, sc.Assumptions))
	}
	sb.WriteString("\n")

	// Recommended strategy: highest projected profit across baseline and all scenarios
	best := pickBest(sim)
	sb.WriteString("## Recommended Strategy\n\n")
	sb.WriteString(fmt.Sprintf("**%s** — projected profit %.2f. %s\n\n",
		best.Name, best.Projected.Profit, best.Description))

	// Optimization plan
	sb.WriteString("## Optimization Actions\n\n")
	if len(plan) > 0 {
		for _, r := range plan {
			sb.WriteString(fmt.Sprintf("- %s %s `%s` (%s priority): %s\n",
				r.Action, r.EntityType, r.EntityID, r.Priority, r.Reason))
		}
	} else {
		sb.WriteString("No threshold rules triggered this period.\n")
	}
	sb.WriteString("\n")

	// Operational risk
	sb.WriteString("## Operational Risk\n\n")
	if len(errs) > 0 {
		for _, e := range errs {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
	} else {
		sb.WriteString("No errors recorded during this run.\n")
	}

	return sb.String()
}

// pickBest returns the scenario with the highest projected profit, the
// baseline included. Ties keep the earlier entry.
func pickBest(sim *domain.SimulationResult) domain.Scenario {
	best := sim.Baseline
	for _, sc := range sim.Scenarios {
		if sc.Projected.Profit > best.Projected.Profit {
			best = sc
		}
	}
	return best
}
