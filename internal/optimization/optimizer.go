// Package optimization derives pause/scale recommendations from threshold
// rules over normalized metrics.
package optimization

import (
	"fmt"
	"math"
	"sort"

	"leadpulse/internal/domain"
)

// Config holds the threshold rules. The defaults reproduce the reference
// behavior; they are configuration, not hard-coded business law.
type Config struct {
	// PauseSpendFloor: entities below this spend are never paused.
	PauseSpendFloor float64
	// PauseCPLMultiple: pause when cpl exceeds this multiple of average CPL.
	PauseCPLMultiple float64
	// ScaleLeadsFloor: entities need more than this many leads to scale.
	ScaleLeadsFloor int64
	// ScaleCPLFraction: scale when cpl is below this fraction of average CPL.
	ScaleCPLFraction float64
	// DefaultAvgCPL applies when no simulation baseline is available.
	DefaultAvgCPL float64
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		PauseSpendFloor:  500,
		PauseCPLMultiple: 2.0,
		ScaleLeadsFloor:  5,
		ScaleCPLFraction: 0.7,
		DefaultAvgCPL:    100,
	}
}

// adAggregate is per-ad totals used for rule evaluation.
type adAggregate struct {
	adID  string
	spend float64
	leads int64
}

// Optimize applies the threshold rules per ad entity. The rules are disjoint
// by construction: an entity can never receive both PAUSE and SCALE from one
// call. Entities matching neither rule emit nothing.
func Optimize(metrics []*domain.NormalizedMetric, sim *domain.SimulationResult, cfg Config) []domain.Recommendation {
	avgCPL := cfg.DefaultAvgCPL
	if sim != nil && sim.Baseline.Projected.CPL > 0 {
		avgCPL = sim.Baseline.Projected.CPL
	}

	aggs := aggregateByAd(metrics)

	var recs []domain.Recommendation
	for _, agg := range aggs {
		// Spend with zero leads counts as unbounded CPL for the pause rule.
		cpl := math.Inf(1)
		if agg.leads > 0 {
			cpl = agg.spend / float64(agg.leads)
		} else if agg.spend == 0 {
			cpl = 0
		}

		switch {
		case agg.spend > cfg.PauseSpendFloor && cpl > cfg.PauseCPLMultiple*avgCPL:
			reason := fmt.Sprintf("CPL %.2f is %.1fx the account average %.2f with %.2f spent",
				cpl, cpl/avgCPL, avgCPL, agg.spend)
			if math.IsInf(cpl, 1) {
				reason = fmt.Sprintf("%.2f spent with zero leads against account average CPL %.2f",
					agg.spend, avgCPL)
			}
			recs = append(recs, domain.Recommendation{
				Action:     domain.ActionPause,
				EntityID:   agg.adID,
				EntityType: domain.EntityTypeAd,
				Reason:     reason,
				Priority:   domain.RiskMedium,
			})
		case agg.leads > cfg.ScaleLeadsFloor && cpl < cfg.ScaleCPLFraction*avgCPL:
			recs = append(recs, domain.Recommendation{
				Action:     domain.ActionScale,
				EntityID:   agg.adID,
				EntityType: domain.EntityTypeAd,
				Reason: fmt.Sprintf("CPL %.2f is %.0f%% below the account average %.2f across %d leads",
					cpl, (1-cpl/avgCPL)*100, avgCPL, agg.leads),
				Priority: domain.RiskHigh,
			})
		}
	}

	return recs
}

// aggregateByAd sums spend and leads per ad, ordered by ad ID for
// deterministic output.
func aggregateByAd(metrics []*domain.NormalizedMetric) []adAggregate {
	byAd := make(map[string]*adAggregate)
	for _, m := range metrics {
		if m.AdID == "" {
			continue
		}
		agg, ok := byAd[m.AdID]
		if !ok {
			agg = &adAggregate{adID: m.AdID}
			byAd[m.AdID] = agg
		}
		agg.spend += m.Spend
		agg.leads += m.Leads
	}

	result := make([]adAggregate, 0, len(byAd))
	for _, agg := range byAd {
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].adID < result[j].adID
	})
	return result
}
