// Package integrity runs post-write sanity checks over a pipeline run.
package integrity

import "leadpulse/internal/domain"

// Check names.
const (
	CheckWriteSuccess     = "write_success"
	CheckMetricsNonEmpty  = "metrics_non_empty"
	CheckNonNegativeSpend = "non_negative_spend"
)

// CheckResult is one check's pass/fail outcome.
type CheckResult struct {
	Name   string
	Passed bool
}

// TestReport is the combined result of all checks.
type TestReport struct {
	Valid  bool
	Checks []CheckResult
}

// Validate runs all checks independently (no short-circuit) so a caller can
// see exactly which invariant broke. Valid is true only when every check
// passes.
func Validate(writeStatus domain.WriteStatus, metrics []*domain.NormalizedMetric) TestReport {
	checks := []CheckResult{
		{Name: CheckWriteSuccess, Passed: writeStatus.Success},
		{Name: CheckMetricsNonEmpty, Passed: len(metrics) > 0},
		{Name: CheckNonNegativeSpend, Passed: noNegativeSpend(metrics)},
	}

	valid := true
	for _, c := range checks {
		if !c.Passed {
			valid = false
		}
	}

	return TestReport{Valid: valid, Checks: checks}
}

func noNegativeSpend(metrics []*domain.NormalizedMetric) bool {
	for _, m := range metrics {
		if m.Spend < 0 {
			return false
		}
	}
	return true
}
