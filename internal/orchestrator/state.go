package orchestrator

import (
	"leadpulse/internal/domain"
	"leadpulse/internal/integrity"
)

// RunConfig is the immutable configuration of one pipeline run.
type RunConfig struct {
	CredentialID string
	UserID       string
	AccountID    string
	Token        string // decrypted access token
	DateRange    domain.DateRange
}

// RunStatus accumulates error strings and validity flags over a run.
// Errors are never cleared mid-run.
type RunStatus struct {
	Errors      []string
	SchemaValid bool
	TokenValid  bool
}

// PipelineState is the single mutable record threaded through all stages.
// Each field is written by at most one stage; no stage re-reads a field it
// will overwrite later in the same run.
type PipelineState struct {
	Config RunConfig
	Status RunStatus

	RawInsights       []*domain.RawInsightRow
	NormalizedMetrics []*domain.NormalizedMetric
	WriteStatus       domain.WriteStatus
	TestReport        integrity.TestReport

	Simulation       *domain.SimulationResult // nil when insufficient data
	OptimizationPlan []domain.Recommendation
	ExecutiveSummary string
}

// newState creates a fresh state for one run.
func newState(cfg RunConfig) *PipelineState {
	return &PipelineState{
		Config: cfg,
		Status: RunStatus{
			SchemaValid: true,
			TokenValid:  true,
		},
	}
}

// recordError appends a stage failure to the accumulated status.
func (s *PipelineState) recordError(stage string, err error) {
	s.Status.Errors = append(s.Status.Errors, stage+": "+err.Error())
}
