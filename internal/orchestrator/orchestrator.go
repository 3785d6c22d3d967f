// Package orchestrator runs the per-account campaign intelligence pipeline.
// It coordinates: ingestion → compute → persistence → integrity →
// simulation → optimization → executive summary.
package orchestrator

import (
	"context"
	"log"
	"time"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/compute"
	"leadpulse/internal/ingestion"
	"leadpulse/internal/integrity"
	"leadpulse/internal/observability"
	"leadpulse/internal/optimization"
	"leadpulse/internal/persistence"
	"leadpulse/internal/reporting"
	"leadpulse/internal/simulation"
	"leadpulse/internal/storage"
)

// DefaultRunBudget bounds one account run's wall-clock time.
const DefaultRunBudget = 5 * time.Minute

// Orchestrator owns the pipeline state and invokes stages in a fixed order.
// Any stage error is caught, appended to status.errors, and the state as
// accumulated so far is returned; nothing above the orchestrator needs to
// catch errors from a normal run.
type Orchestrator struct {
	client       adsapi.Client
	metricStore  storage.MetricStore
	accountStore storage.AccountStore
	warehouse    storage.MetricWarehouse

	optimizerCfg optimization.Config
	chunkSize    int
	runBudget    time.Duration
	metrics      *observability.Metrics
	verbose      bool
}

// Options for creating Orchestrator.
type Options struct {
	Client       adsapi.Client
	MetricStore  storage.MetricStore
	AccountStore storage.AccountStore
	Warehouse    storage.MetricWarehouse // optional

	OptimizerConfig *optimization.Config // default optimization.DefaultConfig()
	ChunkSize       int                  // default persistence.DefaultChunkSize
	RunBudget       time.Duration        // default DefaultRunBudget
	Metrics         *observability.Metrics
	Verbose         bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	optimizerCfg := optimization.DefaultConfig()
	if opts.OptimizerConfig != nil {
		optimizerCfg = *opts.OptimizerConfig
	}
	runBudget := opts.RunBudget
	if runBudget == 0 {
		runBudget = DefaultRunBudget
	}

	return &Orchestrator{
		client:       opts.Client,
		metricStore:  opts.MetricStore,
		accountStore: opts.AccountStore,
		warehouse:    opts.Warehouse,
		optimizerCfg: optimizerCfg,
		chunkSize:    opts.ChunkSize,
		runBudget:    runBudget,
		metrics:      opts.Metrics,
		verbose:      opts.Verbose,
	}
}

// Run executes the pipeline for one account and returns the accumulated
// state. A deadline overrun is recorded like any stage failure; partial
// results (including committed chunks) are preserved in the returned state.
func (o *Orchestrator) Run(ctx context.Context, cfg RunConfig) *PipelineState {
	ctx, cancel := context.WithTimeout(ctx, o.runBudget)
	defer cancel()

	started := time.Now()
	state := newState(cfg)

	// Stage 1: Ingestion
	o.log("account %s: fetching insights", cfg.AccountID)
	agent := ingestion.NewAgent(o.client)
	rows, err := agent.Fetch(ctx, cfg.Token, cfg.AccountID, cfg.DateRange)
	if err != nil {
		state.recordError("ingestion", err)
		if adsapi.IsAuthError(err) {
			state.Status.TokenValid = false
		}
		o.observeRun(started, "failed")
		return state
	}
	state.RawInsights = rows
	o.log("account %s: fetched %d rows", cfg.AccountID, len(rows))

	// Stage 2: Metrics compute (pure)
	state.NormalizedMetrics = compute.Normalize(cfg.AccountID, state.RawInsights)

	// Stage 3: Persistence
	writer := persistence.NewWriter(persistence.WriterOptions{
		MetricStore:  o.metricStore,
		AccountStore: o.accountStore,
		Warehouse:    o.warehouse,
		ChunkSize:    o.chunkSize,
	})
	state.WriteStatus = writer.Write(ctx, cfg.AccountID, state.NormalizedMetrics)
	if !state.WriteStatus.Success {
		state.recordError("persistence", &stageError{state.WriteStatus.Error})
	}
	if o.metrics != nil {
		o.metrics.RowsUpserted.Add(float64(state.WriteStatus.InsertedCount))
	}

	// Stage 4: Integrity checks
	state.TestReport = integrity.Validate(state.WriteStatus, state.NormalizedMetrics)

	// Short-circuit: no insights means no simulation or summary.
	if len(state.RawInsights) == 0 {
		o.log("account %s: no insights, skipping projections", cfg.AccountID)
		o.observeRun(started, "empty")
		return state
	}

	// Stage 5: Simulation
	state.Simulation = simulation.Simulate(state.NormalizedMetrics)

	// Stage 6: Optimization
	state.OptimizationPlan = optimization.Optimize(state.NormalizedMetrics, state.Simulation, o.optimizerCfg)

	// Stage 7: Executive summary
	state.ExecutiveSummary = reporting.RenderSummary(state.Simulation, state.OptimizationPlan, state.Status.Errors)

	outcome := "ok"
	if len(state.Status.Errors) > 0 {
		outcome = "partial"
	}
	o.observeRun(started, outcome)
	o.log("account %s: run complete (%d errors)", cfg.AccountID, len(state.Status.Errors))
	return state
}

func (o *Orchestrator) observeRun(started time.Time, outcome string) {
	if o.metrics == nil {
		return
	}
	o.metrics.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	o.metrics.PipelineDuration.Observe(time.Since(started).Seconds())
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}

// stageError wraps a pre-rendered message as an error.
type stageError struct{ msg string }

func (e *stageError) Error() string { return e.msg }
