package orchestrator

import (
	"context"
	"strings"
	"testing"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/adsapi/stub"
	"leadpulse/internal/domain"
	"leadpulse/internal/storage/memory"
)

func sampleRows() []*domain.RawInsightRow {
	return []*domain.RawInsightRow{
		{
			CampaignID: "c1",
			AdID:       "ad1",
			DateStart:  "2026-08-01",
			Hour:       "09:00:00 - 09:59:59",
			Spend:      "600.00",
			Actions:    []domain.InsightAction{{ActionType: "lead", Value: "3"}},
		},
		{
			CampaignID: "c1",
			AdID:       "ad2",
			DateStart:  "2026-08-01",
			Hour:       "09:00:00 - 09:59:59",
			Spend:      "400.00",
			Actions:    []domain.InsightAction{{ActionType: "lead", Value: "2"}},
		},
	}
}

func testOrchestrator(client adsapi.Client, metricStore *memory.MetricStore) *Orchestrator {
	return New(Options{
		Client:       client,
		MetricStore:  metricStore,
		AccountStore: memory.NewAccountStore(),
	})
}

func runConfig() RunConfig {
	return RunConfig{
		CredentialID: "cred1",
		UserID:       "u1",
		AccountID:    "act_1",
		Token:        "token",
		DateRange:    domain.DateRange{Preset: domain.PresetLast30D},
	}
}

func TestRun_HappyPath(t *testing.T) {
	metricStore := memory.NewMetricStore()
	client := &stub.Client{Insights: map[string][]*domain.RawInsightRow{"act_1": sampleRows()}}

	state := testOrchestrator(client, metricStore).Run(context.Background(), runConfig())

	if len(state.Status.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", state.Status.Errors)
	}
	if !state.Status.TokenValid {
		t.Error("token must stay valid")
	}
	if len(state.RawInsights) != 2 || len(state.NormalizedMetrics) != 2 {
		t.Errorf("expected 2 rows through ingestion and compute, got %d/%d",
			len(state.RawInsights), len(state.NormalizedMetrics))
	}
	if !state.WriteStatus.Success || state.WriteStatus.InsertedCount != 2 {
		t.Errorf("unexpected write status %+v", state.WriteStatus)
	}
	if !state.TestReport.Valid {
		t.Errorf("expected valid integrity report, got %+v", state.TestReport)
	}
	if state.Simulation == nil {
		t.Fatal("expected a simulation result")
	}
	if state.ExecutiveSummary == "" || !strings.Contains(state.ExecutiveSummary, "# Executive Summary") {
		t.Error("expected a rendered executive summary")
	}

	count, _ := metricStore.CountByAccount(context.Background(), "act_1")
	if count != 2 {
		t.Errorf("expected 2 persisted rows, got %d", count)
	}
}

func TestRun_IngestionFailureStopsPipeline(t *testing.T) {
	metricStore := memory.NewMetricStore()
	client := &stub.Client{FetchErr: &adsapi.FetchError{Message: "service unavailable"}}

	state := testOrchestrator(client, metricStore).Run(context.Background(), runConfig())

	if len(state.Status.Errors) != 1 || !strings.HasPrefix(state.Status.Errors[0], "ingestion:") {
		t.Fatalf("expected one ingestion error, got %v", state.Status.Errors)
	}
	if !state.Status.TokenValid {
		t.Error("non-auth failure must not flag the token")
	}
	if state.Simulation != nil || state.ExecutiveSummary != "" {
		t.Error("later stages must not run after an ingestion failure")
	}

	count, _ := metricStore.CountByAccount(context.Background(), "act_1")
	if count != 0 {
		t.Errorf("nothing must be persisted, got %d rows", count)
	}
}

func TestRun_AuthFailureFlagsToken(t *testing.T) {
	client := &stub.Client{
		FetchErr: &adsapi.FetchError{Message: "Error validating access token", AuthRelated: true},
	}

	state := testOrchestrator(client, memory.NewMetricStore()).Run(context.Background(), runConfig())

	if state.Status.TokenValid {
		t.Error("auth failure must clear TokenValid")
	}
	if len(state.Status.Errors) != 1 {
		t.Errorf("expected one error, got %v", state.Status.Errors)
	}
}

func TestRun_EmptyInsightsSkipsProjections(t *testing.T) {
	client := &stub.Client{Insights: map[string][]*domain.RawInsightRow{}}

	state := testOrchestrator(client, memory.NewMetricStore()).Run(context.Background(), runConfig())

	if len(state.Status.Errors) != 0 {
		t.Errorf("an empty account is not an error: %v", state.Status.Errors)
	}
	if !state.WriteStatus.Success || state.WriteStatus.InsertedCount != 0 {
		t.Errorf("empty write must succeed with zero rows, got %+v", state.WriteStatus)
	}
	// Integrity still runs and flags the empty period.
	if state.TestReport.Valid {
		t.Error("integrity must flag the empty metrics set")
	}
	if state.Simulation != nil {
		t.Error("no simulation without insights")
	}
	if state.ExecutiveSummary != "" {
		t.Error("no summary without insights")
	}
}

func TestRun_OptimizationFeedsSummary(t *testing.T) {
	// One ad dominates spend with a CPL far above average: pause expected.
	rows := []*domain.RawInsightRow{
		{AdID: "bad", DateStart: "2026-08-01", Spend: "900", Actions: []domain.InsightAction{{ActionType: "lead", Value: "1"}}},
		{AdID: "ok1", DateStart: "2026-08-01", Spend: "50", Actions: []domain.InsightAction{{ActionType: "lead", Value: "5"}}},
		{AdID: "ok2", DateStart: "2026-08-01", Spend: "50", Actions: []domain.InsightAction{{ActionType: "lead", Value: "5"}}},
	}
	client := &stub.Client{Insights: map[string][]*domain.RawInsightRow{"act_1": rows}}

	state := testOrchestrator(client, memory.NewMetricStore()).Run(context.Background(), runConfig())

	var paused bool
	for _, r := range state.OptimizationPlan {
		if r.Action == domain.ActionPause && r.EntityID == "bad" {
			paused = true
		}
	}
	if !paused {
		t.Fatalf("expected a PAUSE for the overspending ad, got %+v", state.OptimizationPlan)
	}
	if !strings.Contains(state.ExecutiveSummary, "bad") {
		t.Error("summary must include the planned action")
	}
}

func TestRecordError_Accumulates(t *testing.T) {
	state := newState(runConfig())

	state.recordError("ingestion", &stageError{"first"})
	state.recordError("persistence", &stageError{"second"})

	if len(state.Status.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(state.Status.Errors))
	}
	if state.Status.Errors[0] != "ingestion: first" || state.Status.Errors[1] != "persistence: second" {
		t.Errorf("unexpected error entries: %v", state.Status.Errors)
	}
}
