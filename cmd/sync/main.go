// Package main runs one batch sync over all stored credentials and prints
// the per-credential results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/config"
	"leadpulse/internal/domain"
	"leadpulse/internal/observability"
	"leadpulse/internal/orchestrator"
	"leadpulse/internal/storage"
	"leadpulse/internal/storage/clickhouse"
	"leadpulse/internal/storage/migrations"
	"leadpulse/internal/storage/postgres"
	"leadpulse/internal/syncer"
	"leadpulse/internal/vault"
)

func main() {
	configPath := flag.String("config", "leadpulse.yaml", "Path to config file")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling sync...\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		return err
	}

	var warehouse storage.MetricWarehouse
	if cfg.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			return err
		}
		warehouse = clickhouse.NewMetricWarehouse(conn)
	}

	v, err := vault.New(cfg.VaultSecret)
	if err != nil {
		return err
	}

	credentialStore := postgres.NewCredentialStore(pool)
	accountStore := postgres.NewAccountStore(pool)
	metricStore := postgres.NewMetricStore(pool)
	client := adsapi.NewHTTPClient(cfg.AdsAPIBaseURL)
	metrics := observability.NewMetrics("")

	orch := orchestrator.New(orchestrator.Options{
		Client:       client,
		MetricStore:  metricStore,
		AccountStore: accountStore,
		Warehouse:    warehouse,
		ChunkSize:    cfg.ChunkSize,
		RunBudget:    cfg.RunBudget,
		Metrics:      metrics,
		Verbose:      verbose,
	})

	runner := syncer.NewRunner(syncer.RunnerOptions{
		CredentialStore: credentialStore,
		AccountStore:    accountStore,
		Client:          client,
		Vault:           v,
		Orchestrator:    orch,
		DateRange:       domain.DateRange{Preset: cfg.DatePreset},
		Concurrency:     cfg.SyncConcurrency,
		Metrics:         metrics,
	})

	results, err := runner.RunAll(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Sync completed: %d credentials\n", len(results))
	for _, r := range results {
		status := "ok"
		switch {
		case r.Invalidated:
			status = "invalidated"
		case r.Error != "":
			status = "failed"
		}
		fmt.Printf("  credential %s (user %s): %s\n", r.CredentialID, r.UserID, status)
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
		for _, a := range r.Accounts {
			switch {
			case a.Skipped:
				fmt.Printf("    account %s: skipped (sync in progress)\n", a.AccountID)
			case a.Synced:
				fmt.Printf("    account %s: %d rows\n", a.AccountID, a.RowCount)
			default:
				fmt.Printf("    account %s: failed: %s\n", a.AccountID, a.Error)
			}
		}
	}
	return nil
}
