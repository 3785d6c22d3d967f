// Package main runs the campaign intelligence service: HTTP surface plus
// the batch sync runner behind it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/config"
	"leadpulse/internal/domain"
	"leadpulse/internal/httpx"
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
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("[server] received signal %v, shutting down", sig)
		cancel()
	}()

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
		Verbose:      cfg.Verbose,
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

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpx.NewRouter(runner, credentialStore, v),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("[server] listening on :%s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
