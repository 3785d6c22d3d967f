package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LEADPULSE_POSTGRES_DSN", "postgres://localhost:5432/leadpulse")
	t.Setenv("LEADPULSE_VAULT_SECRET", "test-vault-secret-0123456789abcd")
	t.Setenv("LEADPULSE_ADS_API_BASE_URL", "https://graph.example.com/v19.0")
}

func TestLoad_DefaultsWithEnvRequired(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("expected default chunk size 500, got %d", cfg.ChunkSize)
	}
	if cfg.SyncConcurrency != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.SyncConcurrency)
	}
	if cfg.DatePreset != "last_30d" {
		t.Errorf("expected default preset last_30d, got %q", cfg.DatePreset)
	}
	if cfg.RunBudget != 5*time.Minute {
		t.Errorf("expected default run budget 5m, got %v", cfg.RunBudget)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LEADPULSE_CHUNK_SIZE", "100")
	t.Setenv("LEADPULSE_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 100 {
		t.Errorf("expected chunk size 100 from env, got %d", cfg.ChunkSize)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090 from env, got %q", cfg.Port)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "leadpulse.yaml")
	yaml := "port: \"7070\"\nchunk_size: 250\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("LEADPULSE_PORT", "9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChunkSize != 250 {
		t.Errorf("expected chunk size from file, got %d", cfg.ChunkSize)
	}
	if cfg.Port != "9999" {
		t.Errorf("env must win over file, got %q", cfg.Port)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	setRequiredEnv(t)

	if _, err := Load("/nonexistent/leadpulse.yaml"); err != nil {
		t.Errorf("a missing config file is not an error: %v", err)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		unset   string
		set     map[string]string
		wantMsg string
	}{
		{
			name:    "missing postgres dsn",
			unset:   "LEADPULSE_POSTGRES_DSN",
			wantMsg: "postgres_dsn",
		},
		{
			name:    "short vault secret",
			set:     map[string]string{"LEADPULSE_VAULT_SECRET": "short"},
			wantMsg: "vault_secret",
		},
		{
			name:    "missing api base url",
			unset:   "LEADPULSE_ADS_API_BASE_URL",
			wantMsg: "ads_api_base_url",
		},
		{
			name:    "zero chunk size",
			set:     map[string]string{"LEADPULSE_CHUNK_SIZE": "0"},
			wantMsg: "chunk_size",
		},
		{
			name:    "negative concurrency",
			set:     map[string]string{"LEADPULSE_SYNC_CONCURRENCY": "-1"},
			wantMsg: "sync_concurrency",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			if tc.unset != "" {
				t.Setenv(tc.unset, "")
			}
			for k, v := range tc.set {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected error mentioning %q, got %v", tc.wantMsg, err)
			}
		})
	}
}
