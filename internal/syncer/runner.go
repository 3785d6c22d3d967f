// Package syncer runs the batch sync: every valid credential, every linked
// account, one pipeline run each, with per-credential failure isolation.
package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/domain"
	"leadpulse/internal/observability"
	"leadpulse/internal/orchestrator"
	"leadpulse/internal/storage"
	"leadpulse/internal/vault"
)

// DefaultConcurrency bounds parallel credential processing. Parallelism is
// safe only across credentials, never within one account's pipeline.
const DefaultConcurrency = 4

// PerAccountResult records the outcome of one account's pipeline run.
type PerAccountResult struct {
	AccountID string
	Synced    bool
	RowCount  int
	Skipped   bool // advisory lock held by another run
	Error     string

	// authFailure marks the error as credential-level (invalid token).
	authFailure bool
}

// PerCredentialResult records the outcome of one credential's processing.
type PerCredentialResult struct {
	CredentialID string
	UserID       string
	Invalidated  bool
	Refreshed    bool
	Accounts     []PerAccountResult
	Error        string
}

// Runner iterates all stored credentials and syncs their linked accounts.
type Runner struct {
	credentialStore storage.CredentialStore
	accountStore    storage.AccountStore
	client          adsapi.Client
	vault           *vault.Vault
	orch            *orchestrator.Orchestrator
	dateRange       domain.DateRange
	concurrency     int
	metrics         *observability.Metrics
	now             func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	CredentialStore storage.CredentialStore
	AccountStore    storage.AccountStore
	Client          adsapi.Client
	Vault           *vault.Vault
	Orchestrator    *orchestrator.Orchestrator
	DateRange       domain.DateRange // default: last_30d preset
	Concurrency     int              // default DefaultConcurrency
	Metrics         *observability.Metrics
	Now             func() time.Time // default time.Now
}

// NewRunner creates a new batch sync runner.
func NewRunner(opts RunnerOptions) *Runner {
	dateRange := opts.DateRange
	if dateRange.Preset == "" && dateRange.Since == "" {
		dateRange = domain.DateRange{Preset: domain.PresetLast30D}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Runner{
		credentialStore: opts.CredentialStore,
		accountStore:    opts.AccountStore,
		client:          opts.Client,
		vault:           opts.Vault,
		orch:            opts.Orchestrator,
		dateRange:       dateRange,
		concurrency:     concurrency,
		metrics:         opts.Metrics,
		now:             now,
	}
}

// RunAll processes every valid credential. One credential's failure or
// invalidation never prevents the others from running; results keep the
// store's credential ordering.
func (r *Runner) RunAll(ctx context.Context) ([]PerCredentialResult, error) {
	credentials, err := r.credentialStore.ListValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("list valid credentials: %w", err)
	}

	if r.metrics != nil {
		r.metrics.SyncRunsTotal.Inc()
	}
	log.Printf("[syncer] starting batch run over %d credentials", len(credentials))

	results := make([]PerCredentialResult, len(credentials))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, cred := range credentials {
		g.Go(func() error {
			results[i] = r.processCredential(gctx, cred)
			return nil // isolation: credential failures never cancel the group
		})
	}
	// Workers always return nil; Wait only surfaces context cancellation.
	if err := g.Wait(); err != nil {
		return results, err
	}

	if r.metrics != nil {
		r.metrics.LastSuccessfulSync.SetToCurrentTime()
	}
	log.Printf("[syncer] batch run complete")
	return results, nil
}

// processCredential handles decrypt, refresh, and per-account pipeline runs
// for one credential.
func (r *Runner) processCredential(ctx context.Context, cred *domain.Credential) PerCredentialResult {
	result := PerCredentialResult{CredentialID: cred.ID, UserID: cred.UserID}
	if r.metrics != nil {
		r.metrics.CredentialsProcessed.Inc()
	}

	token, err := r.vault.Decrypt(cred.EncryptedToken)
	if err != nil {
		r.invalidate(ctx, cred.ID, &result)
		result.Error = fmt.Sprintf("decrypt credential: %v", err)
		return result
	}

	// Refresh when expiry is inside the warning window. A failed refresh
	// invalidates the credential and skips sync for this run.
	status := vault.CheckExpiry(cred, r.now())
	if status.Status == domain.CredentialWarning || status.Status == domain.CredentialExpired {
		refreshed, err := r.refresh(ctx, cred, token)
		if err != nil {
			r.invalidate(ctx, cred.ID, &result)
			result.Error = fmt.Sprintf("refresh token: %v", err)
			return result
		}
		token = refreshed
		result.Refreshed = true
	}

	accounts, err := r.accountStore.ListByCredential(ctx, cred.ID)
	if err != nil {
		result.Error = fmt.Sprintf("list accounts: %v", err)
		return result
	}
	if len(accounts) == 0 {
		accounts, err = r.discoverAccounts(ctx, cred, token)
		if err != nil {
			if adsapi.IsAuthError(err) {
				r.invalidate(ctx, cred.ID, &result)
			}
			result.Error = fmt.Sprintf("discover accounts: %v", err)
			return result
		}
	}

	for _, account := range accounts {
		accResult := r.syncAccount(ctx, cred, token, account)
		result.Accounts = append(result.Accounts, accResult)

		// An auth failure is a credential-level problem: invalidate and
		// stop processing this credential's remaining accounts.
		if accResult.Error != "" && accResult.authFailure {
			r.invalidate(ctx, cred.ID, &result)
			break
		}
	}

	return result
}

// refresh exchanges the token and persists the new encrypted value.
func (r *Runner) refresh(ctx context.Context, cred *domain.Credential, token string) (string, error) {
	refreshed, err := r.client.RefreshToken(ctx, token)
	if err != nil {
		if r.metrics != nil {
			r.metrics.TokenRefreshes.WithLabelValues("failed").Inc()
		}
		return "", err
	}

	encrypted, err := r.vault.Encrypt(refreshed.Token)
	if err != nil {
		return "", fmt.Errorf("encrypt refreshed token: %w", err)
	}
	if err := r.credentialStore.UpdateToken(ctx, cred.ID, encrypted, refreshed.ExpiresAt, r.now()); err != nil {
		return "", fmt.Errorf("store refreshed token: %w", err)
	}

	if r.metrics != nil {
		r.metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	}
	log.Printf("[syncer] refreshed token for credential %s", cred.ID)
	return refreshed.Token, nil
}

// discoverAccounts fetches the credential's linked accounts from the API
// and stores them.
func (r *Runner) discoverAccounts(ctx context.Context, cred *domain.Credential, token string) ([]*domain.Account, error) {
	infos, err := r.client.ListAccounts(ctx, token)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(infos))
	for _, info := range infos {
		account := &domain.Account{
			AccountID:    info.AccountID,
			CredentialID: cred.ID,
			Name:         info.Name,
		}
		if err := r.accountStore.Upsert(ctx, account); err != nil {
			return nil, fmt.Errorf("store account %s: %w", info.AccountID, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// syncAccount runs the pipeline for one account under the advisory lock.
func (r *Runner) syncAccount(ctx context.Context, cred *domain.Credential, token string, account *domain.Account) PerAccountResult {
	result := PerAccountResult{AccountID: account.AccountID}

	if err := r.accountStore.AcquireSyncLock(ctx, account.AccountID); err != nil {
		if err == storage.ErrSyncLocked {
			if r.metrics != nil {
				r.metrics.AccountsSkippedLock.Inc()
			}
			log.Printf("[syncer] account %s: sync already in progress, skipping", account.AccountID)
			result.Skipped = true
			return result
		}
		result.Error = fmt.Sprintf("acquire sync lock: %v", err)
		return result
	}
	defer func() {
		if err := r.accountStore.ReleaseSyncLock(ctx, account.AccountID); err != nil {
			log.Printf("[syncer] release sync lock for %s: %v", account.AccountID, err)
		}
	}()

	state := r.orch.Run(ctx, orchestrator.RunConfig{
		CredentialID: cred.ID,
		UserID:       cred.UserID,
		AccountID:    account.AccountID,
		Token:        token,
		DateRange:    r.dateRange,
	})

	result.RowCount = state.WriteStatus.InsertedCount
	result.Synced = state.WriteStatus.Success
	if len(state.Status.Errors) > 0 {
		result.Error = state.Status.Errors[0]
	}
	result.authFailure = !state.Status.TokenValid

	return result
}

// invalidate marks a credential invalid and records it on the result.
func (r *Runner) invalidate(ctx context.Context, credentialID string, result *PerCredentialResult) {
	if err := r.credentialStore.MarkInvalid(ctx, credentialID); err != nil {
		log.Printf("[syncer] mark credential %s invalid: %v", credentialID, err)
		return
	}
	result.Invalidated = true
	if r.metrics != nil {
		r.metrics.CredentialsInvalid.Inc()
	}
	log.Printf("[syncer] credential %s marked invalid", credentialID)
}
