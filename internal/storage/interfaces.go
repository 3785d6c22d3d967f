package storage

import (
	"context"
	"time"

	"leadpulse/internal/domain"
)

// CredentialStore provides access to credentials storage (one row per user).
type CredentialStore interface {
	// Put inserts or replaces the credential for its user.
	Put(ctx context.Context, c *domain.Credential) error

	// GetByUserID retrieves the credential for a user. Returns ErrNotFound if none exists.
	GetByUserID(ctx context.Context, userID string) (*domain.Credential, error)

	// ListValid retrieves all credentials with IsValid=true, ordered by user ID.
	ListValid(ctx context.Context) ([]*domain.Credential, error)

	// MarkInvalid sets IsValid=false for a credential. Idempotent.
	MarkInvalid(ctx context.Context, credentialID string) error

	// UpdateToken replaces the encrypted token and expiry after a refresh,
	// and records the refresh time.
	UpdateToken(ctx context.Context, credentialID, encryptedToken string, expiresAt, refreshedAt time.Time) error
}

// AccountStore provides access to ad account storage.
type AccountStore interface {
	// Upsert inserts or updates an account by its account ID.
	Upsert(ctx context.Context, a *domain.Account) error

	// GetByID retrieves an account. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListByCredential retrieves all accounts linked to a credential, ordered by account ID.
	ListByCredential(ctx context.Context, credentialID string) ([]*domain.Account, error)

	// UpdateLastSynced records when the account's metrics were last written.
	UpdateLastSynced(ctx context.Context, accountID string, syncedAt time.Time) error

	// AcquireSyncLock atomically sets the advisory sync flag for an account.
	// Returns ErrSyncLocked if another run holds it.
	AcquireSyncLock(ctx context.Context, accountID string) error

	// ReleaseSyncLock clears the advisory sync flag. Idempotent.
	ReleaseSyncLock(ctx context.Context, accountID string) error
}

// MetricStore provides access to normalized hourly metric storage.
type MetricStore interface {
	// UpsertBulk inserts or updates metrics keyed by (ad_id, date_start, hour).
	// Re-writing an existing key replaces prior values; the store never holds
	// more than one logical row per key.
	UpsertBulk(ctx context.Context, metrics []*domain.NormalizedMetric) error

	// GetByAccount retrieves all metrics for an account, ordered by
	// (date_start, hour, ad_id) ASC.
	GetByAccount(ctx context.Context, accountID string) ([]*domain.NormalizedMetric, error)

	// CountByAccount returns the number of stored rows for an account.
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// MetricWarehouse is an append-oriented analytics sink for normalized
// metrics. Deduplication by natural key is eventual (backend-dependent);
// the warehouse is a best-effort mirror, never the system of record.
type MetricWarehouse interface {
	// InsertBulk appends metrics to the warehouse.
	InsertBulk(ctx context.Context, metrics []*domain.NormalizedMetric) error
}
