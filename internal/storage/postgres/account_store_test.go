package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

func seedCredential(t *testing.T, pool *Pool, id, userID string) {
	t.Helper()
	store := NewCredentialStore(pool)
	require.NoError(t, store.Put(context.Background(), &domain.Credential{
		ID: id, UserID: userID, EncryptedToken: "t", IsValid: true,
	}))
}

func TestAccountStore_UpsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedCredential(t, pool, "cred-1", "user-1")
	store := NewAccountStore(pool)
	ctx := context.Background()

	account := &domain.Account{
		AccountID:    "act_100",
		CredentialID: "cred-1",
		Name:         "Main Account",
	}

	require.NoError(t, store.Upsert(ctx, account))

	retrieved, err := store.GetByID(ctx, "act_100")
	require.NoError(t, err)
	assert.Equal(t, "act_100", retrieved.AccountID)
	assert.Equal(t, "cred-1", retrieved.CredentialID)
	assert.Equal(t, "Main Account", retrieved.Name)
	assert.Nil(t, retrieved.LastSyncedAt)
	assert.False(t, retrieved.SyncInProgress)
}

func TestAccountStore_UpsertKeepsSyncState(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedCredential(t, pool, "cred-1", "user-1")
	store := NewAccountStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_100", CredentialID: "cred-1", Name: "Old"}))

	syncedAt := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateLastSynced(ctx, "act_100", syncedAt))
	require.NoError(t, store.AcquireSyncLock(ctx, "act_100"))

	// Re-discovering the account must not clobber sync bookkeeping.
	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_100", CredentialID: "cred-1", Name: "Renamed"}))

	retrieved, err := store.GetByID(ctx, "act_100")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", retrieved.Name)
	require.NotNil(t, retrieved.LastSyncedAt)
	assert.True(t, retrieved.LastSyncedAt.Equal(syncedAt))
	assert.True(t, retrieved.SyncInProgress)
}

func TestAccountStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAccountStore(pool)

	_, err := store.GetByID(context.Background(), "act_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountStore_ListByCredential(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedCredential(t, pool, "cred-1", "user-1")
	seedCredential(t, pool, "cred-2", "user-2")
	store := NewAccountStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_b", CredentialID: "cred-1"}))
	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_a", CredentialID: "cred-1"}))
	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_c", CredentialID: "cred-2"}))

	accounts, err := store.ListByCredential(ctx, "cred-1")
	require.NoError(t, err)

	require.Len(t, accounts, 2)
	assert.Equal(t, "act_a", accounts[0].AccountID)
	assert.Equal(t, "act_b", accounts[1].AccountID)
}

func TestAccountStore_SyncLock(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedCredential(t, pool, "cred-1", "user-1")
	store := NewAccountStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_100", CredentialID: "cred-1"}))

	// First acquire wins; second sees the held lock.
	require.NoError(t, store.AcquireSyncLock(ctx, "act_100"))
	assert.ErrorIs(t, store.AcquireSyncLock(ctx, "act_100"), storage.ErrSyncLocked)

	// Release is idempotent, and the lock can be re-acquired.
	require.NoError(t, store.ReleaseSyncLock(ctx, "act_100"))
	require.NoError(t, store.ReleaseSyncLock(ctx, "act_100"))
	require.NoError(t, store.AcquireSyncLock(ctx, "act_100"))
}

func TestAccountStore_SyncLockMissingAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAccountStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.AcquireSyncLock(ctx, "act_missing"), storage.ErrNotFound)
	assert.ErrorIs(t, store.ReleaseSyncLock(ctx, "act_missing"), storage.ErrNotFound)
}

func TestAccountStore_UpdateLastSynced(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	seedCredential(t, pool, "cred-1", "user-1")
	store := NewAccountStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.Account{AccountID: "act_100", CredentialID: "cred-1"}))

	syncedAt := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.UpdateLastSynced(ctx, "act_100", syncedAt))

	retrieved, err := store.GetByID(ctx, "act_100")
	require.NoError(t, err)
	require.NotNil(t, retrieved.LastSyncedAt)
	assert.True(t, retrieved.LastSyncedAt.Equal(syncedAt))

	assert.ErrorIs(t, store.UpdateLastSynced(ctx, "act_missing", syncedAt), storage.ErrNotFound)
}
