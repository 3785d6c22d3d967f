package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

func TestAccountStore_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	account := &domain.Account{AccountID: "act_1", CredentialID: "c1", Name: "Main"}
	if err := store.Upsert(ctx, account); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.GetByID(ctx, "act_1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Main" || got.CredentialID != "c1" {
		t.Errorf("unexpected account %+v", got)
	}

	// Upsert replaces.
	account.Name = "Renamed"
	_ = store.Upsert(ctx, account)
	got, _ = store.GetByID(ctx, "act_1")
	if got.Name != "Renamed" {
		t.Errorf("expected renamed account, got %q", got.Name)
	}
}

func TestAccountStore_GetMissing(t *testing.T) {
	store := NewAccountStore()

	if _, err := store.GetByID(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountStore_ListByCredentialOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	_ = store.Upsert(ctx, &domain.Account{AccountID: "act_b", CredentialID: "c1"})
	_ = store.Upsert(ctx, &domain.Account{AccountID: "act_a", CredentialID: "c1"})
	_ = store.Upsert(ctx, &domain.Account{AccountID: "act_c", CredentialID: "c2"})

	accounts, err := store.ListByCredential(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCredential: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].AccountID != "act_a" || accounts[1].AccountID != "act_b" {
		t.Errorf("expected account-ID order, got %s then %s", accounts[0].AccountID, accounts[1].AccountID)
	}
}

func TestAccountStore_UpdateLastSynced(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	_ = store.Upsert(ctx, &domain.Account{AccountID: "act_1", CredentialID: "c1"})

	syncedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := store.UpdateLastSynced(ctx, "act_1", syncedAt); err != nil {
		t.Fatalf("UpdateLastSynced: %v", err)
	}

	got, _ := store.GetByID(ctx, "act_1")
	if got.LastSyncedAt == nil || !got.LastSyncedAt.Equal(syncedAt) {
		t.Errorf("expected last synced %v, got %v", syncedAt, got.LastSyncedAt)
	}

	if err := store.UpdateLastSynced(ctx, "missing", syncedAt); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountStore_SyncLock(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()

	_ = store.Upsert(ctx, &domain.Account{AccountID: "act_1", CredentialID: "c1"})

	if err := store.AcquireSyncLock(ctx, "act_1"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := store.AcquireSyncLock(ctx, "act_1"); !errors.Is(err, storage.ErrSyncLocked) {
		t.Errorf("second acquire must fail with ErrSyncLocked, got %v", err)
	}

	if err := store.ReleaseSyncLock(ctx, "act_1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	// Release is idempotent.
	if err := store.ReleaseSyncLock(ctx, "act_1"); err != nil {
		t.Fatalf("second release: %v", err)
	}

	if err := store.AcquireSyncLock(ctx, "act_1"); err != nil {
		t.Errorf("acquire after release must succeed, got %v", err)
	}
}

func TestAccountStore_SyncLockMissingAccount(t *testing.T) {
	store := NewAccountStore()

	if err := store.AcquireSyncLock(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.ReleaseSyncLock(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
