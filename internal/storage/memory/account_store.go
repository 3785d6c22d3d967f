package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu   sync.Mutex
	data map[string]*domain.Account // keyed by account_id
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		data: make(map[string]*domain.Account),
	}
}

// Upsert inserts or updates an account by its account ID.
func (s *AccountStore) Upsert(_ context.Context, a *domain.Account) error {
	if a == nil || a.AccountID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	s.data[a.AccountID] = &cp
	return nil
}

// GetByID retrieves an account. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *a
	return &cp, nil
}

// ListByCredential retrieves all accounts linked to a credential, ordered by account ID.
func (s *AccountStore) ListByCredential(_ context.Context, credentialID string) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Account
	for _, a := range s.data {
		if a.CredentialID == credentialID {
			cp := *a
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AccountID < result[j].AccountID
	})

	return result, nil
}

// UpdateLastSynced records when the account's metrics were last written.
func (s *AccountStore) UpdateLastSynced(_ context.Context, accountID string, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists {
		return storage.ErrNotFound
	}

	t := syncedAt
	a.LastSyncedAt = &t
	return nil
}

// AcquireSyncLock atomically sets the advisory sync flag for an account.
func (s *AccountStore) AcquireSyncLock(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists {
		return storage.ErrNotFound
	}
	if a.SyncInProgress {
		return storage.ErrSyncLocked
	}
	a.SyncInProgress = true
	return nil
}

// ReleaseSyncLock clears the advisory sync flag. Idempotent.
func (s *AccountStore) ReleaseSyncLock(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.data[accountID]
	if !exists {
		return storage.ErrNotFound
	}
	a.SyncInProgress = false
	return nil
}

var _ storage.AccountStore = (*AccountStore)(nil)
