package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// CredentialStore is an in-memory implementation of storage.CredentialStore.
type CredentialStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Credential // keyed by user_id
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		data: make(map[string]*domain.Credential),
	}
}

// Put inserts or replaces the credential for its user.
func (s *CredentialStore) Put(_ context.Context, c *domain.Credential) error {
	if c == nil || c.ID == "" || c.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.data[c.UserID] = &cp
	return nil
}

// GetByUserID retrieves the credential for a user. Returns ErrNotFound if none exists.
func (s *CredentialStore) GetByUserID(_ context.Context, userID string) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	cp := *c
	return &cp, nil
}

// ListValid retrieves all credentials with IsValid=true, ordered by user ID.
func (s *CredentialStore) ListValid(_ context.Context) ([]*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Credential
	for _, c := range s.data {
		if c.IsValid {
			cp := *c
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}

// MarkInvalid sets IsValid=false for a credential. Idempotent.
func (s *CredentialStore) MarkInvalid(_ context.Context, credentialID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.data {
		if c.ID == credentialID {
			c.IsValid = false
			return nil
		}
	}
	return storage.ErrNotFound
}

// UpdateToken replaces the encrypted token and expiry after a refresh.
func (s *CredentialStore) UpdateToken(_ context.Context, credentialID, encryptedToken string, expiresAt, refreshedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.data {
		if c.ID == credentialID {
			exp := expiresAt
			ref := refreshedAt
			c.EncryptedToken = encryptedToken
			c.ExpiresAt = &exp
			c.LastRefreshedAt = &ref
			return nil
		}
	}
	return storage.ErrNotFound
}

var _ storage.CredentialStore = (*CredentialStore)(nil)
