package postgres

import (
	"context"
	"fmt"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Upsert inserts or updates an account by its account ID.
func (s *AccountStore) Upsert(ctx context.Context, a *domain.Account) error {
	if a == nil || a.AccountID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO accounts (account_id, credential_id, name, last_synced_at, sync_in_progress)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE SET
			credential_id = EXCLUDED.credential_id,
			name = EXCLUDED.name
	`

	_, err := s.pool.Exec(ctx, query,
		a.AccountID,
		a.CredentialID,
		a.Name,
		a.LastSyncedAt,
		a.SyncInProgress,
	)
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

// GetByID retrieves an account. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, credential_id, name, last_synced_at, sync_in_progress
		FROM accounts
		WHERE account_id = $1
	`

	row := s.pool.QueryRow(ctx, query, accountID)

	var a domain.Account
	err := row.Scan(&a.AccountID, &a.CredentialID, &a.Name, &a.LastSyncedAt, &a.SyncInProgress)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by id: %w", err)
	}
	return &a, nil
}

// ListByCredential retrieves all accounts linked to a credential, ordered by account ID.
func (s *AccountStore) ListByCredential(ctx context.Context, credentialID string) ([]*domain.Account, error) {
	query := `
		SELECT account_id, credential_id, name, last_synced_at, sync_in_progress
		FROM accounts
		WHERE credential_id = $1
		ORDER BY account_id ASC
	`

	rows, err := s.pool.Query(ctx, query, credentialID)
	if err != nil {
		return nil, fmt.Errorf("list accounts by credential: %w", err)
	}
	defer rows.Close()

	var result []*domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.AccountID, &a.CredentialID, &a.Name, &a.LastSyncedAt, &a.SyncInProgress); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return result, nil
}

// UpdateLastSynced records when the account's metrics were last written.
func (s *AccountStore) UpdateLastSynced(ctx context.Context, accountID string, syncedAt time.Time) error {
	query := `UPDATE accounts SET last_synced_at = $2 WHERE account_id = $1`

	tag, err := s.pool.Exec(ctx, query, accountID, syncedAt)
	if err != nil {
		return fmt.Errorf("update last synced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AcquireSyncLock atomically sets the advisory sync flag for an account.
// The conditional UPDATE makes acquisition atomic: only one run can flip
// the flag from false to true.
func (s *AccountStore) AcquireSyncLock(ctx context.Context, accountID string) error {
	query := `
		UPDATE accounts
		SET sync_in_progress = TRUE
		WHERE account_id = $1 AND sync_in_progress = FALSE
	`

	tag, err := s.pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("acquire sync lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing account from a held lock.
		if _, err := s.GetByID(ctx, accountID); err != nil {
			return err
		}
		return storage.ErrSyncLocked
	}
	return nil
}

// ReleaseSyncLock clears the advisory sync flag. Idempotent.
func (s *AccountStore) ReleaseSyncLock(ctx context.Context, accountID string) error {
	query := `UPDATE accounts SET sync_in_progress = FALSE WHERE account_id = $1`

	tag, err := s.pool.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("release sync lock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
