package postgres

import (
	"context"
	"fmt"
	"time"

	"leadpulse/internal/domain"
	"leadpulse/internal/storage"
)

// CredentialStore implements storage.CredentialStore using PostgreSQL.
type CredentialStore struct {
	pool *Pool
}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore(pool *Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CredentialStore = (*CredentialStore)(nil)

// Put inserts or replaces the credential for its user.
func (s *CredentialStore) Put(ctx context.Context, c *domain.Credential) error {
	if c == nil || c.ID == "" || c.UserID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO credentials (
			id, user_id, encrypted_token, expires_at, is_valid, last_refreshed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			id = EXCLUDED.id,
			encrypted_token = EXCLUDED.encrypted_token,
			expires_at = EXCLUDED.expires_at,
			is_valid = EXCLUDED.is_valid,
			last_refreshed_at = EXCLUDED.last_refreshed_at
	`

	_, err := s.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.EncryptedToken,
		c.ExpiresAt,
		c.IsValid,
		c.LastRefreshedAt,
	)
	if err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

// GetByUserID retrieves the credential for a user. Returns ErrNotFound if none exists.
func (s *CredentialStore) GetByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	query := `
		SELECT id, user_id, encrypted_token, expires_at, is_valid, last_refreshed_at
		FROM credentials
		WHERE user_id = $1
	`

	row := s.pool.QueryRow(ctx, query, userID)

	var c domain.Credential
	err := row.Scan(&c.ID, &c.UserID, &c.EncryptedToken, &c.ExpiresAt, &c.IsValid, &c.LastRefreshedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get credential by user id: %w", err)
	}
	return &c, nil
}

// ListValid retrieves all credentials with is_valid=true, ordered by user ID.
func (s *CredentialStore) ListValid(ctx context.Context) ([]*domain.Credential, error) {
	query := `
		SELECT id, user_id, encrypted_token, expires_at, is_valid, last_refreshed_at
		FROM credentials
		WHERE is_valid = TRUE
		ORDER BY user_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list valid credentials: %w", err)
	}
	defer rows.Close()

	var result []*domain.Credential
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.ID, &c.UserID, &c.EncryptedToken, &c.ExpiresAt, &c.IsValid, &c.LastRefreshedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return result, nil
}

// MarkInvalid sets is_valid=false for a credential. Idempotent.
func (s *CredentialStore) MarkInvalid(ctx context.Context, credentialID string) error {
	query := `UPDATE credentials SET is_valid = FALSE WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, credentialID)
	if err != nil {
		return fmt.Errorf("mark credential invalid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateToken replaces the encrypted token and expiry after a refresh.
func (s *CredentialStore) UpdateToken(ctx context.Context, credentialID, encryptedToken string, expiresAt, refreshedAt time.Time) error {
	query := `
		UPDATE credentials
		SET encrypted_token = $2, expires_at = $3, last_refreshed_at = $4
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, credentialID, encryptedToken, expiresAt, refreshedAt)
	if err != nil {
		return fmt.Errorf("update credential token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
