package domain

import "time"

// Credential is a long-lived API credential stored encrypted at rest.
// One row per user. IsValid transitions true→false on decrypt failure, a
// detected session-expired error from the API, or a failed refresh; it never
// transitions back except via the external re-authorization flow.
type Credential struct {
	ID              string
	UserID          string
	EncryptedToken  string
	ExpiresAt       *time.Time
	IsValid         bool
	LastRefreshedAt *time.Time
}

// Credential health states as surfaced to the UI layer.
const (
	CredentialHealthy      = "healthy"
	CredentialWarning      = "warning"
	CredentialExpired      = "expired"
	CredentialNotConnected = "not_connected"
)
