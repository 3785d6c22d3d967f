package vault

import (
	"math"
	"time"

	"leadpulse/internal/domain"
)

// WarningWindowDays is the expiry window that triggers a refresh attempt.
const WarningWindowDays = 7

// ExpiryStatus describes the health of one credential.
type ExpiryStatus struct {
	Status        string // domain.CredentialHealthy | Warning | Expired | NotConnected
	ExpiresInDays int    // meaningful for healthy/warning
}

// CheckExpiry classifies a credential's expiry relative to now.
// A nil credential means no row exists for the user (not_connected).
func CheckExpiry(c *domain.Credential, now time.Time) ExpiryStatus {
	if c == nil {
		return ExpiryStatus{Status: domain.CredentialNotConnected}
	}
	if c.ExpiresAt == nil {
		if !c.IsValid {
			return ExpiryStatus{Status: domain.CredentialExpired}
		}
		return ExpiryStatus{Status: domain.CredentialHealthy}
	}

	daysRemaining := c.ExpiresAt.Sub(now).Seconds() / 86400

	// Round up: a credential stored as "now + 3 days" keeps reporting 3 even
	// after the clock has shaved the remainder below a whole day.
	expiresInDays := int(math.Ceil(daysRemaining))

	switch {
	case daysRemaining < 0:
		return ExpiryStatus{Status: domain.CredentialExpired}
	case daysRemaining <= WarningWindowDays:
		return ExpiryStatus{
			Status:        domain.CredentialWarning,
			ExpiresInDays: expiresInDays,
		}
	default:
		return ExpiryStatus{
			Status:        domain.CredentialHealthy,
			ExpiresInDays: expiresInDays,
		}
	}
}
