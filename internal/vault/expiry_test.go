package vault

import (
	"testing"
	"time"

	"leadpulse/internal/domain"
)

func TestCheckExpiry_NotConnected(t *testing.T) {
	status := CheckExpiry(nil, time.Now())
	if status.Status != domain.CredentialNotConnected {
		t.Errorf("expected not_connected, got %s", status.Status)
	}
}

func TestCheckExpiry_WarningAtThreeDays(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(3 * 24 * time.Hour)
	cred := &domain.Credential{ID: "c1", UserID: "u1", ExpiresAt: &expires, IsValid: true}

	status := CheckExpiry(cred, now)
	if status.Status != domain.CredentialWarning {
		t.Errorf("expected warning, got %s", status.Status)
	}
	if status.ExpiresInDays != 3 {
		t.Errorf("expected expires_in_days=3, got %d", status.ExpiresInDays)
	}
}

func TestCheckExpiry_DayCountStableAsClockAdvances(t *testing.T) {
	stored := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expires := stored.Add(3 * 24 * time.Hour)
	cred := &domain.Credential{ID: "c1", UserID: "u1", ExpiresAt: &expires, IsValid: true}

	// Checked later than the moment the expiry was stored: still 3 days out.
	for _, later := range []time.Duration{time.Second, time.Minute, 6 * time.Hour, 23 * time.Hour} {
		status := CheckExpiry(cred, stored.Add(later))
		if status.ExpiresInDays != 3 {
			t.Errorf("checked %v after storing: expected expires_in_days=3, got %d", later, status.ExpiresInDays)
		}
	}

	// A full day later it drops to 2.
	if status := CheckExpiry(cred, stored.Add(24*time.Hour)); status.ExpiresInDays != 2 {
		t.Errorf("one day later: expected expires_in_days=2, got %d", status.ExpiresInDays)
	}
}

func TestCheckExpiry_HealthyBeyondWindow(t *testing.T) {
	now := time.Now()
	expires := now.Add(30 * 24 * time.Hour)
	cred := &domain.Credential{ID: "c1", UserID: "u1", ExpiresAt: &expires, IsValid: true}

	status := CheckExpiry(cred, now)
	if status.Status != domain.CredentialHealthy {
		t.Errorf("expected healthy, got %s", status.Status)
	}
}

func TestCheckExpiry_Expired(t *testing.T) {
	now := time.Now()
	expires := now.Add(-time.Hour)
	cred := &domain.Credential{ID: "c1", UserID: "u1", ExpiresAt: &expires, IsValid: true}

	status := CheckExpiry(cred, now)
	if status.Status != domain.CredentialExpired {
		t.Errorf("expected expired, got %s", status.Status)
	}
}

func TestCheckExpiry_MissingExpiryUsesValidity(t *testing.T) {
	now := time.Now()

	valid := &domain.Credential{ID: "c1", UserID: "u1", IsValid: true}
	if status := CheckExpiry(valid, now); status.Status != domain.CredentialHealthy {
		t.Errorf("valid credential without expiry: expected healthy, got %s", status.Status)
	}

	invalid := &domain.Credential{ID: "c2", UserID: "u2", IsValid: false}
	if status := CheckExpiry(invalid, now); status.Status != domain.CredentialExpired {
		t.Errorf("invalid credential without expiry: expected expired, got %s", status.Status)
	}
}

func TestCheckExpiry_ExactWindowBoundary(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expires := now.Add(WarningWindowDays * 24 * time.Hour)
	cred := &domain.Credential{ID: "c1", UserID: "u1", ExpiresAt: &expires, IsValid: true}

	status := CheckExpiry(cred, now)
	if status.Status != domain.CredentialWarning {
		t.Errorf("expected warning at exactly %d days, got %s", WarningWindowDays, status.Status)
	}
}
