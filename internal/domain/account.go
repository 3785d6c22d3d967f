package domain

import "time"

// Account is one advertising account linked to a credential.
// SyncInProgress is an advisory lock: a runner sets it before persistence
// begins and clears it when the run completes, so overlapping syncs against
// the same account skip instead of interleaving partial-chunk writes.
type Account struct {
	AccountID      string
	CredentialID   string
	Name           string
	LastSyncedAt   *time.Time
	SyncInProgress bool
}
