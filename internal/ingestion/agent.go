// Package ingestion fetches raw performance rows from the advertising API.
package ingestion

import (
	"context"
	"errors"
	"fmt"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/domain"
)

// ErrMissingCredentials is returned when the decrypted token or the account
// identifier is empty.
var ErrMissingCredentials = errors.New("missing access token or account id")

// Agent is the fetch stage. It performs no retries: an upstream failure is
// terminal for the current run.
type Agent struct {
	client adsapi.Client
}

// NewAgent creates a new ingestion agent.
func NewAgent(client adsapi.Client) *Agent {
	return &Agent{client: client}
}

// Fetch retrieves all raw insight rows for one account over a date range.
// Pure fetch, no side effects.
func (a *Agent) Fetch(ctx context.Context, token, accountID string, dateRange domain.DateRange) ([]*domain.RawInsightRow, error) {
	if token == "" || accountID == "" {
		return nil, ErrMissingCredentials
	}

	rows, err := a.client.FetchInsights(ctx, token, accountID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("fetch insights for account %s: %w", accountID, err)
	}
	return rows, nil
}
