// Package stub provides an in-memory adsapi.Client for tests and local runs.
package stub

import (
	"context"
	"time"

	"leadpulse/internal/adsapi"
	"leadpulse/internal/domain"
)

// Client is a configurable stub implementation of adsapi.Client.
type Client struct {
	// Insights returned per account ID.
	Insights map[string][]*domain.RawInsightRow

	// Accounts returned per token.
	Accounts []*adsapi.AccountInfo

	// Errors to inject. When set, the corresponding call fails.
	FetchErr   error
	ListErr    error
	RefreshErr error

	// Refreshed token returned on successful refresh.
	Refreshed *adsapi.RefreshedToken

	// Call counters.
	FetchCalls   int
	RefreshCalls int
}

var _ adsapi.Client = (*Client)(nil)

// FetchInsights returns the configured rows for the account.
func (c *Client) FetchInsights(_ context.Context, _ string, accountID string, _ domain.DateRange) ([]*domain.RawInsightRow, error) {
	c.FetchCalls++
	if c.FetchErr != nil {
		return nil, c.FetchErr
	}
	return c.Insights[accountID], nil
}

// ListAccounts returns the configured accounts.
func (c *Client) ListAccounts(_ context.Context, _ string) ([]*adsapi.AccountInfo, error) {
	if c.ListErr != nil {
		return nil, c.ListErr
	}
	return c.Accounts, nil
}

// RefreshToken returns the configured refreshed token.
func (c *Client) RefreshToken(_ context.Context, _ string) (*adsapi.RefreshedToken, error) {
	c.RefreshCalls++
	if c.RefreshErr != nil {
		return nil, c.RefreshErr
	}
	if c.Refreshed != nil {
		return c.Refreshed, nil
	}
	return &adsapi.RefreshedToken{Token: "refreshed-token", ExpiresAt: time.Now().Add(60 * 24 * time.Hour)}, nil
}
