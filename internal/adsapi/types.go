package adsapi

import (
	"context"
	"time"

	"leadpulse/internal/domain"
)

// Client is the advertising API surface the pipeline consumes.
type Client interface {
	// FetchInsights retrieves all raw insight rows for an account over a
	// date range, following pagination until exhausted.
	FetchInsights(ctx context.Context, token, accountID string, dateRange domain.DateRange) ([]*domain.RawInsightRow, error)

	// ListAccounts retrieves the ad accounts the token can access.
	ListAccounts(ctx context.Context, token string) ([]*AccountInfo, error)

	// RefreshToken exchanges a long-lived token nearing expiry for a new one.
	RefreshToken(ctx context.Context, token string) (*RefreshedToken, error)
}

// AccountInfo is one ad account as listed by the API.
type AccountInfo struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// RefreshedToken is the result of a token refresh.
type RefreshedToken struct {
	Token     string
	ExpiresAt time.Time
}

// insightsResponse is one page of the insights endpoint.
type insightsResponse struct {
	Data   []*domain.RawInsightRow `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
	Error *apiError `json:"error"`
}

// accountsResponse is one page of the ad accounts endpoint.
type accountsResponse struct {
	Data  []*AccountInfo `json:"data"`
	Error *apiError      `json:"error"`
}

// refreshResponse is the token exchange payload.
type refreshResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"` // seconds
	Error       *apiError `json:"error"`
}

// apiError is the API's error envelope.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}
