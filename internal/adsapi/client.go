// Package adsapi implements the advertising API HTTP client.
package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"leadpulse/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultPageSize = 500
	// maxPages caps pagination as a safety bound against a broken cursor.
	maxPages = 200
)

// HTTPClient implements Client over the ads platform's REST API.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	pageSize int
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithPageSize sets the insights page size.
func WithPageSize(n int) ClientOption {
	return func(c *HTTPClient) {
		c.pageSize = n
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new advertising API client.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: DefaultTimeout},
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*HTTPClient)(nil)

// FetchInsights retrieves all raw insight rows for an account over a date
// range, following the paging cursor until exhausted.
func (c *HTTPClient) FetchInsights(ctx context.Context, token, accountID string, dateRange domain.DateRange) ([]*domain.RawInsightRow, error) {
	params := url.Values{}
	params.Set("level", "ad")
	params.Set("limit", fmt.Sprintf("%d", c.pageSize))
	params.Set("breakdowns", "hourly_stats_aggregated_by_advertiser_time_zone")
	params.Set("fields", "account_id,campaign_id,campaign_name,adset_id,ad_id,ad_name,date_start,date_stop,spend,impressions,reach,clicks,actions")
	if dateRange.IsPreset() {
		params.Set("date_preset", dateRange.Preset)
	} else {
		params.Set("time_range", fmt.Sprintf(`{"since":"%s","until":"%s"}`, dateRange.Since, dateRange.Until))
	}

	var rows []*domain.RawInsightRow
	after := ""
	for page := 0; page < maxPages; page++ {
		if after != "" {
			params.Set("after", after)
		}

		var resp insightsResponse
		endpoint := fmt.Sprintf("%s/%s/insights?%s", c.baseURL, url.PathEscape(accountID), params.Encode())
		if err := c.get(ctx, endpoint, token, &resp); err != nil {
			return nil, err
		}
		if resp.Error != nil {
			return nil, &FetchError{Message: resp.Error.Message, AuthRelated: isAuthMessage(resp.Error.Message)}
		}

		rows = append(rows, resp.Data...)

		if resp.Paging.Next == "" || resp.Paging.Cursors.After == "" || len(resp.Data) == 0 {
			break
		}
		after = resp.Paging.Cursors.After
	}

	return rows, nil
}

// ListAccounts retrieves the ad accounts the token can access.
func (c *HTTPClient) ListAccounts(ctx context.Context, token string) ([]*AccountInfo, error) {
	endpoint := fmt.Sprintf("%s/me/adaccounts?fields=account_id,name", c.baseURL)

	var resp accountsResponse
	if err := c.get(ctx, endpoint, token, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &FetchError{Message: resp.Error.Message, AuthRelated: isAuthMessage(resp.Error.Message)}
	}
	return resp.Data, nil
}

// RefreshToken exchanges a long-lived token nearing expiry for a new one.
func (c *HTTPClient) RefreshToken(ctx context.Context, token string) (*RefreshedToken, error) {
	endpoint := fmt.Sprintf("%s/oauth/access_token?grant_type=fb_exchange_token", c.baseURL)

	var resp refreshResponse
	if err := c.get(ctx, endpoint, token, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &FetchError{Message: resp.Error.Message, AuthRelated: isAuthMessage(resp.Error.Message)}
	}
	if resp.AccessToken == "" {
		return nil, &FetchError{Message: "refresh returned empty token"}
	}

	expiresIn := resp.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 60 * 86400 // API omits expires_in for some token kinds; assume 60 days
	}
	return &RefreshedToken{
		Token:     resp.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}, nil
}

// get performs an authenticated GET and decodes the JSON body into out.
// Non-2xx responses with a decodable error envelope are classified via the
// envelope message; everything else is a transient FetchError.
func (c *HTTPClient) get(ctx context.Context, endpoint, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("read response: %v", err)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode >= 400 {
			return &FetchError{
				Message:     fmt.Sprintf("http %d: %s", resp.StatusCode, truncate(string(body), 200)),
				AuthRelated: resp.StatusCode == http.StatusUnauthorized,
			}
		}
		return &FetchError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
