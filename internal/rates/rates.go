// Package rates fetches the USD→INR exchange rate, the companion feature
// of prevent mode: keep the machine awake and poll a price while you're
// away.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// ErrBadResponse means the API answered but not with a usable rate.
var ErrBadResponse = errors.New("unusable exchange-rate response")

// Client fetches rates from an open.er-api.com compatible endpoint.
type Client struct {
	url  string
	http *http.Client
}

// New creates a Client. timeout <= 0 uses the default.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type rateResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Fetch returns the current USD→INR rate.
func (c *Client) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchange-rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d", ErrBadResponse, resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if body.Result != "success" {
		return 0, fmt.Errorf("%w: result %q", ErrBadResponse, body.Result)
	}
	rate, ok := body.Rates["INR"]
	if !ok {
		return 0, fmt.Errorf("%w: INR rate missing", ErrBadResponse)
	}
	return rate, nil
}
