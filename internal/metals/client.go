package metals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Price is a spot price for one metal, quoted in USD per troy ounce.
type Price struct {
	Metal string          `json:"metal"`
	Price decimal.Decimal `json:"price"`
}

// Client fetches spot prices from the configured upstream feed.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a metals price client.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: client}
}

type latestResponse struct {
	Status string                     `json:"status"`
	Metals map[string]decimal.Decimal `json:"metals"`
}

// Latest returns current spot prices for the requested metals.
func (c *Client) Latest(ctx context.Context, metals []string) ([]Price, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metals feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("metals feed http %d", res.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode metals feed: %w", err)
	}

	prices := make([]Price, 0, len(metals))
	for _, m := range metals {
		p, ok := body.Metals[m]
		if !ok {
			continue
		}
		prices = append(prices, Price{Metal: m, Price: p})
	}
	return prices, nil
}
