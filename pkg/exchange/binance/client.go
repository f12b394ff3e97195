package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a minimal REST client covering the public market-data surface
// needed to bootstrap an order book: connectivity check and depth snapshot.
type Client struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Binance REST client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.Timeout) * time.Second},
		baseURL:    config.GetBaseURL(),
	}
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ParseAPIError(body)
	}

	return body, nil
}

// Ping tests connectivity to the REST API.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, EndpointPing, nil)
	return err
}

// DepthSnapshotResponse is the response shape of GET /api/v3/depth.
type DepthSnapshotResponse struct {
	LastUpdateID int64        `json:"lastUpdateId"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// GetDepth fetches an order book snapshot for symbol, limit deep. Binance
// accepts 5, 10, 20, 50, 100, 500, 1000 or 5000; other values are rejected
// by the server.
func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (*DepthSnapshotResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.doRequest(ctx, EndpointDepth, params)
	if err != nil {
		return nil, err
	}

	var snapshot DepthSnapshotResponse
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal depth snapshot: %w", err)
	}

	return &snapshot, nil
}
