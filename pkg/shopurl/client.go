// Package shopurl is the client for the shop URL resolution endpoint.
package shopurl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const UpdatePath = "/update_shop_url"

type Request struct {
	ShopID string `json:"shop_id"`
}

// Resolution is the endpoint's answer. SalonName is informational.
type Resolution struct {
	Success   bool   `json:"success"`
	URL       string `json:"url,omitempty"`
	SalonName string `json:"salon_name,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. A nil httpClient gets an
// instrumented default without a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Resolve posts shopID and decodes the answer. The body is decoded whatever
// the status code, since a rejected id comes back as 400 {"success": false}.
func (c *Client) Resolve(ctx context.Context, shopID string) (Resolution, error) {
	body, err := json.Marshal(Request{ShopID: shopID})
	if err != nil {
		return Resolution{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UpdatePath, bytes.NewReader(body))
	if err != nil {
		return Resolution{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Resolution{}, fmt.Errorf("post %s: %w", UpdatePath, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Resolution{}, fmt.Errorf("read response: %w", err)
	}

	var res Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		return Resolution{}, fmt.Errorf("malformed response (status %d): %w", resp.StatusCode, err)
	}
	if res.Success && res.URL == "" {
		return Resolution{}, fmt.Errorf("malformed response (status %d): success without url", resp.StatusCode)
	}
	return res, nil
}
