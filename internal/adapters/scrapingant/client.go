package scrapingant

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"hermes/internal/adapters/tradingview"
	"hermes/internal/domain/calendar"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Endpoint is ScrapingAnt's generic scraping API
const Endpoint = "https://api.scrapingant.com/v2/general"

// Browser rendering through a residential proxy is slower than a direct
// call, so the proxy path gets a wider timeout.
const defaultTimeout = 60 * time.Second

// Client fetches calendar payloads through the ScrapingAnt proxy when
// direct access to the provider is blocked. It implements
// calendar.Fetcher and is fully substitutable for the direct client:
// the orchestrator never knows which one executed the network call.
type Client struct {
	endpoint   string
	targetURL  string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

var _ calendar.Fetcher = (*Client)(nil)

// NewClient creates a proxied fetcher for the TradingView calendar
func NewClient(apiKey string, log *logger.Logger) *Client {
	return &Client{
		endpoint:   Endpoint,
		targetURL:  tradingview.BaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.With("component", "scrapingant_client"),
	}
}

// NewClientWithURLs creates a proxied fetcher against custom endpoints, used in tests
func NewClientWithURLs(endpoint, targetURL, apiKey string, log *logger.Logger) *Client {
	c := NewClient(apiKey, log)
	c.endpoint = endpoint
	c.targetURL = targetURL
	return c
}

// proxyRequest is ScrapingAnt's request envelope
type proxyRequest struct {
	URL              string            `json:"url"`
	Browser          bool              `json:"browser"`
	ReturnPageSource bool              `json:"return_page_source"`
	ProxyType        string            `json:"proxy_type"`
	Headers          map[string]string `json:"headers,omitempty"`
}

// proxyResponse is ScrapingAnt's response envelope. Which field carries
// the page body has varied across API versions.
type proxyResponse struct {
	Content string `json:"content"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Fetch wraps the exact target URL and query into a proxy envelope,
// POSTs it to ScrapingAnt, and unwraps the effective upstream body.
// The failure contract matches the direct fetcher: every failure shape
// is a recoverable error.
func (c *Client) Fetch(ctx context.Context, q calendar.Query) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "scrapingant API key not configured")
	}

	target := c.targetURL + "?" + tradingview.EventsQuery(q).Encode()
	payload := proxyRequest{
		URL:              target,
		Browser:          true,
		ReturnPageSource: true,
		ProxyType:        "residential",
		Headers: map[string]string{
			"Accept":  "application/json, text/plain, */*",
			"Origin":  "https://www.tradingview.com",
			"Referer": "https://www.tradingview.com/economic-calendar/",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal proxy request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create proxy request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	c.log.Debugw("Requesting calendar events via proxy", "target", c.targetURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "proxy request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUpstreamStatus, "proxy status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read proxy response")
	}

	var envelope proxyResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.Wrap(err, "unmarshal proxy envelope")
	}

	content := envelope.Content
	if content == "" {
		content = envelope.Text
	}
	if content == "" {
		content = envelope.HTML
	}
	if content == "" {
		return nil, errors.ErrProxyEnvelope
	}

	return tradingview.ValidateBody([]byte(content))
}
