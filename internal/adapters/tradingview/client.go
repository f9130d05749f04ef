package tradingview

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hermes/internal/domain/calendar"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// BaseURL is the TradingView economic-calendar events endpoint
const BaseURL = "https://economic-calendar.tradingview.com/events"

// The endpoint rejects non-browser clients, so requests carry a
// realistic browser identity.
const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	origin    = "https://www.tradingview.com"
	referer   = "https://www.tradingview.com/economic-calendar/"
)

const defaultTimeout = 30 * time.Second

// Client fetches raw calendar payloads directly from TradingView.
// It implements calendar.Fetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

var _ calendar.Fetcher = (*Client)(nil)

// NewClient creates a direct TradingView fetcher
func NewClient(log *logger.Logger) *Client {
	return &Client{
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log.With("component", "tradingview_client"),
	}
}

// NewClientWithURL creates a fetcher against a custom endpoint, used in tests
func NewClientWithURL(baseURL string, log *logger.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// Fetch performs one GET against the events endpoint and returns the raw
// body. All failure shapes — transport errors, non-200 statuses, empty
// bodies, bodies that are not JSON — come back as errors the caller
// treats as recoverable. There are no retries at this layer.
func (c *Client) Fetch(ctx context.Context, q calendar.Query) ([]byte, error) {
	endpoint := c.baseURL + "?" + EventsQuery(q).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create calendar request")
	}
	setBrowserHeaders(req.Header)

	c.log.Debugw("Requesting calendar events", "url", c.baseURL, "from", q.From, "to", q.To)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "calendar request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrUpstreamStatus, "status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read calendar response")
	}

	return ValidateBody(body)
}

// EventsQuery serializes a calendar query into the endpoint's parameters
func EventsQuery(q calendar.Query) url.Values {
	values := url.Values{}
	values.Set("from", FormatAPITime(q.From))
	values.Set("to", FormatAPITime(q.To))
	if len(q.Countries) > 0 {
		values.Set("countries", strings.Join(q.Countries, ","))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// FormatAPITime formats a UTC instant the way the endpoint expects:
// ISO-8601 with millisecond precision and a Z suffix
func FormatAPITime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format("2006-01-02T15:04:05") + ".000Z"
}

// ValidateBody rejects bodies that cannot possibly be the JSON payload:
// empty responses and anything not starting with '[' or '{' (typically
// an HTML block page)
func ValidateBody(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.ErrEmptyResponse
	}
	if trimmed[0] != '[' && trimmed[0] != '{' {
		return nil, errors.ErrNotJSON
	}
	return body, nil
}

func setBrowserHeaders(h http.Header) {
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Origin", origin)
	h.Set("Referer", referer)
	h.Set("Connection", "keep-alive")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
}
