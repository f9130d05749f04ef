package calendar

import (
	"context"
	"time"
)

// Query describes the upstream date range and country filter for one fetch.
// From and To are UTC instants; the provider serializes them itself.
type Query struct {
	From      time.Time
	To        time.Time
	Countries []string
	Limit     int
}

// Fetcher retrieves the raw calendar payload from a data provider.
//
// Implementations return the raw response body on success. Transport
// failures, non-200 statuses, empty bodies and bodies that are not
// recognizable as JSON are reported as errors; the orchestrator treats
// every error as recoverable and switches to synthetic data.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]byte, error)
}

// Cache stores processed live events for a short period so repeated
// requests within the TTL skip the upstream round-trip. Implementations
// must treat a miss as (nil, false, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]Event, bool, error)
	Set(ctx context.Context, key string, events []Event, ttl time.Duration) error
}
