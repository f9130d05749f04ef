package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"hermes/internal/domain/calendar"
	"hermes/pkg/errors"
)

const calendarKeyPrefix = "calendar:events:"

// CalendarCache implements calendar.Cache using Redis. Live results are
// stored under a per-request key with a short TTL; the cache is purely
// an optimization and every failure degrades to a miss for the caller.
type CalendarCache struct {
	client *redis.Client
}

var _ calendar.Cache = (*CalendarCache)(nil)

// NewCalendarCache creates a new calendar cache repository
func NewCalendarCache(client *redis.Client) *CalendarCache {
	return &CalendarCache{
		client: client,
	}
}

// Get retrieves cached events for the given request key. A missing key
// is (nil, false, nil), not an error.
func (c *CalendarCache) Get(ctx context.Context, key string) ([]calendar.Event, bool, error) {
	data, err := c.client.Get(ctx, calendarKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get calendar events from redis: key=%s", key)
	}

	var events []calendar.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, false, errors.Wrapf(err, "failed to unmarshal cached calendar events: key=%s", key)
	}

	return events, true, nil
}

// Set stores events under the request key with the given TTL
func (c *CalendarCache) Set(ctx context.Context, key string, events []calendar.Event, ttl time.Duration) error {
	data, err := json.Marshal(events)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal calendar events: key=%s", key)
	}

	if err := c.client.Set(ctx, calendarKeyPrefix+key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to save calendar events to redis: key=%s", key)
	}

	return nil
}
