package calendar

import (
	"context"
	"fmt"
	"time"

	"hermes/internal/domain/calendar"
	"hermes/internal/metrics"
	"hermes/pkg/logger"
)

// Config holds the immutable calendar-service configuration. It is set
// at construction and never mutated; there is no global state.
type Config struct {
	// TimezoneOffset is the local timezone as whole hours from UTC.
	// Event times and day boundaries are computed in this zone.
	TimezoneOffset int

	// ForceFallback disables live fetching entirely, for testing the
	// degradation path
	ForceFallback bool

	// CacheTTL bounds how long live results are reused. Zero disables
	// caching even when a cache is wired.
	CacheTTL time.Duration
}

// Service is the calendar orchestrator: it owns the fetch → normalize →
// process pipeline and degrades to the synthetic generator whenever a
// stage fails or yields nothing.
//
// GetCalendar never fails on upstream problems; the only caller-visible
// signal of degradation is the IsFallback flag on returned events.
type Service struct {
	cfg       Config
	loc       *time.Location
	fetcher   calendar.Fetcher
	processor *Processor
	fallback  *FallbackGenerator
	cache     calendar.Cache
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates the calendar service. fetcher is the configured
// data path (direct or proxied); cache may be nil.
func NewService(cfg Config, fetcher calendar.Fetcher, cache calendar.Cache, log *logger.Logger) *Service {
	name := fmt.Sprintf("UTC+%d", cfg.TimezoneOffset)
	if cfg.TimezoneOffset < 0 {
		name = fmt.Sprintf("UTC%d", cfg.TimezoneOffset)
	}
	loc := time.FixedZone(name, cfg.TimezoneOffset*3600)

	return &Service{
		cfg:       cfg,
		loc:       loc,
		fetcher:   fetcher,
		processor: NewProcessor(loc, log),
		fallback:  NewFallbackGenerator(loc, log),
		cache:     cache,
		log:       log.With("component", "calendar_service"),
		now:       time.Now,
	}
}

// Location returns the service's local timezone
func (s *Service) Location() *time.Location {
	return s.loc
}

// LocalDate returns local midnight of today plus daysAhead
func (s *Service) LocalDate(daysAhead int) time.Time {
	local := s.now().In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, daysAhead)
}

// GetCalendar returns the economic events for the requested day, sorted
// ascending by time. Live data is used when every pipeline stage
// succeeds; otherwise the result comes from the fallback generator with
// IsFallback set on every event. Upstream failures never surface as
// errors.
func (s *Service) GetCalendar(ctx context.Context, req calendar.Request) []calendar.Event {
	req, validCurrency := req.Normalized()
	if !validCurrency {
		s.log.Warnw("Requested currency is not a major currency, ignoring filter")
	}

	day := s.LocalDate(req.DaysAhead)
	s.log.Infow("Fetching calendar",
		"date", day.Format("2006-01-02"),
		"min_impact", req.MinImpact,
		"currency", req.Currency,
		"mode", req.Mode,
	)

	if s.cfg.ForceFallback {
		return s.generateFallback(req, day)
	}

	cacheKey := s.cacheKey(req, day)
	if events, ok := s.cacheGet(ctx, cacheKey); ok {
		s.log.Infow("Calendar served from cache", "events", len(events))
		return events
	}

	events, ok := s.fetchLive(ctx, req, day)
	if !ok {
		return s.generateFallback(req, day)
	}

	s.cacheSet(ctx, cacheKey, events)
	return events
}

// fetchLive runs the live pipeline. The boolean is false whenever the
// caller must degrade to synthetic data: transport failure, unusable
// payload, or zero events surviving the filters.
func (s *Service) fetchLive(ctx context.Context, req calendar.Request, day time.Time) ([]calendar.Event, bool) {
	query := s.buildQuery(req, day)

	start := s.now()
	body, err := s.fetcher.Fetch(ctx, query)
	metrics.CalendarFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CalendarFetches.WithLabelValues("error").Inc()
		s.log.Warnw("Calendar fetch failed", "error", err)
		return nil, false
	}
	metrics.CalendarFetches.WithLabelValues("ok").Inc()

	records := ExtractRecords(body)
	s.log.Infow("Normalized upstream response", "records", len(records))
	if len(records) == 0 {
		return nil, false
	}

	events := s.processor.Process(records, req, day)
	if len(events) == 0 {
		return nil, false
	}

	metrics.CalendarEventsReturned.WithLabelValues("live").Add(float64(len(events)))
	return events, true
}

// buildQuery computes the UTC range covering the target local day,
// local midnight to midnight
func (s *Service) buildQuery(req calendar.Request, day time.Time) calendar.Query {
	from := day.UTC()
	to := day.AddDate(0, 0, 1).Add(-time.Second).UTC()

	countries := calendar.MajorCountryCodes()
	if req.Currency != "" && req.Mode == calendar.FilterStrict {
		countries = []string{req.Currency.CountryCode()}
	}

	return calendar.Query{
		From:      from,
		To:        to,
		Countries: countries,
		Limit:     1000,
	}
}

func (s *Service) generateFallback(req calendar.Request, day time.Time) []calendar.Event {
	metrics.CalendarFallbacks.Inc()
	events := s.fallback.Generate(req, day, s.now())
	metrics.CalendarEventsReturned.WithLabelValues("fallback").Add(float64(len(events)))
	return events
}

func (s *Service) cacheKey(req calendar.Request, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", day.Format("2006-01-02"), req.MinImpact, req.Currency, req.Mode)
}

func (s *Service) cacheGet(ctx context.Context, key string) ([]calendar.Event, bool) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return nil, false
	}
	events, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warnw("Calendar cache read failed", "error", err)
		return nil, false
	}
	return events, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, events []calendar.Event) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, events, s.cfg.CacheTTL); err != nil {
		s.log.Warnw("Calendar cache write failed", "error", err)
	}
}

// FormatCalendar renders events for today's header using the service's
// local date; see Format for the layout contract
func (s *Service) FormatCalendar(events []calendar.Event, groupByCurrency bool) string {
	return Format(events, s.LocalDate(0), groupByCurrency)
}
