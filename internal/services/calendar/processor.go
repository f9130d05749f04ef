package calendar

import (
	"sort"
	"time"

	"hermes/internal/domain/calendar"
	"hermes/pkg/logger"
)

// Processor maps raw upstream records onto canonical Events: resolves
// country codes to currencies, converts timestamps into the configured
// local timezone, classifies impact, and applies the request filters.
type Processor struct {
	loc *time.Location
	log *logger.Logger
}

// NewProcessor creates a processor for the given local timezone
func NewProcessor(loc *time.Location, log *logger.Logger) *Processor {
	return &Processor{
		loc: loc,
		log: log.With("component", "calendar_processor"),
	}
}

// Process converts raw records into Events for the target local day.
// A malformed record never aborts the batch: each record either maps
// cleanly or is skipped with a log line. The result is sorted ascending
// by timestamp.
func (p *Processor) Process(records []RawRecord, req calendar.Request, day time.Time) []calendar.Event {
	events := make([]calendar.Event, 0, len(records))

	for _, rec := range records {
		event, ok := p.processRecord(rec, req, day)
		if !ok {
			continue
		}
		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	p.log.Infow("Processed calendar records",
		"raw", len(records),
		"kept", len(events),
	)
	return events
}

// processRecord maps a single raw record. The boolean is false when the
// record must be skipped (unknown country, filtered out, wrong day).
func (p *Processor) processRecord(rec RawRecord, req calendar.Request, day time.Time) (calendar.Event, bool) {
	if rec.Country == "" {
		return calendar.Event{}, false
	}

	// Records outside the major-currency set are dropped, not coerced.
	currency, ok := calendar.CurrencyForCountry(rec.Country)
	if !ok {
		return calendar.Event{}, false
	}

	if req.Currency != "" && req.Mode == calendar.FilterStrict && currency != req.Currency {
		return calendar.Event{}, false
	}

	timestamp, parsed := p.parseEventTime(rec.Date, day)
	if parsed {
		// Timezone-boundary leakage guard: the converted local date must
		// be the requested day.
		y1, m1, d1 := timestamp.Date()
		y2, m2, d2 := day.In(p.loc).Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return calendar.Event{}, false
		}
	}

	impact := calendar.ImpactLow
	if rec.Importance.Known {
		impact = calendar.ImpactFromImportance(rec.Importance.Code)
	}
	if impact.Rank() < req.MinImpact.Rank() {
		return calendar.Event{}, false
	}

	title := rec.Title
	if title == "" {
		title = rec.Indicator
	}
	if title == "" {
		title = "Unknown Event"
	}

	return calendar.Event{
		Currency:    currency,
		Time:        timestamp.Format("15:04"),
		Timestamp:   timestamp,
		Title:       title,
		Impact:      impact,
		Forecast:    rec.Forecast.Ptr(),
		Previous:    rec.Previous.Ptr(),
		Actual:      rec.Actual.Ptr(),
		Highlighted: req.Currency != "" && req.Mode == calendar.FilterHighlight && currency == req.Currency,
	}, true
}

// parseEventTime parses the upstream UTC timestamp and converts it into
// the local timezone. An unparseable timestamp falls back to local
// midnight of the target day so the record keeps a 00:00 placeholder
// instead of being dropped; the second return value reports whether the
// strict date-match check applies.
func (p *Processor) parseEventTime(raw string, day time.Time) (time.Time, bool) {
	if raw == "" {
		return p.midnight(day), false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		p.log.Warnw("Failed to parse event time, using midnight placeholder",
			"value", raw,
			"error", err,
		)
		return p.midnight(day), false
	}
	return ts.In(p.loc), true
}

func (p *Processor) midnight(day time.Time) time.Time {
	local := day.In(p.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
}
