package calendar

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"hermes/internal/domain/calendar"
	"hermes/pkg/logger"
)

// eventTemplate is one representative event for the synthetic calendar
type eventTemplate struct {
	title      string
	importance int
}

// fallbackTemplates holds plausible recurring events per currency.
// Importance tiers use the same numeric codes as the upstream API so
// they run through the canonical impact mapping.
var fallbackTemplates = map[calendar.Currency][]eventTemplate{
	calendar.USD: {
		{title: "Fed Chair Speech", importance: 2},
		{title: "FOMC Meeting Minutes", importance: 2},
		{title: "Nonfarm Payrolls", importance: 3},
		{title: "CPI m/m", importance: 2},
		{title: "Retail Sales m/m", importance: 1},
		{title: "Unemployment Rate", importance: 2},
	},
	calendar.EUR: {
		{title: "ECB Press Conference", importance: 2},
		{title: "German Manufacturing PMI", importance: 1},
		{title: "CPI y/y", importance: 2},
		{title: "Eurozone GDP q/q", importance: 2},
	},
	calendar.GBP: {
		{title: "BOE Monetary Policy Report", importance: 2},
		{title: "Manufacturing PMI", importance: 1},
		{title: "GDP m/m", importance: 2},
	},
	calendar.JPY: {
		{title: "BOJ Policy Statement", importance: 2},
		{title: "Tokyo Core CPI y/y", importance: 1},
		{title: "Monetary Policy Meeting Minutes", importance: 1},
	},
	calendar.CHF: {
		{title: "SNB Monetary Policy Assessment", importance: 2},
		{title: "PPI m/m", importance: 0},
	},
	calendar.AUD: {
		{title: "RBA Rate Statement", importance: 2},
		{title: "Employment Change", importance: 1},
		{title: "CPI q/q", importance: 2},
	},
	calendar.NZD: {
		{title: "RBNZ Rate Statement", importance: 2},
		{title: "GDP q/q", importance: 1},
	},
	calendar.CAD: {
		{title: "BOC Rate Statement", importance: 2},
		{title: "Employment Change", importance: 1},
		{title: "CPI m/m", importance: 1},
	},
}

// weekdayCurrencies proposes a plausible currency mix per day of week,
// mirroring which economies typically publish on that day. Weekends see
// little activity, so only USD remains.
var weekdayCurrencies = map[time.Weekday][]calendar.Currency{
	time.Monday:    {calendar.USD, calendar.EUR},
	time.Tuesday:   {calendar.GBP, calendar.USD, calendar.AUD},
	time.Wednesday: {calendar.JPY, calendar.EUR, calendar.USD},
	time.Thursday:  {calendar.USD, calendar.GBP, calendar.CHF},
	time.Friday:    {calendar.USD, calendar.CAD, calendar.JPY},
	time.Saturday:  {calendar.USD},
	time.Sunday:    {calendar.USD},
}

// FallbackGenerator synthesizes a plausible calendar when no live data
// is obtainable. It is the guaranteed last-resort path: it performs no
// I/O and produces a non-empty result whenever any template passes the
// impact floor.
type FallbackGenerator struct {
	loc *time.Location
	log *logger.Logger
}

// NewFallbackGenerator creates a generator for the given local timezone
func NewFallbackGenerator(loc *time.Location, log *logger.Logger) *FallbackGenerator {
	return &FallbackGenerator{
		loc: loc,
		log: log.With("component", "calendar_fallback"),
	}
}

// Generate builds synthetic events for the target local day.
//
// Currency and title selection is seeded by the target date plus the
// request, so the same day with the same request always proposes the
// same event mix. Only the time-of-day jitter depends on now: before
// noon, times are biased into the remainder of the day.
func (g *FallbackGenerator) Generate(req calendar.Request, day time.Time, now time.Time) []calendar.Event {
	local := day.In(g.loc)

	// Separate streams keep selection independent of time jitter.
	selRng := rand.New(rand.NewSource(g.seed(local, req)))
	timeRng := rand.New(rand.NewSource(g.seed(local, req) ^ 0x9e3779b9))

	currencies := g.activeCurrencies(local, req)

	events := make([]calendar.Event, 0, 2*len(currencies))
	for _, currency := range currencies {
		templates := g.eligibleTemplates(currency, req.MinImpact)
		if len(templates) == 0 {
			continue
		}

		count := 1 + selRng.Intn(2)
		if count > len(templates) {
			count = len(templates)
		}
		order := selRng.Perm(len(templates))

		for i := 0; i < count; i++ {
			tpl := templates[order[i]]
			timestamp := g.eventTime(local, now, timeRng)

			events = append(events, calendar.Event{
				Currency:    currency,
				Time:        timestamp.Format("15:04"),
				Timestamp:   timestamp,
				Title:       tpl.title,
				Impact:      calendar.ImpactFromImportance(tpl.importance),
				IsFallback:  true,
				Highlighted: req.Currency != "" && req.Mode == calendar.FilterHighlight && currency == req.Currency,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	g.log.Infow("Generated fallback events",
		"date", local.Format("2006-01-02"),
		"count", len(events),
	)
	return events
}

// activeCurrencies picks the day's currency mix. A strict currency
// filter narrows the set to exactly that currency; highlight mode keeps
// the full mix and makes sure the requested currency is part of it.
func (g *FallbackGenerator) activeCurrencies(local time.Time, req calendar.Request) []calendar.Currency {
	if req.Currency != "" && req.Mode == calendar.FilterStrict {
		return []calendar.Currency{req.Currency}
	}

	active := weekdayCurrencies[local.Weekday()]
	if req.Currency == "" {
		return active
	}
	for _, c := range active {
		if c == req.Currency {
			return active
		}
	}
	return append(append([]calendar.Currency{}, active...), req.Currency)
}

// eligibleTemplates filters a currency's templates by the impact floor
func (g *FallbackGenerator) eligibleTemplates(currency calendar.Currency, minImpact calendar.Impact) []eventTemplate {
	var eligible []eventTemplate
	for _, tpl := range fallbackTemplates[currency] {
		if calendar.ImpactFromImportance(tpl.importance).Rank() >= minImpact.Rank() {
			eligible = append(eligible, tpl)
		}
	}
	return eligible
}

// eventTime spreads synthetic events across the day on quarter-hour
// boundaries, future-biased when generated before local noon
func (g *FallbackGenerator) eventTime(local, now time.Time, rng *rand.Rand) time.Time {
	nowLocal := now.In(g.loc)

	var hour int
	if nowLocal.Hour() < 12 {
		hour = nowLocal.Hour() + 1 + rng.Intn(23-nowLocal.Hour())
	} else {
		hour = rng.Intn(24)
	}
	minute := 15 * rng.Intn(4)

	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, g.loc)
}

// seed derives a deterministic PRNG seed from the target date and the
// request parameters
func (g *FallbackGenerator) seed(local time.Time, req calendar.Request) int64 {
	h := fnv.New64a()
	h.Write([]byte(local.Format("2006-01-02")))
	h.Write([]byte(req.Currency))
	h.Write([]byte(req.MinImpact))
	h.Write([]byte(req.Mode))
	return int64(h.Sum64())
}
