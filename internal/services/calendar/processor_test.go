package calendar

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/calendar"
	"hermes/pkg/logger"
)

func testLocation() *time.Location {
	return time.FixedZone("UTC+8", 8*3600)
}

func testDay(loc *time.Location) time.Time {
	return time.Date(2024, time.January, 15, 0, 0, 0, 0, loc)
}

func newTestProcessor() *Processor {
	return NewProcessor(testLocation(), logger.Get())
}

func TestProcessConvertsToLocalTime(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{{
		Country:    "US",
		Date:       "2024-01-15T13:30:00.000Z",
		Title:      "CPI m/m",
		Importance: Importance{Code: 2, Known: true},
	}}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 1)

	assert.Equal(t, calendar.USD, events[0].Currency)
	assert.Equal(t, "21:30", events[0].Time)
	assert.Equal(t, calendar.ImpactHigh, events[0].Impact)
	assert.Equal(t, "CPI m/m", events[0].Title)
	assert.False(t, events[0].IsFallback)
}

func TestProcessDropsEventsLeakingAcrossDayBoundary(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	// 18:30 UTC is 02:30 the next local day in UTC+8
	records := []RawRecord{{
		Country: "US",
		Date:    "2024-01-15T18:30:00.000Z",
		Title:   "Late Event",
	}}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	assert.Empty(t, events)
}

func TestProcessKeepsMalformedTimestampAsMidnight(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{{
		Country: "EU",
		Date:    "not-a-timestamp",
		Title:   "ECB Press Conference",
	}}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 1)
	assert.Equal(t, "00:00", events[0].Time)
	assert.Equal(t, calendar.EUR, events[0].Currency)
}

func TestProcessSkipsUnknownCountries(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{
		{Country: "BR", Date: "2024-01-15T01:00:00.000Z", Title: "Selic Rate"},
		{Country: "", Date: "2024-01-15T01:00:00.000Z", Title: "Mystery"},
		{Country: "US", Date: "2024-01-15T01:00:00.000Z", Title: "Retail Sales m/m"},
	}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 1)
	assert.Equal(t, calendar.USD, events[0].Currency)
}

func TestProcessImpactFloor(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{
		{Country: "US", Date: "2024-01-15T01:00:00.000Z", Title: "Minor", Importance: Importance{Code: -1, Known: true}},
		{Country: "US", Date: "2024-01-15T02:00:00.000Z", Title: "Moderate", Importance: Importance{Code: 0, Known: true}},
		{Country: "US", Date: "2024-01-15T03:00:00.000Z", Title: "Major", Importance: Importance{Code: 2, Known: true}},
	}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactMedium, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 2)
	assert.Equal(t, "Moderate", events[0].Title)
	assert.Equal(t, "Major", events[1].Title)
}

func TestProcessUnknownImportanceDefaultsToLow(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{{
		Country: "US",
		Date:    "2024-01-15T01:00:00.000Z",
		Title:   "Unlabeled",
	}}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 1)
	assert.Equal(t, calendar.ImpactLow, events[0].Impact)

	// The same record is excluded once the floor rises above Low
	events = p.Process(records, calendar.Request{MinImpact: calendar.ImpactMedium, Mode: calendar.FilterStrict}, day)
	assert.Empty(t, events)
}

func TestProcessStrictVersusHighlight(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{
		{Country: "US", Date: "2024-01-15T01:00:00.000Z", Title: "US Event"},
		{Country: "JP", Date: "2024-01-15T02:00:00.000Z", Title: "JP Event"},
	}

	t.Run("strict drops other currencies", func(t *testing.T) {
		events := p.Process(records, calendar.Request{
			MinImpact: calendar.ImpactLow,
			Currency:  calendar.USD,
			Mode:      calendar.FilterStrict,
		}, day)
		require.Len(t, events, 1)
		assert.Equal(t, calendar.USD, events[0].Currency)
		assert.False(t, events[0].Highlighted)
	})

	t.Run("highlight keeps all and flags matches", func(t *testing.T) {
		events := p.Process(records, calendar.Request{
			MinImpact: calendar.ImpactLow,
			Currency:  calendar.USD,
			Mode:      calendar.FilterHighlight,
		}, day)
		require.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, e.Currency == calendar.USD, e.Highlighted)
		}
	})
}

func TestProcessTitleFallsBackToIndicator(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{
		{Country: "US", Date: "2024-01-15T01:00:00.000Z", Indicator: "Unemployment Rate"},
		{Country: "US", Date: "2024-01-15T02:00:00.000Z"},
	}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 2)
	assert.Equal(t, "Unemployment Rate", events[0].Title)
	assert.Equal(t, "Unknown Event", events[1].Title)
}

func TestProcessSortsByTimestamp(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{
		{Country: "US", Date: "2024-01-15T10:00:00.000Z", Title: "Later"},
		{Country: "EU", Date: "2024-01-15T01:00:00.000Z", Title: "Earlier"},
		{Country: "GB", Date: "2024-01-15T05:00:00.000Z", Title: "Middle"},
	}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 3)

	assert.True(t, sort.SliceIsSorted(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	}))
	assert.Equal(t, "Earlier", events[0].Title)
	assert.Equal(t, "Later", events[2].Title)
}

func TestProcessCarriesFigures(t *testing.T) {
	p := newTestProcessor()
	day := testDay(testLocation())

	records := []RawRecord{{
		Country:  "US",
		Date:     "2024-01-15T01:00:00.000Z",
		Title:    "CPI m/m",
		Forecast: NewOptionalText("0.3%"),
		Previous: NewOptionalText("0.2%"),
	}}

	events := p.Process(records, calendar.Request{MinImpact: calendar.ImpactLow, Mode: calendar.FilterStrict}, day)
	require.Len(t, events, 1)

	require.NotNil(t, events[0].Forecast)
	assert.Equal(t, "0.3%", *events[0].Forecast)
	require.NotNil(t, events[0].Previous)
	assert.Equal(t, "0.2%", *events[0].Previous)
	assert.Nil(t, events[0].Actual)
}
