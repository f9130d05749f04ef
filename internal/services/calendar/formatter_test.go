package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/calendar"
)

func formatterDay() time.Time {
	return time.Date(2024, time.January, 15, 0, 0, 0, 0, testLocation())
}

func sampleEvents() []calendar.Event {
	forecast := "0.3%"
	previous := "0.2%"
	return []calendar.Event{
		{
			Currency: calendar.EUR,
			Time:     "18:00",
			Title:    "ECB Press Conference",
			Impact:   calendar.ImpactMedium,
		},
		{
			Currency: calendar.USD,
			Time:     "21:30",
			Title:    "CPI m/m",
			Impact:   calendar.ImpactHigh,
			Forecast: &forecast,
			Previous: &previous,
		},
	}
}

func TestFormatEmptyCalendar(t *testing.T) {
	out := Format(nil, formatterDay(), false)

	assert.Contains(t, out, "Economic Calendar for Monday, 15 January 2024")
	assert.Contains(t, out, "No economic events found for today.")
	assert.NotContains(t, out, "Impact:")
}

func TestFormatChronological(t *testing.T) {
	out := Format(sampleEvents(), formatterDay(), false)

	assert.Contains(t, out, "Economic Calendar for Monday, 15 January 2024")
	assert.Contains(t, out, "Impact: 🔴 High   🟠 Medium   🟢 Low")
	assert.Contains(t, out, "18:00 - 🇪🇺 EUR - 🟠 ECB Press Conference")
	assert.Contains(t, out, "21:30 - 🇺🇸 USD - 🔴 CPI m/m (F: 0.3%, P: 0.2%)")

	// List order is preserved, not re-sorted by the formatter
	assert.Less(t,
		strings.Index(out, "ECB Press Conference"),
		strings.Index(out, "CPI m/m"),
	)
}

func TestFormatGroupedFollowsMajorOrder(t *testing.T) {
	out := Format(sampleEvents(), formatterDay(), true)

	// USD group comes first even though EUR is first chronologically
	usdIdx := strings.Index(out, "🇺🇸 USD")
	eurIdx := strings.Index(out, "🇪🇺 EUR")
	require.GreaterOrEqual(t, usdIdx, 0)
	require.GreaterOrEqual(t, eurIdx, 0)
	assert.Less(t, usdIdx, eurIdx)

	assert.Contains(t, out, "  21:30 - 🔴 CPI m/m (F: 0.3%, P: 0.2%)")
	assert.Contains(t, out, "  18:00 - 🟠 ECB Press Conference")
}

func TestFormatGroupedAndChronologicalShareContent(t *testing.T) {
	events := sampleEvents()

	chrono := Format(events, formatterDay(), false)
	grouped := Format(events, formatterDay(), true)

	for _, e := range events {
		assert.Contains(t, chrono, e.Title)
		assert.Contains(t, grouped, e.Title)
	}
}

func TestFormatMarksFallbackEvents(t *testing.T) {
	events := []calendar.Event{{
		Currency:   calendar.USD,
		Time:       "14:00",
		Title:      "Fed Chair Speech",
		Impact:     calendar.ImpactHigh,
		IsFallback: true,
	}}

	chrono := Format(events, formatterDay(), false)
	assert.Contains(t, chrono, "Fed Chair Speech [Est]")

	grouped := Format(events, formatterDay(), true)
	assert.Contains(t, grouped, "Fed Chair Speech [Est]")
}

func TestFormatMarksHighlightedEvents(t *testing.T) {
	events := []calendar.Event{{
		Currency:    calendar.JPY,
		Time:        "08:00",
		Title:       "BOJ Policy Statement",
		Impact:      calendar.ImpactHigh,
		Highlighted: true,
	}}

	out := Format(events, formatterDay(), false)
	assert.Contains(t, out, "🇯🇵 JPY ⭐")
}

func TestFormatOmitsAbsentFigures(t *testing.T) {
	actual := "4.25%"
	events := []calendar.Event{{
		Currency: calendar.GBP,
		Time:     "15:00",
		Title:    "Official Bank Rate",
		Impact:   calendar.ImpactHigh,
		Actual:   &actual,
	}}

	out := Format(events, formatterDay(), false)
	assert.Contains(t, out, "Official Bank Rate (A: 4.25%)")
	assert.NotContains(t, out, "F:")
	assert.NotContains(t, out, "P:")
}
