package calendar

import (
	"fmt"
	"strings"
	"time"

	"hermes/internal/domain/calendar"
)

// currencyFlags maps currencies to their flag emoji
var currencyFlags = map[calendar.Currency]string{
	calendar.USD: "🇺🇸",
	calendar.EUR: "🇪🇺",
	calendar.GBP: "🇬🇧",
	calendar.JPY: "🇯🇵",
	calendar.CHF: "🇨🇭",
	calendar.AUD: "🇦🇺",
	calendar.NZD: "🇳🇿",
	calendar.CAD: "🇨🇦",
}

// impactEmoji maps impact tiers to their marker emoji
var impactEmoji = map[calendar.Impact]string{
	calendar.ImpactHigh:   "🔴",
	calendar.ImpactMedium: "🟠",
	calendar.ImpactLow:    "🟢",
}

// Format renders an event list as calendar text for the given local day.
//
// Chronological mode prints one line per event in list order. Grouped
// mode buckets events by currency in the fixed major-currency display
// order, chronological within each bucket. Fallback events carry an
// [Est] suffix and highlighted events a star. Empty input renders a
// fixed no-events message, never an empty string.
func Format(events []calendar.Event, day time.Time, groupByCurrency bool) string {
	header := fmt.Sprintf("📅 Economic Calendar for %s", day.Format("Monday, 02 January 2006"))

	if len(events) == 0 {
		return header + "\n\nNo economic events found for today."
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString("Impact: 🔴 High   🟠 Medium   🟢 Low\n")

	if groupByCurrency {
		formatGrouped(&b, events)
	} else {
		formatChronological(&b, events)
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatChronological(b *strings.Builder, events []calendar.Event) {
	for _, e := range events {
		fmt.Fprintf(b, "%s - %s %s%s - %s %s%s%s\n",
			e.Time,
			currencyFlags[e.Currency],
			e.Currency,
			highlightMark(e),
			impactEmoji[e.Impact],
			e.Title,
			figuresSuffix(e),
			fallbackMark(e),
		)
	}
}

func formatGrouped(b *strings.Builder, events []calendar.Event) {
	buckets := make(map[calendar.Currency][]calendar.Event)
	for _, e := range events {
		buckets[e.Currency] = append(buckets[e.Currency], e)
	}

	// Fixed display order, not alphabetical and not first-seen.
	for _, currency := range calendar.MajorCurrencies {
		group, ok := buckets[currency]
		if !ok {
			continue
		}

		fmt.Fprintf(b, "%s %s%s\n", currencyFlags[currency], currency, highlightMark(group[0]))
		for _, e := range group {
			fmt.Fprintf(b, "  %s - %s %s%s%s\n",
				e.Time,
				impactEmoji[e.Impact],
				e.Title,
				figuresSuffix(e),
				fallbackMark(e),
			)
		}
		b.WriteString("\n")
	}
}

// figuresSuffix renders the optional forecast/previous/actual figures.
// Absent values are omitted entirely.
func figuresSuffix(e calendar.Event) string {
	var parts []string
	if e.Forecast != nil {
		parts = append(parts, "F: "+*e.Forecast)
	}
	if e.Previous != nil {
		parts = append(parts, "P: "+*e.Previous)
	}
	if e.Actual != nil {
		parts = append(parts, "A: "+*e.Actual)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func fallbackMark(e calendar.Event) string {
	if e.IsFallback {
		return " [Est]"
	}
	return ""
}

func highlightMark(e calendar.Event) string {
	if e.Highlighted {
		return " ⭐"
	}
	return ""
}
