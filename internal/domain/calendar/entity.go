package calendar

import "time"

// Currency is an ISO-4217 code of one of the eight supported majors
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CHF Currency = "CHF"
	AUD Currency = "AUD"
	NZD Currency = "NZD"
	CAD Currency = "CAD"
)

// MajorCurrencies lists the supported currencies in display order.
// Grouped calendar output follows this order, not alphabetical.
var MajorCurrencies = []Currency{USD, EUR, GBP, JPY, CHF, AUD, NZD, CAD}

// countryToCurrency maps upstream 2-letter country codes to currencies
var countryToCurrency = map[string]Currency{
	"US": USD,
	"EU": EUR,
	"GB": GBP,
	"JP": JPY,
	"CH": CHF,
	"AU": AUD,
	"NZ": NZD,
	"CA": CAD,
}

// currencyToCountry is the inverse mapping, used for upstream query params
var currencyToCountry = map[Currency]string{
	USD: "US",
	EUR: "EU",
	GBP: "GB",
	JPY: "JP",
	CHF: "CH",
	AUD: "AU",
	NZD: "NZ",
	CAD: "CA",
}

// IsMajor reports whether the currency is one of the supported majors
func (c Currency) IsMajor() bool {
	_, ok := currencyToCountry[c]
	return ok
}

// CountryCode returns the upstream country code for the currency
func (c Currency) CountryCode() string {
	return currencyToCountry[c]
}

// CurrencyForCountry resolves an upstream country code to a major currency.
// The second return value is false for countries outside the major set.
func CurrencyForCountry(code string) (Currency, bool) {
	c, ok := countryToCurrency[code]
	return c, ok
}

// MajorCountryCodes returns the country codes for all major currencies,
// in display order
func MajorCountryCodes() []string {
	codes := make([]string, 0, len(MajorCurrencies))
	for _, c := range MajorCurrencies {
		codes = append(codes, currencyToCountry[c])
	}
	return codes
}

// Impact is the severity tier of an economic event
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// Rank returns the ordinal value used for impact-floor comparisons.
// Unknown impacts rank below Low so they never pass a filter.
func (i Impact) Rank() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	}
	return 0
}

// Valid checks if the impact is one of the three tiers
func (i Impact) Valid() bool {
	return i.Rank() > 0
}

// String returns string representation
func (i Impact) String() string {
	return string(i)
}

// ImpactFromImportance maps the upstream numeric importance code to an
// impact tier. This is the canonical table: -1 → Low, 0 and 1 → Medium,
// 2 and above → High. Anything unrecognized defaults to Low.
func ImpactFromImportance(code int) Impact {
	switch {
	case code <= -1:
		return ImpactLow
	case code == 0, code == 1:
		return ImpactMedium
	case code >= 2:
		return ImpactHigh
	}
	return ImpactLow
}

// Event is a single economic-calendar entry.
//
// Events are constructed fresh per request and immutable afterwards.
// Forecast, Previous and Actual are nil when the upstream record carries
// no value; renderers must omit them rather than print a placeholder.
type Event struct {
	Currency  Currency  `json:"currency"`
	Time      string    `json:"time"`      // wall-clock HH:MM in the service's local timezone
	Timestamp time.Time `json:"timestamp"` // full local date-time, used for sorting only
	Title     string    `json:"title"`
	Impact    Impact    `json:"impact"`
	Forecast  *string   `json:"forecast,omitempty"`
	Previous  *string   `json:"previous,omitempty"`
	Actual    *string   `json:"actual,omitempty"`

	// IsFallback marks synthetically generated events so renderers can
	// distinguish them from live data
	IsFallback bool `json:"is_fallback,omitempty"`

	// Highlighted marks events matching the requested currency in
	// highlight mode
	Highlighted bool `json:"highlighted,omitempty"`
}

// FilterMode controls how a requested currency is applied
type FilterMode string

const (
	// FilterStrict drops events whose currency differs from the request
	FilterStrict FilterMode = "strict"

	// FilterHighlight keeps all currencies and flags matches instead
	FilterHighlight FilterMode = "highlight"
)

// Request carries the query parameters for one calendar retrieval.
// The zero value asks for today's events of all majors at any impact.
type Request struct {
	MinImpact Impact
	Currency  Currency // optional; empty means no currency filter
	Mode      FilterMode
	DaysAhead int
}

// Normalized returns a copy with defaults applied and invalid fields
// downgraded: an unknown impact floor becomes Low and a non-major
// currency is cleared (treated as "no filter", never rejected).
// The second return value is false when the currency was cleared.
func (r Request) Normalized() (Request, bool) {
	ok := true
	if !r.MinImpact.Valid() {
		r.MinImpact = ImpactLow
	}
	if r.Mode == "" {
		r.Mode = FilterStrict
	}
	if r.Currency != "" && !r.Currency.IsMajor() {
		r.Currency = ""
		ok = false
	}
	if r.DaysAhead < 0 {
		r.DaysAhead = 0
	}
	return r, ok
}
