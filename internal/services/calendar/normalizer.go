package calendar

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawRecord is one upstream calendar record before processing.
// Field names follow the provider's wire format.
type RawRecord struct {
	Country    string       `json:"country"`
	Date       string       `json:"date"`
	Title      string       `json:"title"`
	Indicator  string       `json:"indicator"`
	Importance Importance   `json:"importance"`
	Forecast   OptionalText `json:"forecast"`
	Previous   OptionalText `json:"previous"`
	Actual     OptionalText `json:"actual"`
}

// Importance decodes the upstream severity field, which arrives either as
// a numeric code or as a tier name. Known is false when the field was
// absent, null, or unrecognized.
type Importance struct {
	Code  int
	Known bool
}

// UnmarshalJSON implements json.Unmarshaler
func (i *Importance) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		i.Code = int(num)
		i.Known = true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Tolerate unexpected shapes; the record keeps a default impact.
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "low":
		i.Code, i.Known = -1, true
	case "medium":
		i.Code, i.Known = 0, true
	case "high":
		i.Code, i.Known = 2, true
	default:
		if code, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			i.Code, i.Known = code, true
		}
	}
	return nil
}

// OptionalText decodes a free-text economic figure that may arrive as a
// string, a number, or null. Absent values stay nil so renderers omit
// them instead of printing a placeholder.
type OptionalText struct {
	value *string
}

// UnmarshalJSON implements json.Unmarshaler
func (t *OptionalText) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "" {
			return nil
		}
		t.value = &str
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		v := num.String()
		t.value = &v
	}
	return nil
}

// Ptr returns the decoded value, or nil when absent
func (t OptionalText) Ptr() *string {
	return t.value
}

// NewOptionalText builds a present OptionalText; used by tests and the
// fallback generator
func NewOptionalText(s string) OptionalText {
	return OptionalText{value: &s}
}

// The provider has shipped several response envelopes over time: a bare
// array, {"result": [...]}, {"data": [...]}, and the scraping proxy's
// {"content": "<json string>"} wrapper around any of the former. Each
// shape gets its own parser; ExtractRecords tries them in order and the
// first success wins.
type envelopeParser func([]byte) ([]RawRecord, bool)

var envelopeParsers = []envelopeParser{
	parseBareArray,
	parseResultEnvelope,
	parseDataEnvelope,
	parseProxyEnvelope,
}

// ExtractRecords interprets the raw response body and extracts the flat
// record list. An unparseable body or an unrecognized envelope yields an
// empty list; this is "no data", never an error, and sends the caller
// down the fallback path.
func ExtractRecords(body []byte) []RawRecord {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	for _, parse := range envelopeParsers {
		if records, ok := parse(trimmed); ok {
			return records
		}
	}
	return nil
}

func parseBareArray(body []byte) ([]RawRecord, bool) {
	if body[0] != '[' {
		return nil, false
	}
	var records []RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, false
	}
	return records, true
}

func parseResultEnvelope(body []byte) ([]RawRecord, bool) {
	return parseKeyedEnvelope(body, "result")
}

func parseDataEnvelope(body []byte) ([]RawRecord, bool) {
	return parseKeyedEnvelope(body, "data")
}

func parseKeyedEnvelope(body []byte, key string) ([]RawRecord, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	inner, ok := envelope[key]
	if !ok {
		return nil, false
	}
	var records []RawRecord
	if err := json.Unmarshal(inner, &records); err != nil {
		return nil, false
	}
	return records, true
}

// parseProxyEnvelope unwraps a proxy response whose content field holds
// the upstream body as a JSON-encoded string, then recurses into the
// plain envelope shapes.
func parseProxyEnvelope(body []byte) ([]RawRecord, bool) {
	var envelope struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Content == "" {
		return nil, false
	}

	inner := bytes.TrimSpace([]byte(envelope.Content))
	if len(inner) == 0 {
		return nil, false
	}
	for _, parse := range []envelopeParser{parseBareArray, parseResultEnvelope, parseDataEnvelope} {
		if records, ok := parse(inner); ok {
			return records, true
		}
	}
	return nil, false
}
