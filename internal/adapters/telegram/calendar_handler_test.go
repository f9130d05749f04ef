package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hermes/internal/domain/calendar"
)

func TestParseCalendarArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        string
		wantReq     calendar.Request
		wantGrouped bool
	}{
		{
			name: "empty args default to highlight mode",
			args: "",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactLow,
				Mode:      calendar.FilterHighlight,
			},
		},
		{
			name: "currency switches to strict",
			args: "USD",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactLow,
				Currency:  calendar.USD,
				Mode:      calendar.FilterStrict,
			},
		},
		{
			name: "lowercase currency accepted",
			args: "eur",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactLow,
				Currency:  calendar.EUR,
				Mode:      calendar.FilterStrict,
			},
		},
		{
			name: "impact only",
			args: "high",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactHigh,
				Mode:      calendar.FilterHighlight,
			},
		},
		{
			name: "combined currency impact grouped",
			args: "GBP medium grouped",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactMedium,
				Currency:  calendar.GBP,
				Mode:      calendar.FilterStrict,
			},
			wantGrouped: true,
		},
		{
			name: "unknown words ignored",
			args: "tomorrow please XYZ",
			wantReq: calendar.Request{
				MinImpact: calendar.ImpactLow,
				Mode:      calendar.FilterHighlight,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, grouped := parseCalendarArgs(tt.args)
			assert.Equal(t, tt.wantReq, req)
			assert.Equal(t, tt.wantGrouped, grouped)
		})
	}
}
