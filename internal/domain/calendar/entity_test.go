package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImpactFromImportance(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected Impact
	}{
		{name: "negative one is low", code: -1, expected: ImpactLow},
		{name: "very negative is low", code: -5, expected: ImpactLow},
		{name: "zero is medium", code: 0, expected: ImpactMedium},
		{name: "one is medium", code: 1, expected: ImpactMedium},
		{name: "two is high", code: 2, expected: ImpactHigh},
		{name: "three is high", code: 3, expected: ImpactHigh},
		{name: "large code is high", code: 10, expected: ImpactHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ImpactFromImportance(tt.code))
		})
	}
}

func TestImpactRank(t *testing.T) {
	assert.Equal(t, 1, ImpactLow.Rank())
	assert.Equal(t, 2, ImpactMedium.Rank())
	assert.Equal(t, 3, ImpactHigh.Rank())
	assert.Equal(t, 0, Impact("bogus").Rank())

	assert.True(t, ImpactHigh.Rank() > ImpactMedium.Rank())
	assert.True(t, ImpactMedium.Rank() > ImpactLow.Rank())
}

func TestImpactValid(t *testing.T) {
	assert.True(t, ImpactLow.Valid())
	assert.True(t, ImpactMedium.Valid())
	assert.True(t, ImpactHigh.Valid())
	assert.False(t, Impact("").Valid())
	assert.False(t, Impact("Critical").Valid())
}

func TestCurrencyForCountry(t *testing.T) {
	cur, ok := CurrencyForCountry("US")
	assert.True(t, ok)
	assert.Equal(t, USD, cur)

	cur, ok = CurrencyForCountry("JP")
	assert.True(t, ok)
	assert.Equal(t, JPY, cur)

	_, ok = CurrencyForCountry("BR")
	assert.False(t, ok)

	_, ok = CurrencyForCountry("")
	assert.False(t, ok)
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, cur := range MajorCurrencies {
		code := cur.CountryCode()
		assert.NotEmpty(t, code)

		back, ok := CurrencyForCountry(code)
		assert.True(t, ok)
		assert.Equal(t, cur, back)
	}
}

func TestIsMajor(t *testing.T) {
	assert.True(t, USD.IsMajor())
	assert.True(t, CAD.IsMajor())
	assert.False(t, Currency("SEK").IsMajor())
	assert.False(t, Currency("usd").IsMajor())
	assert.False(t, Currency("").IsMajor())
}

func TestMajorCountryCodes(t *testing.T) {
	codes := MajorCountryCodes()
	assert.Equal(t, []string{"US", "EU", "GB", "JP", "CH", "AU", "NZ", "CA"}, codes)
}

func TestRequestNormalized(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		req, ok := Request{}.Normalized()
		assert.True(t, ok)
		assert.Equal(t, ImpactLow, req.MinImpact)
		assert.Equal(t, FilterStrict, req.Mode)
		assert.Equal(t, Currency(""), req.Currency)
	})

	t.Run("invalid impact downgraded to low", func(t *testing.T) {
		req, ok := Request{MinImpact: Impact("Extreme")}.Normalized()
		assert.True(t, ok)
		assert.Equal(t, ImpactLow, req.MinImpact)
	})

	t.Run("non-major currency cleared not rejected", func(t *testing.T) {
		req, ok := Request{Currency: Currency("XAU")}.Normalized()
		assert.False(t, ok)
		assert.Equal(t, Currency(""), req.Currency)
	})

	t.Run("valid request unchanged", func(t *testing.T) {
		in := Request{MinImpact: ImpactHigh, Currency: EUR, Mode: FilterHighlight, DaysAhead: 1}
		req, ok := in.Normalized()
		assert.True(t, ok)
		assert.Equal(t, in, req)
	})

	t.Run("negative days ahead clamped", func(t *testing.T) {
		req, _ := Request{DaysAhead: -3}.Normalized()
		assert.Equal(t, 0, req.DaysAhead)
	})
}
