package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/countries/internal/model"
)

func TestBuildCountry(t *testing.T) {
	rates := map[string]float64{"NGN": 1600.5, "EUR": 0.9, "ZZZ": 0}
	ts := time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ext      model.ExternalCountry
		wantCode string
		wantRate bool
		wantGDP  *float64
	}{
		{
			name:    "no currencies",
			ext:     model.ExternalCountry{Name: "Antarctica", Population: 1000},
			wantGDP: ptr(0.0),
		},
		{
			name:    "empty first currency code",
			ext:     model.ExternalCountry{Name: "Nowhere", Population: 10, Currencies: currency("")},
			wantGDP: ptr(0.0),
		},
		{
			name:     "code without a rate",
			ext:      model.ExternalCountry{Name: "Atlantis", Population: 10, Currencies: currency("ATL")},
			wantCode: "ATL",
		},
		{
			name:     "zero rate",
			ext:      model.ExternalCountry{Name: "Zeroland", Population: 10, Currencies: currency("ZZZ")},
			wantCode: "ZZZ",
		},
		{
			name:     "only first currency is used",
			ext:      model.ExternalCountry{Name: "Aland", Population: 29000, Currencies: []model.ExternalCurrency{{Code: "EUR"}, {Code: "NGN"}}},
			wantCode: "EUR",
			wantRate: true,
			wantGDP:  ptr(29000 * 1500 / 0.9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BuildCountry(tt.ext, rates, stubRandom(0.5), ts)

			assert.Equal(t, tt.ext.Name, c.Name)
			assert.Equal(t, tt.ext.Population, c.Population)
			assert.True(t, ts.Equal(c.LastRefreshedAt))
			assert.Equal(t, tt.wantCode != "", c.CurrencyCode.Valid)
			assert.Equal(t, tt.wantCode, c.CurrencyCode.String)
			assert.Equal(t, tt.wantRate, c.ExchangeRate.Valid)

			if tt.wantGDP == nil {
				assert.False(t, c.EstimatedGDP.Valid)
				return
			}
			require.True(t, c.EstimatedGDP.Valid)
			assert.InDelta(t, *tt.wantGDP, c.EstimatedGDP.Float64, 1e-6)
		})
	}
}

func TestBuildCountry_MultiplierBounds(t *testing.T) {
	ext := model.ExternalCountry{Name: "Nigeria", Population: 206139589, Currencies: currency("NGN")}
	rates := map[string]float64{"NGN": 1600.5}
	lo := float64(ext.Population) * 1000 / 1600.5
	hi := float64(ext.Population) * 2000 / 1600.5

	low := BuildCountry(ext, rates, stubRandom(0), time.Now())
	assert.InDelta(t, lo, low.EstimatedGDP.Float64, 1e-6)

	high := BuildCountry(ext, rates, stubRandom(0.999999), time.Now())
	assert.Less(t, high.EstimatedGDP.Float64, hi)
	assert.Greater(t, high.EstimatedGDP.Float64, lo)

	for i := 0; i < 100; i++ {
		c := BuildCountry(ext, rates, globalRandom{}, time.Now())
		require.GreaterOrEqual(t, c.EstimatedGDP.Float64, lo)
		require.Less(t, c.EstimatedGDP.Float64, hi)
	}
}

func TestBuildCountry_OptionalFields(t *testing.T) {
	c := BuildCountry(model.ExternalCountry{
		Name:    "Nigeria",
		Capital: "Abuja",
		Region:  "Africa",
		Flag:    "https://flagcdn.com/ng.svg",
	}, nil, stubRandom(0), time.Now())

	assert.Equal(t, "Abuja", c.Capital.String)
	assert.Equal(t, "Africa", c.Region.String)
	assert.Equal(t, "https://flagcdn.com/ng.svg", c.FlagURL.String)

	bare := BuildCountry(model.ExternalCountry{Name: "Bare"}, nil, stubRandom(0), time.Now())
	assert.False(t, bare.Capital.Valid)
	assert.False(t, bare.Region.Valid)
	assert.False(t, bare.FlagURL.Valid)
}

func ptr[T any](v T) *T { return &v }
