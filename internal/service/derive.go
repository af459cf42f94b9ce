package service

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/jjenkins/countries/internal/model"
)

const (
	gdpMultiplierMin = 1000.0
	gdpMultiplierMax = 2000.0
)

// RandomSource yields values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// globalRandom uses the goroutine-safe top-level math/rand/v2 source
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// BuildCountry joins an upstream country with the rate table and derives the
// estimated GDP. Only the first listed currency is considered.
//
//	no currency code        -> estimated GDP 0, no rate
//	code without a rate     -> estimated GDP null
//	code with a rate        -> population * U(1000,2000) / rate
func BuildCountry(ext model.ExternalCountry, rates map[string]float64, rng RandomSource, refreshedAt time.Time) model.Country {
	country := model.Country{
		Name:            ext.Name,
		Capital:         nullString(ext.Capital),
		Region:          nullString(ext.Region),
		Population:      ext.Population,
		FlagURL:         nullString(ext.Flag),
		LastRefreshedAt: refreshedAt,
	}

	if len(ext.Currencies) > 0 {
		country.CurrencyCode = nullString(ext.Currencies[0].Code)
	}

	if !country.CurrencyCode.Valid {
		country.EstimatedGDP = sql.NullFloat64{Float64: 0, Valid: true}
		return country
	}

	// A zero rate is as unusable as a missing one
	rate, ok := rates[country.CurrencyCode.String]
	if !ok || rate <= 0 {
		return country
	}

	multiplier := gdpMultiplierMin + rng.Float64()*(gdpMultiplierMax-gdpMultiplierMin)
	country.ExchangeRate = sql.NullFloat64{Float64: rate, Valid: true}
	country.EstimatedGDP = sql.NullFloat64{
		Float64: float64(ext.Population) * multiplier / rate,
		Valid:   true,
	}

	return country
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
