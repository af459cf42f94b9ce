package model

import (
	"database/sql"
	"time"
)

// Country represents the merged country record persisted by a refresh cycle
type Country struct {
	ID              int
	Name            string
	Capital         sql.NullString
	Region          sql.NullString
	Population      int64
	CurrencyCode    sql.NullString
	ExchangeRate    sql.NullFloat64
	EstimatedGDP    sql.NullFloat64
	FlagURL         sql.NullString
	LastRefreshedAt time.Time
}

// ExternalCountry represents a country from the restcountries API
type ExternalCountry struct {
	Name       string
	Capital    string
	Region     string
	Population int64
	Flag       string
	Currencies []ExternalCurrency
}

// ExternalCurrency represents one currency entry of an upstream country
type ExternalCurrency struct {
	Code   string
	Name   string
	Symbol string
}

// Status summarizes the store for the status endpoint
type Status struct {
	TotalCountries  int
	LastRefreshedAt sql.NullTime
}

// SortOrder selects the ordering of a country listing
type SortOrder string

const (
	SortNone           SortOrder = ""
	SortGDPDesc        SortOrder = "gdp_desc"
	SortGDPAsc         SortOrder = "gdp_asc"
	SortPopulationDesc SortOrder = "population_desc"
	SortPopulationAsc  SortOrder = "population_asc"
)

// ParseSortOrder maps a query value to a SortOrder; unknown values mean unsorted
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortGDPDesc, SortGDPAsc, SortPopulationDesc, SortPopulationAsc:
		return SortOrder(s)
	default:
		return SortNone
	}
}

// CountryFilter holds the optional listing filters
type CountryFilter struct {
	Region   string
	Currency string
	Sort     SortOrder
}
