package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jjenkins/countries/internal/model"
)

const countryColumns = `id, name, capital, region, population, currency_code,
       exchange_rate, estimated_gdp, flag_url, last_refreshed_at`

// Whitelist of ORDER BY clauses to prevent SQL injection
var sortClauses = map[model.SortOrder]string{
	model.SortGDPDesc:        "estimated_gdp DESC NULLS LAST, id ASC",
	model.SortGDPAsc:         "estimated_gdp ASC NULLS LAST, id ASC",
	model.SortPopulationDesc: "population DESC, id ASC",
	model.SortPopulationAsc:  "population ASC, id ASC",
}

// CountryStore handles database operations for countries
type CountryStore struct {
	db *sql.DB
}

// NewCountryStore creates a new CountryStore
func NewCountryStore(db *sql.DB) *CountryStore {
	return &CountryStore{db: db}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountry(row rowScanner) (*model.Country, error) {
	var c model.Country
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Capital,
		&c.Region,
		&c.Population,
		&c.CurrencyCode,
		&c.ExchangeRate,
		&c.EstimatedGDP,
		&c.FlagURL,
		&c.LastRefreshedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertCountry inserts a country or updates the existing row with the same name
func (s *CountryStore) UpsertCountry(ctx context.Context, c *model.Country) error {
	query := `
		INSERT INTO countries (name, capital, region, population, currency_code,
		                       exchange_rate, estimated_gdp, flag_url, last_refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO UPDATE SET
			capital = EXCLUDED.capital,
			region = EXCLUDED.region,
			population = EXCLUDED.population,
			currency_code = EXCLUDED.currency_code,
			exchange_rate = EXCLUDED.exchange_rate,
			estimated_gdp = EXCLUDED.estimated_gdp,
			flag_url = EXCLUDED.flag_url,
			last_refreshed_at = EXCLUDED.last_refreshed_at
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		c.Name,
		c.Capital,
		c.Region,
		c.Population,
		c.CurrencyCode,
		c.ExchangeRate,
		c.EstimatedGDP,
		c.FlagURL,
		c.LastRefreshedAt,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert country %s: %w", c.Name, err)
	}

	return nil
}

// List retrieves countries matching the filter. Without a sort the rows come
// back in insertion order.
func (s *CountryStore) List(ctx context.Context, filter model.CountryFilter) ([]model.Country, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Region != "" {
		args = append(args, filter.Region)
		conditions = append(conditions, fmt.Sprintf("region = $%d", len(args)))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		conditions = append(conditions, fmt.Sprintf("currency_code = $%d", len(args)))
	}

	query := "SELECT " + countryColumns + " FROM countries"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := sortClauses[filter.Sort]
	if !ok {
		orderBy = "id ASC"
	}
	query += " ORDER BY " + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	countries := []model.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, *c)
	}

	return countries, rows.Err()
}

// GetByName retrieves the first country whose name matches case-insensitively
func (s *CountryStore) GetByName(ctx context.Context, name string) (*model.Country, error) {
	query := `
		SELECT ` + countryColumns + `
		FROM countries
		WHERE LOWER(name) = LOWER($1)
		ORDER BY id
		LIMIT 1
	`

	c, err := scanCountry(s.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get country %s: %w", name, err)
	}

	return c, nil
}

// DeleteByName removes the first country whose name matches case-insensitively
// and returns it as it was before deletion
func (s *CountryStore) DeleteByName(ctx context.Context, name string) (*model.Country, error) {
	query := `
		DELETE FROM countries
		WHERE id = (
			SELECT id FROM countries
			WHERE LOWER(name) = LOWER($1)
			ORDER BY id
			LIMIT 1
		)
		RETURNING ` + countryColumns

	c, err := scanCountry(s.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete country %s: %w", name, err)
	}

	return c, nil
}

// CountCountries returns the total number of countries
func (s *CountryStore) CountCountries(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return count, nil
}

// Status returns the country count and the most recent refresh timestamp
func (s *CountryStore) Status(ctx context.Context) (*model.Status, error) {
	var status model.Status
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(last_refreshed_at) FROM countries",
	).Scan(&status.TotalCountries, &status.LastRefreshedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &status, nil
}

// TopByEstimatedGDP returns the n countries with the greatest estimated GDP.
// Countries without an estimate sort after all others.
func (s *CountryStore) TopByEstimatedGDP(ctx context.Context, n int) ([]model.Country, error) {
	query := `
		SELECT ` + countryColumns + `
		FROM countries
		ORDER BY estimated_gdp DESC NULLS LAST, id ASC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get top countries: %w", err)
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, *c)
	}

	return countries, rows.Err()
}
