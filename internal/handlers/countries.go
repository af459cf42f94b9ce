package handlers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/countries/internal/model"
)

// CountryStore is the query side of the country store
type CountryStore interface {
	List(ctx context.Context, filter model.CountryFilter) ([]model.Country, error)
	GetByName(ctx context.Context, name string) (*model.Country, error)
	DeleteByName(ctx context.Context, name string) (*model.Country, error)
	Status(ctx context.Context) (*model.Status, error)
}

// CountryResponse is the JSON form of a country; absent values are null
type CountryResponse struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Capital         *string   `json:"capital"`
	Region          *string   `json:"region"`
	Population      int64     `json:"population"`
	CurrencyCode    *string   `json:"currency_code"`
	ExchangeRate    *float64  `json:"exchange_rate"`
	EstimatedGDP    *float64  `json:"estimated_gdp"`
	FlagURL         *string   `json:"flag_url"`
	LastRefreshedAt time.Time `json:"last_refreshed_at"`
}

func toResponse(c *model.Country) CountryResponse {
	resp := CountryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Population:      c.Population,
		LastRefreshedAt: c.LastRefreshedAt.UTC(),
	}
	if c.Capital.Valid {
		resp.Capital = &c.Capital.String
	}
	if c.Region.Valid {
		resp.Region = &c.Region.String
	}
	if c.CurrencyCode.Valid {
		resp.CurrencyCode = &c.CurrencyCode.String
	}
	if c.ExchangeRate.Valid {
		resp.ExchangeRate = &c.ExchangeRate.Float64
	}
	if c.EstimatedGDP.Valid {
		resp.EstimatedGDP = &c.EstimatedGDP.Float64
	}
	if c.FlagURL.Valid {
		resp.FlagURL = &c.FlagURL.String
	}
	return resp
}

// nameParam returns the decoded :name path segment
func nameParam(c *fiber.Ctx) string {
	raw := c.Params("name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func ListCountriesHandler(store CountryStore, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := model.CountryFilter{
			Region:   strings.TrimSpace(c.Query("region")),
			Currency: strings.TrimSpace(c.Query("currency")),
			Sort:     model.ParseSortOrder(c.Query("sort")),
		}

		countries, err := store.List(c.UserContext(), filter)
		if err != nil {
			logger.WithError(err).Error("Failed to list countries")
			return internalError(c)
		}

		resp := make([]CountryResponse, len(countries))
		for i := range countries {
			resp[i] = toResponse(&countries[i])
		}
		return c.JSON(resp)
	}
}

func GetCountryHandler(store CountryStore, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := nameParam(c)

		country, err := store.GetByName(c.UserContext(), name)
		if err != nil {
			logger.WithError(err).WithField("country", name).Error("Failed to get country")
			return internalError(c)
		}
		if country == nil {
			return countryNotFound(c)
		}

		return c.JSON(toResponse(country))
	}
}

func DeleteCountryHandler(store CountryStore, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := nameParam(c)

		deleted, err := store.DeleteByName(c.UserContext(), name)
		if err != nil {
			logger.WithError(err).WithField("country", name).Error("Failed to delete country")
			return internalError(c)
		}
		if deleted == nil {
			return countryNotFound(c)
		}

		logger.WithField("country", deleted.Name).Info("Deleted country")
		return c.JSON(fiber.Map{"message": "Country deleted successfully"})
	}
}

func countryNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Country not found"})
}
