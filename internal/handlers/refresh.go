package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/jjenkins/countries/internal/service"
)

// Refresher runs one refresh cycle
type Refresher interface {
	Refresh(ctx context.Context) (*service.RefreshStats, error)
}

// RefreshHandler runs a cycle synchronously. Upstream failures map to 503
// naming the API that failed; anything else is a 500.
func RefreshHandler(refresher Refresher, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := refresher.Refresh(c.UserContext())
		if err != nil {
			var ue *service.UpstreamFetchError
			if errors.As(err, &ue) {
				logger.WithError(err).WithField("source", ue.Source).Warn("Refresh failed: upstream unavailable")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error":   "External data source unavailable",
					"details": "Could not fetch data from " + ue.API,
				})
			}
			logger.WithError(err).Error("Refresh failed")
			return internalError(c)
		}

		return c.JSON(fiber.Map{
			"message":           "Countries refreshed successfully",
			"total":             stats.Total,
			"upserted":          stats.Upserted,
			"skipped":           stats.Skipped,
			"failed":            stats.Failed,
			"last_refreshed_at": stats.RefreshedAt.UTC(),
		})
	}
}
