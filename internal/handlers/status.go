package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type statusResponse struct {
	TotalCountries  int        `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}

// StatusHandler reports the stored country count and the latest refresh
// timestamp, null before the first cycle
func StatusHandler(store CountryStore, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := store.Status(c.UserContext())
		if err != nil {
			logger.WithError(err).Error("Failed to get status")
			return internalError(c)
		}

		resp := statusResponse{TotalCountries: status.TotalCountries}
		if status.LastRefreshedAt.Valid {
			ts := status.LastRefreshedAt.Time.UTC()
			resp.LastRefreshedAt = &ts
		}
		return c.JSON(resp)
	}
}
