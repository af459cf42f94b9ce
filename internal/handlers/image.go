package handlers

import (
	"errors"
	"io/fs"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ImageHandler serves the summary image written by the last successful cycle
func ImageHandler(path string, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Summary image not found"})
		}
		if err != nil {
			logger.WithError(err).Error("Failed to read summary image")
			return internalError(c)
		}

		c.Set(fiber.HeaderContentType, "image/svg+xml")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(data)
	}
}
