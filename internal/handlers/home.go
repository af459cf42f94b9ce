package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const apiVersion = "1.0.0"

func HomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "API is live",
			"status":    "ok",
			"version":   apiVersion,
			"timestamp": time.Now().UTC(),
		})
	}
}
