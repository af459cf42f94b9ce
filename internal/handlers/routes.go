package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

// Deps are the services the routes are wired to
type Deps struct {
	Countries   CountryStore
	Refresher   Refresher
	SummaryPath string
	Metrics     http.Handler
	Logger      logrus.FieldLogger
}

// Register mounts every route on app. Fixed /countries paths are registered
// before /countries/:name so they are never taken as a country name.
func Register(app *fiber.App, d Deps) {
	app.Get("/", HomeHandler())

	app.Post("/countries/refresh", RefreshHandler(d.Refresher, d.Logger))
	app.Get("/countries/image", ImageHandler(d.SummaryPath, d.Logger))
	app.Get("/countries", ListCountriesHandler(d.Countries, d.Logger))
	app.Get("/countries/:name", GetCountryHandler(d.Countries, d.Logger))
	app.Delete("/countries/:name", DeleteCountryHandler(d.Countries, d.Logger))

	app.Get("/status", StatusHandler(d.Countries, d.Logger))

	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics))
	}

	app.Use(NotFoundHandler())
}
