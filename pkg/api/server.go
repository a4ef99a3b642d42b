package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/travigo/poikkeusinfo/pkg/api/routes"
)

type Options struct {
	Snapshot routes.SnapshotLoader
	Ping     routes.Pinger
	Gatherer prometheus.Gatherer
}

func NewApp(options Options) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	routes.HealthRouter(webApp, options.Ping)

	if options.Gatherer != nil {
		webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(options.Gatherer, promhttp.HandlerOpts{})))
	}

	group := webApp.Group("/poikkeusinfo")

	group.Get("version", routes.APIVersion)

	routes.DisruptionsRouter(group.Group("/disruptions"), options.Snapshot)

	return webApp
}

func SetupServer(listen string, options Options) error {
	return NewApp(options).Listen(listen)
}
