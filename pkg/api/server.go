package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/sltraffic/pkg/api/routes"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
)

func NewApp(aggregator *dataaggregator.Aggregator) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	webApp.Get("health", routes.Health(aggregator))

	routes.DataRouter(webApp.Group("/api"), aggregator)

	return webApp
}

func SetupServer(listen string, aggregator *dataaggregator.Aggregator) error {
	return NewApp(aggregator).Listen(listen)
}
