package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
)

func Health(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings := aggregator.Config.Current()

		response := fiber.Map{
			"status":            "ok",
			"routes":            len(settings.Routes),
			"config_generation": settings.Generation,
			"cache_ttl_seconds": settings.CacheTTL.Seconds(),
			"cache_captured_at": nil,
			"cache_generation":  nil,
		}

		if entry := aggregator.Cache.Entry(); entry != nil {
			response["cache_captured_at"] = entry.CapturedAt
			response["cache_generation"] = entry.Generation
		}

		return c.JSON(response)
	}
}
