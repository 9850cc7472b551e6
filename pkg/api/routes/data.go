package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/sltraffic/pkg/dataaggregator"
)

func DataRouter(router fiber.Router, aggregator *dataaggregator.Aggregator) {
	router.Get("/data", getData(aggregator))
}

func getData(aggregator *dataaggregator.Aggregator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		groups := []string{"basic"}

		switch c.Query("detail", "basic") {
		case "basic":
		case "full":
			groups = []string{"full"}
		default:
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter detail should be basic or full",
			})
		}

		aggregated := aggregator.Aggregate(c.UserContext())

		aggregatedReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, aggregated)

		if err != nil {
			c.Status(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce departures",
			})
		}

		return c.JSON(aggregatedReduced)
	}
}
