package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type Pinger func(ctx context.Context) error

func HealthRouter(router fiber.Router, ping Pinger) {
	router.Get("/health", func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				c.SendStatus(fiber.StatusServiceUnavailable)
				return c.JSON(fiber.Map{
					"status": "unavailable",
					"error":  err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
}
