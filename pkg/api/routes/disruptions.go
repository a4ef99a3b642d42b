package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/poikkeusinfo/pkg/publisher"
)

type SnapshotLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

func DisruptionsRouter(router fiber.Router, snapshot SnapshotLoader) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getDisruptions(c, snapshot)
	})
}

func getDisruptions(c *fiber.Ctx, snapshot SnapshotLoader) error {
	if snapshot == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Snapshots are not enabled",
		})
	}

	content, err := snapshot.Load(c.UserContext())
	if errors.Is(err, publisher.ErrNoSnapshot) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No disruptions published yet",
		})
	} else if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(content)
}
