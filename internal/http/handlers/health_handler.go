package handlers

import (
	"context"
	"time"

	applog "storefront/internal/log"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "storefront"

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB Pinger
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, code := "UP", fiber.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		applog.Error(c, "health.db", err, nil)
		status, code = "DOWN", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"service":   serviceName,
		"timestamp": time.Now().UTC(),
	})
}
