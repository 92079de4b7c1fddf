package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 2 * time.Second

// UpstreamInfo is the upstream API's info endpoint, used as its health probe.
type UpstreamInfo interface {
	Info(ctx context.Context) (map[string]any, error)
}

// HealthCheck godoc
// @Summary      Readiness
// @Description  Pings the database and the upstream API when they are configured.
// @Tags         health
// @Produce      json
// @Success      200 {object}  map[string]interface{}
// @Failure      503 {object}  errorPayload
// @Router       /health [get]
func HealthCheck(db *sql.DB, upstream UpstreamInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		checks := fiber.Map{}
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
			checks["database"] = "ok"
		}
		if upstream != nil {
			if _, err := upstream.Info(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
			checks["upstream"] = "ok"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy", "checks": checks})
	}
}

// LivenessProbe godoc
// @Summary      Liveness
// @Tags         health
// @Success      200
// @Router       /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
