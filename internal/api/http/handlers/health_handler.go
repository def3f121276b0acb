package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-portal/internal/observability"
	"github.com/spec-kit/community-portal/internal/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
	metrics  *observability.Metrics
	version  string
}

// NewHealthHandler constructs handler.
func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis, metrics *observability.Metrics, version string) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis, metrics: metrics, version: version}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": h.version})
}

// Ready GET /health/ready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	if pool := h.postgres.PoolHandle(); pool == nil {
		checks["postgres"] = "not configured"
		healthy = false
	} else if err := pool.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := h.redis.Ping(c.Context()); err != nil {
		// Redis is a degraded-mode collaborator, not a hard dependency.
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "ok"
	}

	requests, errors := h.metrics.Totals()
	payload := fiber.Map{
		"status":  "ok",
		"version": h.version,
		"checks":  checks,
		"metrics": fiber.Map{"requests": requests, "errors": errors},
	}
	if !healthy {
		payload["status"] = "degraded"
		return c.Status(http.StatusServiceUnavailable).JSON(payload)
	}
	return c.JSON(payload)
}
