package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/qppgateway/api/internal/client"
	"github.com/qppgateway/api/internal/model"
	"github.com/qppgateway/api/internal/service"
	"github.com/qppgateway/api/pkg/response"
)

type SystemHandler struct {
	stats     *service.StatsService
	simulator client.SimulatorRunner
}

func NewSystemHandler(stats *service.StatsService, simulator client.SimulatorRunner) *SystemHandler {
	return &SystemHandler{
		stats:     stats,
		simulator: simulator,
	}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return response.OK(c, model.HealthResponse{
		Status: "ok",
		Services: map[string]bool{
			"redis":     h.stats.Ping(c.UserContext()),
			"simulator": h.simulator.Available(),
		},
	})
}

// Stats handles GET /api/stats
func (h *SystemHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Snapshot(c.UserContext())
	if err != nil {
		return response.ServiceError(c, err.Error())
	}
	return response.OK(c, stats)
}
