package handler

import (
	"context"
	"time"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/store"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/gofiber/fiber/v3"
)

const statusProbeTimeout = 5 * time.Second

// StatusHandler reports component health: the backend itself, the database,
// and the completion engine.
type StatusHandler struct {
	store      *store.PostgresStore
	completion port.CompletionClient
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(s *store.PostgresStore, completion port.CompletionClient) *StatusHandler {
	return &StatusHandler{store: s, completion: completion}
}

// Register sets up status routes.
func (h *StatusHandler) Register(router fiber.Router) {
	router.Get("/status", h.SystemStatus)
	router.Get("/logs", h.RecentLogs)
}

// componentStatus is one entry in the system status report.
type componentStatus struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency"`
}

// SystemStatus probes the database and the completion engine and reports
// per-component health.
func (h *StatusHandler) SystemStatus(c fiber.Ctx) error {
	systems := fiber.Map{
		"backend": componentStatus{Name: "Backend", Status: "Healthy"},
	}

	probeCtx, cancel := context.WithTimeout(c.Context(), statusProbeTimeout)
	defer cancel()

	dbHealthy := true
	latency, err := h.store.Ping(probeCtx)
	db := componentStatus{Name: "Vector DB", LatencyMS: latency.Milliseconds()}
	if err != nil {
		db.Status = "Offline"
		dbHealthy = false
	} else {
		db.Status = "Healthy"
	}
	systems["database"] = db

	aiStart := time.Now()
	engine := componentStatus{Name: "OpenRouter"}
	if status, err := h.completion.CheckKey(probeCtx); err != nil {
		engine.Status = "Connection Error"
	} else {
		engine.Status = status
	}
	engine.LatencyMS = time.Since(aiStart).Milliseconds()
	systems["ai_engine"] = engine

	if !dbHealthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"systems": systems,
		})
	}
	return c.JSON(fiber.Map{"success": true, "systems": systems})
}

// RecentLogs returns the latest persisted request logs.
func (h *StatusHandler) RecentLogs(c fiber.Ctx) error {
	logs, err := h.store.ListRequestLogs(c.Context(), 50)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
}
