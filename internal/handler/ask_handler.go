package handler

import (
	"fmt"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/service"
	"github.com/gofiber/fiber/v3"
)

// AskHandler handles question answering over an ingested project.
type AskHandler struct {
	query *service.QueryService
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(query *service.QueryService) *AskHandler {
	return &AskHandler{query: query}
}

// Register sets up the ask route.
func (h *AskHandler) Register(router fiber.Router) {
	router.Post("/ask", h.Ask)
}

// Ask answers a question about a project's code.
func (h *AskHandler) Ask(c fiber.Ctx) error {
	var body struct {
		ProjectID string `json:"project_id"`
		Question  string `json:"question"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", port.ErrInvalidInput))
	}

	result, err := h.query.Ask(c.Context(), body.ProjectID, body.Question)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"answer":  result.Answer,
		"sources": result.Sources,
	})
}
