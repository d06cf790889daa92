package handler

import (
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/store"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/gofiber/fiber/v3"
)

const historyLimit = 10

// HistoryHandler returns recent projects with their conversations.
type HistoryHandler struct {
	store *store.PostgresStore
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(s *store.PostgresStore) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// Register sets up the history route.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("/history", h.List)
}

// projectHistory is one project with its chat messages.
type projectHistory struct {
	domain.Project
	Messages []domain.ChatMessage `json:"messages"`
}

// List returns the newest projects, each with its full conversation.
func (h *HistoryHandler) List(c fiber.Ctx) error {
	projects, err := h.store.ListRecentProjects(c.Context(), historyLimit)
	if err != nil {
		return respondError(c, err)
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	messages, err := h.store.ListMessagesByProjects(c.Context(), ids)
	if err != nil {
		return respondError(c, err)
	}

	history := make([]projectHistory, len(projects))
	for i, p := range projects {
		msgs := messages[p.ID]
		if msgs == nil {
			msgs = []domain.ChatMessage{}
		}
		history[i] = projectHistory{Project: p, Messages: msgs}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(history),
		"data":    history,
	})
}
