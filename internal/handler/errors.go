package handler

import (
	"errors"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/gofiber/fiber/v3"
)

// respondError maps pipeline errors to HTTP statuses, naming the failed
// stage when one is known so callers can tell "nothing to retrieve" from
// "service down" from "bad request".
func respondError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, port.ErrInvalidInput), errors.Is(err, port.ErrEmptyArchive):
		status = fiber.StatusBadRequest
	case errors.Is(err, port.ErrCorpusNotFound), errors.Is(err, port.ErrProjectNotFound):
		status = fiber.StatusNotFound
	}

	body := fiber.Map{"error": err.Error()}
	if stage := port.Stage(err); stage != "" {
		body["stage"] = stage
		if status == fiber.StatusInternalServerError {
			switch stage {
			case port.StageEmbedQuestion, port.StageEmbedChunks, port.StageCompletion, port.StageDownloadArchive:
				status = fiber.StatusBadGateway
			}
		}
	}

	return c.Status(status).JSON(body)
}
