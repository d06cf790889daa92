package handler

import (
	"fmt"
	"io"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/adapter/source"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/service"
	"github.com/gofiber/fiber/v3"
)

// ProjectHandler handles archive ingestion: local zip uploads and GitHub
// repositories.
type ProjectHandler struct {
	ingest    *service.IngestService
	extractor *source.Extractor
	github    *source.GitHubDownloader
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(ingest *service.IngestService, extractor *source.Extractor, github *source.GitHubDownloader) *ProjectHandler {
	return &ProjectHandler{ingest: ingest, extractor: extractor, github: github}
}

// Register sets up project ingestion routes.
func (h *ProjectHandler) Register(router fiber.Router) {
	projects := router.Group("/projects")
	projects.Post("/upload", h.Upload)
	projects.Post("/github", h.FromGitHub)
}

// Upload ingests a zip archive uploaded as multipart form data.
func (h *ProjectHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, fmt.Errorf("%w: file upload required", port.ErrInvalidInput))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return respondError(c, fmt.Errorf("%w: unreadable upload", port.ErrInvalidInput))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: unreadable upload", port.ErrInvalidInput))
	}

	files, err := h.extractor.ExtractZip(data)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %v", port.ErrInvalidInput, err))
	}

	report, err := h.ingest.IngestFiles(c.Context(), fileHeader.Filename, domain.ProjectTypeZip, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Local code processed and saved",
		"project_id":    report.Project.ID,
		"name":          report.Project.Name,
		"count":         report.ChunkCount,
		"files_indexed": report.FilesIndexed,
		"failed":        report.Failed,
	})
}

// FromGitHub downloads a repository's main-branch archive and ingests it.
func (h *ProjectHandler) FromGitHub(c fiber.Ctx) error {
	var body struct {
		GitHubURL string `json:"github_url"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return respondError(c, fmt.Errorf("%w: invalid request body", port.ErrInvalidInput))
	}

	owner, repo, err := source.ParseRepoURL(body.GitHubURL)
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %v", port.ErrInvalidInput, err))
	}

	data, err := h.github.DownloadArchive(c.Context(), owner, repo)
	if err != nil {
		return respondError(c, &port.StageError{Stage: port.StageDownloadArchive, Err: err})
	}

	files, err := h.extractor.ExtractZip(data)
	if err != nil {
		return respondError(c, &port.StageError{Stage: port.StageExtractArchive, Err: err})
	}

	report, err := h.ingest.IngestFiles(c.Context(), repo, domain.ProjectTypeGitHub, files)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       fmt.Sprintf("GitHub repo %q processed and saved", repo),
		"project_id":    report.Project.ID,
		"name":          report.Project.Name,
		"count":         report.ChunkCount,
		"files_indexed": report.FilesIndexed,
		"failed":        report.Failed,
	})
}
