package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/google/uuid"
)

// IngestService turns extracted source files into a project's embedding
// corpus: chunk, embed, persist.
type IngestService struct {
	embedder  port.Embedder
	projects  port.ProjectStore
	corpus    port.CorpusStore
	chunkSize int
}

// NewIngestService creates a new ingestion service.
func NewIngestService(embedder port.Embedder, projects port.ProjectStore, corpus port.CorpusStore, chunkSize int) *IngestService {
	return &IngestService{
		embedder:  embedder,
		projects:  projects,
		corpus:    corpus,
		chunkSize: chunkSize,
	}
}

// FileFailure records a file that could not be indexed.
type FileFailure struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// IngestReport summarizes one ingestion run. Files fail independently: a
// failed embed or insert is tallied here instead of aborting the batch.
type IngestReport struct {
	Project      *domain.Project `json:"project"`
	ChunkCount   int             `json:"chunk_count"`
	FilesIndexed int             `json:"files_indexed"`
	Failed       []FileFailure   `json:"failed,omitempty"`
}

// IngestFiles creates a project and indexes the given extracted files.
func (s *IngestService) IngestFiles(ctx context.Context, name, projectType string, files []domain.SourceFile) (*IngestReport, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: project name required", port.ErrInvalidInput)
	}
	if len(files) == 0 {
		return nil, port.ErrEmptyArchive
	}

	project, err := s.projects.CreateProject(ctx, &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      projectType,
		FileCount: len(files),
	})
	if err != nil {
		return nil, &port.StageError{Stage: port.StageCreateProject, Err: err}
	}

	slog.Info("ingesting project", "project_id", project.ID, "name", name, "files", len(files))

	report := &IngestReport{Project: project}
	for _, f := range files {
		chunks := chunkContent(f.Content, s.chunkSize)
		if len(chunks) == 0 {
			continue
		}

		vectors, err := s.embedder.EmbedBatch(ctx, chunks)
		if err != nil {
			slog.Error("embed batch failed", "file", f.Name, "error", err)
			report.Failed = append(report.Failed, FileFailure{FileName: f.Name, Reason: err.Error()})
			continue
		}

		records := make([]domain.EmbeddingRecord, len(chunks))
		for i, chunk := range chunks {
			records[i] = domain.EmbeddingRecord{
				ProjectID: project.ID,
				FileName:  f.Name,
				Content:   chunk,
				Vector:    vectors[i],
			}
		}

		if err := s.corpus.InsertEmbeddings(ctx, records); err != nil {
			slog.Error("store embeddings failed", "file", f.Name, "error", err)
			report.Failed = append(report.Failed, FileFailure{FileName: f.Name, Reason: err.Error()})
			continue
		}

		report.ChunkCount += len(chunks)
		report.FilesIndexed++
	}

	if report.FilesIndexed == 0 && len(report.Failed) > 0 {
		return nil, &port.StageError{
			Stage: port.StageEmbedChunks,
			Err:   fmt.Errorf("all %d files failed to index", len(report.Failed)),
		}
	}

	slog.Info("ingestion complete",
		"project_id", project.ID,
		"chunks", report.ChunkCount,
		"indexed", report.FilesIndexed,
		"failed", len(report.Failed),
	)
	return report, nil
}
