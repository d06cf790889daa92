package port

import (
	"context"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
)

// ProjectStore persists project metadata.
type ProjectStore interface {
	// CreateProject inserts a new project record.
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)

	// GetProjectByID returns a project or ErrProjectNotFound.
	GetProjectByID(ctx context.Context, id string) (*domain.Project, error)

	// ListRecentProjects returns the newest projects first, up to limit.
	ListRecentProjects(ctx context.Context, limit int) ([]domain.Project, error)
}

// CorpusStore is the durable mapping from project ID to embedding records.
// Records are append-only; whole-project deletion is the only removal path.
type CorpusStore interface {
	// InsertEmbeddings persists a batch of records atomically.
	InsertEmbeddings(ctx context.Context, records []domain.EmbeddingRecord) error

	// FindByProject returns every record belonging to a project.
	FindByProject(ctx context.Context, projectID string) ([]domain.EmbeddingRecord, error)

	// DeleteByProject removes all records for a project.
	DeleteByProject(ctx context.Context, projectID string) error
}

// ConversationLog persists chat turns.
type ConversationLog interface {
	// AppendMessage stores one conversation turn.
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error

	// ListMessagesByProject returns a project's turns in creation order.
	ListMessagesByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error)
}
