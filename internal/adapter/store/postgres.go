package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
	"github.com/lib/pq"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks database reachability and returns the round-trip latency.
func (s *PostgresStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := s.db.PingContext(ctx)
	return time.Since(start), err
}

// EnsureSchema creates the tables this service needs if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'zip',
			file_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			id BIGSERIAL PRIMARY KEY,
			project_id UUID NOT NULL,
			file_name TEXT NOT NULL,
			content TEXT NOT NULL,
			vector REAL[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_project ON embeddings (project_id)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id BIGSERIAL PRIMARY KEY,
			project_id UUID NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			sources JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_project ON chat_messages (project_id)`,
		`CREATE TABLE IF NOT EXISTS request_logs (
			id BIGSERIAL PRIMARY KEY,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			status INTEGER NOT NULL,
			duration_ms BIGINT NOT NULL,
			ip TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Projects ---

// CreateProject inserts a new project record.
func (s *PostgresStore) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	query := `INSERT INTO projects (id, name, type, file_count)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, name, type, file_count, created_at`

	var created domain.Project
	err := s.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Type, p.FileCount).Scan(
		&created.ID, &created.Name, &created.Type, &created.FileCount, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &created, nil
}

// GetProjectByID returns a project by its ID.
func (s *PostgresStore) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, name, type, file_count, created_at FROM projects WHERE id = $1`

	var p domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.FileCount, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// ListRecentProjects returns the newest projects first, up to limit.
func (s *PostgresStore) ListRecentProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	query := `SELECT id, name, type, file_count, created_at
	          FROM projects ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.FileCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// --- Chat messages ---

// AppendMessage stores one conversation turn.
func (s *PostgresStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	sources := msg.Sources
	if sources == nil {
		sources = []domain.Source{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	query := `INSERT INTO chat_messages (project_id, role, content, sources)
	          VALUES ($1, $2, $3, $4::jsonb)`
	if _, err := s.db.ExecContext(ctx, query, msg.ProjectID, msg.Role, msg.Content, sourcesJSON); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListMessagesByProject returns a project's turns in creation order.
func (s *PostgresStore) ListMessagesByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error) {
	query := `SELECT id, project_id, role, content, sources, created_at
	          FROM chat_messages WHERE project_id = $1 ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListMessagesByProjects returns the turns of several projects grouped by
// project ID, one query for the whole batch.
func (s *PostgresStore) ListMessagesByProjects(ctx context.Context, projectIDs []string) (map[string][]domain.ChatMessage, error) {
	grouped := make(map[string][]domain.ChatMessage)
	if len(projectIDs) == 0 {
		return grouped, nil
	}

	query := `SELECT id, project_id, role, content, sources, created_at
	          FROM chat_messages WHERE project_id = ANY($1) ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("list messages batch: %w", err)
	}
	defer rows.Close()

	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		grouped[m.ProjectID] = append(grouped[m.ProjectID], m)
	}
	return grouped, nil
}

func scanMessages(rows *sql.Rows) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var sourcesJSON []byte
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Role, &m.Content, &sourcesJSON, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if err := json.Unmarshal(sourcesJSON, &m.Sources); err != nil {
			return nil, fmt.Errorf("decode sources: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// --- Request logs ---

// RequestLogRow is a stored request log entry.
type RequestLogRow struct {
	ID         int64     `json:"id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	DurationMS int64     `json:"duration_ms"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// WriteRequestLog implements middleware.RequestLogWriter.
func (s *PostgresStore) WriteRequestLog(method, path string, status int, durationMS int64, ip, userAgent string) error {
	query := `INSERT INTO request_logs (method, path, status, duration_ms, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(context.Background(), query, method, path, status, durationMS, ip, userAgent)
	return err
}

// ListRequestLogs returns recent request logs, newest first.
func (s *PostgresStore) ListRequestLogs(ctx context.Context, limit int) ([]RequestLogRow, error) {
	query := `SELECT id, method, path, status, duration_ms, ip, user_agent, created_at
	          FROM request_logs ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list request logs: %w", err)
	}
	defer rows.Close()

	var logs []RequestLogRow
	for rows.Next() {
		var l RequestLogRow
		if err := rows.Scan(&l.ID, &l.Method, &l.Path, &l.Status, &l.DurationMS, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
