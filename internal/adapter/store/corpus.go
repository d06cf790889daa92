package store

import (
	"context"
	"fmt"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/lib/pq"
)

// CorpusStore persists embedding records in the embeddings table. Vectors are
// stored as REAL[] and scored in-process; ranking never happens in SQL.
type CorpusStore struct {
	store *PostgresStore
}

// NewCorpusStore creates a corpus store backed by the given Postgres store.
func NewCorpusStore(store *PostgresStore) *CorpusStore {
	return &CorpusStore{store: store}
}

// InsertEmbeddings persists a batch of records in one transaction.
func (c *CorpusStore) InsertEmbeddings(ctx context.Context, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO embeddings (project_id, file_name, content, vector)
		 VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.ProjectID, r.FileName, r.Content, pq.Array(r.Vector),
		); err != nil {
			return fmt.Errorf("insert embedding: %w", err)
		}
	}

	return tx.Commit()
}

// FindByProject returns every embedding record belonging to a project, in
// insertion order.
func (c *CorpusStore) FindByProject(ctx context.Context, projectID string) ([]domain.EmbeddingRecord, error) {
	query := `SELECT id, project_id, file_name, content, vector, created_at
	          FROM embeddings WHERE project_id = $1 ORDER BY id`

	rows, err := c.store.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("find by project: %w", err)
	}
	defer rows.Close()

	var records []domain.EmbeddingRecord
	for rows.Next() {
		var r domain.EmbeddingRecord
		var vector pq.Float32Array
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.FileName, &r.Content, &vector, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		r.Vector = []float32(vector)
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteByProject removes all embedding records for a project.
func (c *CorpusStore) DeleteByProject(ctx context.Context, projectID string) error {
	query := `DELETE FROM embeddings WHERE project_id = $1`
	_, err := c.store.db.ExecContext(ctx, query, projectID)
	return err
}
