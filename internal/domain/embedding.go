package domain

import "time"

// EmbeddingRecord is a vectorized chunk of a project's source code. Records
// are append-only: created once during ingestion, removed only by deleting
// the whole project.
type EmbeddingRecord struct {
	ID        int64     `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	FileName  string    `json:"file_name"  db:"file_name"`
	Content   string    `json:"content"    db:"content"`
	Vector    []float32 `json:"-"          db:"vector"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScoredMatch is a ranked retrieval candidate. It lives only for the
// duration of one query.
type ScoredMatch struct {
	FileName string  `json:"file_name"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}
