package domain

import "time"

// Project types.
const (
	ProjectTypeZip    = "zip"
	ProjectTypeGitHub = "github"
)

// Project represents one ingested codebase (a zip upload or a GitHub repo).
type Project struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Type      string    `json:"type"       db:"type"`
	FileCount int       `json:"file_count" db:"file_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SourceFile is one extracted file from an archive, already filtered by the
// folder deny-list and extension allow-list.
type SourceFile struct {
	Name    string
	Content string
}
