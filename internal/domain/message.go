package domain

import "time"

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Source cites the code snippet an answer was grounded on.
type Source struct {
	FileName    string `json:"fileName"`
	CodeSnippet string `json:"codeSnippet"`
	LineRange   string `json:"lineRange"`
}

// ChatMessage is one conversation turn. Turns are created in user/assistant
// pairs per question and never updated afterwards.
type ChatMessage struct {
	ID        int64     `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Role      string    `json:"role"       db:"role"`
	Content   string    `json:"content"    db:"content"`
	Sources   []Source  `json:"sources"    db:"sources"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
