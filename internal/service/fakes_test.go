package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
)

// fakeEmbedder returns canned vectors, with optional per-text failures.
type fakeEmbedder struct {
	vector  []float32
	failFor string // texts containing this substring fail
	calls   int
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failFor != "" && strings.Contains(text, f.failFor) {
		return nil, errors.New("embed backend down")
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if f.failFor != "" && strings.Contains(text, f.failFor) {
			return nil, errors.New("embed backend down")
		}
		out[i] = f.vector
	}
	return out, nil
}

// fakeCompletion counts calls so tests can assert it was never reached.
type fakeCompletion struct {
	answer string
	err    error
	calls  int
}

func (f *fakeCompletion) ModelName() string { return "fake-completion" }

func (f *fakeCompletion) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompletion) CheckKey(ctx context.Context) (string, error) {
	return "Healthy", nil
}

// memCorpus is an in-memory port.CorpusStore.
type memCorpus struct {
	mu      sync.Mutex
	records []domain.EmbeddingRecord
	insErr  error
}

func (m *memCorpus) InsertEmbeddings(ctx context.Context, records []domain.EmbeddingRecord) error {
	if m.insErr != nil {
		return m.insErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *memCorpus) FindByProject(ctx context.Context, projectID string) ([]domain.EmbeddingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EmbeddingRecord
	for _, r := range m.records {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memCorpus) DeleteByProject(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	for _, r := range m.records {
		if r.ProjectID != projectID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

// memProjects is an in-memory port.ProjectStore.
type memProjects struct {
	mu       sync.Mutex
	projects []domain.Project
}

func (m *memProjects) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, *p)
	created := *p
	return &created, nil
}

func (m *memProjects) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memProjects) ListRecentProjects(ctx context.Context, limit int) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.Project(nil), m.projects...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memLog is an in-memory port.ConversationLog.
type memLog struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	err      error
}

func (m *memLog) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memLog) ListMessagesByProject(ctx context.Context, projectID string) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.ProjectID == projectID {
			out = append(out, msg)
		}
	}
	return out, nil
}
