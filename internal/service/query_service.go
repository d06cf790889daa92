package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
)

const askSystemPrompt = `You are an expert developer. Answer questions about the provided codebase using only the context snippets below. Be precise, reference the source files you relied on, and include code examples when relevant.`

// lineRangePlaceholder is stored in citations; chunking is byte-oriented so
// real line ranges are not tracked.
const lineRangePlaceholder = "Source Snippet"

// QueryService answers questions about an ingested project: embed the
// question, rank the project's corpus, assemble context, call the completion
// model, and log both conversation turns.
type QueryService struct {
	embedder          port.Embedder
	completion        port.CompletionClient
	corpus            port.CorpusStore
	conversations     port.ConversationLog
	topK              int
	embedTimeout      time.Duration
	completionTimeout time.Duration
}

// NewQueryService creates a new query service.
func NewQueryService(
	embedder port.Embedder,
	completion port.CompletionClient,
	corpus port.CorpusStore,
	conversations port.ConversationLog,
	topK int,
	embedTimeout, completionTimeout time.Duration,
) *QueryService {
	return &QueryService{
		embedder:          embedder,
		completion:        completion,
		corpus:            corpus,
		conversations:     conversations,
		topK:              topK,
		embedTimeout:      embedTimeout,
		completionTimeout: completionTimeout,
	}
}

// AskResult is the answer to one question with its cited sources.
type AskResult struct {
	Answer  string          `json:"answer"`
	Sources []domain.Source `json:"sources"`
}

// Ask runs the full query pipeline for one question.
func (s *QueryService) Ask(ctx context.Context, projectID, question string) (*AskResult, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: project id and question are required", port.ErrInvalidInput)
	}

	slog.Info("ask", "project_id", projectID)

	embedCtx, cancelEmbed := context.WithTimeout(ctx, s.embedTimeout)
	queryVector, err := s.embedder.Embed(embedCtx, question)
	cancelEmbed()
	if err != nil {
		return nil, &port.StageError{Stage: port.StageEmbedQuestion, Err: err}
	}

	records, err := s.corpus.FindByProject(ctx, projectID)
	if err != nil {
		return nil, &port.StageError{Stage: port.StageFetchCorpus, Err: err}
	}
	if len(records) == 0 {
		return nil, port.ErrCorpusNotFound
	}

	matches, skipped := rankChunks(queryVector, records, s.topK)
	if skipped > 0 {
		slog.Warn("skipped records with mismatched embedding dimension",
			"project_id", projectID, "skipped", skipped, "total", len(records))
	}
	if len(matches) == 0 {
		// Every record was unusable, which is as good as having no corpus.
		return nil, port.ErrCorpusNotFound
	}

	slog.Info("ranked corpus", "project_id", projectID, "candidates", len(records), "top_score", matches[0].Score)

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", buildContext(matches), question)

	completionCtx, cancelCompletion := context.WithTimeout(ctx, s.completionTimeout)
	defer cancelCompletion()
	answer, err := s.completion.Complete(completionCtx, askSystemPrompt, userPrompt)
	if err != nil {
		return nil, &port.StageError{Stage: port.StageCompletion, Err: err}
	}

	sources := make([]domain.Source, len(matches))
	for i, m := range matches {
		sources[i] = domain.Source{
			FileName:    m.FileName,
			CodeSnippet: m.Content,
			LineRange:   lineRangePlaceholder,
		}
	}

	if err := s.persistTurns(ctx, projectID, question, answer, sources); err != nil {
		return nil, &port.StageError{Stage: port.StagePersistTurns, Err: err}
	}

	return &AskResult{Answer: answer, Sources: sources}, nil
}

// persistTurns writes the user and assistant turns concurrently. Their
// relative order does not matter, but both must land before the response
// goes out.
func (s *QueryService) persistTurns(ctx context.Context, projectID, question, answer string, sources []domain.Source) error {
	turns := []*domain.ChatMessage{
		{ProjectID: projectID, Role: domain.RoleUser, Content: question},
		{ProjectID: projectID, Role: domain.RoleAssistant, Content: answer, Sources: sources},
	}

	errs := make([]error, len(turns))
	var wg sync.WaitGroup
	for i, turn := range turns {
		wg.Add(1)
		go func(i int, turn *domain.ChatMessage) {
			defer wg.Done()
			errs[i] = s.conversations.AppendMessage(ctx, turn)
		}(i, turn)
	}
	wg.Wait()

	return errors.Join(errs...)
}
