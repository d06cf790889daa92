package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/domain"
	"github.com/VuppalaSaiAbhishek/Code-Sage-BE/internal/port"
)

func newQueryService(embedder *fakeEmbedder, completion *fakeCompletion, corpus *memCorpus, log *memLog) *QueryService {
	return NewQueryService(embedder, completion, corpus, log, 3, time.Second, time.Second)
}

func seedCorpus(corpus *memCorpus, projectID string) {
	corpus.records = []domain.EmbeddingRecord{
		{ProjectID: projectID, FileName: "a.go", Content: "alpha", Vector: []float32{1, 0}},
		{ProjectID: projectID, FileName: "b.go", Content: "beta", Vector: []float32{0, 1}},
		{ProjectID: projectID, FileName: "c.go", Content: "gamma", Vector: []float32{0.5, 0.5}},
	}
}

func TestAskRejectsMissingInput(t *testing.T) {
	svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{answer: "x"}, &memCorpus{}, &memLog{})

	cases := []struct{ projectID, question string }{
		{"", "what is this"},
		{"p1", ""},
		{"  ", "  "},
	}
	for _, tc := range cases {
		if _, err := svc.Ask(context.Background(), tc.projectID, tc.question); !errors.Is(err, port.ErrInvalidInput) {
			t.Errorf("Ask(%q, %q) = %v, want ErrInvalidInput", tc.projectID, tc.question, err)
		}
	}
}

func TestAskEmptyCorpusSkipsCompletion(t *testing.T) {
	completion := &fakeCompletion{answer: "unused"}
	svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, completion, &memCorpus{}, &memLog{})

	_, err := svc.Ask(context.Background(), "empty-project", "anything?")
	if !errors.Is(err, port.ErrCorpusNotFound) {
		t.Fatalf("err = %v, want ErrCorpusNotFound", err)
	}
	if completion.calls != 0 {
		t.Errorf("completion was called %d times for an empty corpus", completion.calls)
	}
}

func TestAskAllRecordsMismatchedIsCorpusNotFound(t *testing.T) {
	corpus := &memCorpus{records: []domain.EmbeddingRecord{
		{ProjectID: "p1", FileName: "a.go", Vector: []float32{1, 0, 0}},
		{ProjectID: "p1", FileName: "b.go", Vector: []float32{1, 0, 0, 0}},
	}}
	completion := &fakeCompletion{answer: "unused"}
	svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, completion, corpus, &memLog{})

	_, err := svc.Ask(context.Background(), "p1", "anything?")
	if !errors.Is(err, port.ErrCorpusNotFound) {
		t.Fatalf("err = %v, want ErrCorpusNotFound", err)
	}
	if completion.calls != 0 {
		t.Errorf("completion was called %d times", completion.calls)
	}
}

func TestAskRanksAndAnswers(t *testing.T) {
	corpus := &memCorpus{}
	seedCorpus(corpus, "p1")
	log := &memLog{}
	svc := NewQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{answer: "the answer"}, corpus, log, 2, time.Second, time.Second)

	result, err := svc.Ask(context.Background(), "p1", "what does alpha do?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if result.Answer != "the answer" {
		t.Errorf("answer = %q", result.Answer)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(result.Sources))
	}
	if result.Sources[0].FileName != "a.go" || result.Sources[1].FileName != "c.go" {
		t.Errorf("sources = [%s, %s], want [a.go, c.go]", result.Sources[0].FileName, result.Sources[1].FileName)
	}
	if result.Sources[0].CodeSnippet != "alpha" {
		t.Errorf("snippet = %q, want raw chunk content", result.Sources[0].CodeSnippet)
	}
	if result.Sources[0].LineRange != "Source Snippet" {
		t.Errorf("line range = %q", result.Sources[0].LineRange)
	}
}

func TestAskPersistsBothTurns(t *testing.T) {
	corpus := &memCorpus{}
	seedCorpus(corpus, "p1")
	log := &memLog{}
	svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{answer: "done"}, corpus, log)

	if _, err := svc.Ask(context.Background(), "p1", "question?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	msgs, _ := log.ListMessagesByProject(context.Background(), "p1")
	if len(msgs) != 2 {
		t.Fatalf("got %d turns, want 2", len(msgs))
	}
	var user, assistant *domain.ChatMessage
	for i := range msgs {
		switch msgs[i].Role {
		case domain.RoleUser:
			user = &msgs[i]
		case domain.RoleAssistant:
			assistant = &msgs[i]
		}
	}
	if user == nil || assistant == nil {
		t.Fatalf("missing a turn: %+v", msgs)
	}
	if user.Content != "question?" {
		t.Errorf("user turn content = %q", user.Content)
	}
	if assistant.Content != "done" {
		t.Errorf("assistant turn content = %q", assistant.Content)
	}
	if len(assistant.Sources) == 0 {
		t.Errorf("assistant turn has no sources")
	}
	if len(user.Sources) != 0 {
		t.Errorf("user turn should have no sources, got %d", len(user.Sources))
	}
}

func TestAskStageErrors(t *testing.T) {
	corpus := &memCorpus{}
	seedCorpus(corpus, "p1")

	t.Run("embed failure", func(t *testing.T) {
		svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}, failFor: "question"}, &fakeCompletion{answer: "x"}, corpus, &memLog{})
		_, err := svc.Ask(context.Background(), "p1", "a question")
		if port.Stage(err) != port.StageEmbedQuestion {
			t.Errorf("stage = %q, want %q (err: %v)", port.Stage(err), port.StageEmbedQuestion, err)
		}
	})

	t.Run("completion failure", func(t *testing.T) {
		svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{err: errors.New("rate limited")}, corpus, &memLog{})
		_, err := svc.Ask(context.Background(), "p1", "a question")
		if port.Stage(err) != port.StageCompletion {
			t.Errorf("stage = %q, want %q (err: %v)", port.Stage(err), port.StageCompletion, err)
		}
	})

	t.Run("persistence failure", func(t *testing.T) {
		svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{answer: "x"}, corpus, &memLog{err: errors.New("disk full")})
		_, err := svc.Ask(context.Background(), "p1", "a question")
		if port.Stage(err) != port.StagePersistTurns {
			t.Errorf("stage = %q, want %q (err: %v)", port.Stage(err), port.StagePersistTurns, err)
		}
	})
}

func TestAskIdempotentRanking(t *testing.T) {
	corpus := &memCorpus{}
	seedCorpus(corpus, "p1")
	svc := newQueryService(&fakeEmbedder{vector: []float32{1, 0}}, &fakeCompletion{answer: "x"}, corpus, &memLog{})

	first, err := svc.Ask(context.Background(), "p1", "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := svc.Ask(context.Background(), "p1", "q")
		if err != nil {
			t.Fatalf("Ask run %d: %v", i, err)
		}
		if len(again.Sources) != len(first.Sources) {
			t.Fatalf("run %d returned %d sources, want %d", i, len(again.Sources), len(first.Sources))
		}
		for j := range first.Sources {
			if again.Sources[j].FileName != first.Sources[j].FileName {
				t.Fatalf("run %d diverged at source %d", i, j)
			}
		}
	}
}
