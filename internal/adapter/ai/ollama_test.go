package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var payload struct {
			Model string      `json:"model"`
			Input interface{} `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Model != "test-model" {
			t.Errorf("model = %q", payload.Model)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Model: "test-model"})
	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
}

func TestOllamaEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Input []string `json:"input"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		out := make([][]float32, len(payload.Input))
		for i := range out {
			out[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": out})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Model: "m"})
	vecs, err := emb.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	if vecs[2][0] != 2 {
		t.Errorf("vectors out of order: %v", vecs)
	}
}

func TestOllamaEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{{1}}})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Model: "m"})
	if _, err := emb.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error for vector/input count mismatch")
	}
}

func TestOllamaEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Model: "m"})
	if _, err := emb.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestOllamaBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float32{{1}}})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(OllamaConfig{BaseURL: srv.URL, Model: "m", Token: "secret"})
	if _, err := emb.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
}
