package port

import "context"

// Embedder maps text to a fixed-dimension vector. The model is expected to
// produce mean-pooled, L2-normalized output; the ranker does not rely on
// that, but dot-product scores only approximate cosine similarity when it
// holds. Implementations must be safe for concurrent use.
type Embedder interface {
	// ModelName returns the identifier of the embedding model.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call,
	// preserving input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionClient sends a prompt to a remote chat-completion model and
// returns the generated answer text.
type CompletionClient interface {
	// ModelName returns the identifier of the completion model.
	ModelName() string

	// Complete sends a system instruction plus user prompt and returns the
	// model's answer.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CheckKey probes the remote API key and reports a coarse status string
	// (e.g. "Healthy", "No Credits", "Unauthorized").
	CheckKey(ctx context.Context) (string, error)
}
