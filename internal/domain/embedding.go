package domain

import "context"

// EmbeddingResult carries a single embedding vector and the token usage the
// provider reported for it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder converts text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Generator produces free-form text from a prompt. Implementations wrap a
// chat-completion provider; callers treat any error as "fall back".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HealthChecker verifies connectivity to an upstream provider.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
