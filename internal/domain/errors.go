package domain

import "errors"

var (
	// ErrRecordNotFound signals a missing résumé record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrIndexUnavailable signals that the chunk index cannot be reached or created.
	ErrIndexUnavailable = errors.New("chunk index unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrLLMUnavailable signals a generative-language provider failure.
	ErrLLMUnavailable = errors.New("llm unavailable")
	// ErrNoText signals that no plain text could be extracted from a record.
	ErrNoText = errors.New("no extractable text")
)
