package retriever

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/repository/chunks"
)

// RecordStore is the consumer interface over the résumé record repository.
type RecordStore interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	IDs(ctx context.Context) ([]string, error)
	SetFilePathIfAbsent(ctx context.Context, id, path string) error
}

// ChunkIndex is the consumer interface over the chunk vector index.
type ChunkIndex interface {
	EnsureIndex(ctx context.Context) error
	Add(ctx context.Context, chunk domain.Chunk) error
	Count(ctx context.Context) (int, error)
	IndexedUploadIDs(ctx context.Context) (map[string]struct{}, error)
	SearchNearest(ctx context.Context, vector []float32, k int) ([]chunks.ChunkHit, error)
}

// TextExtractor converts raw file bytes into plain text.
type TextExtractor func(data []byte) (string, error)
