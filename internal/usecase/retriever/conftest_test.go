package retriever

import (
	"context"

	"github.com/kailas-cloud/resumatch/internal/domain"
	"github.com/kailas-cloud/resumatch/internal/repository/chunks"
)

// --- Mocks ---

type mockRecordStore struct {
	getFn         func(ctx context.Context, id string) (domain.Record, error)
	idsFn         func(ctx context.Context) ([]string, error)
	setFilePathFn func(ctx context.Context, id, path string) error
}

func (m *mockRecordStore) Get(ctx context.Context, id string) (domain.Record, error) {
	return m.getFn(ctx, id)
}

func (m *mockRecordStore) IDs(ctx context.Context) ([]string, error) {
	if m.idsFn == nil {
		return nil, nil
	}
	return m.idsFn(ctx)
}

func (m *mockRecordStore) SetFilePathIfAbsent(ctx context.Context, id, path string) error {
	if m.setFilePathFn == nil {
		return nil
	}
	return m.setFilePathFn(ctx, id, path)
}

type mockChunkIndex struct {
	ensureErr error
	countFn   func(ctx context.Context) (int, error)
	indexedFn func(ctx context.Context) (map[string]struct{}, error)
	searchFn  func(ctx context.Context, vector []float32, k int) ([]chunks.ChunkHit, error)
	addErr    error
	added     []domain.Chunk
}

func (m *mockChunkIndex) EnsureIndex(_ context.Context) error { return m.ensureErr }

func (m *mockChunkIndex) Add(_ context.Context, chunk domain.Chunk) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, chunk)
	return nil
}

func (m *mockChunkIndex) Count(ctx context.Context) (int, error) {
	if m.countFn == nil {
		return len(m.added), nil
	}
	return m.countFn(ctx)
}

func (m *mockChunkIndex) IndexedUploadIDs(ctx context.Context) (map[string]struct{}, error) {
	if m.indexedFn == nil {
		return map[string]struct{}{}, nil
	}
	return m.indexedFn(ctx)
}

func (m *mockChunkIndex) SearchNearest(ctx context.Context, vector []float32, k int) ([]chunks.ChunkHit, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, vector, k)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn == nil {
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
	}
	return m.embedFn(ctx, text)
}
