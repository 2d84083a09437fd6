package chunks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "chunk:"
	indexName = domain.KeyPrefix + "chunk:idx"

	listPageSize = 500
)

// ChunkHit is a single KNN hit: the owning record plus the raw cosine distance.
type ChunkHit struct {
	UploadID string
	FileName string
	Distance float64
}

// store is the consumer interface for the chunk index (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// chunkDoc is the RedisJSON shape of an indexed chunk.
type chunkDoc struct {
	UploadID string    `json:"upload_id"`
	FileName string    `json:"filename"`
	Content  string    `json:"content"`
	Vector   []float32 `json:"vector"`
}

// Repo maintains the FT vector index over résumé chunks.
type Repo struct {
	store      store
	dimensions int
}

// New creates a chunk index repository. dimensions must match the embedder.
func New(s store, dimensions int) *Repo {
	return &Repo{store: s, dimensions: dimensions}
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:        indexName,
		StorageType: db.StorageJSON,
		Prefixes:    []string{keyPrefix},
		Fields: []db.IndexField{
			{Name: "$.upload_id", Alias: "upload_id", Type: db.IndexFieldTag},
			{Name: "$.filename", Alias: "filename", Type: db.IndexFieldTag},
			{Name: "$.content", Alias: "content", Type: db.IndexFieldText},
			{
				Name:           "$.vector",
				Alias:          "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorFlat,
				VectorDim:      r.dimensions,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Add stores one chunk document under a fresh key.
func (r *Repo) Add(ctx context.Context, chunk domain.Chunk) error {
	doc := chunkDoc{
		UploadID: chunk.UploadID,
		FileName: chunk.FileName,
		Content:  chunk.Content,
		Vector:   chunk.Vector,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal chunk: %w", err)
	}

	key := keyPrefix + uuid.NewString()
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Count returns the number of indexed chunks.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName, "*")
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// IndexedUploadIDs returns the set of record IDs that have at least one chunk
// in the index. Pages through the index with SearchList.
func (r *Repo) IndexedUploadIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	offset := 0
	for {
		result, err := r.store.SearchList(ctx, indexName, "*", offset, listPageSize, []string{"upload_id"})
		if err != nil {
			return nil, fmt.Errorf("list indexed chunks: %w", err)
		}
		if result == nil || len(result.Entries) == 0 {
			break
		}
		for _, entry := range result.Entries {
			if id := entry.Fields["upload_id"]; id != "" {
				ids[id] = struct{}{}
			}
		}
		offset += len(result.Entries)
		if offset >= result.Total {
			break
		}
	}

	return ids, nil
}

// SearchNearest returns up to k chunks closest to the query vector, with raw
// cosine distances.
func (r *Repo) SearchNearest(ctx context.Context, vector []float32, k int) ([]ChunkHit, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"upload_id", "filename"},
		RawScores:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]ChunkHit, 0, len(result.Entries))
	for _, entry := range result.Entries {
		hits = append(hits, ChunkHit{
			UploadID: entry.Fields["upload_id"],
			FileName: entry.Fields["filename"],
			Distance: entry.Score,
		})
	}
	return hits, nil
}
