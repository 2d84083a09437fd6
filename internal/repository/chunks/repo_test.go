package chunks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/domain"
)

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	var created *db.IndexDefinition
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, name string) (bool, error) {
			if name != "resumatch:chunk:idx" {
				t.Errorf("unexpected index name %q", name)
			}
			return false, nil
		},
		createIndexFn: func(_ context.Context, def *db.IndexDefinition) error {
			created = def
			return nil
		},
	}

	repo := New(ms, 1024)
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected CreateIndex to be called")
	}
	if created.StorageType != db.StorageJSON {
		t.Errorf("expected JSON storage, got %s", created.StorageType)
	}
	if len(created.Prefixes) != 1 || created.Prefixes[0] != "resumatch:chunk:" {
		t.Errorf("unexpected prefixes: %v", created.Prefixes)
	}

	var vectorField *db.IndexField
	for i := range created.Fields {
		if created.Fields[i].Type == db.IndexFieldVector {
			vectorField = &created.Fields[i]
		}
	}
	if vectorField == nil {
		t.Fatal("expected a vector field")
	}
	if vectorField.VectorDim != 1024 || vectorField.VectorDistance != db.DistanceCosine {
		t.Errorf("unexpected vector field: %+v", vectorField)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			t.Fatal("CreateIndex must not be called")
			return nil
		},
	}

	repo := New(ms, 1024)
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_RaceOnCreateIsFine(t *testing.T) {
	ms := &mockStore{
		createIndexFn: func(_ context.Context, _ *db.IndexDefinition) error {
			return db.ErrIndexExists
		},
	}

	repo := New(ms, 1024)
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("concurrent creation should not be an error, got %v", err)
	}
}

func TestEnsureIndex_Unavailable(t *testing.T) {
	ms := &mockStore{
		indexExistsFn: func(_ context.Context, _ string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	repo := New(ms, 1024)
	err := repo.EnsureIndex(context.Background())
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestAdd_StoresChunkDoc(t *testing.T) {
	var gotKey string
	var gotData []byte
	ms := &mockStore{
		jsonSetFn: func(_ context.Context, key, path string, data []byte) error {
			gotKey, gotData = key, data
			if path != "$" {
				t.Errorf("expected path $, got %s", path)
			}
			return nil
		},
	}

	repo := New(ms, 4)
	err := repo.Add(context.Background(), domain.Chunk{
		UploadID: "r1",
		FileName: "cv.pdf",
		Content:  "golang experience",
		Vector:   []float32{0.1, 0.2, 0.3, 0.4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(gotKey, "resumatch:chunk:") {
		t.Errorf("unexpected key %q", gotKey)
	}

	var doc chunkDoc
	if err := json.Unmarshal(gotData, &doc); err != nil {
		t.Fatalf("stored data is not valid JSON: %v", err)
	}
	if doc.UploadID != "r1" || doc.FileName != "cv.pdf" || len(doc.Vector) != 4 {
		t.Errorf("unexpected doc: %+v", doc)
	}
}

func TestIndexedUploadIDs_PagesThroughIndex(t *testing.T) {
	pages := [][]db.SearchEntry{
		{
			{Key: "resumatch:chunk:1", Fields: map[string]string{"upload_id": "a"}},
			{Key: "resumatch:chunk:2", Fields: map[string]string{"upload_id": "a"}},
		},
		{
			{Key: "resumatch:chunk:3", Fields: map[string]string{"upload_id": "b"}},
		},
	}
	call := 0
	ms := &mockStore{
		searchListFn: func(_ context.Context, _, _ string, offset, _ int, fields []string) (*db.SearchResult, error) {
			if len(fields) != 1 || fields[0] != "upload_id" {
				t.Errorf("unexpected fields: %v", fields)
			}
			var entries []db.SearchEntry
			if call < len(pages) {
				entries = pages[call]
			}
			call++
			_ = offset
			return &db.SearchResult{Total: 3, Entries: entries}, nil
		},
	}

	repo := New(ms, 4)
	ids, err := repo.IndexedUploadIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct upload ids, got %v", ids)
	}
	if _, ok := ids["a"]; !ok {
		t.Error("missing upload id a")
	}
	if _, ok := ids["b"]; !ok {
		t.Error("missing upload id b")
	}
}

func TestIndexedUploadIDs_EmptyIndex(t *testing.T) {
	ms := &mockStore{
		searchListFn: func(_ context.Context, _, _ string, _, _ int, _ []string) (*db.SearchResult, error) {
			return &db.SearchResult{}, nil
		},
	}

	repo := New(ms, 4)
	ids, err := repo.IndexedUploadIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}

func TestSearchNearest(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			if !q.RawScores {
				t.Error("expected raw distance scores")
			}
			if q.K != 5 {
				t.Errorf("expected k=5, got %d", q.K)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: "resumatch:chunk:1", Score: 0.1, Fields: map[string]string{"upload_id": "a", "filename": "a.pdf"}},
					{Key: "resumatch:chunk:2", Score: 0.4, Fields: map[string]string{"upload_id": "b", "filename": "b.pdf"}},
				},
			}, nil
		},
	}

	repo := New(ms, 4)
	hits, err := repo.SearchNearest(context.Background(), []float32{0.1, 0.2, 0.3, 0.4}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].UploadID != "a" || hits[0].Distance != 0.1 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[1].FileName != "b.pdf" {
		t.Errorf("unexpected second hit: %+v", hits[1])
	}
}

func TestCount(t *testing.T) {
	ms := &mockStore{
		searchCountFn: func(_ context.Context, index, query string) (int, error) {
			if index != "resumatch:chunk:idx" || query != "*" {
				t.Errorf("unexpected count query %s %s", index, query)
			}
			return 7, nil
		},
	}

	repo := New(ms, 4)
	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
}
