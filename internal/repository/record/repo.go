package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/resumatch/internal/db"
	"github.com/kailas-cloud/resumatch/internal/domain"
)

const keyPrefix = domain.KeyPrefix + "record:"

// store is the consumer interface for résumé records (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores résumé records as RedisJSON documents.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert creates or updates a record. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, rec *domain.Record) (bool, error) {
	key := recordKey(rec.ID)

	data, err := json.Marshal(toDoc(rec))
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Record, error) {
	raw, err := r.store.JSONGet(ctx, recordKey(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Record{}, domain.ErrRecordNotFound
		}
		return domain.Record{}, fmt.Errorf("json.get %s: %w", recordKey(id), err)
	}
	return parseRecord(id, raw)
}

// IDs returns all record IDs, sorted for deterministic iteration.
func (r *Repo) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, keyPrefix))
	}
	sort.Strings(ids)
	return ids, nil
}

// List returns record metadata with 1-indexed offset pagination.
func (r *Repo) List(ctx context.Context, page, pageSize int) ([]domain.RecordMeta, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}

	ids, err := r.IDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	start := (page - 1) * pageSize
	if start >= len(ids) {
		return nil, len(ids), nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}

	metas := make([]domain.RecordMeta, 0, end-start)
	for _, id := range ids[start:end] {
		rec, err := r.Get(ctx, id)
		if err != nil {
			// record deleted between SCAN and JSON.GET
			continue
		}
		metas = append(metas, domain.RecordMeta{
			ID:          rec.ID,
			FileName:    rec.FileName,
			UpdatedAt:   rec.UpdatedAt,
			HasFilePath: rec.FilePath != "",
		})
	}
	return metas, len(ids), nil
}

// SetFilePathIfAbsent backfills the cached file path once. The existing value
// wins; check and write are separate commands, concurrent callers may both
// write the same path.
func (r *Repo) SetFilePathIfAbsent(ctx context.Context, id, path string) error {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.FilePath != "" {
		return nil
	}

	data, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("marshal file path: %w", err)
	}
	if err := r.store.JSONSet(ctx, recordKey(id), "$.filePath", data); err != nil {
		return fmt.Errorf("json.set filePath of %s: %w", id, err)
	}
	return nil
}

func recordKey(id string) string {
	return keyPrefix + id
}

// parseRecord handles both bare objects and the JSONPath array wrapping that
// JSON.GET with "$" produces.
func parseRecord(id string, raw []byte) (domain.Record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var docs []recordDoc
		if err := json.Unmarshal(raw, &docs); err != nil {
			return domain.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
		}
		if len(docs) == 0 {
			return domain.Record{}, domain.ErrRecordNotFound
		}
		return docs[0].toRecord(id)
	}

	var doc recordDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Record{}, fmt.Errorf("unmarshal record %s: %w", id, err)
	}
	return doc.toRecord(id)
}
