package record

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/resumatch/internal/domain"
)

// recordDoc is the RedisJSON shape of a stored résumé.
type recordDoc struct {
	FileName  string `json:"fileName"`
	File      string `json:"file,omitempty"`
	FilePath  string `json:"filePath,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

func toDoc(rec *domain.Record) recordDoc {
	return recordDoc{
		FileName:  rec.FileName,
		File:      rec.File,
		FilePath:  rec.FilePath,
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (d recordDoc) toRecord(id string) (domain.Record, error) {
	rec := domain.Record{
		ID:       id,
		FileName: d.FileName,
		File:     d.File,
		FilePath: d.FilePath,
	}
	if d.UpdatedAt != "" {
		ts, err := time.Parse(time.RFC3339, d.UpdatedAt)
		if err != nil {
			return domain.Record{}, fmt.Errorf("parse updatedAt of %s: %w", id, err)
		}
		rec.UpdatedAt = ts
	}
	return rec, nil
}
