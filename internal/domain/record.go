package domain

import "time"

// Record is a stored résumé: an uploaded file plus its metadata. The raw file
// bytes are carried base64-encoded in File until the text has been decoded to
// disk, after which FilePath points at the cached copy.
type Record struct {
	ID        string
	FileName  string
	File      string
	FilePath  string
	UpdatedAt time.Time
}

// RecordMeta is the listing projection of a Record, without the payload.
type RecordMeta struct {
	ID          string
	FileName    string
	UpdatedAt   time.Time
	HasFilePath bool
}
