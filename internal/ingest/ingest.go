// Package ingest stages source files for processing: content-hash, dedupe
// against the document store, copy into the staging directory, and watch
// inbox directories for new arrivals.
package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
)

// IngestionResult describes one staged (or skipped) file.
type IngestionResult struct {
	SourcePath   string
	StagedPath   string
	DocumentID   uuid.UUID
	Deduplicated bool
	HashHex      string
	Ext          string
	UploadedAt   time.Time
	Err          string
}

// DirStats aggregates a directory walk.
type DirStats struct {
	Scanned      int
	Matched      int
	Succeeded    int
	Deduplicated int
	Failed       int
}

type Ingestor interface {
	IngestPath(ctx context.Context, path string) (IngestionResult, error)
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error)
}

// AllowedExt checks if a file extension is in the allowed set.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
