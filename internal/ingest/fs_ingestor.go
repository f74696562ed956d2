package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/entity"
	"github.com/docsorter/docsorter/internal/repository"
)

// FSIngestor stages files from the local filesystem.
type FSIngestor struct {
	docs       repository.DocumentRepository
	audit      repository.AuditRepository
	stagingDir string
	logger     *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, audit repository.AuditRepository, stagingDir string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{docs: docs, audit: audit, stagingDir: stagingDir, logger: logger}
}

// IngestPath hashes one file, skips it if the hash is already known, and
// otherwise copies it into staging and records a QUEUED document row.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}
	out.SourcePath = abs

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}
	out.Ext = ext

	sum, size, err := hashFile(abs)
	if err != nil {
		i.logger.Error("ingest.hash_failed", "path", abs, "error", err)
		return out, err
	}
	out.HashHex = hex.EncodeToString(sum)

	if existing, err := i.docs.GetByHash(ctx, out.HashHex); err == nil {
		out.Deduplicated = true
		out.DocumentID = existing.ID
		out.StagedPath = existing.SourcePath
		out.UploadedAt = existing.UploadedAt
		i.logger.Info("ingest.deduplicated", "path", abs, "doc_id", existing.ID)
		return out, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	doc := &entity.Document{
		ID:          uuid.New(),
		SourcePath:  abs,
		Filename:    filepath.Base(abs),
		Ext:         ext,
		SizeBytes:   size,
		ContentHash: out.HashHex,
		UploadedAt:  time.Now().UTC(),
		Status:      constants.DocStatusQueued,
	}

	staged, err := i.copyToStaging(abs, doc.ID, ext)
	if err != nil {
		i.logger.Error("ingest.stage_failed", "path", abs, "error", err)
		return out, err
	}
	doc.SourcePath = staged

	if err := i.docs.Create(ctx, doc); err != nil {
		_ = os.Remove(staged)
		return out, err
	}
	if i.audit != nil {
		_ = i.audit.Append(ctx, &entity.AuditEntry{
			DocumentID: doc.ID,
			Action:     repository.AuditActionIngested,
			Detail:     "from " + abs,
		})
	}

	out.DocumentID = doc.ID
	out.StagedPath = staged
	out.UploadedAt = doc.UploadedAt
	i.logger.Info("ingest.staged", "doc_id", doc.ID, "path", abs, "staged", staged, "bytes", size)
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each allowed file. Per-file failures are recorded, not
// fatal.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}

func (i *FSIngestor) copyToStaging(src string, id uuid.UUID, ext string) (string, error) {
	if err := os.MkdirAll(i.stagingDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(i.stagingDir, id.String()+"."+ext)

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

func hashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}
