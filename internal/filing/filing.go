// Package filing moves an analyzed document into its destination folder
// after a reviewer confirms (or edits) the extracted fields.
package filing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
	"github.com/docsorter/docsorter/internal/common"
	"github.com/docsorter/docsorter/internal/entity"
	"github.com/docsorter/docsorter/internal/repository"
)

// Overrides are reviewer edits applied on top of the stored result before
// routing. Empty strings leave the extracted value in place.
type Overrides struct {
	Vendor   string
	DocType  string
	Date     string // YYYY.MM.DD
	PONumber string // digits, with or without the PO prefix
	Actor    string // who confirmed the filing
}

type Filer struct {
	root   string
	docs   repository.DocumentRepository
	audit  repository.AuditRepository
	logger *slog.Logger
}

func NewFiler(root string, docs repository.DocumentRepository, audit repository.AuditRepository, logger *slog.Logger) *Filer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filer{root: root, docs: docs, audit: audit, logger: logger}
}

var reFiledDate = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// File routes one analyzed document to <root>/<Vendor>/<DocType>/ and
// renames it YYYY.MM.DD_<Vendor>_<PO|doc-id>.<ext>. Vendorless documents
// file under Unsorted.
func (f *Filer) File(ctx context.Context, docID uuid.UUID, ov Overrides) (string, error) {
	doc, err := f.docs.GetByID(ctx, docID)
	if err != nil {
		return "", err
	}
	if doc.Status != constants.DocStatusAnalyzed {
		return "", common.NewAppError("FILING_NOT_READY",
			fmt.Sprintf("document %s is %s, want %s", docID, doc.Status, constants.DocStatusAnalyzed), nil)
	}

	var res analysis.Result
	if err := json.Unmarshal([]byte(doc.ResultJSON), &res); err != nil {
		return "", common.NewAppError("FILING_BAD_RESULT", "stored result is not valid JSON", err)
	}
	applyOverrides(&res, ov)

	dir := filepath.Join(f.root, Destination(res))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst := uniquePath(filepath.Join(dir, Filename(res, doc)))
	if err := os.Rename(doc.SourcePath, dst); err != nil {
		// cross-device moves fall back to copy+remove
		if cerr := copyFile(doc.SourcePath, dst); cerr != nil {
			f.logger.Error("filing.move_failed", "doc_id", docID, "error", err)
			return "", err
		}
		_ = os.Remove(doc.SourcePath)
	}

	if err := f.docs.MarkFiled(ctx, docID, dst); err != nil {
		return "", err
	}
	if f.audit != nil {
		_ = f.audit.Append(ctx, &entity.AuditEntry{
			DocumentID: docID,
			Action:     repository.AuditActionFiled,
			Detail:     "to " + dst,
			Actor:      ov.Actor,
		})
	}

	f.logger.Info("filing.ok", "doc_id", docID, "dest", dst, "actor", ov.Actor)
	return dst, nil
}

// Destination returns the folder (relative to the filing root) for a
// result. Folders derive from the constants tables so the router and the
// enums cannot drift apart.
func Destination(res analysis.Result) string {
	vendor := "Unsorted"
	if v, ok := constants.CanonicalizeVendor(res.Vendor.Value); ok {
		vendor = string(v)
	}
	return filepath.Join(vendor, string(res.DocType.Value))
}

// Filename is YYYY.MM.DD_<Vendor>_<PO|doc-id>.<ext>. The PO digits keep
// their PO prefix; documents without one use the document id.
func Filename(res analysis.Result, doc *entity.Document) string {
	date := res.Date.Value
	if !reFiledDate.MatchString(date) {
		date = doc.UploadedAt.Format("2006.01.02")
	}
	vendor := "Unsorted"
	if v, ok := constants.CanonicalizeVendor(res.Vendor.Value); ok {
		vendor = string(v)
	}
	ref := doc.ID.String()
	if res.PONumber.Value != nil {
		ref = *res.PONumber.Value
	}
	return fmt.Sprintf("%s_%s_%s.%s", date, vendor, ref, doc.Ext)
}

func applyOverrides(res *analysis.Result, ov Overrides) {
	if ov.Vendor != "" {
		res.Vendor = analysis.Field[string]{Value: ov.Vendor, Confidence: analysis.High}
	}
	if ov.DocType != "" {
		if dt, ok := constants.CanonicalizeDocType(ov.DocType); ok {
			res.DocType = analysis.Field[constants.DocType]{Value: dt, Confidence: analysis.High}
		}
	}
	if ov.Date != "" && reFiledDate.MatchString(ov.Date) {
		res.Date = analysis.Field[string]{Value: ov.Date, Confidence: analysis.High}
	}
	if ov.PONumber != "" {
		po := "PO" + strings.TrimPrefix(strings.ToUpper(ov.PONumber), "PO")
		res.PONumber = analysis.Field[*string]{Value: &po, Confidence: analysis.High}
	}
}

// uniquePath suffixes _2, _3, ... before the extension until no collision.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		cand := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, err := os.Stat(cand); err != nil {
			return cand
		}
	}
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}
