package filing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
	"github.com/docsorter/docsorter/internal/entity"
	"github.com/docsorter/docsorter/internal/repository"
)

func strPtr(s string) *string { return &s }

func analyzedResult() analysis.Result {
	return analysis.Result{
		Vendor:      analysis.Field[string]{Value: "Grainger", Confidence: analysis.High},
		DocType:     analysis.Field[constants.DocType]{Value: constants.PackingSlips, Confidence: analysis.High},
		Date:        analysis.Field[string]{Value: "2026.02.11", Confidence: analysis.High},
		PONumber:    analysis.Field[*string]{Value: strPtr("PO00044162"), Confidence: analysis.High},
		PartNumber:  analysis.Field[*string]{Value: nil, Confidence: analysis.Low},
		Description: analysis.Field[string]{Value: "Ice Scraper", Confidence: analysis.High},
	}
}

func setupFiler(t *testing.T, res analysis.Result) (*Filer, repository.DocumentRepository, repository.AuditRepository, *entity.Document, string) {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	docs := repository.NewDocumentRepository(db, nil)
	audit := repository.NewAuditRepository(db, nil)

	staging := t.TempDir()
	src := filepath.Join(staging, "doc.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF fake"), 0o644))

	doc := &entity.Document{SourcePath: src, Filename: "doc.pdf", Ext: "pdf", ContentHash: "h1"}
	require.NoError(t, docs.Create(context.Background(), doc))

	resJSON, err := json.Marshal(res)
	require.NoError(t, err)
	require.NoError(t, docs.SaveRecognized(context.Background(), doc.ID, "text"))
	require.NoError(t, docs.SaveResult(context.Background(), doc.ID, string(resJSON), res.NeedsReview()))

	root := t.TempDir()
	return NewFiler(root, docs, audit, nil), docs, audit, doc, root
}

func TestFileRoutesAndRenames(t *testing.T) {
	f, docs, audit, doc, root := setupFiler(t, analyzedResult())

	dst, err := f.File(context.Background(), doc.ID, Overrides{Actor: "reviewer"})
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(root, "Grainger", "Packing_Slips", "2026.02.11_Grainger_PO00044162.pdf"),
		dst)

	_, err = os.Stat(dst)
	assert.NoError(t, err)
	_, err = os.Stat(doc.SourcePath)
	assert.True(t, os.IsNotExist(err), "source must be moved, not copied")

	got, err := docs.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.DocStatusFiled, got.Status)
	assert.Equal(t, dst, got.FiledPath)

	entries, err := audit.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, repository.AuditActionFiled, last.Action)
	assert.Equal(t, "reviewer", last.Actor)
}

func TestFileAppliesOverrides(t *testing.T) {
	f, _, _, doc, root := setupFiler(t, analyzedResult())

	dst, err := f.File(context.Background(), doc.ID, Overrides{
		Vendor:   "Uline",
		DocType:  "Invoices",
		Date:     "2026.03.01",
		PONumber: "777123",
	})
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(root, "Uline", "Invoices", "2026.03.01_Uline_PO777123.pdf"),
		dst)
}

func TestFileWithoutVendorOrPO(t *testing.T) {
	res := analyzedResult()
	res.Vendor = analysis.Field[string]{Value: "", Confidence: analysis.Low}
	res.PONumber = analysis.Field[*string]{Value: nil, Confidence: analysis.Low}
	f, _, _, doc, root := setupFiler(t, res)

	dst, err := f.File(context.Background(), doc.ID, Overrides{})
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(root, "Unsorted", "Packing_Slips", "2026.02.11_Unsorted_"+doc.ID.String()+".pdf"),
		dst)
}

func TestFileCollisionSuffix(t *testing.T) {
	f, _, _, doc, root := setupFiler(t, analyzedResult())

	existing := filepath.Join(root, "Grainger", "Packing_Slips")
	require.NoError(t, os.MkdirAll(existing, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(existing, "2026.02.11_Grainger_PO00044162.pdf"), []byte("x"), 0o644))

	dst, err := f.File(context.Background(), doc.ID, Overrides{})
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(existing, "2026.02.11_Grainger_PO00044162_2.pdf"),
		dst)
}

func TestFileRejectsUnanalyzedDocument(t *testing.T) {
	db, err := repository.Open(context.Background(), repository.Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	docs := repository.NewDocumentRepository(db, nil)

	doc := &entity.Document{Filename: "a.pdf", Ext: "pdf", ContentHash: "h"}
	require.NoError(t, docs.Create(context.Background(), doc))

	f := NewFiler(t.TempDir(), docs, nil, nil)
	_, err = f.File(context.Background(), doc.ID, Overrides{})
	assert.Error(t, err)
}

// Every enum value must have a routable destination; this pins the router
// to the constants tables.
func TestDestinationCoversAllEnums(t *testing.T) {
	docTypes := append(constants.AllDocTypes(), constants.OtherDocument)
	for _, v := range constants.AllVendors() {
		for _, dt := range docTypes {
			res := analysis.Result{
				Vendor:  analysis.Field[string]{Value: string(v), Confidence: analysis.High},
				DocType: analysis.Field[constants.DocType]{Value: dt, Confidence: analysis.High},
			}
			dest := Destination(res)
			assert.Equal(t, filepath.Join(string(v), string(dt)), dest)
			assert.NotContains(t, dest, " ")
		}
	}
}
