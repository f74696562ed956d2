package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
	"github.com/docsorter/docsorter/internal/entity"
	"github.com/docsorter/docsorter/internal/repository"
)

func TestExportRegisterXLSX(t *testing.T) {
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	docs := repository.NewDocumentRepository(db, nil)

	po := "PO00044162"
	res := analysis.Result{
		Vendor:      analysis.Field[string]{Value: "Grainger", Confidence: analysis.High},
		DocType:     analysis.Field[constants.DocType]{Value: constants.PackingSlips, Confidence: analysis.High},
		Date:        analysis.Field[string]{Value: "2026.02.11", Confidence: analysis.High},
		PONumber:    analysis.Field[*string]{Value: &po, Confidence: analysis.High},
		Description: analysis.Field[string]{Value: "Ice Scraper", Confidence: analysis.High},
	}
	resJSON, err := json.Marshal(res)
	require.NoError(t, err)

	doc := &entity.Document{Filename: "a.pdf", Ext: "pdf", ContentHash: "h1"}
	require.NoError(t, docs.Create(ctx, doc))
	require.NoError(t, docs.SaveRecognized(ctx, doc.ID, "text"))
	require.NoError(t, docs.SaveResult(ctx, doc.ID, string(resJSON), false))
	require.NoError(t, docs.MarkFiled(ctx, doc.ID, "/filed/Grainger/Packing_Slips/x.pdf"))

	// a second doc with no result yet should be skipped
	other := &entity.Document{Filename: "b.pdf", Ext: "pdf", ContentHash: "h2"}
	require.NoError(t, docs.Create(ctx, other))

	svc := NewService(docs, nil)
	out, err := svc.ExportRegisterXLSX(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Documents")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header + one data row")
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2026.02.11", rows[1][0])
	assert.Equal(t, "Grainger", rows[1][1])
	assert.Equal(t, "Packing_Slips", rows[1][2])
	assert.Equal(t, "PO00044162", rows[1][3])
}
