// Package export produces an XLSX register of filed documents.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
	"github.com/docsorter/docsorter/internal/repository"
)

// Service is a tiny façade over the document repository that produces XLSX
// bytes for exports.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// ExportRegisterXLSX returns a workbook with one row per filed document.
// Pass nil status to include every document that has a stored result.
func (s *Service) ExportRegisterXLSX(ctx context.Context, status *constants.DocStatus) ([]byte, error) {
	start := time.Now()

	docs, err := s.docs.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if di, _ := f.GetSheetIndex("Sheet1"); di != -1 && di != activeIndex {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Date",
		"Vendor",
		"Document Type",
		"PO Number",
		"Part Number",
		"Description",
		"Needs Review",
		"Filed Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, d := range docs {
		if d.ResultJSON == "" {
			continue
		}
		var res analysis.Result
		if err := json.Unmarshal([]byte(d.ResultJSON), &res); err != nil {
			s.logger.Warn("export.skip_bad_result", "doc_id", d.ID, "error", err)
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, res.Date.Value)
		write(2, res.Vendor.Value)
		write(3, string(res.DocType.Value))
		if res.PONumber.Value != nil {
			write(4, *res.PONumber.Value)
		}
		if res.PartNumber.Value != nil {
			write(5, *res.PartNumber.Value)
		}
		write(6, res.Description.Value)
		write(7, d.NeedsReview)
		write(8, d.FiledPath)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.ok", "rows", row-2, "bytes", buf.Len(), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
