// Package pipeline runs the two document stages: recognize the text, then
// extract the six filing fields with the configured strategy.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/entity"
	"github.com/docsorter/docsorter/internal/extract"
	"github.com/docsorter/docsorter/internal/recognizer"
	"github.com/docsorter/docsorter/internal/repository"
)

// Processor coordinates recognition (text) then extraction (fields).
type Processor struct {
	logger     *slog.Logger
	recognizer recognizer.TextRecognizer
	extractor  extract.FieldExtractor
	docs       repository.DocumentRepository
	audit      repository.AuditRepository
}

func NewProcessor(
	rec recognizer.TextRecognizer,
	ext extract.FieldExtractor,
	docs repository.DocumentRepository,
	audit repository.AuditRepository,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, recognizer: rec, extractor: ext, docs: docs, audit: audit}
}

// ProcessFile runs a staged document through recognize and extract,
// persisting each stage. A low-confidence field anywhere flags the
// document for review.
func (p *Processor) ProcessFile(ctx context.Context, docID uuid.UUID) error {
	doc, err := p.docs.GetByID(ctx, docID)
	if err != nil {
		p.logger.Error("processor.load.failed", "doc_id", docID, "error", err)
		return err
	}
	if err := p.docs.UpdateStatus(ctx, docID, constants.DocStatusRunning, ""); err != nil {
		return err
	}

	rec, err := p.recognizer.Recognize(ctx, doc.SourcePath)
	if err != nil {
		p.logger.Error("processor.recognize.failed", "doc_id", docID, "error", err)
		return p.fail(ctx, docID, err)
	}
	if err := p.docs.SaveRecognized(ctx, docID, rec.Text); err != nil {
		return p.fail(ctx, docID, err)
	}
	p.logger.Info("processor.recognize.ok",
		"doc_id", docID,
		"method", rec.Method,
		"pages", rec.Pages,
		"chars", len(rec.Text),
	)

	result, err := p.extractor.ExtractFields(ctx, rec.Text)
	if err != nil {
		p.logger.Error("processor.extract.failed", "doc_id", docID, "error", err)
		return p.fail(ctx, docID, err)
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return p.fail(ctx, docID, err)
	}
	needsReview := result.NeedsReview()
	if err := p.docs.SaveResult(ctx, docID, string(resultJSON), needsReview); err != nil {
		return p.fail(ctx, docID, err)
	}
	if p.audit != nil {
		_ = p.audit.Append(ctx, &entity.AuditEntry{
			DocumentID: docID,
			Action:     repository.AuditActionAnalyzed,
			Detail:     "vendor=" + result.Vendor.Value + " doc_type=" + string(result.DocType.Value),
		})
	}

	p.logger.Info("processor.extract.ok",
		"doc_id", docID,
		"vendor", result.Vendor.Value,
		"doc_type", result.DocType.Value,
		"date", result.Date.Value,
		"needs_review", needsReview,
	)
	return nil
}

func (p *Processor) fail(ctx context.Context, docID uuid.UUID, cause error) error {
	if err := p.docs.UpdateStatus(ctx, docID, constants.DocStatusFailed, cause.Error()); err != nil {
		p.logger.Error("processor.mark_failed.failed", "doc_id", docID, "error", err)
	}
	if p.audit != nil {
		_ = p.audit.Append(ctx, &entity.AuditEntry{
			DocumentID: docID,
			Action:     repository.AuditActionFailed,
			Detail:     cause.Error(),
		})
	}
	return cause
}
