package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/internal/entity"
)

// Audit actions recorded in audit_log.
const (
	AuditActionIngested = "INGESTED"
	AuditActionAnalyzed = "ANALYZED"
	AuditActionFiled    = "FILED"
	AuditActionFailed   = "FAILED"
)

type AuditRepository interface {
	Append(ctx context.Context, e *entity.AuditEntry) error
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]*entity.AuditEntry, error)
}

type auditRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAuditRepository(db *sql.DB, logger *slog.Logger) AuditRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &auditRepository{db: db, logger: logger}
}

func (r *auditRepository) Append(ctx context.Context, e *entity.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (document_id, action, detail, actor, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.DocumentID.String(), e.Action, e.Detail, e.Actor, e.CreatedAt)
	if err != nil {
		r.logger.Error("repo.audit.append_failed", "doc_id", e.DocumentID, "action", e.Action, "error", err)
		return err
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

func (r *auditRepository) ListByDocument(ctx context.Context, docID uuid.UUID) ([]*entity.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, document_id, action, detail, actor, created_at
		FROM audit_log WHERE document_id = ? ORDER BY id`, docID.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var id string
		if err := rows.Scan(&e.ID, &id, &e.Action, &e.Detail, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		if e.DocumentID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
