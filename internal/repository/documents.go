package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/entity"
)

// ErrNotFound is returned when no document matches the lookup.
var ErrNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetByHash(ctx context.Context, contentHash string) (*entity.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus, errMsg string) error
	SaveRecognized(ctx context.Context, id uuid.UUID, rawText string) error
	SaveResult(ctx context.Context, id uuid.UUID, resultJSON string, needsReview bool) error
	MarkFiled(ctx context.Context, id uuid.UUID, filedPath string) error
	List(ctx context.Context, status *constants.DocStatus) ([]*entity.Document, error)
}

type documentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *sql.DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{db: db, logger: logger}
}

const docColumns = `id, source_path, filename, ext, size_bytes, content_hash,
	uploaded_at, status, raw_text, result_json, needs_review, filed_path, error_message`

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = constants.DocStatusQueued
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+docColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID.String(), doc.SourcePath, doc.Filename, doc.Ext, doc.SizeBytes,
		doc.ContentHash, doc.UploadedAt, string(doc.Status), doc.RawText,
		doc.ResultJSON, boolToInt(doc.NeedsReview), doc.FiledPath, doc.ErrorMessage,
	)
	if err != nil {
		r.logger.Error("repo.documents.create_failed", "doc_id", doc.ID, "error", err)
		return err
	}
	r.logger.Debug("repo.documents.created", "doc_id", doc.ID, "filename", doc.Filename)
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+docColumns+` FROM documents WHERE id = ?`, id.String())
	return scanDocument(row)
}

func (r *documentRepository) GetByHash(ctx context.Context, contentHash string) (*entity.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+docColumns+` FROM documents WHERE content_hash = ?`, contentHash)
	return scanDocument(row)
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocStatus, errMsg string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = ?, error_message = ? WHERE id = ?`,
		string(status), errMsg, id.String())
	if err != nil {
		r.logger.Error("repo.documents.update_status_failed", "doc_id", id, "error", err)
		return err
	}
	return requireOneRow(res)
}

func (r *documentRepository) SaveRecognized(ctx context.Context, id uuid.UUID, rawText string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET raw_text = ?, status = ? WHERE id = ?`,
		rawText, string(constants.DocStatusRecognized), id.String())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *documentRepository) SaveResult(ctx context.Context, id uuid.UUID, resultJSON string, needsReview bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET result_json = ?, needs_review = ?, status = ? WHERE id = ?`,
		resultJSON, boolToInt(needsReview), string(constants.DocStatusAnalyzed), id.String())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *documentRepository) MarkFiled(ctx context.Context, id uuid.UUID, filedPath string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET filed_path = ?, status = ? WHERE id = ?`,
		filedPath, string(constants.DocStatusFiled), id.String())
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func (r *documentRepository) List(ctx context.Context, status *constants.DocStatus) ([]*entity.Document, error) {
	q := `SELECT ` + docColumns + ` FROM documents`
	var args []any
	if status != nil {
		q += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	q += ` ORDER BY uploaded_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var docs []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*entity.Document, error) {
	var doc entity.Document
	var id, status string
	var needsReview int
	err := row.Scan(&id, &doc.SourcePath, &doc.Filename, &doc.Ext, &doc.SizeBytes,
		&doc.ContentHash, &doc.UploadedAt, &status, &doc.RawText,
		&doc.ResultJSON, &needsReview, &doc.FiledPath, &doc.ErrorMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	doc.Status = constants.DocStatus(status)
	doc.NeedsReview = needsReview != 0
	return &doc, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
