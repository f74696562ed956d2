// Package entity holds the storage-facing document types shared between
// the repositories, pipeline, and filing layers.
package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/docsorter/docsorter/constants"
)

// Document is one ingested file and everything we learned about it.
type Document struct {
	ID          uuid.UUID
	SourcePath  string
	Filename    string
	Ext         string
	SizeBytes   int64
	ContentHash string
	UploadedAt  time.Time
	Status      constants.DocStatus

	RawText      string
	ResultJSON   string
	NeedsReview  bool
	FiledPath    string
	ErrorMessage string
}

// AuditEntry is an append-only record of an action taken on a document.
type AuditEntry struct {
	ID         int64
	DocumentID uuid.UUID
	Action     string
	Detail     string
	Actor      string
	CreatedAt  time.Time
}
