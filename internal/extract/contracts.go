package extract

import (
	"context"

	"github.com/docsorter/docsorter/internal/analysis"
)

// FieldExtractor is the contract both extraction strategies satisfy:
// raw recognized text in, normalized six-field result out. The pipeline
// selects an implementation by configuration, never by special-casing.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, rawText string) (analysis.Result, error)
}
