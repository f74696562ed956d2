package extract

import (
	"context"

	"github.com/docsorter/docsorter/internal/analysis"
)

// HeuristicExtractor adapts the pure regex engine onto the strategy
// contract. The engine itself raises no errors; the error return exists
// only for contract symmetry with the vision extractor.
type HeuristicExtractor struct {
	analyzer *analysis.Analyzer
}

func NewHeuristicExtractor(a *analysis.Analyzer) *HeuristicExtractor {
	if a == nil {
		a = analysis.New()
	}
	return &HeuristicExtractor{analyzer: a}
}

func (h *HeuristicExtractor) ExtractFields(_ context.Context, rawText string) (analysis.Result, error) {
	return h.analyzer.Analyze(rawText), nil
}
