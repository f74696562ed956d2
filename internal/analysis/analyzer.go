// Package analysis infers structured fields from the raw recognized text
// of a scanned business document. The engine is deterministic, stateless,
// and side-effect-free: layered regex and keyword heuristics with explicit
// precedence and noise-suppression rules, each field tagged high or low
// confidence so a reviewer knows what to double-check.
package analysis

import (
	"strings"
	"time"
)

// Analyzer runs the extraction pipeline in a fixed order. It holds no
// mutable state and is safe for concurrent use; the injected clock exists
// only for the documented current-date fallback.
type Analyzer struct {
	now func() time.Time
}

func New() *Analyzer {
	return &Analyzer{now: time.Now}
}

// NewWithClock pins the fallback date for deterministic tests.
func NewWithClock(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

// Analyze runs Normalizer -> Vendor -> DocType -> Date -> PO -> PartNumber
// -> Description and assembles the result. The PO digit string feeds the
// part-number extractor; the resolved document type feeds the description
// extractor. RawText keeps the original, non-normalized input.
func (a *Analyzer) Analyze(rawText string) Result {
	text := NormalizeNoise(rawText)

	vendor := classifyVendor(text)
	docType := classifyDocType(text)
	date := a.extractDate(text)
	po := extractPONumber(text)

	poDigits := ""
	if po.Value != nil {
		poDigits = strings.TrimPrefix(*po.Value, "PO")
	}
	part := extractPartNumber(text, vendor.Value, poDigits)
	desc := extractDescription(text, docType.Value)

	return Result{
		Vendor:      vendor,
		DocType:     docType,
		Date:        date,
		PONumber:    po,
		PartNumber:  part,
		Description: desc,
		RawText:     rawText,
	}
}
