package analysis

import (
	"strings"

	"github.com/docsorter/docsorter/constants"
)

// Confidence is the engine's self-reported certainty for one field.
// It is a design contract, not a probability: High means a pattern matched
// with low ambiguity; Low means a fallback or a weakly anchored match.
type Confidence string

const (
	High Confidence = "high"
	Low  Confidence = "low"
)

// Field wraps one extracted value with its confidence.
type Field[T any] struct {
	Value      T          `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// Result is the immutable outcome of one analysis call. Every field is
// present even when detection fails: absence is "" for vendor/description
// and nil for po_number/part_number, always with Low confidence.
// RawText is exactly the recognizer's output and is never normalized.
type Result struct {
	Vendor      Field[string]            `json:"vendor"`
	DocType     Field[constants.DocType] `json:"doc_type"`
	Date        Field[string]            `json:"date"` // always YYYY.MM.DD
	PONumber    Field[*string]           `json:"po_number"`
	PartNumber  Field[*string]           `json:"part_number"`
	Description Field[string]            `json:"description"` // <= 120 chars
	RawText     string                   `json:"raw_text"`
}

// PODigits returns the PO number without its literal "PO" prefix, or ""
// when none was extracted. The filing layer cross-checks this against the
// part number.
func (r Result) PODigits() string {
	if r.PONumber.Value == nil {
		return ""
	}
	return strings.TrimPrefix(*r.PONumber.Value, "PO")
}

// NeedsReview reports whether any field fell back or matched weakly.
func (r Result) NeedsReview() bool {
	return r.Vendor.Confidence == Low ||
		r.DocType.Confidence == Low ||
		r.Date.Confidence == Low ||
		r.PONumber.Confidence == Low ||
		r.PartNumber.Confidence == Low ||
		r.Description.Confidence == Low
}
