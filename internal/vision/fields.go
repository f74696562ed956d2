package vision

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
)

// documentFields is the raw shape we accept from the model. Every field is
// optional; normalization below applies the same fallbacks the heuristic
// engine uses, so a sparse (or empty) object still yields a full result.
type documentFields struct {
	Vendor      string `json:"vendor,omitempty"`
	DocType     string `json:"doc_type,omitempty"`
	Date        string `json:"date,omitempty"`
	PONumber    string `json:"po_number,omitempty"`
	PartNumber  string `json:"part_number,omitempty"`
	Description string `json:"description,omitempty"`
}

var (
	reModelDate = regexp.MustCompile(`^(\d{4})[.\-/](\d{2})[.\-/](\d{2})$`)
	rePODigits  = regexp.MustCompile(`^(?:PO)?(\d{3,10})$`)
)

// decodeFields parses model output leniently: content that is not a valid
// object is treated as an empty object so every field takes its fallback.
func decodeFields(raw []byte) (documentFields, bool) {
	var f documentFields
	if err := json.Unmarshal(raw, &f); err != nil {
		return documentFields{}, false
	}
	return f, true
}

// sanitizeFields strips unknown keys and non-string values from a reply
// that failed strict validation, giving it one more chance to pass.
func sanitizeFields(raw []byte) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	known := map[string]struct{}{
		"vendor": {}, "doc_type": {}, "date": {},
		"po_number": {}, "part_number": {}, "description": {},
	}
	out := make(map[string]string, len(known))
	for k, v := range m {
		if _, ok := known[k]; !ok {
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return json.Marshal(out)
}

// toResult normalizes model fields onto the engine's result contract,
// enforcing the same invariants: date always YYYY.MM.DD (today when the
// model's value is unusable), PO number nil or PO-prefixed digits,
// description truncated at the 120-char budget. Confidence is High only
// for fields the model filled with a canonical value; everything that fell
// back is Low.
func toResult(f documentFields, rawText string, now func() time.Time) analysis.Result {
	var res analysis.Result
	res.RawText = rawText

	if v, ok := constants.CanonicalizeVendor(f.Vendor); ok {
		res.Vendor = analysis.Field[string]{Value: string(v), Confidence: analysis.High}
	} else {
		res.Vendor = analysis.Field[string]{Value: "", Confidence: analysis.Low}
	}

	if dt, ok := constants.CanonicalizeDocType(f.DocType); ok && dt != constants.OtherDocument {
		res.DocType = analysis.Field[constants.DocType]{Value: dt, Confidence: analysis.High}
	} else {
		res.DocType = analysis.Field[constants.DocType]{Value: constants.OtherDocument, Confidence: analysis.Low}
	}

	if m := reModelDate.FindStringSubmatch(strings.TrimSpace(f.Date)); m != nil {
		res.Date = analysis.Field[string]{Value: m[1] + "." + m[2] + "." + m[3], Confidence: analysis.High}
	} else {
		res.Date = analysis.Field[string]{Value: now().Format("2006.01.02"), Confidence: analysis.Low}
	}

	if m := rePODigits.FindStringSubmatch(strings.TrimSpace(f.PONumber)); m != nil {
		po := "PO" + m[1]
		res.PONumber = analysis.Field[*string]{Value: &po, Confidence: analysis.High}
	} else {
		res.PONumber = analysis.Field[*string]{Value: nil, Confidence: analysis.Low}
	}

	part := strings.TrimSpace(f.PartNumber)
	if len(part) >= 3 && len(part) <= 12 {
		res.PartNumber = analysis.Field[*string]{Value: &part, Confidence: analysis.High}
	} else {
		res.PartNumber = analysis.Field[*string]{Value: nil, Confidence: analysis.Low}
	}

	desc := strings.TrimSpace(f.Description)
	if len(desc) > 120 {
		desc = strings.TrimSpace(desc[:120])
	}
	if desc != "" {
		res.Description = analysis.Field[string]{Value: desc, Confidence: analysis.High}
	} else {
		res.Description = analysis.Field[string]{Value: "", Confidence: analysis.Low}
	}

	return res
}
