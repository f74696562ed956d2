package analysis

import (
	"regexp"

	"github.com/docsorter/docsorter/constants"
)

// Label-anchored only: a part number is accepted solely next to a literal
// field label. No unlabeled guessing.
var (
	rePartLabel = regexp.MustCompile(`(?i)\b(?:PART|CATALOG|CAT)\b(?:\s*(?:NO\.?|NUM|NUMBER)?\s*[#:.\-]\s*|\s+)([A-Za-z0-9][A-Za-z0-9\-]{2,11})\b`)
	rePNLabel   = regexp.MustCompile(`(?i)\bP/N\s*[#:.]?\s*([A-Za-z0-9][A-Za-z0-9\-]{2,11})\b`)
	reItemLabel = regexp.MustCompile(`(?i)\bITEM\b(?:\s*(?:NO\.?|NUM|NUMBER)?\s*[#:.\-]\s*|\s+)([A-Za-z0-9][A-Za-z0-9\-]{2,11})\b`)

	reBareYear = regexp.MustCompile(`^(?:19|20)\d{2}$`)
)

// extractPartNumber scans the three label patterns in order. Vendors whose
// packing slips carry item codes instead of part numbers (Grainger) are
// suppressed entirely; their lines belong to the description extractor.
func extractPartNumber(text, vendor, poDigits string) Field[*string] {
	if v, ok := constants.CanonicalizeVendor(vendor); ok {
		if _, suppressed := constants.ItemCodeVendors[v]; suppressed {
			return Field[*string]{Value: nil, Confidence: Low}
		}
	}

	for _, re := range []*regexp.Regexp{rePartLabel, rePNLabel, reItemLabel} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			cand := m[1]
			if len(cand) < 3 {
				continue
			}
			if reBareYear.MatchString(cand) {
				continue
			}
			// same digits as the PO would double-count one number
			if poDigits != "" && cand == poDigits {
				continue
			}
			return Field[*string]{Value: &cand, Confidence: High}
		}
	}
	return Field[*string]{Value: nil, Confidence: Low}
}
