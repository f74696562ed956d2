package analysis

import "regexp"

// Recognizers reliably garble the "PO Number" label: O and 0 swap, the m/n
// pair smears ("Nunber", "Numher"), and "#" comes back fused to the O.
// NormalizeNoise rewrites those onto the canonical tokens the extractors
// anchor on. It operates on a derived copy only; Result.RawText keeps the
// recognizer output untouched.
var (
	reDottedPO     = regexp.MustCompile(`(?i)\bP\.\s?O\.?`)
	rePOLabelNoise = regexp.MustCompile(`(?i)\bP[O0]\s*N[u0][mn][bh]?[e3]r\b`)
	rePOHashNoise  = regexp.MustCompile(`(?i)\bP[O0]\s*#`)
)

func NormalizeNoise(s string) string {
	if s == "" {
		return s
	}
	s = reDottedPO.ReplaceAllString(s, "PO")
	s = rePOLabelNoise.ReplaceAllString(s, "PO Number")
	s = rePOHashNoise.ReplaceAllString(s, "PO#")
	return s
}
