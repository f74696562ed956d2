package analysis

import (
	"regexp"
	"strings"
)

// The PO extractor has to reject look-alike digit runs: zip codes, phone
// numbers, and labeled delivery/account/order numbers all collide with the
// shapes a PO number takes. An exclusion set is harvested from the full
// text first; the match cascade then refuses any candidate that collides
// with it.
var (
	reZip      = regexp.MustCompile(`\b[A-Z]{2}\s+(\d{5})(?:-(\d{4}))?\b`)
	rePhone10  = regexp.MustCompile(`\b(\d{10})\b`)
	rePhoneSep = regexp.MustCompile(`\b(\d{3})[\s.\-]+(\d{3})[\s.\-]+(\d{4})\b`)
	reDelivery = regexp.MustCompile(`(?i)\bDELIVERY\b\D{0,20}?(\d{7,13})`)
	reAccount  = regexp.MustCompile(`(?i)\bACCOUNT\b\D{0,20}?(\d{5,12})`)
	reOrderNum = regexp.MustCompile(`(?i)\bORDER\s*(?:NUMBER|NUM|NO\.?)\D{0,10}?(\d{5,12})`)

	// direct and recognizer-garbled forms capture digits only, so the PO
	// prefix below is never doubled
	rePODirect  = regexp.MustCompile(`\bPO\s*[#:\-]?\s*(\d{3,10})\b`)
	rePOGarbled = regexp.MustCompile(`\bP0\s*[#:\-]?\s*(\d{3,10})\b`)
	rePOLabeled = regexp.MustCompile(`(?i)\bPO\s*(?:NUMBER|NUM|NO\.?|#).{0,30}?(\d{5,10})\b`)

	rePOToken     = regexp.MustCompile(`(?i)\bP[O0]\b|\bP[O0]#`)
	reLongDigits  = regexp.MustCompile(`\b(\d{8,10})\b`)
	reAddressLine = regexp.MustCompile(`\b[A-Z]{2}\s+\d{5}\b`)
	rePhoneLabel  = regexp.MustCompile(`(?i)\b(phone|tel|telephone|fax|call)\b`)
)

// buildExclusionSet harvests digit strings that must never be treated as a
// PO number. Zip+4 extensions are entered both joined and as their own
// entries; grouped phone numbers are entered as their concatenation.
func buildExclusionSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, m := range reZip.FindAllStringSubmatch(text, -1) {
		set[m[1]] = struct{}{}
		if m[2] != "" {
			set[m[2]] = struct{}{}
			set[m[1]+m[2]] = struct{}{}
		}
	}
	for _, m := range rePhone10.FindAllStringSubmatch(text, -1) {
		set[m[1]] = struct{}{}
	}
	for _, m := range rePhoneSep.FindAllStringSubmatch(text, -1) {
		set[m[1]+m[2]+m[3]] = struct{}{}
	}
	for _, re := range []*regexp.Regexp{reDelivery, reAccount, reOrderNum} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			set[m[1]] = struct{}{}
		}
	}
	return set
}

// isExcluded applies the loose membership rule: exact hit, candidate inside
// an excluded string, or an excluded string inside the candidate. The
// substring fallback catches zip+4 partial overlaps and padded variants; it
// can also falsely reject a short PO that happens to sit inside a phone
// number, which is accepted as the cost of the heuristic.
func isExcluded(set map[string]struct{}, candidate string) bool {
	if _, ok := set[candidate]; ok {
		return true
	}
	for excl := range set {
		if strings.Contains(excl, candidate) || strings.Contains(candidate, excl) {
			return true
		}
	}
	return false
}

// extractPONumber runs the cascade over normalized text and returns the
// accepted number with the literal PO prefix prepended.
func extractPONumber(text string) Field[*string] {
	excl := buildExclusionSet(text)

	for _, re := range []*regexp.Regexp{rePODirect, rePOGarbled, rePOLabeled} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if !isExcluded(excl, m[1]) {
				return poField(m[1], High)
			}
		}
	}

	// line-scan fallback: skip address-shaped and phone-labeled lines; on a
	// remaining PO-flavored line an 8-10 digit run is long enough to rule
	// out zip codes, but the anchoring is weak, hence Low.
	for _, line := range strings.Split(text, "\n") {
		if reAddressLine.MatchString(line) || rePhoneLabel.MatchString(line) {
			continue
		}
		if !rePOToken.MatchString(line) {
			continue
		}
		for _, m := range reLongDigits.FindAllStringSubmatch(line, -1) {
			if !isExcluded(excl, m[1]) {
				return poField(m[1], Low)
			}
		}
	}

	return Field[*string]{Value: nil, Confidence: Low}
}

func poField(digits string, conf Confidence) Field[*string] {
	v := "PO" + digits
	return Field[*string]{Value: &v, Confidence: conf}
}
