package analysis

import (
	"regexp"
	"strings"

	"github.com/docsorter/docsorter/constants"
)

// descriptionBudget is the hard cap on the assembled description.
const descriptionBudget = 120

var (
	// an item line starts with a vendor item code (4-8 alphanumerics with
	// at least one letter and one digit), then free text, then trailing
	// quantity/price noise
	reItemLine   = regexp.MustCompile(`^\s*([A-Za-z0-9]{4,8})\s*[-:]?\s+(\S.*)$`)
	reHasLetter  = regexp.MustCompile(`[A-Za-z]`)
	reHasDigit   = regexp.MustCompile(`\d`)
	reTrailNoise = regexp.MustCompile(`(?:\s+(?:[-+]?[\d.,$]+%?|[A-Z]|EA|PK|BX|CS))+\s*$`)

	// shortener fallback: cut at the first comma/semicolon, then strip
	// trailing dimension/size/form-factor noise
	reTailJunk = regexp.MustCompile(`(?i)(?:[\s,]+(?:\d+(?:\.\d+)?\s*(?:in|ft|mm|cm|oz|lb|gal)\.?|\d+(?:[\-/x]\d+)*|\d*\s*["']\s*[WHDL]?|aerosol|handheld))+\s*$`)

	// abbreviation table entries fire before the comma-cut fallback
	reExtCord   = regexp.MustCompile(`(?i)\bex[tf]\.?\s*c(?:o|0)?r?d\b`)
	reCordLen   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*f(?:t|eet)?\b`)
	reCordish   = regexp.MustCompile(`(?i)\b(cord|cable)\b`)
	reNoiseLine = regexp.MustCompile(`(?i)\b(store|receipt|cashier|register|checkout|thank|welcome|subtotal|total|tax|visa|mastercard|debit|credit|change|tender|payment|approved|card)\b`)
)

// extractDescription branches on the resolved document type: item-line
// parsing for packing slips and invoices, a line-scan heuristic for card
// receipts, empty otherwise.
func extractDescription(text string, docType constants.DocType) Field[string] {
	switch docType {
	case constants.PackingSlips, constants.Invoices:
		return itemLineDescription(text)
	case constants.CreditCardReceipts:
		return receiptDescription(text)
	default:
		return Field[string]{Value: "", Confidence: Low}
	}
}

// itemLineDescription parses candidate item lines, shortens each surviving
// description, and joins them greedily within the budget.
func itemLineDescription(text string) Field[string] {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		m := reItemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, rest := m[1], m[2]
		if !reHasLetter.MatchString(code) || !reHasDigit.MatchString(code) {
			continue
		}
		desc := strings.TrimSpace(reTrailNoise.ReplaceAllString(rest, ""))
		if desc == "" {
			continue
		}
		if short := shortenItem(desc); short != "" {
			names = append(names, short)
		}
	}
	if len(names) == 0 {
		return Field[string]{Value: "", Confidence: Low}
	}

	var b strings.Builder
	for _, n := range names {
		add := len(n)
		if b.Len() > 0 {
			add += 2
		}
		if b.Len()+add > descriptionBudget {
			break
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
	}
	return Field[string]{Value: b.String(), Confidence: High}
}

// shortenItem reduces verbose catalog text to a short human-readable name.
// The abbreviation table is ordered and first match wins; the comma-cut
// fallback handles everything else.
func shortenItem(desc string) string {
	if reExtCord.MatchString(desc) {
		name := "Ext Cord"
		if lm := reCordLen.FindStringSubmatch(desc); lm != nil {
			name = lm[1] + "ft " + name
		}
		return name
	}
	if reCordish.MatchString(desc) {
		if lm := reCordLen.FindStringSubmatch(desc); lm != nil {
			head := cutAtSeparator(desc)
			head = strings.TrimSpace(reTailJunk.ReplaceAllString(head, ""))
			if head != "" {
				return lm[1] + "ft " + head
			}
		}
	}

	head := cutAtSeparator(desc)
	head = strings.TrimSpace(reTailJunk.ReplaceAllString(head, ""))
	return head
}

func cutAtSeparator(s string) string {
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// receiptDescription scans the first 10 non-trivial lines of a card
// receipt for something that looks like a merchant or item name. Purely
// heuristic, so always Low.
func receiptDescription(text string) Field[string] {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > 10 {
			break
		}
		if reNoiseLine.MatchString(line) {
			continue
		}
		if len(line) >= 5 && len(line) <= 60 && reHasLetter.MatchString(line) {
			return Field[string]{Value: line, Confidence: Low}
		}
	}
	return Field[string]{Value: "", Confidence: Low}
}
