package analysis

import (
	"regexp"
	"strings"

	"github.com/docsorter/docsorter/constants"
)

// vendorRule pairs a canonical vendor with its match keywords. Keywords are
// matched as substrings of the folded text, so they must themselves be
// folded (lowercase, no underscores/hyphens). List order is the tie-break.
type vendorRule struct {
	vendor   constants.Vendor
	keywords []string
}

var vendorRules = []vendorRule{
	{constants.Grainger, []string{"grainger"}},
	{constants.Fastenal, []string{"fastenal"}},
	{constants.McMasterCarr, []string{"mcmaster carr", "mcmaster"}},
	{constants.Uline, []string{"uline"}},
	{constants.MSCIndustrial, []string{"msc industrial", "mscdirect"}},
	{constants.HomeDepot, []string{"home depot", "homedepot"}},
	{constants.Amazon, []string{"amazon", "amzn"}},
}

var reFoldWS = regexp.MustCompile(`\s+`)

// foldForMatch case-folds, collapses underscores/hyphens to spaces, and
// squeezes whitespace so keyword lists stay short.
func foldForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return reFoldWS.ReplaceAllString(s, " ")
}

func classifyVendor(text string) Field[string] {
	folded := foldForMatch(text)
	for _, rule := range vendorRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return Field[string]{Value: string(rule.vendor), Confidence: High}
			}
		}
	}
	return Field[string]{Value: "", Confidence: Low}
}
