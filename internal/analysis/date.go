package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reISODate = regexp.MustCompile(`\b(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})\b`)
	reUSDate  = regexp.MustCompile(`\b(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{2,4})\b`)
)

// extractDate runs the format cascade: ISO-like first, then US-like with
// 2-digit years expanded to 20xx, then today's date as the Low fallback.
// The output is always YYYY.MM.DD.
func (a *Analyzer) extractDate(text string) Field[string] {
	if m := reISODate.FindStringSubmatch(text); m != nil {
		return Field[string]{Value: formatDate(m[1], m[2], m[3]), Confidence: High}
	}
	for _, m := range reUSDate.FindAllStringSubmatch(text, -1) {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		// recognizers hand back plenty of 3-3-4 digit groups; the
		// century check is what keeps those out of the date field
		if len(year) == 4 && strings.HasPrefix(year, "20") {
			return Field[string]{Value: formatDate(year, m[1], m[2]), Confidence: High}
		}
	}
	return Field[string]{Value: a.now().Format("2006.01.02"), Confidence: Low}
}

func formatDate(y, m, d string) string {
	mi, _ := strconv.Atoi(m)
	di, _ := strconv.Atoi(d)
	return fmt.Sprintf("%s.%02d.%02d", y, mi, di)
}
