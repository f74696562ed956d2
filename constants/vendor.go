package constants

import "strings"

// Vendor is the canonical vendor name shared by the classifier and the
// filing router. Values are folder-safe identifiers.
type Vendor string

const (
	Grainger      Vendor = "Grainger"
	Fastenal      Vendor = "Fastenal"
	McMasterCarr  Vendor = "McMaster_Carr"
	Uline         Vendor = "Uline"
	MSCIndustrial Vendor = "MSC_Industrial"
	HomeDepot     Vendor = "Home_Depot"
	Amazon        Vendor = "Amazon"
)

// allVendors is the classifier iteration order; earliest-listed wins ties.
var allVendors = []Vendor{
	Grainger,
	Fastenal,
	McMasterCarr,
	Uline,
	MSCIndustrial,
	HomeDepot,
	Amazon,
}

// ItemCodeVendors lists vendors whose packing slips carry line-item codes
// instead of standalone part numbers; part-number extraction is suppressed
// for them and the item lines feed the description instead.
var ItemCodeVendors = map[Vendor]struct{}{
	Grainger: {},
}

func AllVendors() []Vendor {
	out := make([]Vendor, len(allVendors))
	copy(out, allVendors)
	return out
}

func VendorsAsStringSlice() []string {
	result := make([]string, len(allVendors))
	for i, v := range allVendors {
		result[i] = string(v)
	}
	return result
}

// CanonicalizeVendor maps a free-form label onto the enum.
func CanonicalizeVendor(input string) (Vendor, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, v := range allVendors {
		if normalized == strings.ToLower(string(v)) {
			return v, true
		}
	}
	return "", false
}
