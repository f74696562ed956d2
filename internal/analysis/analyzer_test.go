package analysis

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsorter/docsorter/constants"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func testAnalyzer() *Analyzer {
	return NewWithClock(fixedClock)
}

const packingSlipText = `GRAINGER
PACKING SLIP

Ship To: Acme Machine Works
1400 Industrial Pkwy
Springfield IL 62704

PO 00044162
Date: 2026-02-11

52CD02- Ice Scraper, Steel, 7" W  3  0  -3  E  90.62  271.86
36GH17- Ext Crd, 50f, 12 AWG Yellow  1  0  1  E  41.10  41.10
`

func TestAnalyzeDeterminism(t *testing.T) {
	a := testAnalyzer()
	first := a.Analyze(packingSlipText)
	second := a.Analyze(packingSlipText)
	assert.Equal(t, first.Vendor, second.Vendor)
	assert.Equal(t, first.DocType, second.DocType)
	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, first.Description, second.Description)
	require.NotNil(t, first.PONumber.Value)
	require.NotNil(t, second.PONumber.Value)
	assert.Equal(t, *first.PONumber.Value, *second.PONumber.Value)
}

func TestAnalyzeInvariants(t *testing.T) {
	reDate := regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)
	rePO := regexp.MustCompile(`^PO[0-9]+$`)

	inputs := []string{
		"",
		packingSlipText,
		"completely unrelated text with no structure at all",
		"INVOICE\nAmount Due: $45.00\n03/15/26",
		"Springfield IL 62704-1234\nPhone: 217-555-0142",
	}
	a := testAnalyzer()
	for _, in := range inputs {
		res := a.Analyze(in)
		assert.Regexp(t, reDate, res.Date.Value, "input %q", in)
		if res.PONumber.Value != nil {
			assert.Regexp(t, rePO, *res.PONumber.Value, "input %q", in)
		}
		assert.LessOrEqual(t, len(res.Description.Value), 120, "input %q", in)
		assert.Equal(t, in, res.RawText)
	}
}

func TestAnalyzeRawTextUntouched(t *testing.T) {
	in := "P.O. Nunber 5512345\nGrainger"
	res := testAnalyzer().Analyze(in)
	assert.Equal(t, in, res.RawText)
}

func TestVendorClassification(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		vendor  string
		conf    Confidence
	}{
		{"exact", "GRAINGER packing slip", "Grainger", High},
		{"folded underscores", "mcmaster_carr order", "McMaster_Carr", High},
		{"tie earliest listed", "grainger and fastenal both appear", "Grainger", High},
		{"no match", "some local shop", "", Low},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := classifyVendor(tc.text)
			assert.Equal(t, tc.vendor, f.Value)
			assert.Equal(t, tc.conf, f.Confidence)
		})
	}
}

func TestDocTypePrecedence(t *testing.T) {
	// both keywords present: Invoices is earlier in the fixed order
	f := classifyDocType("INVOICE\nthank you, keep this receipt")
	assert.Equal(t, constants.Invoices, f.Value)
	assert.Equal(t, High, f.Confidence)

	f = classifyDocType("nothing classifiable here")
	assert.Equal(t, constants.OtherDocument, f.Value)
	assert.Equal(t, Low, f.Confidence)
}

func TestDateCascade(t *testing.T) {
	a := testAnalyzer()
	tests := []struct {
		name string
		text string
		want string
		conf Confidence
	}{
		{"iso dots", "Date: 2026.02.11", "2026.02.11", High},
		{"iso dashes", "Date: 2026-2-3", "2026.02.03", High},
		{"us slashes", "Date: 3/15/26", "2026.03.15", High},
		{"us full year", "Date: 12/31/2025", "2025.12.31", High},
		{"us bad century rejected", "Date: 12/31/1985", "2026.03.14", Low},
		{"fallback", "no date at all", "2026.03.14", Low},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := a.extractDate(tc.text)
			assert.Equal(t, tc.want, f.Value)
			assert.Equal(t, tc.conf, f.Confidence)
		})
	}
}

func TestGraingerPartSuppression(t *testing.T) {
	res := testAnalyzer().Analyze("Grainger\nPACKING SLIP\nPart# 52CD02\n")
	assert.Equal(t, "Grainger", res.Vendor.Value)
	assert.Nil(t, res.PartNumber.Value)
	assert.Equal(t, Low, res.PartNumber.Confidence)
}

func TestPartNumberLabeled(t *testing.T) {
	f := extractPartNumber("Fastenal order\nPart# 52CD02 qty 3", "Fastenal", "")
	require.NotNil(t, f.Value)
	assert.Equal(t, "52CD02", *f.Value)
	assert.Equal(t, High, f.Confidence)
}

func TestPartNumberRejections(t *testing.T) {
	// bare year
	f := extractPartNumber("CAT: 2024", "Fastenal", "")
	assert.Nil(t, f.Value)

	// same digits as the PO
	f = extractPartNumber("Item# 4416205", "Fastenal", "4416205")
	assert.Nil(t, f.Value)

	// no label anywhere
	f = extractPartNumber("QR7781X shown without any label", "Fastenal", "")
	assert.Nil(t, f.Value)
	assert.Equal(t, Low, f.Confidence)
}

func TestItemLineSummarization(t *testing.T) {
	res := testAnalyzer().Analyze(packingSlipText)
	assert.Equal(t, constants.PackingSlips, res.DocType.Value)
	assert.Contains(t, res.Description.Value, "Ice Scraper")
	assert.Contains(t, res.Description.Value, "50ft Ext Cord")
	assert.Equal(t, High, res.Description.Confidence)
}

func TestDescriptionBudget(t *testing.T) {
	var text string
	text = "PACKING SLIP\n"
	for i := 0; i < 20; i++ {
		text += "77AB01- Industrial Solvent Degreaser Concentrate Heavy Duty, 1 gal  2  0  2  E  18.00  36.00\n"
	}
	res := testAnalyzer().Analyze(text)
	assert.LessOrEqual(t, len(res.Description.Value), 120)
	assert.Equal(t, High, res.Description.Confidence)
}

func TestReceiptDescriptionHeuristic(t *testing.T) {
	text := "CREDIT CARD RECEIPT\nSTORE #1142\nSHOP-VAC 5 GALLON WET/DRY\nSUBTOTAL 59.99\nVISA ****4412\n"
	res := testAnalyzer().Analyze(text)
	assert.Equal(t, constants.CreditCardReceipts, res.DocType.Value)
	assert.Equal(t, "SHOP-VAC 5 GALLON WET/DRY", res.Description.Value)
	assert.Equal(t, Low, res.Description.Confidence)
}

func TestNormalizeNoise(t *testing.T) {
	assert.Equal(t, "PO Number 1234", NormalizeNoise("P0 Nunber 1234"))
	assert.Equal(t, "PO Number: 88", NormalizeNoise("Po Numher: 88"))
	assert.Equal(t, "PO# 45", NormalizeNoise("p0 # 45"))
	assert.Equal(t, "PO 7781", NormalizeNoise("P.O. 7781"))
}
