package vision

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsorter/docsorter/constants"
	"github.com/docsorter/docsorter/internal/analysis"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func testClient() *Client {
	c := NewClient(Config{APIKey: "test"}, slog.Default())
	c.now = fixedClock
	return c
}

func TestToResultEmptyObjectAllLow(t *testing.T) {
	res := toResult(documentFields{}, "raw", fixedClock)

	assert.Equal(t, analysis.Low, res.Vendor.Confidence)
	assert.Equal(t, "", res.Vendor.Value)
	assert.Equal(t, analysis.Low, res.DocType.Confidence)
	assert.Equal(t, constants.OtherDocument, res.DocType.Value)
	assert.Equal(t, analysis.Low, res.Date.Confidence)
	assert.Equal(t, "2026.03.14", res.Date.Value)
	assert.Equal(t, analysis.Low, res.PONumber.Confidence)
	assert.Nil(t, res.PONumber.Value)
	assert.Equal(t, analysis.Low, res.PartNumber.Confidence)
	assert.Nil(t, res.PartNumber.Value)
	assert.Equal(t, analysis.Low, res.Description.Confidence)
	assert.Equal(t, "raw", res.RawText)
}

func TestToResultCanonicalFields(t *testing.T) {
	res := toResult(documentFields{
		Vendor:      "grainger",
		DocType:     "Invoices",
		Date:        "2026-02-11",
		PONumber:    "00044162",
		PartNumber:  "52CD02",
		Description: "Ice Scraper",
	}, "raw", fixedClock)

	assert.Equal(t, "Grainger", res.Vendor.Value)
	assert.Equal(t, analysis.High, res.Vendor.Confidence)
	assert.Equal(t, constants.Invoices, res.DocType.Value)
	assert.Equal(t, "2026.02.11", res.Date.Value)
	require.NotNil(t, res.PONumber.Value)
	assert.Equal(t, "PO00044162", *res.PONumber.Value)
	require.NotNil(t, res.PartNumber.Value)
	assert.Equal(t, "52CD02", *res.PartNumber.Value)
	assert.Equal(t, "Ice Scraper", res.Description.Value)
	assert.False(t, res.NeedsReview())
}

func TestToResultRejectsMalformedValues(t *testing.T) {
	res := toResult(documentFields{
		Vendor:     "Unknown Corp",
		DocType:    "Memo",
		Date:       "February 11th",
		PONumber:   "PO-ABC",
		PartNumber: "XY",
	}, "raw", fixedClock)

	assert.Equal(t, analysis.Low, res.Vendor.Confidence)
	assert.Equal(t, constants.OtherDocument, res.DocType.Value)
	assert.Equal(t, "2026.03.14", res.Date.Value)
	assert.Nil(t, res.PONumber.Value)
	assert.Nil(t, res.PartNumber.Value)
}

func TestToResultTruncatesDescription(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "widget "
	}
	res := toResult(documentFields{Description: long}, "raw", fixedClock)
	assert.LessOrEqual(t, len(res.Description.Value), 120)
}

func TestNormalizeContentGarbage(t *testing.T) {
	c := testClient()
	for _, content := range []string{"", "not json at all", "[1,2,3]", `"just a string"`} {
		res := c.normalizeContent(content, "raw")
		assert.Equal(t, analysis.Low, res.Vendor.Confidence, "content=%q", content)
		assert.Equal(t, "2026.03.14", res.Date.Value, "content=%q", content)
		assert.Equal(t, "raw", res.RawText, "content=%q", content)
	}
}

func TestNormalizeContentSanitizesUnknownKeys(t *testing.T) {
	c := testClient()
	content := `{"vendor":"Uline","confidence":0.9,"notes":["x"]}`
	res := c.normalizeContent(content, "raw")
	assert.Equal(t, "Uline", res.Vendor.Value)
	assert.Equal(t, analysis.High, res.Vendor.Confidence)
}

func TestSchemaRejectsBadDate(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildDocumentJSONSchema(), []byte(`{"date":"Feb 11"}`))
	assert.Error(t, err)

	err = ValidateJSONAgainstSchema(BuildDocumentJSONSchema(), []byte(`{"date":"2026.02.11"}`))
	assert.NoError(t, err)
}
