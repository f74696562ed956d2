package vision

import (
	"fmt"
	"strings"

	"github.com/docsorter/docsorter/constants"
)

func buildSystemPrompt() string {
	return strings.TrimSpace(fmt.Sprintf(`
You extract filing fields from OCR text of business documents (packing
slips, purchase orders, order confirmations, invoices, card receipts).

Rules:
- Respond with a single JSON object and nothing else.
- vendor: the supplier name, e.g. one of: %s. Omit if unsure.
- doc_type: one of: %s. Omit if unsure.
- date: the document date as YYYY.MM.DD. Omit if no date is present.
- po_number: the purchase-order number digits (not zip codes, phone
  numbers, delivery numbers, account numbers, or sales-order numbers).
  Omit if none.
- part_number: a single part/catalog number if one is labeled. Omit if none.
- description: a short summary of the line items, at most 120 characters.
- Omit any field you cannot read confidently. Never invent values.
`,
		strings.Join(constants.VendorsAsStringSlice(), ", "),
		strings.Join(constants.DocTypesAsStringSlice(), ", ")))
}

func buildUserPrompt(rawText string) string {
	return "Document text:\n\n" + rawText
}
