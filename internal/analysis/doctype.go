package analysis

import (
	"strings"

	"github.com/docsorter/docsorter/constants"
)

// docTypeRules is evaluated top to bottom; keyword lists overlap across
// types ("invoice" vs "receipt"), so the fixed order is the tie-break and
// must stay aligned with constants.AllDocTypes.
var docTypeRules = []struct {
	docType  constants.DocType
	keywords []string
}{
	{constants.PackingSlips, []string{"packing slip", "packing list", "packingslip", "pack slip"}},
	{constants.PurchaseOrders, []string{"purchase order"}},
	{constants.OrderConfirmations, []string{"order confirmation", "confirmation of order", "order acknowledgement", "order acknowledgment"}},
	{constants.Invoices, []string{"invoice", "total due", "amount due", "bill to"}},
	{constants.CreditCardReceipts, []string{"receipt", "credit card", "cardholder", "visa", "mastercard", "cash tendered"}},
}

func classifyDocType(text string) Field[constants.DocType] {
	folded := foldForMatch(text)
	for _, rule := range docTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return Field[constants.DocType]{Value: rule.docType, Confidence: High}
			}
		}
	}
	return Field[constants.DocType]{Value: constants.OtherDocument, Confidence: Low}
}
