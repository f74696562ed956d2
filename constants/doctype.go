package constants

import "strings"

// DocType is the canonical document classification shared by the
// classifier and the filing router. Values are folder-safe.
type DocType string

const (
	PackingSlips       DocType = "Packing_Slips"
	PurchaseOrders     DocType = "Purchase_Orders"
	OrderConfirmations DocType = "Order_Confirmations"
	Invoices           DocType = "Invoices"
	CreditCardReceipts DocType = "Credit_Card_Receipts"
	OtherDocument      DocType = "Other"
)

// allDocTypes is the classification precedence order. Earlier entries win
// when keyword lists overlap; do not reorder.
var allDocTypes = []DocType{
	PackingSlips,
	PurchaseOrders,
	OrderConfirmations,
	Invoices,
	CreditCardReceipts,
}

// AllDocTypes returns the classifiable types in precedence order,
// excluding the OtherDocument fallback.
func AllDocTypes() []DocType {
	out := make([]DocType, len(allDocTypes))
	copy(out, allDocTypes)
	return out
}

func DocTypesAsStringSlice() []string {
	result := make([]string, 0, len(allDocTypes)+1)
	for _, dt := range allDocTypes {
		result = append(result, string(dt))
	}
	result = append(result, string(OtherDocument))
	return result
}

// CanonicalizeDocType maps a free-form label onto the enum.
func CanonicalizeDocType(input string) (DocType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return OtherDocument, false
	}
	for _, dt := range allDocTypes {
		if normalized == strings.ToLower(string(dt)) {
			return dt, true
		}
	}
	if normalized == strings.ToLower(string(OtherDocument)) {
		return OtherDocument, true
	}
	return OtherDocument, false
}
