package billing

// StockDelta is a signed stock adjustment for one catalog code.
// Positive quantities are taken out of stock, negative ones returned.
type StockDelta struct {
	Code           string `json:"code"`
	SignedQuantity int    `json:"signed_quantity"`
}

// OriginalLine is the quantity of a code on an invoice when it was loaded
// for a credit edit.
type OriginalLine struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

// SnapshotOriginal captures the per-code quantities of a loaded invoice.
func SnapshotOriginal(items []LineItem) []OriginalLine {
	codes, qty := aggregate(items)
	out := make([]OriginalLine, 0, len(codes))
	for _, code := range codes {
		out = append(out, OriginalLine{Code: code, Quantity: qty[code]})
	}
	return out
}

// DiffStockForNewInvoice deducts every line in full.
func DiffStockForNewInvoice(current []LineItem) []StockDelta {
	codes, qty := aggregate(current)
	out := make([]StockDelta, 0, len(codes))
	for _, code := range codes {
		if qty[code] != 0 {
			out = append(out, StockDelta{Code: code, SignedQuantity: qty[code]})
		}
	}
	return out
}

// DiffStockForCreditInvoice returns the adjustments that move stock from the
// original invoice state to the current one. Codes still present emit their
// quantity change, new codes are deducted in full and codes no longer present
// are returned to stock in full.
func DiffStockForCreditInvoice(original []OriginalLine, current []LineItem) []StockDelta {
	origQty := make(map[string]int, len(original))
	var origCodes []string
	for _, o := range original {
		if _, seen := origQty[o.Code]; !seen {
			origCodes = append(origCodes, o.Code)
		}
		origQty[o.Code] += o.Quantity
	}

	codes, qty := aggregate(current)
	out := make([]StockDelta, 0, len(codes)+len(origCodes))
	for _, code := range codes {
		diff := qty[code] - origQty[code]
		if diff != 0 {
			out = append(out, StockDelta{Code: code, SignedQuantity: diff})
		}
	}
	for _, code := range origCodes {
		if _, still := qty[code]; still {
			continue
		}
		if origQty[code] != 0 {
			out = append(out, StockDelta{Code: code, SignedQuantity: -origQty[code]})
		}
	}
	return out
}

// aggregate sums quantities per code, keeping first-seen code order.
func aggregate(items []LineItem) ([]string, map[string]int) {
	qty := make(map[string]int, len(items))
	codes := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := qty[item.Code]; !seen {
			codes = append(codes, item.Code)
		}
		qty[item.Code] += item.Quantity
	}
	return codes, qty
}
