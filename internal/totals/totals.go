// Package totals derives line and document totals for a draft.
package totals

import (
	"github.com/shopspring/decimal"

	"draftdesk/internal/amountwords"
	"draftdesk/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PlaceholderItem is synthesised when a draft has no items.
func PlaceholderItem() domain.LineItem {
	return domain.LineItem{
		Description: "Item",
		Unit:        "pcs",
		Qty:         decimal.NewFromInt(1),
		UnitPrice:   decimal.Zero,
		Discount:    decimal.Zero,
		TaxRate:     decimal.Zero,
	}
}

// Line returns the rounded net amount and tax for a single item:
// line_total = max(qty*unit_price - discount, 0), line_tax = line_total*rate/100.
func Line(item domain.LineItem) (lineTotal, lineTax decimal.Decimal) {
	lineTotal = item.Qty.Mul(item.UnitPrice).Sub(item.Discount)
	if lineTotal.IsNegative() {
		lineTotal = decimal.Zero
	}
	lineTotal = lineTotal.Round(2)
	lineTax = lineTotal.Mul(item.TaxRate).Div(hundred).Round(2)
	return lineTotal, lineTax
}

// Compute returns a copy of draft with every item's line_total/line_tax and
// the draft totals recomputed. The input draft is not modified. Candidate
// totals are never trusted; only shipping is carried over.
func Compute(draft *domain.DocDraft) *domain.DocDraft {
	out := *draft
	out.Items = make([]domain.LineItem, len(draft.Items))
	copy(out.Items, draft.Items)
	if len(out.Items) == 0 {
		out.Items = append(out.Items, PlaceholderItem())
	}

	subtotal := decimal.Zero
	discountTotal := decimal.Zero
	taxTotal := decimal.Zero
	for i := range out.Items {
		item := &out.Items[i]
		item.LineTotal, item.LineTax = Line(*item)
		subtotal = subtotal.Add(item.LineTotal)
		discountTotal = discountTotal.Add(item.Discount)
		taxTotal = taxTotal.Add(item.LineTax)
	}

	shipping := draft.Totals.Shipping
	if shipping.IsNegative() {
		shipping = decimal.Zero
	}

	// Line totals are already net of discount, so discount_total is reported
	// but not subtracted a second time.
	preRound := subtotal.Add(taxTotal).Add(shipping)
	grandTotal := preRound.Round(0)

	out.Totals = domain.Totals{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		TaxTotal:      taxTotal,
		Shipping:      shipping,
		RoundOff:      grandTotal.Sub(preRound),
		GrandTotal:    grandTotal,
		AmountInWords: amountwords.ToWords(grandTotal, out.Currency),
	}

	if draft.GST != nil {
		gst := SplitGST(draft.GST.Mode, taxTotal)
		gst.PlaceOfSupply = draft.GST.PlaceOfSupply
		out.GST = &gst
	}
	if draft.Payment != nil {
		p := *draft.Payment
		out.Payment = &p
	}
	return &out
}

// SplitGST divides taxTotal into CGST+SGST for intra-state supply, or IGST
// for inter-state supply. CGST takes the rounded half and SGST the remainder,
// so the parts always add back to taxTotal.
func SplitGST(mode domain.GSTMode, taxTotal decimal.Decimal) domain.GSTBreakup {
	if mode == domain.GSTModeInter {
		return domain.GSTBreakup{
			Mode: domain.GSTModeInter,
			CGST: decimal.Zero,
			SGST: decimal.Zero,
			IGST: taxTotal,
		}
	}
	cgst := taxTotal.Div(decimal.NewFromInt(2)).Round(2)
	return domain.GSTBreakup{
		Mode: domain.GSTModeIntra,
		CGST: cgst,
		SGST: taxTotal.Sub(cgst),
		IGST: decimal.Zero,
	}
}
