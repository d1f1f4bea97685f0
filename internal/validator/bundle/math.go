package bundle

import (
	"fmt"

	"github.com/shopspring/decimal"

	"draftdesk/internal/amountwords"
	"draftdesk/internal/domain"
	"draftdesk/internal/totals"
)

var mathTolerance = decimal.RequireFromString("0.01")

func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(mathTolerance)
}

func mismatch(path string, expected, actual decimal.Decimal) domain.ValidationFinding {
	return finding(path, fmt.Sprintf("calculation mismatch (expected %s, got %s)", expected.StringFixed(2), actual.StringFixed(2)))
}

// expectedLine recomputes an item's line_total and line_tax. ok is false when
// any input is missing or not a number; math checks are skipped then since
// the structural rules already report the cause.
func expectedLine(item map[string]any) (lineTotal, lineTax decimal.Decimal, ok bool) {
	qty, ok1 := numAt(item, "qty")
	price, ok2 := numAt(item, "unit_price")
	discount, ok3 := numAt(item, "discount")
	rate, ok4 := numAt(item, "tax_rate")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return decimal.Zero, decimal.Zero, false
	}
	lineTotal, lineTax = totals.Line(domain.LineItem{Qty: qty, UnitPrice: price, Discount: discount, TaxRate: rate})
	return lineTotal, lineTax, true
}

// draftSums holds the expected aggregates of one draft.
type draftSums struct {
	subtotal, discount, tax decimal.Decimal
}

// expectedSums aggregates a draft's items. ok is false if any item cannot be
// recomputed.
func expectedSums(draft map[string]any) (draftSums, bool) {
	var s draftSums
	items := arrAt(draft, "items")
	if len(items) == 0 {
		return s, false
	}
	for _, it := range items {
		item, _ := it.(map[string]any)
		lt, tax, ok := expectedLine(item)
		if !ok {
			return s, false
		}
		d, _ := numAt(item, "discount")
		s.subtotal = s.subtotal.Add(lt)
		s.discount = s.discount.Add(d)
		s.tax = s.tax.Add(tax)
	}
	return s, true
}

// forEachDraft calls fn for every object-typed draft.
func forEachDraft(doc *Document, fn func(path string, draft map[string]any)) {
	for i, d := range arrAt(doc.Root, "drafts") {
		if draft, ok := d.(map[string]any); ok {
			fn(fmt.Sprintf("/drafts/%d", i), draft)
		}
	}
}

// checkTotal compares a totals field to its expected value when the field
// holds a number.
func checkTotal(out *[]domain.ValidationFinding, path string, t map[string]any, key string, expected decimal.Decimal) {
	actual, ok := numAt(t, key)
	if ok && !approxEqual(actual, expected) {
		*out = append(*out, mismatch(path+"/totals/"+key, expected, actual))
	}
}

// MathValidators returns all arithmetic consistency validators.
func MathValidators() []*documentValidator {
	return []*documentValidator{
		{
			ruleKey: "math.line_item.line_total", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachItem(doc, func(path string, item map[string]any) {
					expected, _, ok := expectedLine(item)
					actual, present := numAt(item, "line_total")
					if ok && present && !approxEqual(actual, expected) {
						out = append(out, mismatch(path+"/line_total", expected, actual))
					}
				})
				return out
			},
		},
		{
			ruleKey: "math.line_item.line_tax", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachItem(doc, func(path string, item map[string]any) {
					_, expected, ok := expectedLine(item)
					actual, present := numAt(item, "line_tax")
					if ok && present && !approxEqual(actual, expected) {
						out = append(out, mismatch(path+"/line_tax", expected, actual))
					}
				})
				return out
			},
		},
		{
			ruleKey: "math.totals.sums", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachDraft(doc, func(path string, draft map[string]any) {
					sums, ok := expectedSums(draft)
					if !ok {
						return
					}
					t := objAt(draft, "totals")
					checkTotal(&out, path, t, "subtotal", sums.subtotal)
					checkTotal(&out, path, t, "discount_total", sums.discount)
					checkTotal(&out, path, t, "tax_total", sums.tax)
				})
				return out
			},
		},
		{
			ruleKey: "math.totals.grand_total", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachDraft(doc, func(path string, draft map[string]any) {
					sums, ok := expectedSums(draft)
					if !ok {
						return
					}
					t := objAt(draft, "totals")
					shipping := decimal.Zero
					if v, present := numAt(t, "shipping"); present && !v.IsNegative() {
						shipping = v
					}
					pre := sums.subtotal.Add(sums.tax).Add(shipping)
					grand := pre.Round(0)
					checkTotal(&out, path, t, "round_off", grand.Sub(pre))
					checkTotal(&out, path, t, "grand_total", grand)
				})
				return out
			},
		},
		{
			ruleKey: "math.totals.amount_in_words", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachDraft(doc, func(path string, draft map[string]any) {
					t := objAt(draft, "totals")
					grand, ok1 := numAt(t, "grand_total")
					words, ok2 := strAt(t, "amount_in_words")
					cur, ok3 := strAt(draft, "currency")
					if !ok1 || !ok2 || !ok3 || words == "" || !IsCurrencyCode(cur) {
						return
					}
					if expected := amountwords.ToWords(grand, cur); words != expected {
						out = append(out, finding(path+"/totals/amount_in_words",
							fmt.Sprintf("does not match grand_total (expected %q)", expected)))
					}
				})
				return out
			},
		},
		{
			ruleKey: "math.gst.split", ruleType: domain.ValidationRuleSumCheck,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachDraft(doc, func(path string, draft map[string]any) {
					gst := objAt(draft, "gst")
					taxTotal, ok := numAt(objAt(draft, "totals"), "tax_total")
					if gst == nil || !ok {
						return
					}
					sum := decimal.Zero
					seen := false
					for _, key := range []string{"cgst", "sgst", "igst"} {
						if v, present := numAt(gst, key); present {
							sum = sum.Add(v)
							seen = true
						}
					}
					if seen && !approxEqual(sum, taxTotal) {
						out = append(out, finding(path+"/gst",
							fmt.Sprintf("cgst + sgst + igst must equal tax_total (%s), got %s", taxTotal.StringFixed(2), sum.StringFixed(2))))
					}
				})
				return out
			},
		},
	}
}
