package bundle

import (
	"fmt"

	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

// documentValidator checks relationships that span several fields.
type documentValidator struct {
	ruleKey  string
	ruleType domain.ValidationRuleType
	validate func(*Document) []domain.ValidationFinding
}

func (v *documentValidator) RuleKey() string                     { return v.ruleKey }
func (v *documentValidator) RuleType() domain.ValidationRuleType { return v.ruleType }

func (v *documentValidator) Validate(doc *Document) []domain.ValidationFinding {
	return v.validate(doc)
}

// forEachItem calls fn for every object-typed line item of every
// object-typed draft.
func forEachItem(doc *Document, fn func(path string, item map[string]any)) {
	for i, d := range arrAt(doc.Root, "drafts") {
		for j, it := range arrAt(d, "items") {
			if item, ok := it.(map[string]any); ok {
				fn(fmt.Sprintf("/drafts/%d/items/%d", i, j), item)
			}
		}
	}
}

// CrossFieldValidators returns all cross-field validators.
func CrossFieldValidators() []*documentValidator {
	return []*documentValidator{
		{
			ruleKey: "xf.drafts.present", ruleType: domain.ValidationRuleCrossField,
			validate: func(doc *Document) []domain.ValidationFinding {
				root, _ := doc.Root.(map[string]any)
				drafts, ok := root["drafts"].([]any)
				if !ok || len(drafts) > 0 {
					return nil
				}
				if dt, _ := root["doc_type"].(string); dt == string(domain.DocTypeProjectBrief) {
					return nil
				}
				return []domain.ValidationFinding{finding("/drafts", "must contain at least one draft unless doc_type is PROJECT_BRIEF")}
			},
		},
		{
			ruleKey: "xf.item.discount", ruleType: domain.ValidationRuleCrossField,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				forEachItem(doc, func(path string, item map[string]any) {
					qty, ok1 := numAt(item, "qty")
					price, ok2 := numAt(item, "unit_price")
					discount, ok3 := numAt(item, "discount")
					if !ok1 || !ok2 || !ok3 {
						return
					}
					gross := qty.Mul(price)
					if discount.GreaterThan(gross) {
						out = append(out, finding(path+"/discount",
							fmt.Sprintf("must not exceed qty * unit_price (%s), got %s", gross.StringFixed(2), discount.String())))
					}
				})
				return out
			},
		},
		{
			ruleKey: "xf.milestone.dates", ruleType: domain.ValidationRuleCrossField,
			validate: func(doc *Document) []domain.ValidationFinding {
				var out []domain.ValidationFinding
				for i, m := range arrAt(objAt(doc.Root, "project_brief"), "milestones") {
					ms, _ := m.(map[string]any)
					startS, ok1 := strAt(ms, "start")
					endS, ok2 := strAt(ms, "end")
					if !ok1 || !ok2 {
						continue
					}
					start, err1 := domain.ParseDate(startS)
					end, err2 := domain.ParseDate(endS)
					if err1 != nil || err2 != nil {
						continue
					}
					if end.Before(start) {
						out = append(out, finding(fmt.Sprintf("/project_brief/milestones/%d/end", i),
							fmt.Sprintf("must not be before start (%s), got %s", startS, endS)))
					}
				}
				return out
			},
		},
		{
			ruleKey: "xf.billing_plan.sum", ruleType: domain.ValidationRuleCrossField,
			validate: func(doc *Document) []domain.ValidationFinding {
				plan := arrAt(objAt(doc.Root, "project_brief"), "billing_plan")
				if len(plan) == 0 {
					return nil
				}
				sum := decimal.Zero
				for _, p := range plan {
					part, _ := p.(map[string]any)
					pct, ok := numAt(part, "percent")
					if !ok {
						return nil
					}
					sum = sum.Add(pct)
				}
				if !sum.Equal(hundred) {
					return []domain.ValidationFinding{finding("/project_brief/billing_plan",
						fmt.Sprintf("percentages must add up to 100, got %s", sum.String()))}
				}
				return nil
			},
		},
	}
}
