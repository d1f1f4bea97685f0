package validator_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftdesk/internal/domain"
	"draftdesk/internal/validator"
)

func n(s string) json.Number { return json.Number(s) }

func validItem() map[string]any {
	return map[string]any{
		"description": "Website design",
		"hsn_sac":     "998314",
		"unit":        "pcs",
		"qty":         n("2"),
		"unit_price":  n("100"),
		"discount":    n("0"),
		"tax_rate":    n("18"),
		"line_total":  n("200"),
		"line_tax":    n("36"),
	}
}

func validDraft() map[string]any {
	return map[string]any{
		"doc_type": "QUOTATION",
		"locale":   "en-IN",
		"currency": "INR",
		"parties": map[string]any{
			"seller": map[string]any{"name": "Acme Solutions", "email": "", "phone": "", "address": "", "tax_id": ""},
			"buyer":  map[string]any{"name": "Globex", "email": "", "phone": "", "address": "", "tax_id": ""},
		},
		"doc_meta": map[string]any{"doc_no": "", "ref_no": "", "po_no": ""},
		"items":    []any{validItem()},
		"dates": map[string]any{
			"issue_date": "2025-01-01",
			"due_date":   nil,
			"valid_till": "2025-01-16",
		},
		"totals": map[string]any{
			"subtotal":        n("200"),
			"discount_total":  n("0"),
			"tax_total":       n("36"),
			"shipping":        n("0"),
			"round_off":       n("0"),
			"grand_total":     n("236"),
			"amount_in_words": "Two Hundred Thirty Six Rupees Only",
		},
		"terms": "",
		"notes": "",
	}
}

func validBundle() map[string]any {
	return map[string]any{
		"doc_type": "QUOTATION",
		"drafts":   []any{validDraft()},
		"meta": map[string]any{
			"doc_id":       "b3c1d6a0-0000-4000-8000-000000000001",
			"currency":     "INR",
			"generated_at": "2025-01-01T10:00:00Z",
		},
	}
}

func draftOf(b map[string]any) map[string]any {
	return b["drafts"].([]any)[0].(map[string]any)
}

func itemOf(b map[string]any) map[string]any {
	return draftOf(b)["items"].([]any)[0].(map[string]any)
}

func paths(findings []domain.ValidationFinding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Path
	}
	return out
}

func newEngine() *validator.Engine {
	return validator.NewEngine(validator.NewDefaultRegistry())
}

func TestValidate_ValidBundle(t *testing.T) {
	findings := newEngine().Validate(validBundle())
	assert.Empty(t, findings)
}

func TestValidate_ReportsEveryMissingField(t *testing.T) {
	b := validBundle()
	item := itemOf(b)
	delete(item, "qty")
	delete(item, "unit_price")

	findings := newEngine().Validate(b)

	require.Len(t, findings, 2)
	assert.Equal(t, []string{"/drafts/0/items/0/qty", "/drafts/0/items/0/unit_price"}, paths(findings))
	assert.Equal(t, "is required", findings[0].Message)
}

func TestValidate_WrongTypeReportedOnce(t *testing.T) {
	b := validBundle()
	itemOf(b)["qty"] = "2"
	delete(itemOf(b), "line_total")
	delete(itemOf(b), "line_tax")

	findings := newEngine().Validate(b)

	require.Len(t, findings, 1)
	assert.Equal(t, "/drafts/0/items/0/qty", findings[0].Path)
	assert.Contains(t, findings[0].Message, "must be a number")
}

func TestValidate_WrongContainerDoesNotCascade(t *testing.T) {
	b := validBundle()
	draftOf(b)["parties"] = "Acme and Globex"

	findings := newEngine().Validate(b)

	assert.Equal(t, []string{"/drafts/0/parties"}, paths(findings))
}

func TestValidate_EnumAndFormat(t *testing.T) {
	b := validBundle()
	b["doc_type"] = "INVOICE"
	draftOf(b)["currency"] = "RUPEES"
	draftOf(b)["dates"].(map[string]any)["issue_date"] = "01/01/2025"
	b["meta"].(map[string]any)["generated_at"] = "yesterday"

	findings := newEngine().Validate(b)

	assert.ElementsMatch(t, []string{
		"/doc_type",
		"/drafts/0/currency",
		"/drafts/0/dates/issue_date",
		"/meta/generated_at",
	}, paths(findings))
}

func TestValidate_ConditionalRequirements(t *testing.T) {
	t.Run("tax invoice needs due date and doc number", func(t *testing.T) {
		b := validBundle()
		d := draftOf(b)
		d["doc_type"] = "TAX_INVOICE"
		d["doc_meta"] = map[string]any{"doc_no": "", "ref_no": "", "po_no": ""}

		findings := newEngine().Validate(b)

		assert.ElementsMatch(t, []string{"/drafts/0/dates/due_date", "/drafts/0/doc_meta/doc_no"}, paths(findings))
	})

	t.Run("quotation may leave doc number blank", func(t *testing.T) {
		b := validBundle()
		draftOf(b)["doc_meta"] = map[string]any{"doc_no": "  ", "ref_no": "", "po_no": ""}

		assert.Empty(t, newEngine().Validate(b))
	})

	t.Run("quotation needs valid_till", func(t *testing.T) {
		b := validBundle()
		draftOf(b)["dates"].(map[string]any)["valid_till"] = nil

		findings := newEngine().Validate(b)

		assert.Equal(t, []string{"/drafts/0/dates/valid_till"}, paths(findings))
		assert.Contains(t, findings[0].Message, "must not be null")
	})

	t.Run("project brief bundle needs brief but no drafts", func(t *testing.T) {
		b := validBundle()
		b["doc_type"] = "PROJECT_BRIEF"
		b["drafts"] = []any{}

		findings := newEngine().Validate(b)

		assert.Equal(t, []string{"/project_brief"}, paths(findings))
	})

	t.Run("quotation bundle needs a draft", func(t *testing.T) {
		b := validBundle()
		b["drafts"] = []any{}

		findings := newEngine().Validate(b)

		assert.Equal(t, []string{"/drafts"}, paths(findings))
	})
}

func TestValidate_Ranges(t *testing.T) {
	b := validBundle()
	item := itemOf(b)
	item["tax_rate"] = n("150")
	item["discount"] = n("500")
	delete(item, "line_total")
	delete(item, "line_tax")
	draftOf(b)["parties"].(map[string]any)["seller"].(map[string]any)["name"] = "  "
	delete(draftOf(b), "totals")
	draftOf(b)["totals"] = map[string]any{
		"subtotal": n("0"), "discount_total": n("500"), "tax_total": n("0"),
		"grand_total": n("-1"), "amount_in_words": "Zero Rupees Only",
	}

	findings := newEngine().Validate(b)

	got := paths(findings)
	assert.Contains(t, got, "/drafts/0/items/0/tax_rate")
	assert.Contains(t, got, "/drafts/0/items/0/discount")
	assert.Contains(t, got, "/drafts/0/parties/seller/name")
	assert.Contains(t, got, "/drafts/0/totals/grand_total")
}

func TestValidate_MathMismatch(t *testing.T) {
	b := validBundle()
	itemOf(b)["line_total"] = n("210")
	draftOf(b)["totals"].(map[string]any)["grand_total"] = n("300")

	findings := newEngine().Validate(b)

	got := paths(findings)
	assert.Contains(t, got, "/drafts/0/items/0/line_total")
	assert.Contains(t, got, "/drafts/0/totals/grand_total")
	assert.Contains(t, got, "/drafts/0/totals/amount_in_words")
}

func TestValidate_ProjectBriefRules(t *testing.T) {
	b := validBundle()
	b["doc_type"] = "PROJECT_BRIEF"
	b["project_brief"] = map[string]any{
		"title":        "Website revamp",
		"objective":    "",
		"scope":        []any{"Design"},
		"deliverables": []any{"Figma files"},
		"milestones": []any{map[string]any{
			"name": "Discovery", "start": "2025-01-10", "end": "2025-01-05", "fee": n("0"),
		}},
		"timeline_days": n("30"),
		"billing_plan": []any{
			map[string]any{"when": "Advance", "percent": n("50")},
			map[string]any{"when": "Delivery", "percent": n("40")},
		},
	}

	findings := newEngine().Validate(b)

	assert.ElementsMatch(t, []string{
		"/project_brief/billing_plan",
		"/project_brief/milestones/0/end",
	}, paths(findings))
}

func TestValidate_NonObjectCandidate(t *testing.T) {
	findings := newEngine().Validate("not a document")

	require.Len(t, findings, 1)
	assert.Equal(t, "/", findings[0].Path)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	b := validBundle()
	before, err := json.Marshal(b)
	require.NoError(t, err)

	_ = newEngine().Validate(b)

	after, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestValidate_SortsByPathNumerically(t *testing.T) {
	b := validBundle()
	items := make([]any, 0, 11)
	for i := 0; i < 11; i++ {
		it := validItem()
		delete(it, "line_total")
		delete(it, "line_tax")
		items = append(items, it)
	}
	delete(items[10].(map[string]any), "qty")
	delete(items[2].(map[string]any), "qty")
	draftOf(b)["items"] = items
	delete(draftOf(b), "totals")

	findings := newEngine().Validate(b)

	assert.Equal(t, []string{
		"/drafts/0/items/2/qty",
		"/drafts/0/items/10/qty",
		"/drafts/0/totals",
	}, paths(findings))
}

func TestRegistry_AllInRegistrationOrder(t *testing.T) {
	r := validator.NewDefaultRegistry()
	all := r.All()

	require.NotEmpty(t, all)
	assert.Equal(t, "req.fields", all[0].RuleKey())
	assert.NotNil(t, r.Get("math.totals.grand_total"))
	assert.Nil(t, r.Get("does.not.exist"))

	seen := make(map[string]bool)
	for _, v := range all {
		assert.False(t, seen[v.RuleKey()], "duplicate rule key %s", v.RuleKey())
		seen[v.RuleKey()] = true
		assert.NotEmpty(t, v.RuleType())
	}
}

func TestValidate_FindingsCarryRule(t *testing.T) {
	b := validBundle()
	delete(itemOf(b), "qty")
	draftOf(b)["currency"] = "rupees"

	findings := newEngine().Validate(b)

	require.Len(t, findings, 2)
	assert.Equal(t, "/drafts/0/currency", findings[0].Path)
	assert.Equal(t, "format.currency", findings[0].Rule)
	assert.Equal(t, domain.ValidationRuleFormat, findings[0].RuleType)
	assert.Equal(t, "/drafts/0/items/0/qty", findings[1].Path)
	assert.Equal(t, "req.fields", findings[1].Rule)
	assert.Equal(t, domain.ValidationRuleRequired, findings[1].RuleType)

	raw, err := json.Marshal(findings[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/drafts/0/items/0/qty","message":"is required"}`, string(raw))
}
