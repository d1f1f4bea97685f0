package repair_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftdesk/internal/domain"
	"draftdesk/internal/repair"
	"draftdesk/internal/validator"
	"draftdesk/internal/validator/bundle"
)

var fixedNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newEngine() *repair.Engine {
	e := repair.NewEngine(repair.StandardDefaults(), nil, zerolog.Nop())
	e.SetClock(func() time.Time { return fixedNow })
	return e
}

func decodeCandidate(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRepair_EndToEndInvoiceCandidate(t *testing.T) {
	candidate := decodeCandidate(t, `{"doc_type":"INVOICE","drafts":[{"items":[{"qty":"2","unit_price":"100","tax_rate":"18"}]}]}`)

	out, err := newEngine().Repair(candidate)
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeQuotation, out.DocType)
	require.Len(t, out.Drafts, 1)
	d := out.Drafts[0]
	assert.Equal(t, domain.DocTypeQuotation, d.DocType)

	require.Len(t, d.Items, 1)
	item := d.Items[0]
	assert.True(t, item.Qty.Equal(dec("2")))
	assert.True(t, item.UnitPrice.Equal(dec("100")))
	assert.True(t, item.Discount.IsZero())
	assert.True(t, item.TaxRate.Equal(dec("18")))
	assert.True(t, item.LineTotal.Equal(dec("200")))
	assert.True(t, item.LineTax.Equal(dec("36")))

	assert.True(t, d.Totals.Subtotal.Equal(dec("200")))
	assert.True(t, d.Totals.TaxTotal.Equal(dec("36")))
	assert.True(t, d.Totals.GrandTotal.Equal(dec("236")))
	assert.Equal(t, "Two Hundred Thirty Six Rupees Only", d.Totals.AmountInWords)

	assert.Equal(t, "2025-03-10", d.Dates.IssueDate.String())
	require.NotNil(t, d.Dates.ValidTill)
	assert.Equal(t, d.Dates.IssueDate.AddDays(15), *d.Dates.ValidTill)
	assert.Nil(t, d.Dates.DueDate)
	assert.Empty(t, d.DocMeta.DocNo)
}

func TestRepair_DerivedDatesStayWithinFourDigitYears(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		check     func(t *testing.T, out *domain.DocumentBundle)
	}{
		{
			name:      "invoice due date",
			candidate: `{"doc_type":"TAX_INVOICE","drafts":[{"dates":{"issue_date":"9999-12-30"},"items":[{"description":"x","qty":1,"unit_price":10}]}]}`,
			check: func(t *testing.T, out *domain.DocumentBundle) {
				require.NotNil(t, out.Drafts[0].Dates.DueDate)
				assert.Equal(t, "9999-12-31", out.Drafts[0].Dates.DueDate.String())
			},
		},
		{
			name:      "quotation validity",
			candidate: `{"drafts":[{"dates":{"issue_date":"9999-12-25"},"items":[{"description":"x"}]}]}`,
			check: func(t *testing.T, out *domain.DocumentBundle) {
				require.NotNil(t, out.Drafts[0].Dates.ValidTill)
				assert.Equal(t, "9999-12-31", out.Drafts[0].Dates.ValidTill.String())
			},
		},
		{
			name:      "milestone end",
			candidate: `{"project_brief":{"title":"Launch","milestones":[{"name":"Go live","start":"9999-12-30"}]}}`,
			check: func(t *testing.T, out *domain.DocumentBundle) {
				require.NotNil(t, out.ProjectBrief)
				require.Len(t, out.ProjectBrief.Milestones, 1)
				assert.Equal(t, "9999-12-31", out.ProjectBrief.Milestones[0].End.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newEngine().Repair(decodeCandidate(t, tt.candidate))
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestRepair_DateDefaults(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		due       string
		validTill string
	}{
		{
			name:      "tax invoice gets due date",
			candidate: `{"doc_type":"TAX_INVOICE","drafts":[{"doc_type":"TAX_INVOICE","dates":{"issue_date":"2025-01-01"},"items":[{"description":"x","qty":1,"unit_price":10}]}]}`,
			due:       "2025-01-08",
		},
		{
			name:      "quotation gets validity",
			candidate: `{"doc_type":"QUOTATION","drafts":[{"dates":{"issue_date":"2025-01-01"},"items":[{"description":"x","qty":1,"unit_price":10}]}]}`,
			validTill: "2025-01-16",
		},
		{
			name:      "unparsable due date is replaced",
			candidate: `{"drafts":[{"doc_type":"tax invoice","dates":{"issue_date":"2025-01-01","due_date":"next week"},"items":[{"description":"x"}]}]}`,
			due:       "2025-01-08",
		},
		{
			name:      "valid deadline is kept",
			candidate: `{"drafts":[{"dates":{"issue_date":"2025-01-01","valid_till":"2025-02-01"},"items":[{"description":"x"}]}]}`,
			validTill: "2025-02-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newEngine().Repair(decodeCandidate(t, tt.candidate))
			require.NoError(t, err)
			dates := out.Drafts[0].Dates
			assert.Equal(t, "2025-01-01", dates.IssueDate.String())
			if tt.due != "" {
				require.NotNil(t, dates.DueDate)
				assert.Equal(t, tt.due, dates.DueDate.String())
			}
			if tt.validTill != "" {
				require.NotNil(t, dates.ValidTill)
				assert.Equal(t, tt.validTill, dates.ValidTill.String())
			}
		})
	}
}

func TestRepair_TaxInvoiceDocNumberDefault(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t,
		`{"doc_type":"TAX_INVOICE","drafts":[{"dates":{"issue_date":"2025-01-01"},"items":[{"description":"Audit","qty":1,"unit_price":1000,"tax_rate":18}]}]}`))
	require.NoError(t, err)

	d := out.Drafts[0]
	assert.Equal(t, domain.DocTypeTaxInvoice, d.DocType)
	assert.Equal(t, "INV-20250101", d.DocMeta.DocNo)
}

func TestRepair_OutputAlwaysValidates(t *testing.T) {
	candidates := map[string]any{
		"nil":             nil,
		"string":          "hello",
		"number":          json.Number("42"),
		"array":           []any{1, 2},
		"empty object":    map[string]any{},
		"drafts not list": map[string]any{"drafts": "nope"},
		"garbage items": decodeCandidate(t, `{"drafts":[{"items":[null,{},"Logo design",{"qty":"-3","unit_price":"abc","discount":"99999","tax_rate":"250"}],
			"parties":"Acme","currency":"rupees","locale":"??","payment":{"mode":"cash"},"gst":{"mode":"inter"}}]}`),
		"brief only":     decodeCandidate(t, `{"project_brief":{"title":"","milestones":[{"start":"2025-05-10","end":"2025-05-01"}],"billing_plan":[{"percent":"abc"}],"timeline_days":-4}}`),
		"brief type":     decodeCandidate(t, `{"doc_type":"project-brief","drafts":[]}`),
		"single draft":   decodeCandidate(t, `{"items":[{"description":"Hosting","qty":12,"unit_price":"499.99"}],"terms":{"title":"Terms","bullets":["50% advance","Balance on delivery"]}}`),
		"huge numbers":   decodeCandidate(t, `{"drafts":[{"items":[{"qty":1e300,"unit_price":"99999999999999999999","tax_rate":"NaN"}]}]}`),
		"typed draft in": domain.DocumentBundle{DocType: "TAX_INVOICE", Drafts: []domain.DocDraft{{}}},
	}

	v := validator.NewEngine(validator.NewDefaultRegistry())
	for name, candidate := range candidates {
		t.Run(name, func(t *testing.T) {
			out, err := newEngine().Repair(candidate)
			require.NoError(t, err)
			assert.Empty(t, v.Validate(out))
		})
	}
}

func TestRepair_Idempotent(t *testing.T) {
	candidate := decodeCandidate(t, `{
		"doc_type": "TAX_INVOICE",
		"drafts": [{
			"currency": "Rs",
			"parties": {"seller": {"name": "Acme Solutions", "gstin": "29ABCDE1234F1Z5"}, "buyer": {"name": "Globex"}},
			"items": [
				{"description": "Design", "qty": "3", "unit_price": "1499.50", "discount": "100", "tax_rate": 18},
				{"description": "Hosting", "qty": 1, "unit_price": 999, "tax_rate": "12"}
			],
			"totals": {"shipping": "50", "grand_total": 1},
			"payment": {"mode": "upi", "upi_id": "acme@upi", "note": "Invoice payment"},
			"gst": {"mode": "intra", "place_of_supply": "Karnataka"}
		}],
		"project_brief": {"billing_plan": [{"when": "Start", "percent": 30}, {"when": "End", "percent": 30}]}
	}`)
	e := newEngine()

	first, err := e.Repair(candidate)
	require.NoError(t, err)
	second, err := e.Repair(first)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	d := first.Drafts[0]
	assert.Equal(t, "INR", d.Currency)
	assert.Equal(t, "29ABCDE1234F1Z5", d.Parties.Seller.TaxID)
	assert.True(t, d.Totals.Shipping.Equal(dec("50")))
	require.NotNil(t, d.GST)
	assert.True(t, d.GST.CGST.Add(d.GST.SGST).Equal(d.Totals.TaxTotal))
	require.NotNil(t, d.Payment)
	assert.Equal(t, domain.PaymentModeUPI, d.Payment.Mode)
	assert.Contains(t, d.Payment.UPIDeeplink, "pa=acme%40upi")
	assert.Contains(t, d.Payment.UPIDeeplink, "am="+d.Totals.GrandTotal.StringFixed(2))
	assert.Contains(t, d.Payment.UPIDeeplink, "tr="+d.DocMeta.DocNo)
}

func TestRepair_DoesNotMutateCandidate(t *testing.T) {
	candidate := decodeCandidate(t, `{"doc_type":"weird","drafts":[{"items":[{"qty":"2","unit_price":"100","discount":"500"}],"totals":{"grand_total":7}}]}`)
	before, err := json.Marshal(candidate)
	require.NoError(t, err)

	_, err = newEngine().Repair(candidate)
	require.NoError(t, err)

	after, err := json.Marshal(candidate)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestRepair_ItemCoercion(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t, `{"drafts":[{"items":[
		{},
		{"name":"Consulting","quantity":"4","rate":"250","discount":"5000","gst_rate":"150"}
	]}]}`))
	require.NoError(t, err)

	items := out.Drafts[0].Items
	require.Len(t, items, 1, "empty item dropped when another remains")
	item := items[0]
	assert.Equal(t, "Consulting", item.Description)
	assert.Equal(t, "pcs", item.Unit)
	assert.True(t, item.Qty.Equal(dec("4")))
	assert.True(t, item.UnitPrice.Equal(dec("250")))
	assert.True(t, item.Discount.Equal(dec("1000")), "discount clamped to gross")
	assert.True(t, item.TaxRate.Equal(dec("100")), "tax rate clamped")
	assert.True(t, item.LineTotal.IsZero())
}

func TestRepair_OnlyEmptyItemsBecomePlaceholder(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t, `{"drafts":[{"items":[{},{}]}]}`))
	require.NoError(t, err)

	items := out.Drafts[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "Item", items[0].Description)
	assert.True(t, items[0].Qty.Equal(dec("1")))
}

func TestRepair_NormalizesPartiesCurrencyLocale(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t,
		`{"drafts":[{"currency":"usd","locale":"en_us","parties":{"seller":"Acme"},"items":[{"description":"x"}]}]}`))
	require.NoError(t, err)

	d := out.Drafts[0]
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, "en-US", d.Locale)
	assert.Equal(t, "Acme", d.Parties.Seller.Name)
	assert.Equal(t, repair.DefaultPartyName, d.Parties.Buyer.Name)
	assert.Equal(t, "USD", out.Meta.Currency)
	assert.Equal(t, "Zero USD Only", d.Totals.AmountInWords)
}

func TestRepair_UnknownCurrencyFallsBack(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t, `{"drafts":[{"currency":"DOLLARS","items":[{"description":"x"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "INR", out.Drafts[0].Currency)
}

func TestRepair_MetaPreservedOrGenerated(t *testing.T) {
	t.Run("preserved", func(t *testing.T) {
		out, err := newEngine().Repair(decodeCandidate(t,
			`{"drafts":[],"meta":{"doc_id":"abc-123","currency":"EUR","generated_at":"2025-01-01T10:00:00+05:30"}}`))
		require.NoError(t, err)
		assert.Equal(t, "abc-123", out.Meta.DocID)
		assert.Equal(t, "EUR", out.Meta.Currency)
		assert.Equal(t, "2025-01-01T10:00:00+05:30", out.Meta.GeneratedAt)
	})

	t.Run("generated", func(t *testing.T) {
		out, err := newEngine().Repair(nil)
		require.NoError(t, err)
		assert.NotEmpty(t, out.Meta.DocID)
		assert.Equal(t, "INR", out.Meta.Currency)
		assert.Equal(t, "2025-03-10T09:30:00Z", out.Meta.GeneratedAt)
		assert.Equal(t, domain.DocTypeQuotation, out.DocType)
		require.Len(t, out.Drafts, 1)
		assert.Nil(t, out.ProjectBrief)
	})
}

func TestRepair_ProjectBrief(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t, `{"project_brief":{
		"title":"Website revamp",
		"scope":["Design","  ","Build"],
		"milestones":[{"name":"Build","start":"2025-05-10","end":"2025-05-01","fee":"-10"}],
		"billing_plan":[{"when":"Advance","percent":60},{"percent":60}],
		"timeline_days":"45"
	}}`))
	require.NoError(t, err)

	assert.Equal(t, domain.DocTypeProjectBrief, out.DocType)
	assert.Empty(t, out.Drafts)
	b := out.ProjectBrief
	require.NotNil(t, b)
	assert.Equal(t, "Website revamp", b.Title)
	assert.Equal(t, []string{"Design", "Build"}, b.Scope)
	assert.Equal(t, []string{"Scope as per requirement"}, b.Deliverables)
	assert.NotNil(t, b.Assumptions)
	assert.Equal(t, 45, b.TimelineDays)

	require.Len(t, b.Milestones, 1)
	assert.Equal(t, b.Milestones[0].Start, b.Milestones[0].End)
	assert.True(t, b.Milestones[0].Fee.IsZero())

	require.Len(t, b.BillingPlan, 2)
	assert.Equal(t, "Milestone 2", b.BillingPlan[1].When)
	assert.True(t, b.BillingPlan[0].Percent.Equal(dec("50")))
	assert.True(t, b.BillingPlan[1].Percent.Equal(dec("50")))
}

func TestRepair_ProjectBriefDefaults(t *testing.T) {
	out, err := newEngine().Repair(decodeCandidate(t, `{"doc_type":"PROJECT_BRIEF","drafts":[]}`))
	require.NoError(t, err)

	b := out.ProjectBrief
	require.NotNil(t, b)
	assert.Equal(t, "Project Brief", b.Title)
	assert.Equal(t, 30, b.TimelineDays)
	require.Len(t, b.Milestones, 2)
	assert.Equal(t, "Discovery", b.Milestones[0].Name)
	assert.Equal(t, "2025-03-10", b.Milestones[0].Start.String())
	assert.Equal(t, "2025-03-17", b.Milestones[0].End.String())
	assert.Equal(t, "2025-03-18", b.Milestones[1].Start.String())
	assert.Equal(t, "2025-04-09", b.Milestones[1].End.String())

	require.Len(t, b.BillingPlan, 3)
	sum := decimal.Zero
	for _, p := range b.BillingPlan {
		sum = sum.Add(p.Percent)
	}
	assert.True(t, sum.Equal(dec("100")))
	assert.True(t, b.BillingPlan[0].Percent.Equal(dec("40")))
}

func TestRepairText(t *testing.T) {
	e := newEngine()

	t.Run("fenced json", func(t *testing.T) {
		out, err := e.RepairText("Here you go:\n```json\n{\"drafts\":[{\"items\":[{\"description\":\"Logo\",\"qty\":1,\"unit_price\":5000}]}]}\n```\nThanks")
		require.NoError(t, err)
		assert.True(t, out.Drafts[0].Totals.GrandTotal.Equal(dec("5000")))
	})

	t.Run("no json", func(t *testing.T) {
		out, err := e.RepairText("sorry, I cannot help with that")
		require.NoError(t, err)
		require.Len(t, out.Drafts, 1)
		assert.Equal(t, "Item", out.Drafts[0].Items[0].Description)
	})
}

func TestRepairJSON_InvalidBytes(t *testing.T) {
	out, err := newEngine().RepairJSON([]byte(`{"drafts": [`))
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeQuotation, out.DocType)
}

func TestRepairDraft(t *testing.T) {
	d := newEngine().RepairDraft(decodeCandidate(t,
		`{"items":[{"description":"A","qty":1,"unit_price":"99.60","tax_rate":0}],"totals":{"shipping":-5}}`))

	assert.Equal(t, domain.DocTypeQuotation, d.DocType)
	assert.True(t, d.Totals.Shipping.IsZero())
	assert.True(t, d.Totals.GrandTotal.Equal(dec("100")))
	assert.True(t, d.Totals.RoundOff.Equal(dec("0.4")))
}

type alwaysFails struct{}

func (alwaysFails) Validate(*bundle.Document) []domain.ValidationFinding {
	return []domain.ValidationFinding{{Path: "/meta/doc_id", Message: "rejected"}}
}
func (alwaysFails) RuleKey() string                     { return "test.always_fails" }
func (alwaysFails) RuleType() domain.ValidationRuleType { return domain.ValidationRuleRequired }

func TestRepair_UnrepairableAfterForcedPass(t *testing.T) {
	reg := validator.NewRegistry()
	reg.Register(alwaysFails{})
	var logs bytes.Buffer
	e := repair.NewEngine(repair.StandardDefaults(), validator.NewEngine(reg), zerolog.New(&logs))

	out, err := e.Repair(map[string]any{"drafts": []any{}})

	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnrepairable))
	var ue *repair.UnrepairableError
	require.True(t, errors.As(err, &ue))
	require.Len(t, ue.Findings, 1)
	assert.Equal(t, "/meta/doc_id", ue.Findings[0].Path)
	assert.Equal(t, "test.always_fails", ue.Findings[0].Rule)
	assert.Contains(t, logs.String(), `"rules":["test.always_fails"]`)
	assert.Contains(t, logs.String(), `"first_rule_type":"required"`)
}

func TestNewEngine_FillsZeroDefaults(t *testing.T) {
	e := repair.NewEngine(repair.Defaults{QuotationValidDays: 30}, nil, zerolog.Nop())
	got := e.Defaults()
	assert.Equal(t, 30, got.QuotationValidDays)
	assert.Equal(t, 7, got.InvoiceDueDays)
	assert.Equal(t, "INR", got.Currency)
}
