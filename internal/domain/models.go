package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Money crosses the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DocumentBundle is the top-level container returned by repair.
type DocumentBundle struct {
	DocType      DocType       `json:"doc_type"`
	Drafts       []DocDraft    `json:"drafts"`
	ProjectBrief *ProjectBrief `json:"project_brief,omitempty"`
	Meta         DocMeta       `json:"meta"`
}

// DocMeta identifies a generated bundle.
type DocMeta struct {
	DocID       string `json:"doc_id"`
	Currency    string `json:"currency"`
	GeneratedAt string `json:"generated_at"`
}

// DocDraft is a single quotation or tax invoice.
type DocDraft struct {
	DocType  DocType     `json:"doc_type"`
	Locale   string      `json:"locale"`
	Currency string      `json:"currency"`
	Parties  Parties     `json:"parties"`
	DocMeta  DraftMeta   `json:"doc_meta"`
	Items    []LineItem  `json:"items"`
	Dates    Dates       `json:"dates"`
	Totals   Totals      `json:"totals"`
	Terms    string      `json:"terms"`
	Notes    string      `json:"notes"`
	Payment  *Payment    `json:"payment,omitempty"`
	GST      *GSTBreakup `json:"gst,omitempty"`
}

// Parties holds both sides of the transaction.
type Parties struct {
	Seller Party `json:"seller"`
	Buyer  Party `json:"buyer"`
}

// Party is a seller or buyer. Optional fields are empty strings, never null.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

// DraftMeta carries document reference numbers.
type DraftMeta struct {
	DocNo string `json:"doc_no"`
	RefNo string `json:"ref_no"`
	PONo  string `json:"po_no"`
}

// LineItem is one billable row. LineTotal and LineTax are always derived.
type LineItem struct {
	Description string          `json:"description"`
	HSNSAC      string          `json:"hsn_sac"`
	Unit        string          `json:"unit"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	LineTax     decimal.Decimal `json:"line_tax"`
}

// Dates holds the draft's calendar fields. DueDate is set for invoices,
// ValidTill for quotations.
type Dates struct {
	IssueDate Date  `json:"issue_date"`
	DueDate   *Date `json:"due_date"`
	ValidTill *Date `json:"valid_till"`
}

// Totals is fully derived from the draft's items and shipping.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Shipping      decimal.Decimal `json:"shipping"`
	RoundOff      decimal.Decimal `json:"round_off"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	AmountInWords string          `json:"amount_in_words"`
}

// Payment describes how to pay. UPIDeeplink is rebuilt whenever totals change.
type Payment struct {
	Mode         PaymentMode `json:"mode"`
	UPIID        string      `json:"upi_id"`
	Instructions string      `json:"instructions"`
	Note         string      `json:"note"`
	UPIDeeplink  string      `json:"upi_deeplink"`
}

// GSTBreakup splits TaxTotal into its Indian GST components.
type GSTBreakup struct {
	Mode          GSTMode         `json:"mode"`
	PlaceOfSupply string          `json:"place_of_supply"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	IGST          decimal.Decimal `json:"igst"`
}

// ProjectBrief is a non-monetary scoping document.
type ProjectBrief struct {
	Title        string        `json:"title"`
	Objective    string        `json:"objective"`
	Scope        []string      `json:"scope"`
	Deliverables []string      `json:"deliverables"`
	Assumptions  []string      `json:"assumptions"`
	Risks        []string      `json:"risks"`
	Milestones   []Milestone   `json:"milestones"`
	TimelineDays int           `json:"timeline_days"`
	BillingPlan  []BillingPart `json:"billing_plan"`
}

// Milestone is a dated phase of a project brief.
type Milestone struct {
	Name  string          `json:"name"`
	Start Date            `json:"start"`
	End   Date            `json:"end"`
	Fee   decimal.Decimal `json:"fee"`
}

// BillingPart is one tranche of the billing plan; all parts sum to 100 percent.
type BillingPart struct {
	When    string          `json:"when"`
	Percent decimal.Decimal `json:"percent"`
}

// ValidationFinding is a single schema violation located by JSON pointer.
// Rule and RuleType identify the rule that raised it and stay off the wire.
type ValidationFinding struct {
	Path     string             `json:"path"`
	Message  string             `json:"message"`
	Rule     string             `json:"-"`
	RuleType ValidationRuleType `json:"-"`
}
