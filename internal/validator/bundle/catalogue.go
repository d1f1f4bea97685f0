package bundle

import (
	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

type kind int

const (
	kindObject kind = iota
	kindArray
	kindString
	kindNumber
	kindInteger
)

func (k kind) String() string {
	switch k {
	case kindObject:
		return "an object"
	case kindArray:
		return "an array"
	case kindString:
		return "a string"
	case kindNumber:
		return "a number"
	case kindInteger:
		return "an integer"
	}
	return "unknown"
}

type format int

const (
	formatNone format = iota
	formatDate
	formatTimestamp
	formatCurrency
	formatLocale
)

// scopeMark flags catalogue nodes whose objects become the enclosing scope
// for conditional requirements below them.
type scopeMark int

const (
	markNone scopeMark = iota
	markBundle
	markDraft
)

// node describes the expected shape of one JSON value.
type node struct {
	kind     kind
	nullable bool
	nonEmpty bool
	enum     []string
	format   format
	min      *decimal.Decimal
	max      *decimal.Decimal
	minItems int
	fields   []field
	elem     *node
	mark     scopeMark
}

// field is a named property of an object node.
type field struct {
	name     string
	node     *node
	required requirement
}

// scope holds the enclosing bundle and draft objects during a walk.
type scope struct {
	root  map[string]any
	draft map[string]any
}

type requirement func(s scope) bool

func always(scope) bool   { return true }
func optional(scope) bool { return false }

func whenDraftType(t domain.DocType) requirement {
	return func(s scope) bool {
		v, _ := s.draft["doc_type"].(string)
		return v == string(t)
	}
}

func whenBundleType(t domain.DocType) requirement {
	return func(s scope) bool {
		v, _ := s.root["doc_type"].(string)
		return v == string(t)
	}
}

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func str() *node { return &node{kind: kindString} }
func nonEmptyStr() *node { return &node{kind: kindString, nonEmpty: true} }
func formatted(f format) *node {
	return &node{kind: kindString, format: f}
}
func money() *node { return &node{kind: kindNumber, min: &zero} }
func percent() *node { return &node{kind: kindNumber, min: &zero, max: &hundred} }
func signedNumber() *node { return &node{kind: kindNumber} }
func stringList(minItems int) *node {
	return &node{kind: kindArray, elem: str(), minItems: minItems}
}

func enumOf[T ~string](values []T) *node {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return &node{kind: kindString, enum: out}
}

func object(fields ...field) *node {
	return &node{kind: kindObject, fields: fields}
}

func arrayOf(elem *node, minItems int) *node {
	return &node{kind: kindArray, elem: elem, minItems: minItems}
}

func nullable(n *node) *node {
	n.nullable = true
	return n
}

var partyNode = object(
	field{"name", nonEmptyStr(), always},
	field{"email", str(), optional},
	field{"phone", str(), optional},
	field{"address", str(), optional},
	field{"tax_id", str(), optional},
)

var lineItemNode = object(
	field{"description", nonEmptyStr(), always},
	field{"hsn_sac", str(), optional},
	field{"unit", str(), optional},
	field{"qty", money(), always},
	field{"unit_price", money(), always},
	field{"discount", money(), always},
	field{"tax_rate", percent(), always},
	field{"line_total", money(), optional},
	field{"line_tax", money(), optional},
)

var draftNode = func() *node {
	n := object(
		field{"doc_type", enumOf(domain.DraftDocTypes), always},
		field{"locale", formatted(formatLocale), optional},
		field{"currency", formatted(formatCurrency), always},
		field{"parties", object(
			field{"seller", partyNode, always},
			field{"buyer", partyNode, always},
		), always},
		field{"doc_meta", object(
			field{"doc_no", nonEmptyStr(), whenDraftType(domain.DocTypeTaxInvoice)},
			field{"ref_no", str(), optional},
			field{"po_no", str(), optional},
		), whenDraftType(domain.DocTypeTaxInvoice)},
		field{"items", arrayOf(lineItemNode, 1), always},
		field{"dates", object(
			field{"issue_date", formatted(formatDate), always},
			field{"due_date", nullable(formatted(formatDate)), whenDraftType(domain.DocTypeTaxInvoice)},
			field{"valid_till", nullable(formatted(formatDate)), whenDraftType(domain.DocTypeQuotation)},
		), always},
		field{"totals", object(
			field{"subtotal", money(), always},
			field{"discount_total", money(), always},
			field{"tax_total", money(), always},
			field{"shipping", money(), optional},
			field{"round_off", signedNumber(), optional},
			field{"grand_total", money(), always},
			field{"amount_in_words", nonEmptyStr(), always},
		), always},
		field{"terms", str(), optional},
		field{"notes", str(), optional},
		field{"payment", nullable(object(
			field{"mode", enumOf(domain.PaymentModes), always},
			field{"upi_id", str(), optional},
			field{"instructions", str(), optional},
			field{"note", str(), optional},
			field{"upi_deeplink", str(), optional},
		)), optional},
		field{"gst", nullable(object(
			field{"mode", enumOf(domain.GSTModes), always},
			field{"place_of_supply", str(), optional},
			field{"cgst", money(), optional},
			field{"sgst", money(), optional},
			field{"igst", money(), optional},
		)), optional},
	)
	n.mark = markDraft
	return n
}()

var projectBriefNode = object(
	field{"title", nonEmptyStr(), always},
	field{"objective", str(), optional},
	field{"scope", stringList(1), always},
	field{"deliverables", stringList(1), always},
	field{"assumptions", stringList(0), optional},
	field{"risks", stringList(0), optional},
	field{"milestones", arrayOf(object(
		field{"name", nonEmptyStr(), always},
		field{"start", formatted(formatDate), always},
		field{"end", formatted(formatDate), always},
		field{"fee", money(), optional},
	), 1), always},
	field{"timeline_days", &node{kind: kindInteger, min: &one}, always},
	field{"billing_plan", arrayOf(object(
		field{"when", nonEmptyStr(), always},
		field{"percent", percent(), always},
	), 1), always},
)

var bundleNode = func() *node {
	n := object(
		field{"doc_type", enumOf(domain.BundleDocTypes), always},
		field{"drafts", arrayOf(draftNode, 0), always},
		field{"project_brief", nullable(projectBriefNode), whenBundleType(domain.DocTypeProjectBrief)},
		field{"meta", object(
			field{"doc_id", nonEmptyStr(), always},
			field{"currency", formatted(formatCurrency), always},
			field{"generated_at", formatted(formatTimestamp), always},
		), always},
	)
	n.mark = markBundle
	return n
}()
