package domain

import "strings"

// DocType identifies the kind of commercial document a bundle or draft carries.
type DocType string

const (
	DocTypeQuotation    DocType = "QUOTATION"
	DocTypeTaxInvoice   DocType = "TAX_INVOICE"
	DocTypeProjectBrief DocType = "PROJECT_BRIEF"
)

// BundleDocTypes lists the values allowed for DocumentBundle.DocType.
var BundleDocTypes = []DocType{DocTypeQuotation, DocTypeTaxInvoice, DocTypeProjectBrief}

// DraftDocTypes lists the values allowed for DocDraft.DocType.
var DraftDocTypes = []DocType{DocTypeQuotation, DocTypeTaxInvoice}

// IsDraftType reports whether t can tag a single quotation or invoice draft.
func (t DocType) IsDraftType() bool {
	return t == DocTypeQuotation || t == DocTypeTaxInvoice
}

// PaymentMode describes how the buyer is expected to pay.
type PaymentMode string

const (
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeOther        PaymentMode = "OTHER"
)

// PaymentModes lists the allowed payment modes.
var PaymentModes = []PaymentMode{PaymentModeUPI, PaymentModeBankTransfer, PaymentModeOther}

// GSTMode is INTRA for same-state supply (CGST+SGST) and INTER for inter-state supply (IGST).
type GSTMode string

const (
	GSTModeIntra GSTMode = "INTRA"
	GSTModeInter GSTMode = "INTER"
)

// GSTModes lists the allowed GST supply modes.
var GSTModes = []GSTMode{GSTModeIntra, GSTModeInter}

// ExportFormat is a renderable output format for a repaired bundle.
type ExportFormat string

const (
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// ExportContentTypes maps ExportFormat to its MIME content type.
var ExportContentTypes = map[ExportFormat]string{
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportFormatCSV:  "text/csv; charset=utf-8",
}

// ValidationRuleType categorises a built-in validation rule.
type ValidationRuleType string

const (
	ValidationRuleRequired   ValidationRuleType = "required"
	ValidationRuleTypeCheck  ValidationRuleType = "type"
	ValidationRuleEnum       ValidationRuleType = "enum"
	ValidationRuleFormat     ValidationRuleType = "format"
	ValidationRuleRange      ValidationRuleType = "range"
	ValidationRuleCrossField ValidationRuleType = "cross_field"
	ValidationRuleSumCheck   ValidationRuleType = "sum_check"
)

// NormalizeEnum upper-cases s and folds spaces and hyphens to underscores,
// so "tax invoice", "Tax-Invoice" and "TAX_INVOICE" compare equal.
func NormalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}
