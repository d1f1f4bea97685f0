package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"draftdesk/internal/domain"
)

const fontName = "Helvetica"

// Generator renders bundles with the PDF core fonts. Text is converted to
// cp1252, so characters outside it print as their nearest fallback.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders one page per draft, followed by a project brief page when
// the bundle carries one.
func (g *Generator) Generate(b *domain.DocumentBundle) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(fmt.Sprintf("%s %s", b.DocType, b.Meta.DocID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i := range b.Drafts {
		pdf.AddPage()
		writeDraft(pdf, tr, &b.Drafts[i])
	}
	if b.ProjectBrief != nil {
		pdf.AddPage()
		writeBrief(pdf, tr, b.ProjectBrief)
	}
	if pdf.PageCount() == 0 {
		pdf.AddPage()
		pdf.SetFont(fontName, "", 11)
		pdf.CellFormat(0, 8, "Empty document", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDraft(pdf *gofpdf.Fpdf, tr func(string) string, d *domain.DocDraft) {
	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, title(d.DocType), "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 10)
	ref := fmt.Sprintf("Date: %s", d.Dates.IssueDate)
	if d.DocMeta.DocNo != "" {
		ref = fmt.Sprintf("No. %s    %s", tr(d.DocMeta.DocNo), ref)
	}
	if dl := deadline(d); dl != "" {
		ref += "    " + dl
	}
	pdf.CellFormat(0, 6, ref, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addPartyBlock(pdf, tr, "Seller", d.Parties.Seller)
	pdf.Ln(2)
	addPartyBlock(pdf, tr, "Buyer", d.Parties.Buyer)
	pdf.Ln(4)

	headers := []string{"Description", "HSN/SAC", "Qty", "Unit Price", "Tax %", "Amount"}
	colWidths := []float64{70, 22, 18, 28, 16, 26}
	drawTableRow(pdf, headers, colWidths, true)
	for _, item := range d.Items {
		drawTableRow(pdf, []string{
			tr(item.Description),
			tr(item.HSNSAC),
			item.Qty.String() + " " + tr(item.Unit),
			item.UnitPrice.StringFixed(2),
			item.TaxRate.String(),
			item.LineTotal.StringFixed(2),
		}, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "", 10)
	totalLine(pdf, "Subtotal", d.Totals.Subtotal.StringFixed(2), d.Currency)
	if !d.Totals.DiscountTotal.IsZero() {
		totalLine(pdf, "Discount (included)", d.Totals.DiscountTotal.StringFixed(2), d.Currency)
	}
	if d.GST != nil {
		if d.GST.Mode == domain.GSTModeInter {
			totalLine(pdf, "IGST", d.GST.IGST.StringFixed(2), d.Currency)
		} else {
			totalLine(pdf, "CGST", d.GST.CGST.StringFixed(2), d.Currency)
			totalLine(pdf, "SGST", d.GST.SGST.StringFixed(2), d.Currency)
		}
	} else {
		totalLine(pdf, "Tax", d.Totals.TaxTotal.StringFixed(2), d.Currency)
	}
	if !d.Totals.Shipping.IsZero() {
		totalLine(pdf, "Shipping", d.Totals.Shipping.StringFixed(2), d.Currency)
	}
	if !d.Totals.RoundOff.IsZero() {
		totalLine(pdf, "Round Off", d.Totals.RoundOff.StringFixed(2), d.Currency)
	}
	pdf.SetFont(fontName, "B", 11)
	totalLine(pdf, "Grand Total", d.Totals.GrandTotal.StringFixed(2), d.Currency)

	pdf.SetFont(fontName, "I", 10)
	pdf.MultiCell(0, 6, tr(d.Totals.AmountInWords), "", "L", false)

	if d.Payment != nil {
		pdf.Ln(3)
		pdf.SetFont(fontName, "B", 11)
		pdf.CellFormat(0, 7, "Payment", "", 1, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		lines := []string{fmt.Sprintf("Mode: %s", d.Payment.Mode)}
		if d.Payment.UPIID != "" {
			lines = append(lines, fmt.Sprintf("UPI ID: %s", d.Payment.UPIID))
		}
		if d.Payment.Instructions != "" {
			lines = append(lines, d.Payment.Instructions)
		}
		if d.Payment.UPIDeeplink != "" {
			lines = append(lines, d.Payment.UPIDeeplink)
		}
		for _, line := range lines {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	for _, block := range []struct{ label, text string }{{"Terms", d.Terms}, {"Notes", d.Notes}} {
		if strings.TrimSpace(block.text) == "" {
			continue
		}
		pdf.Ln(3)
		pdf.SetFont(fontName, "B", 11)
		pdf.CellFormat(0, 7, block.label, "", 1, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		pdf.MultiCell(0, 5, tr(block.text), "", "L", false)
	}
}

func writeBrief(pdf *gofpdf.Fpdf, tr func(string) string, p *domain.ProjectBrief) {
	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(p.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	if p.Objective != "" {
		pdf.MultiCell(0, 5, tr(p.Objective), "", "L", false)
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Timeline: %d days", p.TimelineDays), "", 1, "L", false, 0, "")

	for _, section := range []struct {
		label string
		lines []string
	}{
		{"Scope", p.Scope},
		{"Deliverables", p.Deliverables},
		{"Assumptions", p.Assumptions},
		{"Risks", p.Risks},
	} {
		if len(section.lines) == 0 {
			continue
		}
		pdf.Ln(2)
		pdf.SetFont(fontName, "B", 11)
		pdf.CellFormat(0, 7, section.label, "", 1, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		for _, line := range section.lines {
			pdf.MultiCell(0, 5, "- "+tr(line), "", "L", false)
		}
	}

	pdf.Ln(3)
	colWidths := []float64{80, 30, 30, 40}
	drawTableRow(pdf, []string{"Milestone", "Start", "End", "Fee"}, colWidths, true)
	for _, m := range p.Milestones {
		drawTableRow(pdf, []string{tr(m.Name), m.Start.String(), m.End.String(), m.Fee.StringFixed(2)}, colWidths, false)
	}

	pdf.Ln(3)
	billingWidths := []float64{120, 30}
	drawTableRow(pdf, []string{"Billing", "Percent"}, billingWidths, true)
	for _, part := range p.BillingPlan {
		drawTableRow(pdf, []string{tr(part.When), part.Percent.String() + "%"}, billingWidths, false)
	}
}

func addPartyBlock(pdf *gofpdf.Fpdf, tr func(string) string, label string, party domain.Party) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{party.Name}
	if party.TaxID != "" {
		lines = append(lines, fmt.Sprintf("GSTIN: %s", party.TaxID))
	}
	for _, extra := range []string{party.Address, party.Email, party.Phone} {
		if strings.TrimSpace(extra) != "" {
			lines = append(lines, extra)
		}
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, fit(pdf, col, widths[i]), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

// fit shortens s with an ellipsis until it fits in width. s is already
// translated to the single-byte core font encoding.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func totalLine(pdf *gofpdf.Fpdf, label, amount, currency string) {
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s %s", label, currency, amount), "", 1, "R", false, 0, "")
}

func title(t domain.DocType) string {
	switch t {
	case domain.DocTypeTaxInvoice:
		return "TAX INVOICE"
	case domain.DocTypeQuotation:
		return "QUOTATION"
	}
	return strings.ReplaceAll(string(t), "_", " ")
}

func deadline(d *domain.DocDraft) string {
	switch {
	case d.DocType == domain.DocTypeTaxInvoice && d.Dates.DueDate != nil:
		return fmt.Sprintf("Due: %s", d.Dates.DueDate)
	case d.DocType == domain.DocTypeQuotation && d.Dates.ValidTill != nil:
		return fmt.Sprintf("Valid till: %s", d.Dates.ValidTill)
	}
	return ""
}
