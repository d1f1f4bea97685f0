package excel

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"draftdesk/internal/domain"
)

const maxSheetName = 31

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a summary sheet, one sheet per draft and, when present,
// a project brief sheet.
func (g *Generator) Generate(b *domain.DocumentBundle) ([]byte, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	summarySheet := "Summary"
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	g.writeSummary(file, summarySheet, b)

	usedNames := map[string]struct{}{summarySheet: {}}
	for i := range b.Drafts {
		draft := &b.Drafts[i]
		sheetName := buildSheetName(i, draft, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", sheetName, err)
		}
		g.writeDraft(file, sheetName, draft)
	}

	if b.ProjectBrief != nil {
		if _, err := file.NewSheet(briefSheet); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", briefSheet, err)
		}
		g.writeBrief(file, briefSheet, b.ProjectBrief)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, b *domain.DocumentBundle) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Document Type")
	set("B1", string(b.DocType))
	set("A2", "Document ID")
	set("B2", b.Meta.DocID)
	set("A3", "Currency")
	set("B3", b.Meta.Currency)
	set("A4", "Generated At")
	set("B4", b.Meta.GeneratedAt)
	set("A5", "Drafts")
	set("B5", len(b.Drafts))

	tableRow := 7
	headers := []string{"#", "Type", "Doc No", "Buyer", "Subtotal", "Tax", "Grand Total", "Currency"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}
	for i, d := range b.Drafts {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), string(d.DocType))
		set(fmt.Sprintf("C%d", row), d.DocMeta.DocNo)
		set(fmt.Sprintf("D%d", row), d.Parties.Buyer.Name)
		set(fmt.Sprintf("E%d", row), money(d.Totals.Subtotal))
		set(fmt.Sprintf("F%d", row), money(d.Totals.TaxTotal))
		set(fmt.Sprintf("G%d", row), money(d.Totals.GrandTotal))
		set(fmt.Sprintf("H%d", row), d.Currency)
	}

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "D", 24)
	_ = file.SetColWidth(sheet, "E", "H", 14)
}

func (g *Generator) writeDraft(file *excelize.File, sheet string, d *domain.DocDraft) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Type")
	set("B1", string(d.DocType))
	set("A2", "Doc No")
	set("B2", d.DocMeta.DocNo)
	set("A3", "Seller")
	set("B3", d.Parties.Seller.Name)
	set("A4", "Buyer")
	set("B4", d.Parties.Buyer.Name)
	set("A5", "Issue Date")
	set("B5", d.Dates.IssueDate.String())
	set("A6", deadlineLabel(d))
	set("B6", deadline(d))

	tableRow := 8
	headers := []string{"Description", "HSN/SAC", "Unit", "Qty", "Unit Price", "Discount", "Tax %", "Line Total", "Line Tax"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}
	for i, item := range d.Items {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), item.Description)
		set(fmt.Sprintf("B%d", row), item.HSNSAC)
		set(fmt.Sprintf("C%d", row), item.Unit)
		set(fmt.Sprintf("D%d", row), item.Qty.InexactFloat64())
		set(fmt.Sprintf("E%d", row), money(item.UnitPrice))
		set(fmt.Sprintf("F%d", row), money(item.Discount))
		set(fmt.Sprintf("G%d", row), item.TaxRate.InexactFloat64())
		set(fmt.Sprintf("H%d", row), money(item.LineTotal))
		set(fmt.Sprintf("I%d", row), money(item.LineTax))
	}

	row := tableRow + len(d.Items) + 2
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", d.Totals.Subtotal},
		{"Discount", d.Totals.DiscountTotal},
		{"Tax", d.Totals.TaxTotal},
		{"Shipping", d.Totals.Shipping},
		{"Round Off", d.Totals.RoundOff},
		{"Grand Total", d.Totals.GrandTotal},
	}
	for _, t := range totals {
		set(fmt.Sprintf("G%d", row), t.label)
		set(fmt.Sprintf("H%d", row), money(t.value))
		row++
	}
	set(fmt.Sprintf("A%d", row+1), "Amount in words")
	set(fmt.Sprintf("B%d", row+1), d.Totals.AmountInWords)

	_ = file.SetColWidth(sheet, "A", "A", 36)
	_ = file.SetColWidth(sheet, "B", "C", 12)
	_ = file.SetColWidth(sheet, "D", "I", 14)
}

const briefSheet = "Project Brief"

func (g *Generator) writeBrief(file *excelize.File, sheet string, p *domain.ProjectBrief) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Title")
	set("B1", p.Title)
	set("A2", "Objective")
	set("B2", p.Objective)
	set("A3", "Timeline (days)")
	set("B3", p.TimelineDays)
	set("A4", "Scope")
	set("B4", strings.Join(p.Scope, "\n"))
	set("A5", "Deliverables")
	set("B5", strings.Join(p.Deliverables, "\n"))

	tableRow := 7
	for i, header := range []string{"Milestone", "Start", "End", "Fee"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}
	for i, m := range p.Milestones {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), m.Name)
		set(fmt.Sprintf("B%d", row), m.Start.String())
		set(fmt.Sprintf("C%d", row), m.End.String())
		set(fmt.Sprintf("D%d", row), money(m.Fee))
	}

	billingRow := tableRow + len(p.Milestones) + 2
	set(fmt.Sprintf("A%d", billingRow), "Billing")
	set(fmt.Sprintf("B%d", billingRow), "Percent")
	for i, part := range p.BillingPlan {
		row := billingRow + 1 + i
		set(fmt.Sprintf("A%d", row), part.When)
		set(fmt.Sprintf("B%d", row), part.Percent.InexactFloat64())
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 48)
	_ = file.SetColWidth(sheet, "C", "D", 14)
}

func deadlineLabel(d *domain.DocDraft) string {
	if d.DocType == domain.DocTypeTaxInvoice {
		return "Due Date"
	}
	return "Valid Till"
}

func deadline(d *domain.DocDraft) string {
	date := d.Dates.ValidTill
	if d.DocType == domain.DocTypeTaxInvoice {
		date = d.Dates.DueDate
	}
	if date == nil {
		return ""
	}
	return date.String()
}

// money converts to float64 for a numeric cell, rounded to cents first.
func money(v decimal.Decimal) float64 {
	return v.Round(2).InexactFloat64()
}

func buildSheetName(idx int, d *domain.DocDraft, used map[string]struct{}) string {
	base := fmt.Sprintf("%d - %s", idx+1, strings.TrimSpace(d.DocMeta.DocNo))
	if strings.TrimSpace(d.DocMeta.DocNo) == "" {
		base = fmt.Sprintf("%d - %s", idx+1, d.DocType)
	}
	base = truncateRunes(sanitizeSheetName(base), maxSheetName)

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		nameCandidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		counter++
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Draft"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Draft"
	}
	return value
}
