package csvexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (17 columns).
var columns = []string{
	"Doc Type",
	"Doc No",
	"Issue Date",
	"Currency",
	"Seller Name",
	"Buyer Name",
	"Line",
	"Description",
	"HSN/SAC",
	"Unit",
	"Qty",
	"Unit Price",
	"Discount",
	"Tax Rate",
	"Line Total",
	"Line Tax",
	"Grand Total",
}

// Writer wraps csv.Writer for exporting line items as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 17-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBundle writes one row per line item, drafts in order. A bundle
// without drafts writes nothing.
func (w *Writer) WriteBundle(b *domain.DocumentBundle) error {
	for i := range b.Drafts {
		d := &b.Drafts[i]
		for j := range d.Items {
			if err := w.csv.Write(itemToRow(d, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Render returns the complete CSV file for b: BOM, header and item rows.
func Render(b *domain.DocumentBundle) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(BOM)
	w := NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.WriteBundle(b); err != nil {
		return nil, fmt.Errorf("failed to write CSV rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// itemToRow converts the idx-th item of d to a 17-element string slice.
// Draft-level columns repeat on every row of the draft.
func itemToRow(d *domain.DocDraft, idx int) []string {
	item := d.Items[idx]
	return []string{
		string(d.DocType),
		d.DocMeta.DocNo,
		d.Dates.IssueDate.String(),
		d.Currency,
		d.Parties.Seller.Name,
		d.Parties.Buyer.Name,
		strconv.Itoa(idx + 1),
		item.Description,
		item.HSNSAC,
		item.Unit,
		item.Qty.String(),
		formatMoney(item.UnitPrice),
		formatMoney(item.Discount),
		item.TaxRate.String(),
		formatMoney(item.LineTotal),
		formatMoney(item.LineTax),
		formatMoney(d.Totals.GrandTotal),
	}
}

func formatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}. An empty name becomes
// "document".
func BuildFilename(name string, format domain.ExportFormat) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "document"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, format)
}
