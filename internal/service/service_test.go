package service_test

import (
	"bytes"
	"context"
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
	"draftdesk/internal/parser"
	"draftdesk/internal/port"
	"draftdesk/internal/repair"
	"draftdesk/internal/service"
	"draftdesk/internal/upi"
)

func newRepairer() *repair.Engine {
	e := repair.NewEngine(repair.StandardDefaults(), nil, zerolog.Nop())
	e.SetClock(func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) })
	return e
}

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := parser.DecodeJSON(strings.NewReader(s))
	require.NoError(t, err)
	return v
}

const invoiceJSON = `{
	"doc_type": "TAX_INVOICE",
	"drafts": [{
		"doc_type": "TAX_INVOICE",
		"parties": {"seller": {"name": "Acme"}, "buyer": {"name": "Globex"}},
		"doc_meta": {"doc_no": "INV/7"},
		"items": [{"description": "Design", "qty": 2, "unit_price": 100, "tax_rate": 18}]
	}]
}`

func TestDocumentService_Validate(t *testing.T) {
	svc := service.NewDocumentService(newRepairer(), nil, zerolog.Nop())

	res, err := svc.Validate(context.Background(), decode(t, `{"drafts": []}`))
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Errors)

	repaired, err := svc.Repair(context.Background(), decode(t, invoiceJSON))
	require.NoError(t, err)

	res, err = svc.Validate(context.Background(), repaired)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.NotNil(t, res.Errors)
	assert.Empty(t, res.Errors)
}

func TestDocumentService_Repair(t *testing.T) {
	svc := service.NewDocumentService(newRepairer(), nil, zerolog.Nop())

	b, err := svc.Repair(context.Background(), decode(t, invoiceJSON))
	require.NoError(t, err)
	require.Len(t, b.Drafts, 1)
	assert.Equal(t, domain.DocTypeTaxInvoice, b.DocType)
	assert.True(t, decimal.NewFromInt(236).Equal(b.Drafts[0].Totals.GrandTotal))
	assert.Equal(t, "2025-03-17", b.Drafts[0].Dates.DueDate.String())
}

func TestDocumentService_RepairText(t *testing.T) {
	svc := service.NewDocumentService(newRepairer(), nil, zerolog.Nop())

	b, err := svc.RepairText(context.Background(), "Here you go:\n```json\n"+invoiceJSON+"\n```\n")
	require.NoError(t, err)
	assert.Equal(t, "INV/7", b.Drafts[0].DocMeta.DocNo)

	b, err = svc.RepairText(context.Background(), "sorry, I cannot help with that")
	require.NoError(t, err)
	assert.Equal(t, domain.DocTypeQuotation, b.DocType)
	assert.Len(t, b.Drafts, 1)
}

func TestDocumentService_ComputeTotals(t *testing.T) {
	svc := service.NewDocumentService(newRepairer(), nil, zerolog.Nop())

	d, err := svc.ComputeTotals(context.Background(), decode(t, `{"items": [{"qty": "3", "unit_price": "10.50"}]}`))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("31.5").Equal(d.Totals.Subtotal))
	assert.True(t, decimal.NewFromInt(32).Equal(d.Totals.GrandTotal))

	d, err = svc.ComputeTotals(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, d.Items, 1)
	assert.Equal(t, domain.DocTypeQuotation, d.DocType)
	assert.True(t, d.Totals.GrandTotal.IsZero())
	assert.Equal(t, "Zero Rupees Only", d.Totals.AmountInWords)
}

func TestDocumentService_Schema(t *testing.T) {
	svc := service.NewDocumentService(newRepairer(), nil, zerolog.Nop())

	raw, err := svc.Schema(context.Background())
	require.NoError(t, err)

	var s map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, "object", s["type"])
}

func TestPaymentService_BuildUPILink(t *testing.T) {
	svc := service.NewPaymentService(zerolog.Nop())
	amount := decimal.RequireFromString("236")

	link, err := svc.BuildUPILink(context.Background(), upi.Request{UPIID: "acme@upi", PayeeName: "Acme", Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "upi://pay?pa=acme%40upi&pn=Acme&am=236.00&cu=INR", link.Deeplink)
	assert.Equal(t, link.Deeplink, link.QRPayload)

	_, err = svc.BuildUPILink(context.Background(), upi.Request{UPIID: "nobank", PayeeName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidUPIRequest)
}

func TestParseExportFormat(t *testing.T) {
	f, err := service.ParseExportFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatPDF, f)

	_, err = service.ParseExportFormat("docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)
}

func TestExportService_Export(t *testing.T) {
	svc := service.NewExportService(newRepairer(), nil, zerolog.Nop())
	today := time.Now().Format("2006-01-02")

	res, err := svc.Export(context.Background(), decode(t, invoiceJSON), domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "INV_7_"+today+".csv", res.FileName)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.Contains(t, string(res.Content), "Design")

	res, err = svc.Export(context.Background(), decode(t, invoiceJSON), domain.ExportFormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF-")))

	res, err = svc.Export(context.Background(), decode(t, invoiceJSON), domain.ExportFormatXLSX)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Content, []byte("PK")))
}

func TestExportService_Errors(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := service.NewExportService(newRepairer(), map[domain.ExportFormat]port.DocumentRenderer{
		domain.ExportFormatPDF: port.RendererFunc(func(*domain.DocumentBundle) ([]byte, error) { return nil, boom }),
	}, zerolog.Nop())

	_, err := svc.Export(context.Background(), nil, domain.ExportFormatCSV)
	assert.ErrorIs(t, err, domain.ErrUnsupportedExportFormat)

	_, err = svc.Export(context.Background(), nil, domain.ExportFormatPDF)
	assert.ErrorIs(t, err, boom)
}

func TestExportService_BriefFileName(t *testing.T) {
	svc := service.NewExportService(newRepairer(), nil, zerolog.Nop())
	today := time.Now().Format("2006-01-02")

	res, err := svc.Export(context.Background(), decode(t, `{"doc_type": "PROJECT_BRIEF", "project_brief": {"title": "Site Revamp"}}`), domain.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Site_Revamp_"+today+".csv", res.FileName)
}
