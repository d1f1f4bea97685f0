// Package upi builds UPI payment deep links (upi://pay?...).
package upi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

// DefaultCurrency is used when a request leaves Currency empty.
const DefaultCurrency = "INR"

// Request is a payment request to encode. Amount is optional; when nil the
// am key is omitted so the payer enters the amount.
type Request struct {
	UPIID       string           `json:"upi_id"`
	PayeeName   string           `json:"payee_name"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Note        string           `json:"note,omitempty"`
	TxnRef      string           `json:"txn_ref,omitempty"`
	CallbackURL string           `json:"callback_url,omitempty"`
}

// Link carries the deep link and the QR payload. They are always the same
// string: UPI QR codes encode the deep link verbatim.
type Link struct {
	Deeplink  string `json:"deeplink"`
	QRPayload string `json:"qr_payload"`
}

// BuildLink validates req and renders its deep link. Keys appear in the order
// pa, pn, am, cu, tn, tr, url; empty optional keys are omitted.
func BuildLink(req Request) (*Link, error) {
	upiID := strings.TrimSpace(req.UPIID)
	payee := strings.TrimSpace(req.PayeeName)
	if !strings.Contains(upiID, "@") || strings.HasPrefix(upiID, "@") || strings.HasSuffix(upiID, "@") {
		return nil, fmt.Errorf("%w: upi_id %q must look like name@bank", domain.ErrInvalidUPIRequest, req.UPIID)
	}
	if payee == "" {
		return nil, fmt.Errorf("%w: payee_name is required", domain.ErrInvalidUPIRequest)
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidUPIRequest)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	params := []string{"pa=" + escape(upiID), "pn=" + escape(payee)}
	if req.Amount != nil {
		params = append(params, "am="+req.Amount.StringFixed(2))
	}
	params = append(params, "cu="+escape(currency))
	if v := strings.TrimSpace(req.Note); v != "" {
		params = append(params, "tn="+escape(v))
	}
	if v := strings.TrimSpace(req.TxnRef); v != "" {
		params = append(params, "tr="+escape(v))
	}
	if v := strings.TrimSpace(req.CallbackURL); v != "" {
		params = append(params, "url="+escape(v))
	}

	link := "upi://pay?" + strings.Join(params, "&")
	return &Link{Deeplink: link, QRPayload: link}, nil
}

// escape percent-encodes a query component with spaces as %20, which UPI
// apps parse more consistently than "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
