package repair

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"draftdesk/internal/coerce"
	"draftdesk/internal/domain"
	"draftdesk/internal/totals"
	"draftdesk/internal/upi"
	"draftdesk/internal/validator/bundle"
)

// DefaultPartyName is used for a seller or buyer without a name.
const DefaultPartyName = "Unnamed Party"

var one = decimal.NewFromInt(1)

// currencyAliases maps symbols and colloquial names to ISO 4217 codes.
var currencyAliases = map[string]string{
	"₹":      "INR",
	"RS":     "INR",
	"RS.":    "INR",
	"RUPEE":  "INR",
	"RUPEES": "INR",
	"$":      "USD",
	"US$":    "USD",
	"€":      "EUR",
	"£":      "GBP",
}

// pick returns the first present value among keys.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (e *Engine) repairDraft(raw any, inherit domain.DocType, today domain.Date) *domain.DocDraft {
	m := coerce.Object(raw)

	docType, ok := draftTypeOf(m["doc_type"])
	if !ok {
		docType = inherit
	}

	d := &domain.DocDraft{
		DocType:  docType,
		Locale:   e.normalizeLocale(m["locale"]),
		Currency: e.defaults.Currency,
		Notes:    coerce.String(m["notes"], ""),
		Terms:    flattenTerms(m["terms"]),
	}
	if c, ok := normalizeCurrency(m["currency"]); ok {
		d.Currency = c
	}

	parties := coerce.Object(m["parties"])
	d.Parties.Seller = repairParty(pick(parties, "seller"), pick(m, "seller"))
	d.Parties.Buyer = repairParty(pick(parties, "buyer"), pick(m, "buyer"))

	meta := coerce.Object(pick(m, "doc_meta", "meta"))
	d.DocMeta = domain.DraftMeta{
		DocNo: coerce.String(pick(meta, "doc_no", "number"), ""),
		RefNo: coerce.String(meta["ref_no"], ""),
		PONo:  coerce.String(meta["po_no"], ""),
	}

	d.Items = e.repairItems(m["items"])
	d.Dates = e.repairDates(coerce.Object(m["dates"]), m, docType, today)
	if docType == domain.DocTypeTaxInvoice && d.DocMeta.DocNo == "" {
		d.DocMeta.DocNo = "INV-" + d.Dates.IssueDate.Format("20060102")
	}

	candidateTotals := coerce.Object(m["totals"])
	d.Totals.Shipping = coerce.NonNegative(pick(candidateTotals, "shipping"), decimal.Zero)

	d.Payment = repairPayment(m["payment"])
	d.GST = repairGST(m["gst"])

	return e.compute(d)
}

// repairParty reads a party from the first object among sources. A bare
// string is taken as the name.
func repairParty(sources ...any) domain.Party {
	var m map[string]any
	for _, src := range sources {
		if s, ok := src.(string); ok && strings.TrimSpace(s) != "" {
			return domain.Party{Name: strings.TrimSpace(s)}
		}
		if m = coerce.Object(src); m != nil {
			break
		}
	}
	return domain.Party{
		Name:    coerce.String(m["name"], DefaultPartyName),
		Email:   coerce.String(m["email"], ""),
		Phone:   coerce.String(m["phone"], ""),
		Address: coerce.String(m["address"], ""),
		TaxID:   coerce.String(pick(m, "tax_id", "gstin"), ""),
	}
}

func (e *Engine) repairItems(raw any) []domain.LineItem {
	list := coerce.Array(raw)
	if obj := coerce.Object(raw); obj != nil {
		list = []any{obj}
	}
	items := make([]domain.LineItem, 0, len(list))
	for _, r := range list {
		if s, ok := r.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				item := e.placeholderItem()
				item.Description = s
				items = append(items, item)
			}
			continue
		}
		m := coerce.Object(r)
		if isEmptyItem(m) {
			continue
		}
		items = append(items, e.repairItem(m))
	}
	if len(items) == 0 {
		items = append(items, e.placeholderItem())
	}
	return items
}

var itemKeys = []string{"description", "name", "hsn_sac", "unit", "qty", "quantity", "unit_price", "rate", "price", "discount", "tax_rate"}

func isEmptyItem(m map[string]any) bool {
	for _, k := range itemKeys {
		if coerce.IsPresent(m[k]) {
			return false
		}
	}
	return true
}

func (e *Engine) placeholderItem() domain.LineItem {
	item := totals.PlaceholderItem()
	item.Unit = e.defaults.Unit
	return item
}

func (e *Engine) repairItem(m map[string]any) domain.LineItem {
	item := domain.LineItem{
		Description: coerce.String(pick(m, "description", "name"), "Item"),
		HSNSAC:      coerce.String(pick(m, "hsn_sac", "hsn", "sac"), ""),
		Unit:        coerce.String(m["unit"], e.defaults.Unit),
		Qty:         coerce.NonNegative(pick(m, "qty", "quantity"), one),
		UnitPrice:   coerce.NonNegative(pick(m, "unit_price", "rate", "price"), decimal.Zero),
		Discount:    coerce.NonNegative(m["discount"], decimal.Zero),
		TaxRate:     coerce.Percent(pick(m, "tax_rate", "gst_rate"), decimal.Zero),
	}
	if gross := item.Qty.Mul(item.UnitPrice); item.Discount.GreaterThan(gross) {
		item.Discount = gross
	}
	return item
}

// repairDates fills issue_date with today and the type-specific deadline
// from the configured offsets. Dates may also sit directly on the draft.
func (e *Engine) repairDates(dates, draft map[string]any, docType domain.DocType, today domain.Date) domain.Dates {
	get := func(key string) any {
		if v := pick(dates, key); v != nil {
			return v
		}
		return pick(draft, key)
	}

	out := domain.Dates{IssueDate: today}
	if d := coerce.DateOrNil(get("issue_date")); d != nil {
		out.IssueDate = *d
	}
	out.DueDate = coerce.DateOrNil(get("due_date"))
	out.ValidTill = coerce.DateOrNil(get("valid_till"))

	switch docType {
	case domain.DocTypeTaxInvoice:
		if out.DueDate == nil {
			due := out.IssueDate.AddDays(e.defaults.InvoiceDueDays)
			out.DueDate = &due
		}
	case domain.DocTypeQuotation:
		if out.ValidTill == nil {
			valid := out.IssueDate.AddDays(e.defaults.QuotationValidDays)
			out.ValidTill = &valid
		}
	}
	return out
}

// flattenTerms renders terms as plain text. Lists become one line per entry
// and a {title, bullets} object becomes its title followed by "- " bullets.
func flattenTerms(raw any) string {
	switch t := raw.(type) {
	case []any:
		return strings.Join(coerce.StringList(t), "\n")
	case map[string]any:
		var lines []string
		if title := coerce.String(t["title"], ""); title != "" {
			lines = append(lines, title)
		}
		for _, b := range coerce.StringList(pick(t, "bullets", "items")) {
			lines = append(lines, "- "+b)
		}
		return strings.Join(lines, "\n")
	}
	return coerce.String(raw, "")
}

func repairPayment(raw any) *domain.Payment {
	m := coerce.Object(raw)
	if m == nil {
		return nil
	}
	p := &domain.Payment{
		Mode:         domain.PaymentModeOther,
		UPIID:        coerce.String(m["upi_id"], ""),
		Instructions: coerce.String(m["instructions"], ""),
		Note:         coerce.String(m["note"], ""),
	}
	mode := domain.PaymentMode(domain.NormalizeEnum(coerce.String(m["mode"], "")))
	for _, valid := range domain.PaymentModes {
		if mode == valid {
			p.Mode = mode
		}
	}
	return p
}

func repairGST(raw any) *domain.GSTBreakup {
	m := coerce.Object(raw)
	if m == nil {
		return nil
	}
	g := &domain.GSTBreakup{
		Mode:          domain.GSTModeIntra,
		PlaceOfSupply: coerce.String(m["place_of_supply"], ""),
	}
	if domain.GSTMode(domain.NormalizeEnum(coerce.String(m["mode"], ""))) == domain.GSTModeInter {
		g.Mode = domain.GSTModeInter
	}
	return g
}

// attachDeeplink rebuilds the UPI link from the draft's final figures. Any
// link the candidate carried is discarded.
func (e *Engine) attachDeeplink(d *domain.DocDraft) {
	if d.Payment == nil {
		return
	}
	d.Payment.UPIDeeplink = ""
	if d.Payment.Mode != domain.PaymentModeUPI || d.Payment.UPIID == "" {
		return
	}
	amount := d.Totals.GrandTotal
	link, err := upi.BuildLink(upi.Request{
		UPIID:     d.Payment.UPIID,
		PayeeName: d.Parties.Seller.Name,
		Amount:    &amount,
		Currency:  d.Currency,
		Note:      d.Payment.Note,
		TxnRef:    d.DocMeta.DocNo,
	})
	if err != nil {
		e.logger.Debug().Err(err).Str("upi_id", d.Payment.UPIID).Msg("skipping UPI deep link")
		return
	}
	d.Payment.UPIDeeplink = link.Deeplink
}

func normalizeCurrency(raw any) (string, bool) {
	s := strings.ToUpper(coerce.String(raw, ""))
	if alias, ok := currencyAliases[s]; ok {
		s = alias
	}
	return s, bundle.IsCurrencyCode(s)
}

func (e *Engine) normalizeLocale(raw any) string {
	s := strings.ReplaceAll(coerce.String(raw, ""), "_", "-")
	if s == "" {
		return e.defaults.Locale
	}
	tag, err := language.Parse(s)
	if err != nil || tag == language.Und {
		return e.defaults.Locale
	}
	return tag.String()
}
