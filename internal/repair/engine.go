// Package repair turns an arbitrary candidate document into a schema-valid,
// numerically consistent DocumentBundle. Data defects are always corrected;
// only an internal invariant violation is reported as an error.
package repair

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"draftdesk/internal/coerce"
	"draftdesk/internal/domain"
	"draftdesk/internal/parser"
	"draftdesk/internal/totals"
	"draftdesk/internal/validator"
)

// Defaults are the values repair fills in when a candidate omits them.
type Defaults struct {
	InvoiceDueDays     int
	QuotationValidDays int
	Currency           string
	Locale             string
	Unit               string
}

// StandardDefaults returns the stock defaults: invoices fall due after 7
// days, quotations stay valid for 15, amounts are in INR.
func StandardDefaults() Defaults {
	return Defaults{
		InvoiceDueDays:     7,
		QuotationValidDays: 15,
		Currency:           "INR",
		Locale:             "en-IN",
		Unit:               "pcs",
	}
}

// Engine repairs candidate bundles. It is safe for concurrent use.
type Engine struct {
	defaults  Defaults
	validator *validator.Engine
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewEngine creates a repair engine. Zero-valued fields of defaults are
// replaced with StandardDefaults.
func NewEngine(defaults Defaults, v *validator.Engine, logger zerolog.Logger) *Engine {
	std := StandardDefaults()
	if defaults.InvoiceDueDays <= 0 {
		defaults.InvoiceDueDays = std.InvoiceDueDays
	}
	if defaults.QuotationValidDays <= 0 {
		defaults.QuotationValidDays = std.QuotationValidDays
	}
	if defaults.Currency == "" {
		defaults.Currency = std.Currency
	}
	if defaults.Locale == "" {
		defaults.Locale = std.Locale
	}
	if defaults.Unit == "" {
		defaults.Unit = std.Unit
	}
	if v == nil {
		v = validator.NewEngine(validator.NewDefaultRegistry())
	}
	return &Engine{
		defaults:  defaults,
		validator: v,
		logger:    logger.With().Str("component", "repair").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// SetClock replaces the engine's time source. Intended for tests and
// reproducible batch runs.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Defaults returns the effective defaults.
func (e *Engine) Defaults() Defaults {
	return e.defaults
}

// Repair returns a schema-valid bundle built from candidate, which may be any
// JSON-shaped value or typed struct. candidate is never modified. The only
// error is *UnrepairableError.
func (e *Engine) Repair(candidate any) (*domain.DocumentBundle, error) {
	tree, err := parser.ToTree(candidate)
	if err != nil {
		e.logger.Debug().Err(err).Msg("candidate not representable as JSON, using minimal bundle")
		tree = nil
	}
	now := e.now()

	out := e.repairBundle(tree, now)
	findings := e.validator.Validate(out)
	if len(findings) == 0 {
		return out, nil
	}

	e.logger.Warn().
		Int("findings", len(findings)).
		Strs("rules", ruleKeys(findings)).
		Str("first_rule_type", string(findings[0].RuleType)).
		Str("first_path", findings[0].Path).
		Str("first_message", findings[0].Message).
		Msg("repaired bundle failed self-check, forcing defaults")

	forced, err := parser.ToTree(out)
	if err == nil {
		forceDefaults(forced, findings)
		out = e.repairBundle(forced, now)
		findings = e.validator.Validate(out)
		if len(findings) == 0 {
			return out, nil
		}
	}

	e.logger.Error().
		Int("findings", len(findings)).
		Strs("rules", ruleKeys(findings)).
		Interface("errors", findings).
		Msg("bundle still invalid after forced-default pass")
	return nil, &UnrepairableError{Findings: findings}
}

// RepairJSON decodes data and repairs it. Undecodable bytes repair to a
// minimal bundle.
func (e *Engine) RepairJSON(data []byte) (*domain.DocumentBundle, error) {
	tree, err := parser.DecodeBytes(data)
	if err != nil {
		e.logger.Debug().Err(err).Msg("candidate is not valid JSON, using minimal bundle")
		tree = nil
	}
	return e.Repair(tree)
}

// RepairText extracts the first JSON document from free text, such as a
// model completion, and repairs it. When no JSON can be found the result is
// a minimal bundle.
func (e *Engine) RepairText(text string) (*domain.DocumentBundle, error) {
	tree, err := parser.ExtractJSON(text)
	if err != nil {
		if !errors.Is(err, domain.ErrNoJSONFound) {
			return nil, err
		}
		e.logger.Debug().Err(err).Msg("no JSON in text, using minimal bundle")
		tree = nil
	}
	return e.Repair(tree)
}

// RepairDraft repairs a single draft and recomputes its totals. It never
// fails. An absent or invalid doc_type becomes QUOTATION.
func (e *Engine) RepairDraft(candidate any) *domain.DocDraft {
	tree, err := parser.ToTree(candidate)
	if err != nil {
		tree = nil
	}
	return e.repairDraft(tree, domain.DocTypeQuotation, domain.NewDate(e.now()))
}

func (e *Engine) repairBundle(tree any, now time.Time) *domain.DocumentBundle {
	today := domain.NewDate(now)
	root := coerce.Object(tree)
	rawDrafts, brief, ok := bundleShape(root)
	if !ok {
		return e.minimalBundle(now)
	}

	out := &domain.DocumentBundle{
		DocType: resolveBundleType(root["doc_type"], rawDrafts, brief != nil),
		Drafts:  make([]domain.DocDraft, 0, len(rawDrafts)),
	}

	inherit := domain.DocTypeQuotation
	if out.DocType.IsDraftType() {
		inherit = out.DocType
	}
	for _, raw := range rawDrafts {
		out.Drafts = append(out.Drafts, *e.repairDraft(raw, inherit, today))
	}
	if len(out.Drafts) == 0 && out.DocType != domain.DocTypeProjectBrief {
		out.Drafts = append(out.Drafts, *e.repairDraft(nil, inherit, today))
	}

	if brief != nil || out.DocType == domain.DocTypeProjectBrief {
		out.ProjectBrief = e.repairBrief(brief, today)
	}
	out.Meta = e.repairMeta(coerce.Object(root["meta"]), out.Drafts, now)
	return out
}

// bundleShape locates drafts and the project brief in root. A root that
// looks like a single draft (it has items) is treated as a one-draft bundle.
func bundleShape(root map[string]any) (drafts []any, brief map[string]any, ok bool) {
	if root == nil {
		return nil, nil, false
	}
	brief = coerce.Object(root["project_brief"])
	switch d := root["drafts"].(type) {
	case []any:
		drafts = d
		ok = true
	case map[string]any:
		drafts = []any{d}
		ok = true
	}
	if !ok {
		if _, hasItems := root["items"]; hasItems {
			return []any{root}, brief, true
		}
	}
	if brief != nil {
		ok = true
	}
	return drafts, brief, ok
}

func (e *Engine) minimalBundle(now time.Time) *domain.DocumentBundle {
	draft := e.repairDraft(nil, domain.DocTypeQuotation, domain.NewDate(now))
	return &domain.DocumentBundle{
		DocType: domain.DocTypeQuotation,
		Drafts:  []domain.DocDraft{*draft},
		Meta:    e.repairMeta(nil, []domain.DocDraft{*draft}, now),
	}
}

// resolveBundleType applies the top-level doc_type rules: a present but
// unknown value becomes QUOTATION; an absent one is inferred from content.
func resolveBundleType(raw any, drafts []any, hasBrief bool) domain.DocType {
	if coerce.IsPresent(raw) {
		t := domain.DocType(domain.NormalizeEnum(coerce.String(raw, "")))
		for _, valid := range domain.BundleDocTypes {
			if t == valid {
				return t
			}
		}
		return domain.DocTypeQuotation
	}
	if len(drafts) == 0 && hasBrief {
		return domain.DocTypeProjectBrief
	}
	for _, d := range drafts {
		if t, ok := draftTypeOf(coerce.Object(d)["doc_type"]); ok {
			return t
		}
	}
	return domain.DocTypeQuotation
}

func draftTypeOf(raw any) (domain.DocType, bool) {
	t := domain.DocType(domain.NormalizeEnum(coerce.String(raw, "")))
	return t, t.IsDraftType()
}

func (e *Engine) repairMeta(meta map[string]any, drafts []domain.DocDraft, now time.Time) domain.DocMeta {
	out := domain.DocMeta{
		DocID:    coerce.String(meta["doc_id"], ""),
		Currency: e.defaults.Currency,
	}
	if out.DocID == "" {
		out.DocID = e.newID()
	}
	if c, ok := normalizeCurrency(meta["currency"]); ok {
		out.Currency = c
	} else if len(drafts) > 0 {
		out.Currency = drafts[0].Currency
	}
	if _, ok := coerce.Timestamp(meta["generated_at"]); ok {
		out.GeneratedAt = strings.TrimSpace(meta["generated_at"].(string))
	} else {
		out.GeneratedAt = now.UTC().Format(time.RFC3339)
	}
	return out
}

// forceDefaults removes every value a finding points at so the next repair
// pass rebuilds it from defaults. Array elements are replaced by empty
// objects to keep sibling indexes stable.
func forceDefaults(tree any, findings []domain.ValidationFinding) {
	for _, f := range findings {
		tokens := strings.Split(strings.TrimPrefix(f.Path, "/"), "/")
		if f.Path == "/" || len(tokens) == 0 {
			continue
		}
		parent := tree
		for _, tok := range tokens[:len(tokens)-1] {
			parent = child(parent, unescapeToken(tok))
			if parent == nil {
				break
			}
		}
		last := unescapeToken(tokens[len(tokens)-1])
		switch p := parent.(type) {
		case map[string]any:
			delete(p, last)
		case []any:
			if i, err := strconv.Atoi(last); err == nil && i >= 0 && i < len(p) {
				p[i] = map[string]any{}
			}
		}
	}
}

func child(v any, tok string) any {
	switch t := v.(type) {
	case map[string]any:
		return t[tok]
	case []any:
		i, err := strconv.Atoi(tok)
		if err != nil || i < 0 || i >= len(t) {
			return nil
		}
		return t[i]
	}
	return nil
}

func unescapeToken(s string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(s)
}

// compute recomputes totals on a repaired draft and refreshes the payment
// deep link, which depends on the grand total.
func (e *Engine) compute(d *domain.DocDraft) *domain.DocDraft {
	out := totals.Compute(d)
	e.attachDeeplink(out)
	return out
}

// ruleKeys lists the distinct rules behind findings in first-seen order.
func ruleKeys(findings []domain.ValidationFinding) []string {
	seen := make(map[string]bool, len(findings))
	var keys []string
	for _, f := range findings {
		if f.Rule == "" || seen[f.Rule] {
			continue
		}
		seen[f.Rule] = true
		keys = append(keys, f.Rule)
	}
	return keys
}
