package bundle

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

// Document is a candidate bundle in generic JSON form, as produced by
// parser.ToTree. Rules only read it.
type Document struct {
	Root any
}

// NewDocument wraps a generic JSON value.
func NewDocument(root any) *Document {
	return &Document{Root: root}
}

// slot is one catalogue position visited during a walk.
type slot struct {
	path     string
	node     *node
	value    any
	present  bool
	required bool
	scope    scope
}

// walk visits every catalogue position reachable in doc. It only descends
// into values of the expected container type, so a wrong-typed object
// produces one type finding instead of a cascade under it.
func walk(doc *Document, visit func(slot)) {
	visit(slot{path: "", node: bundleNode, value: doc.Root, present: true, required: true})
	if typeOK(bundleNode, doc.Root) {
		descend("", bundleNode, doc.Root, scope{}, visit)
	}
}

func descend(path string, n *node, v any, s scope, visit func(slot)) {
	switch n.kind {
	case kindObject:
		obj := v.(map[string]any)
		switch n.mark {
		case markBundle:
			s.root = obj
		case markDraft:
			s.draft = obj
		}
		for _, f := range n.fields {
			child, present := obj[f.name]
			p := path + "/" + escapeToken(f.name)
			visit(slot{path: p, node: f.node, value: child, present: present, required: f.required(s), scope: s})
			if present && typeOK(f.node, child) {
				descend(p, f.node, child, s, visit)
			}
		}
	case kindArray:
		for i, el := range v.([]any) {
			p := path + "/" + strconv.Itoa(i)
			visit(slot{path: p, node: n.elem, value: el, present: true, required: true, scope: s})
			if typeOK(n.elem, el) {
				descend(p, n.elem, el, s, visit)
			}
		}
	}
}

// typeOK reports whether a non-null v has the node's JSON type.
func typeOK(n *node, v any) bool {
	switch n.kind {
	case kindObject:
		_, ok := v.(map[string]any)
		return ok
	case kindArray:
		_, ok := v.([]any)
		return ok
	case kindString:
		_, ok := v.(string)
		return ok
	case kindNumber:
		_, ok := numberValue(v)
		return ok
	case kindInteger:
		d, ok := numberValue(v)
		return ok && d.Equal(d.Truncate(0))
	}
	return false
}

// numberValue accepts JSON numbers only; numeric strings are a type error here.
func numberValue(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		if strings.ContainsAny(t.String(), "eE") {
			f, err := t.Float64()
			if err != nil || math.IsInf(f, 0) {
				return decimal.Zero, false
			}
			return decimal.NewFromFloat(f), true
		}
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case decimal.Decimal:
		return t, true
	}
	return decimal.Zero, false
}

// escapeToken applies JSON pointer escaping to a property name.
func escapeToken(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

func finding(path, msg string) domain.ValidationFinding {
	if path == "" {
		path = "/"
	}
	return domain.ValidationFinding{Path: path, Message: msg}
}

// object helpers used by cross-field and math rules.

func objAt(v any, key string) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		return nil
	}
	out, _ := m[key].(map[string]any)
	return out
}

func arrAt(v any, key string) []any {
	m, _ := v.(map[string]any)
	if m == nil {
		return nil
	}
	out, _ := m[key].([]any)
	return out
}

func numAt(m map[string]any, key string) (decimal.Decimal, bool) {
	if m == nil {
		return decimal.Zero, false
	}
	v, present := m[key]
	if !present {
		return decimal.Zero, false
	}
	return numberValue(v)
}

func strAt(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[key].(string)
	return s, ok
}
