// Package coerce converts loosely typed values from untrusted JSON into the
// strict types of the document model. No function here ever returns an error
// or panics: unusable input resolves to the caller's default.
package coerce

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"draftdesk/internal/domain"
)

// MaxMagnitude bounds accepted numbers. Anything larger is treated as an
// overflow and replaced by the default.
var MaxMagnitude = decimal.New(1, 15)

var hundred = decimal.NewFromInt(100)

// Number returns v as a decimal, or def when v is not a finite number or a
// string holding one.
func Number(v any, def decimal.Decimal) decimal.Decimal {
	d, ok := parseNumber(v)
	if !ok || d.Abs().GreaterThan(MaxMagnitude) {
		return def
	}
	return d
}

// NonNegative is Number clamped at zero.
func NonNegative(v any, def decimal.Decimal) decimal.Decimal {
	d := Number(v, def)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent is Number clamped to [0, 100].
func Percent(v any, def decimal.Decimal) decimal.Decimal {
	d := NonNegative(v, def)
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// Int returns v truncated to an integer, or def.
func Int(v any, def int) int {
	d, ok := parseNumber(v)
	if !ok || d.Abs().GreaterThan(MaxMagnitude) {
		return def
	}
	return int(d.IntPart())
}

// IsPresent reports whether v carries a value: non-nil and not a blank string.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	}
	return true
}

// String returns a trimmed scalar rendered as text, or def when v is nil,
// blank, or a container.
func String(v any, def string) string {
	switch t := v.(type) {
	case nil, map[string]any, []any:
		return def
	case json.Number:
		v = t.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// StringList returns the non-blank strings of an array. A single string is
// split on newlines.
func StringList(v any) []string {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case []string:
		for _, s := range t {
			raw = append(raw, s)
		}
	case string:
		for _, line := range strings.Split(t, "\n") {
			raw = append(raw, line)
		}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := String(item, ""); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DateOrNil parses "YYYY-MM-DD" or an RFC 3339 timestamp (keeping its date
// part). Anything else yields nil; callers supply the eventual default.
func DateOrNil(v any) *domain.Date {
	s, ok := v.(string)
	if !ok {
		if d, isDate := v.(domain.Date); isDate {
			return &d
		}
		return nil
	}
	s = strings.TrimSpace(s)
	if d, err := domain.ParseDate(s); err == nil {
		return &d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d := domain.NewDate(t)
		return &d
	}
	return nil
}

// Timestamp parses an RFC 3339 timestamp.
func Timestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Object returns v as a JSON object, or nil.
func Object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// Array returns v as a JSON array, or nil.
func Array(v any) []any {
	a, _ := v.([]any)
	return a
}

func parseNumber(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case json.Number:
		return parseNumericString(t.String())
	case string:
		return parseNumericString(t)
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int8:
		return decimal.NewFromInt(int64(t)), true
	case int16:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case uint8:
		return decimal.NewFromInt(int64(t)), true
	case uint16:
		return decimal.NewFromInt(int64(t)), true
	case uint32:
		return decimal.NewFromInt(int64(t)), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(t)), 0), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(t), 0), true
	}
	return decimal.Zero, false
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// parseNumericString accepts decimal notation after trimming. Exponent forms
// go through float parsing so "1e999" becomes Inf and is refused instead of
// allocating a huge integer.
func parseNumericString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 64 {
		return decimal.Zero, false
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return decimal.Zero, false
		}
		return fromFloat(f)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
