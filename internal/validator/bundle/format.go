package bundle

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"draftdesk/internal/domain"
)

// wellTyped reports whether a slot holds a non-null value of its node type.
// Value-level rules only look at these.
func wellTyped(s slot) bool {
	return s.present && s.value != nil && typeOK(s.node, s.value)
}

// EnumValidators returns the validators for closed value sets.
func EnumValidators() []*structuralValidator {
	return []*structuralValidator{
		{
			ruleKey: "enum.values", ruleType: domain.ValidationRuleEnum,
			check: func(s slot) (string, bool) {
				if len(s.node.enum) == 0 || !wellTyped(s) {
					return "", false
				}
				val := s.value.(string)
				for _, allowed := range s.node.enum {
					if val == allowed {
						return "", false
					}
				}
				return fmt.Sprintf("must be one of %s, got %q", strings.Join(s.node.enum, ", "), val), true
			},
		},
	}
}

// FormatValidators returns the validators for string formats.
func FormatValidators() []*structuralValidator {
	return []*structuralValidator{
		formatValidator("format.date", formatDate, func(v string) bool {
			_, err := domain.ParseDate(v)
			return err == nil
		}, "must be an ISO date (YYYY-MM-DD)"),
		formatValidator("format.timestamp", formatTimestamp, func(v string) bool {
			_, err := time.Parse(time.RFC3339, v)
			return err == nil
		}, "must be an RFC 3339 timestamp"),
		formatValidator("format.currency", formatCurrency, func(v string) bool {
			return IsCurrencyCode(v)
		}, "must be an ISO 4217 currency code"),
		formatValidator("format.locale", formatLocale, func(v string) bool {
			_, err := language.Parse(v)
			return err == nil
		}, "must be a BCP 47 language tag"),
	}
}

func formatValidator(key string, f format, ok func(string) bool, msg string) *structuralValidator {
	return &structuralValidator{
		ruleKey: key, ruleType: domain.ValidationRuleFormat,
		check: func(s slot) (string, bool) {
			if s.node.format != f || !wellTyped(s) {
				return "", false
			}
			val := s.value.(string)
			if ok(val) {
				return "", false
			}
			return fmt.Sprintf("%s, got %q", msg, val), true
		},
	}
}

// IsCurrencyCode reports whether code is an upper-case ISO 4217 code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 || strings.ToUpper(code) != code {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}
