package bundle

import (
	"fmt"
	"strings"

	"draftdesk/internal/domain"
)

// RangeValidators returns the validators for numeric bounds, blank strings
// and minimum array lengths.
func RangeValidators() []*structuralValidator {
	return []*structuralValidator{
		{
			ruleKey: "range.numeric", ruleType: domain.ValidationRuleRange,
			check: func(s slot) (string, bool) {
				if (s.node.kind != kindNumber && s.node.kind != kindInteger) || !wellTyped(s) {
					return "", false
				}
				d, _ := numberValue(s.value)
				if s.node.min != nil && d.LessThan(*s.node.min) {
					return fmt.Sprintf("must be at least %s, got %s", s.node.min.String(), d.String()), true
				}
				if s.node.max != nil && d.GreaterThan(*s.node.max) {
					return fmt.Sprintf("must be at most %s, got %s", s.node.max.String(), d.String()), true
				}
				return "", false
			},
		},
		{
			ruleKey: "range.non_empty", ruleType: domain.ValidationRuleRange,
			check: func(s slot) (string, bool) {
				// Optional strings such as a quotation doc_no may be blank.
				if !s.node.nonEmpty || !s.required || !wellTyped(s) {
					return "", false
				}
				if strings.TrimSpace(s.value.(string)) == "" {
					return "must not be empty", true
				}
				return "", false
			},
		},
		{
			ruleKey: "range.min_items", ruleType: domain.ValidationRuleRange,
			check: func(s slot) (string, bool) {
				if s.node.kind != kindArray || s.node.minItems == 0 || !wellTyped(s) {
					return "", false
				}
				if n := len(s.value.([]any)); n < s.node.minItems {
					return fmt.Sprintf("must contain at least %d item(s), got %d", s.node.minItems, n), true
				}
				return "", false
			},
		},
	}
}
