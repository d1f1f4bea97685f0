package bundle

import (
	"draftdesk/internal/domain"
)

// structuralValidator runs a per-slot check over the whole catalogue walk.
type structuralValidator struct {
	ruleKey  string
	ruleType domain.ValidationRuleType
	check    func(slot) (string, bool)
}

func (v *structuralValidator) RuleKey() string                     { return v.ruleKey }
func (v *structuralValidator) RuleType() domain.ValidationRuleType { return v.ruleType }

func (v *structuralValidator) Validate(doc *Document) []domain.ValidationFinding {
	var out []domain.ValidationFinding
	walk(doc, func(s slot) {
		if msg, failed := v.check(s); failed {
			out = append(out, finding(s.path, msg))
		}
	})
	return out
}

// RequiredFieldValidators returns the validators for missing fields. A
// required field that is absent or null yields exactly one finding.
func RequiredFieldValidators() []*structuralValidator {
	return []*structuralValidator{
		{
			ruleKey: "req.fields", ruleType: domain.ValidationRuleRequired,
			check: func(s slot) (string, bool) {
				if !s.required {
					return "", false
				}
				if !s.present {
					return "is required", true
				}
				if s.value == nil {
					return "is required and must not be null", true
				}
				return "", false
			},
		},
	}
}

// TypeValidators returns the validators for wrongly typed values.
func TypeValidators() []*structuralValidator {
	return []*structuralValidator{
		{
			ruleKey: "type.fields", ruleType: domain.ValidationRuleTypeCheck,
			check: func(s slot) (string, bool) {
				if !s.present {
					return "", false
				}
				if s.value == nil {
					// Null on a required field is reported by the required rule.
					if s.node.nullable || s.required {
						return "", false
					}
					return "must be " + s.node.kind.String() + ", got null", true
				}
				if !typeOK(s.node, s.value) {
					return "must be " + s.node.kind.String() + ", got " + describe(s.value), true
				}
				return "", false
			},
		},
	}
}

func describe(v any) string {
	switch v.(type) {
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	}
	if _, ok := numberValue(v); ok {
		return "a number"
	}
	return "an unsupported value"
}
