package bundle

import (
	"draftdesk/internal/domain"
)

// BuiltinValidator wraps a validator function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	ruleType domain.ValidationRuleType
	fn       func(*Document) []domain.ValidationFinding
}

func (b *BuiltinValidator) Validate(doc *Document) []domain.ValidationFinding {
	return b.fn(doc)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }

type rule interface {
	RuleKey() string
	RuleType() domain.ValidationRuleType
	Validate(*Document) []domain.ValidationFinding
}

func wrap[R rule](all []*BuiltinValidator, rules []R) []*BuiltinValidator {
	for _, r := range rules {
		all = append(all, &BuiltinValidator{
			key: r.RuleKey(),
			ruleType: r.RuleType(), fn: r.Validate,
		})
	}
	return all
}

// AllBuiltinValidators returns every built-in bundle rule in evaluation
// order: structure first, then values, then relationships and arithmetic.
func AllBuiltinValidators() []*BuiltinValidator {
	var all []*BuiltinValidator
	all = wrap(all, RequiredFieldValidators())
	all = wrap(all, TypeValidators())
	all = wrap(all, EnumValidators())
	all = wrap(all, FormatValidators())
	all = wrap(all, RangeValidators())
	all = wrap(all, CrossFieldValidators())
	all = wrap(all, MathValidators())
	return all
}
