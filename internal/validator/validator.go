package validator

import (
	"draftdesk/internal/domain"
	"draftdesk/internal/validator/bundle"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(doc *bundle.Document) []domain.ValidationFinding
	RuleKey() string
	RuleType() domain.ValidationRuleType
}
