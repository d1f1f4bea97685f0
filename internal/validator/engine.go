package validator

import (
	"sort"
	"strconv"
	"strings"

	"draftdesk/internal/domain"
	"draftdesk/internal/parser"
	"draftdesk/internal/validator/bundle"
)

// Engine runs every registered rule against a candidate bundle.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate reports every violation in candidate, which may be a generic JSON
// value or a typed bundle. An empty result means the candidate is valid.
// Findings are ordered by path, then by rule order. candidate is not modified.
func (e *Engine) Validate(candidate any) []domain.ValidationFinding {
	root, err := parser.ToTree(candidate)
	if err != nil {
		return []domain.ValidationFinding{{Path: "/", Message: "document is not representable as JSON: " + err.Error()}}
	}
	doc := bundle.NewDocument(root)

	findings := make([]domain.ValidationFinding, 0)
	for _, v := range e.registry.All() {
		for _, f := range v.Validate(doc) {
			if f.Rule == "" {
				f.Rule, f.RuleType = v.RuleKey(), v.RuleType()
			}
			findings = append(findings, f)
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return comparePaths(findings[i].Path, findings[j].Path) < 0
	})
	return findings
}

// comparePaths orders JSON pointers segment by segment, comparing array
// indexes numerically so /items/2 sorts before /items/10.
func comparePaths(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if ai < bi {
				return -1
			}
			return 1
		}
		return strings.Compare(as[i], bs[i])
	}
	return len(as) - len(bs)
}
