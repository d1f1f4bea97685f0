package parser

import (
	"fmt"
	"regexp"
	"strings"

	"draftdesk/internal/domain"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")

// ExtractJSON finds the JSON object in an LLM completion. It tries, in order:
// the whole text, the first fenced code block, and the span from the first
// '{' to the last '}'.
func ExtractJSON(text string) (any, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrNoJSONFound
	}
	if v, err := DecodeBytes([]byte(trimmed)); err == nil {
		return v, nil
	}
	for _, m := range fencedBlock.FindAllStringSubmatch(trimmed, -1) {
		if v, err := DecodeBytes([]byte(strings.TrimSpace(m[1]))); err == nil {
			return v, nil
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if v, err := DecodeBytes([]byte(trimmed[start : end+1])); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w (raw: %s)", domain.ErrNoJSONFound, truncate(trimmed, 200))
}
