// Package schema publishes the JSON Schema of DocumentBundle, reflected from
// the domain types, for prompt builders and structured-output callers.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"draftdesk/internal/domain"
)

var (
	once     sync.Once
	cachedJS []byte
	cacheErr error
)

// Generate returns the DocumentBundle schema. Properties are inlined and
// additional properties are forbidden, as structured-output APIs expect.
func Generate() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapType,
	}
	s := reflector.Reflect(&domain.DocumentBundle{})
	s.Title = "DocumentBundle"
	s.Description = "Quotations, tax invoices and project briefs with derived totals."

	if drafts, ok := s.Properties.Get("drafts"); ok && drafts.Items != nil {
		draft := drafts.Items
		if dt, ok := draft.Properties.Get("doc_type"); ok {
			dt.Enum = enumValues(domain.DraftDocTypes)
		}
		if dates, ok := draft.Properties.Get("dates"); ok {
			for _, key := range []string{"due_date", "valid_till"} {
				dates.Properties.Set(key, nullableDate())
			}
		}
	}
	return s
}

// JSON returns the marshalled schema. The result is computed once.
func JSON() ([]byte, error) {
	once.Do(func() {
		cachedJS, cacheErr = json.Marshal(Generate())
		if cacheErr != nil {
			cacheErr = fmt.Errorf("failed to marshal schema: %w", cacheErr)
		}
	})
	return cachedJS, cacheErr
}

func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(decimal.Decimal{}):
		return &jsonschema.Schema{Type: "number"}
	case reflect.TypeOf(domain.DocType("")):
		return &jsonschema.Schema{Type: "string", Enum: enumValues(domain.BundleDocTypes)}
	case reflect.TypeOf(domain.PaymentMode("")):
		return &jsonschema.Schema{Type: "string", Enum: enumValues(domain.PaymentModes)}
	case reflect.TypeOf(domain.GSTMode("")):
		return &jsonschema.Schema{Type: "string", Enum: enumValues(domain.GSTModes)}
	}
	return nil
}

func enumValues[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func nullableDate() *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			domain.Date{}.JSONSchema(),
			{Type: "null"},
		},
	}
}
