// Package parser turns untrusted bytes and LLM completion text into generic
// JSON values (map[string]any, []any, json.Number, string, bool, nil) that
// the repair engine and validator consume.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// DecodeJSON reads a single JSON value from r. Numbers are kept as
// json.Number so money never passes through float64.
func DecodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding JSON: unexpected data after top-level value")
	}
	return v, nil
}

// DecodeBytes is DecodeJSON over a byte slice.
func DecodeBytes(b []byte) (any, error) {
	return DecodeJSON(bytes.NewReader(b))
}

// ToTree converts v to its generic JSON form. Generic values are deep-copied
// so callers may modify the result without touching v; typed values such as
// *domain.DocumentBundle go through a marshal/decode round trip.
func ToTree(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, json.Number:
		return t, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, nil
		}
		return json.Number(strconv.FormatFloat(t, 'f', -1, 64)), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			c, err := ToTree(child)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			c, err := ToTree(child)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case json.RawMessage:
		return DecodeBytes(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	return DecodeBytes(b)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
