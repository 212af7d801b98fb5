package faults

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ExtractMessage pulls a human-readable message out of an error response
// body. Servers in the wild disagree on the shape, so the lookup runs in
// priority order:
//
//  1. the body is a bare JSON string
//  2. a "message" field
//  3. a "detail" field
//  4. an "error" field, a string or an object carrying its own "message"
//  5. an "errors" array of strings, joined with ", "
//  6. the first string-valued field in document order
//
// Anything that is not JSON, or yields no text, returns "".
func ExtractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
		return ""
	}

	if trimmed[0] != '{' {
		return ""
	}

	type field struct {
		name  string
		value string
	}
	var (
		ordered []field
		list    []string
	)

	// a token walk keeps the document order map[string]any would lose
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return ""
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return ""
		}
		key, ok := keyTok.(string)
		if !ok {
			return ""
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return ""
		}

		if key == "errors" {
			var items []string
			if json.Unmarshal(raw, &items) == nil {
				list = items
			}
			continue
		}

		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			ordered = append(ordered, field{name: key, value: s})
			continue
		}
		if key == "error" {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
				ordered = append(ordered, field{name: key, value: nested.Message})
			}
		}
	}

	for _, want := range []string{"message", "detail", "error"} {
		for _, f := range ordered {
			if f.name == want {
				return f.value
			}
		}
	}
	if len(list) > 0 {
		return strings.Join(list, ", ")
	}
	if len(ordered) > 0 {
		return ordered[0].value
	}
	return ""
}
