// Package oas is a typed in-memory model of an OpenAPI v3 description
// document together with a codec layer that tolerates the document format's
// surface spellings on decode and re-encodes one canonical form: sorted
// string-keyed maps, status-code keys in their single quoted spelling, and
// absent or empty optional fields omitted.
package oas

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a Document. YAML being a superset
// of JSON, this also accepts plain JSON, but decoded numbers keep YAML
// semantics; use DecodeJSON for JSON input.
func DecodeYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// DecodeJSON parses a JSON document into a Document.
func DecodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// EncodeYAML renders the canonical YAML form with two-space indentation.
func EncodeYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJSON renders the canonical JSON form with two-space indentation and
// a trailing newline.
func EncodeJSON(doc *Document) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(b, '\n'), nil
}
