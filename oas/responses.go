package oas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Responses holds an operation's possible responses grouped by status-code
// key, plus the optional catch-all default entry. Duplicate logical keys in
// the source document (such as 200 and "200") resolve last-write-wins; the
// codec does not re-validate key uniqueness.
type Responses struct {
	Default *ResponseRef
	ByCode  map[StatusCode]*ResponseRef
}

// Len returns the number of entries including the default.
func (r Responses) Len() int {
	n := len(r.ByCode)
	if r.Default != nil {
		n++
	}
	return n
}

// Keys returns the status-code keys in canonical order: exact codes first,
// then wildcard classes, numeric within each kind.
func (r Responses) Keys() []StatusCode {
	keys := make([]StatusCode, 0, len(r.ByCode))
	for k := range r.ByCode {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	return keys
}

// Get returns the response for the given key, or nil.
func (r Responses) Get(key StatusCode) *ResponseRef { return r.ByCode[key] }

// Set stores a response under key, replacing any existing entry.
func (r *Responses) Set(key StatusCode, ref *ResponseRef) {
	if r.ByCode == nil {
		r.ByCode = make(map[StatusCode]*ResponseRef)
	}
	r.ByCode[key] = ref
}

func (r *Responses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("responses: expected mapping, got %s", describeNode(node))
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.Tag == "!!str" && key.Value == "default" {
			var ref ResponseRef
			if err := val.Decode(&ref); err != nil {
				return fmt.Errorf("responses default: %w", err)
			}
			r.Default = &ref
			continue
		}
		var code StatusCode
		if err := code.UnmarshalYAML(key); err != nil {
			return fmt.Errorf("responses key %q: %w", key.Value, err)
		}
		var ref ResponseRef
		if err := val.Decode(&ref); err != nil {
			return fmt.Errorf("responses %s: %w", code, err)
		}
		r.Set(code, &ref)
	}
	return nil
}

// MarshalYAML emits the default entry first, then the remaining entries
// sorted by key, every key in its canonical double-quoted form.
func (r Responses) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if r.Default != nil {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "default"}
		var val yaml.Node
		if err := val.Encode(r.Default); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, key, &val)
	}
	for _, code := range r.Keys() {
		keyAny, err := code.MarshalYAML()
		if err != nil {
			return nil, err
		}
		var val yaml.Node
		if err := val.Encode(r.ByCode[code]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyAny.(*yaml.Node), &val)
	}
	return node, nil
}

func (r *Responses) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("responses: %w", err)
	}
	for key, msg := range raw {
		var ref ResponseRef
		if err := json.Unmarshal(msg, &ref); err != nil {
			return fmt.Errorf("responses %q: %w", key, err)
		}
		if key == "default" {
			r.Default = &ref
			continue
		}
		code, err := ParseStatusCode(key)
		if err != nil {
			return fmt.Errorf("responses key %q: %w", key, err)
		}
		r.Set(code, &ref)
	}
	return nil
}

// MarshalJSON mirrors MarshalYAML: default first, then keys in canonical
// order rather than the string order encoding/json would pick for a map.
func (r Responses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	if r.Default != nil {
		if err := write("default", r.Default); err != nil {
			return nil, err
		}
	}
	for _, code := range r.Keys() {
		if err := write(code.String(), r.ByCode[code]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
