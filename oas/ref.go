package oas

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// The *Ref types hold either a $ref to a components entry or an inline
// value. When both appear in the source document the reference wins, and a
// non-empty Ref is the only thing emitted on encode.

// ParameterRef is a reference-or-value wrapper around Parameter.
type ParameterRef struct {
	Ref   string
	Value *Parameter
}

func (r *ParameterRef) UnmarshalYAML(node *yaml.Node) error {
	if ref, ok := refTarget(node); ok {
		r.Ref = ref
		return nil
	}
	var v Parameter
	if err := node.Decode(&v); err != nil {
		return err
	}
	r.Value = &v
	return nil
}

func (r ParameterRef) MarshalYAML() (any, error) {
	if r.Ref != "" {
		return refMapping(r.Ref), nil
	}
	return r.Value, nil
}

func (r *ParameterRef) UnmarshalJSON(data []byte) error {
	if ref, ok, err := refTargetJSON(data); err != nil || ok {
		r.Ref = ref
		return err
	}
	return json.Unmarshal(data, &r.Value)
}

func (r ParameterRef) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(refMapping(r.Ref))
	}
	return json.Marshal(r.Value)
}

// RequestBodyRef is a reference-or-value wrapper around RequestBody.
type RequestBodyRef struct {
	Ref   string
	Value *RequestBody
}

func (r *RequestBodyRef) UnmarshalYAML(node *yaml.Node) error {
	if ref, ok := refTarget(node); ok {
		r.Ref = ref
		return nil
	}
	var v RequestBody
	if err := node.Decode(&v); err != nil {
		return err
	}
	r.Value = &v
	return nil
}

func (r RequestBodyRef) MarshalYAML() (any, error) {
	if r.Ref != "" {
		return refMapping(r.Ref), nil
	}
	return r.Value, nil
}

func (r *RequestBodyRef) UnmarshalJSON(data []byte) error {
	if ref, ok, err := refTargetJSON(data); err != nil || ok {
		r.Ref = ref
		return err
	}
	return json.Unmarshal(data, &r.Value)
}

func (r RequestBodyRef) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(refMapping(r.Ref))
	}
	return json.Marshal(r.Value)
}

// ResponseRef is a reference-or-value wrapper around Response.
type ResponseRef struct {
	Ref   string
	Value *Response
}

func (r *ResponseRef) UnmarshalYAML(node *yaml.Node) error {
	if ref, ok := refTarget(node); ok {
		r.Ref = ref
		return nil
	}
	var v Response
	if err := node.Decode(&v); err != nil {
		return err
	}
	r.Value = &v
	return nil
}

func (r ResponseRef) MarshalYAML() (any, error) {
	if r.Ref != "" {
		return refMapping(r.Ref), nil
	}
	return r.Value, nil
}

func (r *ResponseRef) UnmarshalJSON(data []byte) error {
	if ref, ok, err := refTargetJSON(data); err != nil || ok {
		r.Ref = ref
		return err
	}
	return json.Unmarshal(data, &r.Value)
}

func (r ResponseRef) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(refMapping(r.Ref))
	}
	return json.Marshal(r.Value)
}

// refTarget reports the $ref target of a mapping node, if present.
func refTarget(node *yaml.Node) (string, bool) {
	if node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Kind == yaml.ScalarNode && key.Value == "$ref" && val.Kind == yaml.ScalarNode {
			return val.Value, true
		}
	}
	return "", false
}

func refTargetJSON(data []byte) (string, bool, error) {
	var probe struct {
		Ref string `json:"$ref"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", false, err
	}
	return probe.Ref, probe.Ref != "", nil
}

func refMapping(ref string) map[string]string {
	return map[string]string{"$ref": ref}
}
