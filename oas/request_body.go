package oas

// RequestBody describes a single request body keyed by media type.
type RequestBody struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
}

// MediaType carries the schema and example for one media type entry. The
// schema body is untyped: it round-trips unchanged but is not interpreted.
type MediaType struct {
	Schema   any            `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example  any            `yaml:"example,omitempty" json:"example,omitempty"`
	Examples map[string]any `yaml:"examples,omitempty" json:"examples,omitempty"`
}
