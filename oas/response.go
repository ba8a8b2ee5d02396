package oas

// Response describes a single response under a status-code key. The
// description is required by the document format and is always emitted,
// even when empty.
type Response struct {
	Description string                `yaml:"description" json:"description"`
	Headers     map[string]any        `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}
