package oas

// Parameter describes a single operation parameter, identified by the
// combination of name and location.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	In          string `yaml:"in" json:"in"` // path|query|header|cookie
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Schema      any    `yaml:"schema,omitempty" json:"schema,omitempty"`
}
