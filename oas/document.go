package oas

// Document is the root of an OpenAPI v3 description document.
type Document struct {
	OpenAPI      string               `yaml:"openapi" json:"openapi"`
	Info         Info                 `yaml:"info" json:"info"`
	Servers      []*Server            `yaml:"servers,omitempty" json:"servers,omitempty"`
	Paths        map[string]*PathItem `yaml:"paths" json:"paths"`
	Components   *Components          `yaml:"components,omitempty" json:"components,omitempty"`
	Tags         []*Tag               `yaml:"tags,omitempty" json:"tags,omitempty"`
	ExternalDocs *ExternalDocs        `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
}

// Info carries document metadata.
type Info struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Server describes a single API server.
type Server struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// PathItem holds the operations available on a single path, plus
// parameters shared by all of them.
type PathItem struct {
	Summary     string          `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  []*ParameterRef `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Get         *Operation      `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation      `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation      `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation      `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation      `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation      `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation      `yaml:"patch,omitempty" json:"patch,omitempty"`
	Trace       *Operation      `yaml:"trace,omitempty" json:"trace,omitempty"`
}

// Operations returns the path item's operations keyed by lowercase HTTP
// method, in a stable method order.
func (p *PathItem) Operations() []MethodOperation {
	pairs := []MethodOperation{
		{"get", p.Get},
		{"put", p.Put},
		{"post", p.Post},
		{"delete", p.Delete},
		{"options", p.Options},
		{"head", p.Head},
		{"patch", p.Patch},
		{"trace", p.Trace},
	}
	out := pairs[:0]
	for _, pair := range pairs {
		if pair.Operation != nil {
			out = append(out, pair)
		}
	}
	return out
}

// MethodOperation pairs an HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Components holds the document's reusable objects. Schema bodies are kept
// as untyped values: they round-trip unchanged but are not interpreted.
type Components struct {
	Schemas       map[string]any             `yaml:"schemas,omitempty" json:"schemas,omitempty"`
	Parameters    map[string]*ParameterRef   `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBodies map[string]*RequestBodyRef `yaml:"requestBodies,omitempty" json:"requestBodies,omitempty"`
	Responses     map[string]*ResponseRef    `yaml:"responses,omitempty" json:"responses,omitempty"`
}
