package oas

// Operation describes a single API operation on a path. Optional fields
// that are absent in the source document stay absent on encode, and empty
// containers are omitted rather than emitted as empty; only the responses
// mapping is always present.
type Operation struct {
	Tags         []string        `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary      string          `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description  string          `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs   `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	OperationID  string          `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters   []*ParameterRef `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody  *RequestBodyRef `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses    Responses       `yaml:"responses" json:"responses"`
	Deprecated   bool            `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
}
