package oas

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sampleDoc = `openapi: 3.0.3
info:
  title: Pet Store
  version: "1.2.0"
paths:
  /pets:
    get:
      summary: List pets
      operationId: listPets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        200:
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
        "4xx":
          description: client error
        default:
          description: unexpected error
    post:
      summary: Create pet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: created
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
tags:
  - name: pets
    description: Pet operations
`

func TestDocument_DecodeYAML(t *testing.T) {
	t.Parallel()
	doc, err := DecodeYAML([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI != "3.0.3" || doc.Info.Title != "Pet Store" {
		t.Fatalf("unexpected root fields: %+v", doc)
	}
	get := doc.Paths["/pets"].Get
	if get == nil {
		t.Fatalf("missing get operation")
	}
	code200, _ := NewStatusCode(200)
	range4, _ := NewStatusRange(4)
	if get.Responses.Get(code200) == nil || get.Responses.Get(range4) == nil || get.Responses.Default == nil {
		t.Fatalf("missing response entries: %+v", get.Responses)
	}
	if len(get.Parameters) != 1 || get.Parameters[0].Value.Name != "limit" {
		t.Fatalf("unexpected parameters: %+v", get.Parameters)
	}
}

func TestDocument_EncodeOmitsAbsentFields(t *testing.T) {
	t.Parallel()
	doc, err := DecodeYAML([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := EncodeYAML(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	text := string(out)
	// Fields that were absent in the input must stay absent.
	for _, absent := range []string{"servers:", "externalDocs:", "deprecated:", "description: \"\""} {
		if strings.Contains(text, absent) {
			t.Fatalf("spurious %q in output:\n%s", absent, text)
		}
	}
	// The lowercase class key re-encodes canonically and quoted.
	if !strings.Contains(text, "\"4XX\":") {
		t.Fatalf("expected canonical quoted 4XX key in output:\n%s", text)
	}
	if !strings.Contains(text, "\"200\":") {
		t.Fatalf("expected quoted 200 key in output:\n%s", text)
	}
	if strings.Contains(text, "4xx") {
		t.Fatalf("lowercase class key leaked into output:\n%s", text)
	}
}

func TestDocument_YAMLRoundTripStable(t *testing.T) {
	t.Parallel()
	doc, err := DecodeYAML([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	once, err := EncodeYAML(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeYAML(once)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Fatalf("document changed across round trip")
	}
	twice, err := EncodeYAML(back)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(once) != string(twice) {
		t.Fatalf("canonical encode not stable:\n--- first\n%s\n--- second\n%s", once, twice)
	}
}

func TestDocument_JSONRoundTripStable(t *testing.T) {
	t.Parallel()
	doc, err := DecodeYAML([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	once, err := EncodeJSON(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeJSON(once)
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	twice, err := EncodeJSON(back)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(once) != string(twice) {
		t.Fatalf("canonical JSON not stable:\n--- first\n%s\n--- second\n%s", once, twice)
	}
	if !strings.Contains(string(once), "\"4XX\":") {
		t.Fatalf("expected canonical 4XX key in JSON output:\n%s", once)
	}
}

func TestDocument_RefWinsOverInlineValue(t *testing.T) {
	t.Parallel()
	in := strings.TrimSpace(`
"200":
  $ref: '#/components/responses/OK'
`)
	var r Responses
	if err := yaml.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	code200, _ := NewStatusCode(200)
	got := r.Get(code200)
	if got == nil || got.Ref != "#/components/responses/OK" || got.Value != nil {
		t.Fatalf("expected pure reference, got %+v", got)
	}
}
