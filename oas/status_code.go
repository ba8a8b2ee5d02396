package oas

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// StatusCode identifies a response entry: either an exact HTTP status code
// such as 200, or a wildcard class such as 4XX covering every code that
// shares a leading digit. Values are immutable once decoded, comparable
// with ==, and usable as map keys.
//
// The codec is purely syntactic. Exact codes are constrained to [100, 999];
// class digits may be any single ASCII digit, including 0 and 9. A code and
// the class containing it are distinct values: 200 is not equal to 2XX.
type StatusCode struct {
	kind statusKind
	n    uint16
}

type statusKind uint8

const (
	kindCode statusKind = iota + 1
	kindRange
)

// NewStatusCode returns the exact-code value for n, which must lie in
// [100, 999].
func NewStatusCode(n int) (StatusCode, error) {
	if n < 100 || n > 999 {
		return StatusCode{}, errOutOfRange(n)
	}
	return StatusCode{kind: kindCode, n: uint16(n)}, nil
}

// NewStatusRange returns the wildcard-class value for the leading digit d,
// which must lie in [0, 9].
func NewStatusRange(d int) (StatusCode, error) {
	if d < 0 || d > 9 {
		return StatusCode{}, &CodeError{
			Code:    OutOfRange,
			Value:   d,
			Message: "status code class: expected a single digit between 0 and 9",
		}
	}
	return StatusCode{kind: kindRange, n: uint16(d)}, nil
}

// IsRange reports whether the value is a wildcard class.
func (c StatusCode) IsRange() bool { return c.kind == kindRange }

// Code returns the exact numeric code and true when the value is an exact
// code.
func (c StatusCode) Code() (int, bool) {
	if c.kind != kindCode {
		return 0, false
	}
	return int(c.n), true
}

// Range returns the class digit and true when the value is a wildcard
// class.
func (c StatusCode) Range() (int, bool) {
	if c.kind != kindRange {
		return 0, false
	}
	return int(c.n), true
}

// IsZero reports whether the value is the uninitialized zero StatusCode,
// which is not a well-formed code.
func (c StatusCode) IsZero() bool { return c.kind == 0 }

// String returns the canonical textual form: the decimal digits for an
// exact code, or the class digit followed by two uppercase X characters.
// Every accepted input spelling re-encodes to this one form.
func (c StatusCode) String() string {
	switch c.kind {
	case kindCode:
		return strconv.Itoa(int(c.n))
	case kindRange:
		return string([]byte{'0' + byte(c.n), 'X', 'X'})
	}
	return ""
}

// Compare orders status codes: exact codes sort before wildcard classes,
// and within each kind values sort numerically. The result is a strict
// total order consistent with ==.
func (c StatusCode) Compare(o StatusCode) int {
	if c.kind != o.kind {
		if c.kind < o.kind {
			return -1
		}
		return 1
	}
	if c.n != o.n {
		if c.n < o.n {
			return -1
		}
		return 1
	}
	return 0
}

// ParseStatusCode decodes the textual form of a status code: a quoted
// numeric code like "200" (range-checked like the bare integer), or a
// class token like "4xx" / "4XX". The string length is counted in
// characters, not bytes.
func ParseStatusCode(s string) (StatusCode, error) {
	if utf8.RuneCountInString(s) != 3 {
		return StatusCode{}, errWrongLength(s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return statusCodeFromInt(n)
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return StatusCode{}, errInvalidFormat(s)
		}
	}
	u := strings.ToUpper(s)
	if u[0] >= '0' && u[0] <= '9' && u[1] == 'X' && u[2] == 'X' {
		return StatusCode{kind: kindRange, n: uint16(u[0] - '0')}, nil
	}
	return StatusCode{}, errInvalidFormat(s)
}

func statusCodeFromInt(n int64) (StatusCode, error) {
	if n < 100 || n > 999 {
		return StatusCode{}, errOutOfRange(n)
	}
	return StatusCode{kind: kindCode, n: uint16(n)}, nil
}

// UnmarshalYAML decodes a status code from a scalar document node, which
// may be an integer or a string. Any other node shape fails with a
// WrongType error.
func (c *StatusCode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch node.Tag {
		case "!!int":
			n, err := strconv.ParseInt(node.Value, 10, 64)
			if err != nil {
				return errWrongType(describeNode(node))
			}
			dec, err := statusCodeFromInt(n)
			if err != nil {
				return err
			}
			*c = dec
			return nil
		case "!!str":
			dec, err := ParseStatusCode(node.Value)
			if err != nil {
				return err
			}
			*c = dec
			return nil
		}
	}
	return errWrongType(describeNode(node))
}

// MarshalYAML emits the canonical form as a double-quoted scalar, so the
// encoded document re-decodes unambiguously even for numeric codes.
func (c StatusCode) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.DoubleQuotedStyle,
		Tag:   "!!str",
		Value: c.String(),
	}, nil
}

// MarshalText returns the canonical form. It also makes StatusCode usable
// as a JSON object key.
func (c StatusCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes the string form only; JSON object keys are always
// strings.
func (c *StatusCode) UnmarshalText(text []byte) error {
	dec, err := ParseStatusCode(string(text))
	if err != nil {
		return err
	}
	*c = dec
	return nil
}

// MarshalJSON always emits a JSON string, never a bare number.
func (c StatusCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a status code from a JSON value: an integer or a
// string. Booleans, null, floats, arrays, and objects fail with WrongType.
func (c *StatusCode) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		dec, err := ParseStatusCode(s)
		if err != nil {
			return err
		}
		*c = dec
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return errWrongType(strings.TrimSpace(string(data)))
	}
	dec, err := statusCodeFromInt(n)
	if err != nil {
		return err
	}
	*c = dec
	return nil
}

// describeNode names a YAML node for diagnostics, preferring the resolved
// tag for scalars.
func describeNode(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Tag
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown node"
}
