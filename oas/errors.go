package oas

import "fmt"

// ErrorCode categorizes status-code decode failures for clearer handling
// and messaging.
type ErrorCode string

const (
	// OutOfRange marks a numeric value outside [100, 999].
	OutOfRange ErrorCode = "OutOfRange"
	// WrongLength marks a string whose length is not exactly 3 characters.
	WrongLength ErrorCode = "WrongLength"
	// InvalidFormat marks a 3-character string that is neither a numeric
	// code nor a `\dXX` class token.
	InvalidFormat ErrorCode = "InvalidFormat"
	// WrongType marks an input node that is neither an integer nor a string.
	WrongType ErrorCode = "WrongType"
)

// CodeError is a structured status-code decode failure. It carries the
// offending raw value so callers can build a human-readable diagnostic;
// the decoder never coerces or defaults an invalid value.
type CodeError struct {
	Code    ErrorCode
	Value   any
	Message string
}

func (e *CodeError) Error() string { return e.Message }

func errOutOfRange(v any) *CodeError {
	return &CodeError{
		Code:    OutOfRange,
		Value:   v,
		Message: fmt.Sprintf("status code %v: expected a number between 100 and 999", v),
	}
}

func errWrongLength(s string) *CodeError {
	return &CodeError{
		Code:    WrongLength,
		Value:   s,
		Message: fmt.Sprintf("status code %q: expected length 3", s),
	}
}

func errInvalidFormat(s string) *CodeError {
	return &CodeError{
		Code:    InvalidFormat,
		Value:   s,
		Message: fmt.Sprintf(`status code %q: expected ascii, format \dXX`, s),
	}
}

func errWrongType(got string) *CodeError {
	return &CodeError{
		Code:    WrongType,
		Value:   got,
		Message: fmt.Sprintf("status code: expected a number between 100 and 999 (as string or integer) or a string matching \\dXX, got %s", got),
	}
}
