// Package loader reads an OpenAPI document from a file or URL and decodes
// it into the typed model. Swagger 2.0 input is converted to v3 first;
// semantic validation is a separate step on top of the syntactic decode.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	version "github.com/hashicorp/go-version"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/oasfmt/oasfmt/internal/cache"
	"github.com/oasfmt/oasfmt/oas"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	NetworkError    ErrorCode = "NetworkError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
	ConversionError ErrorCode = "ConversionError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Format identifies the textual surface format of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Source describes where and how a document was read.
type Source struct {
	// Location is the file path or URL the document came from.
	Location string
	// Format is the detected input format.
	Format Format
	// Raw holds the exact input bytes.
	Raw []byte
	// Parsed holds the bytes the model was decoded from: JSONC comments
	// stripped and Swagger 2.0 converted to v3. Equal to Raw when neither
	// applied.
	Parsed []byte
	// Version is the parsed document version (openapi or swagger field).
	Version *version.Version
}

// Settings configures loader behavior.
type Settings struct {
	// HTTPTimeout bounds each HTTP request.
	HTTPTimeout time.Duration
	// MaxRetries for transient HTTP failures (>=500, 429, or network errors).
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff.
	BackoffBase time.Duration
	// AllowFileRefs controls whether file:// inputs are allowed.
	AllowFileRefs bool
	// CacheDir enables the on-disk fetch cache for remote documents.
	CacheDir string
	// CacheTTL bounds how long cached fetches stay fresh.
	CacheTTL time.Duration
}

// DefaultSettings returns recommended defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		BackoffBase: 200 * time.Millisecond,
		CacheTTL:    time.Hour,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithHTTPTimeout(d time.Duration) Option { return func(s *Settings) { s.HTTPTimeout = d } }
func WithMaxRetries(n int) Option            { return func(s *Settings) { s.MaxRetries = n } }
func WithBackoffBase(d time.Duration) Option { return func(s *Settings) { s.BackoffBase = d } }
func WithAllowFileRefs(allow bool) Option    { return func(s *Settings) { s.AllowFileRefs = allow } }
func WithCacheDir(dir string) Option         { return func(s *Settings) { s.CacheDir = dir } }
func WithCacheTTL(ttl time.Duration) Option  { return func(s *Settings) { s.CacheTTL = ttl } }

var (
	v3Constraint = version.MustConstraints(version.NewConstraint(">= 3.0.0, < 4.0.0"))
	v2Constraint = version.MustConstraints(version.NewConstraint(">= 2.0.0, < 3.0.0"))
)

// Load reads and decodes the document at input, which may be a filesystem
// path or an http/https URL. file:// URLs are blocked unless
// WithAllowFileRefs(true) is set. Swagger 2.0 documents are converted to
// OpenAPI v3 before decoding.
func Load(ctx context.Context, input string, opts ...Option) (*oas.Document, *Source, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil, &SpecError{Code: InputError, Message: "loader: input is empty"}
	}

	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	raw, location, err := read(ctx, input, settings)
	if err != nil {
		return nil, nil, err
	}

	src := &Source{Location: location, Raw: raw, Parsed: raw, Format: sniffFormat(raw)}
	if src.Format == FormatJSON {
		src.Parsed = jsonc.ToJSON(raw)
	}

	major, v, err := detectVersion(src.Parsed)
	if err != nil {
		return nil, nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}
	src.Version = v

	if major == 2 {
		converted, err := convertV2ToV3(src.Parsed)
		if err != nil {
			return nil, nil, &SpecError{Code: ConversionError, Message: fmt.Sprintf("convert v2 to v3: %v", err), Location: location, Cause: err}
		}
		src.Parsed = converted
		doc, err := oas.DecodeJSON(src.Parsed)
		if err != nil {
			return nil, nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
		}
		return doc, src, nil
	}

	var doc *oas.Document
	switch src.Format {
	case FormatJSON:
		doc, err = oas.DecodeJSON(src.Parsed)
	default:
		doc, err = oas.DecodeYAML(src.Parsed)
	}
	if err != nil {
		return nil, nil, &SpecError{Code: ParseError, Message: err.Error(), Location: location, Cause: err}
	}
	return doc, src, nil
}

// Validate runs kin-openapi semantic validation over the parsed document
// bytes. Unresolved external refs are tolerated, matching the permissive
// loading mode.
func Validate(ctx context.Context, parsed []byte, location string) error {
	l := openapi3.NewLoader()
	l.IsExternalRefsAllowed = true
	doc, err := l.LoadFromData(parsed)
	if err != nil {
		return mapValidateOrParseErr(err, location)
	}
	if err := doc.Validate(ctx); err != nil {
		if canProceedDespiteValidation(err) {
			return nil
		}
		return mapValidateOrParseErr(err, location)
	}
	return nil
}

// read resolves input to raw bytes: local file, or remote fetch with
// retry and optional cache.
func read(ctx context.Context, input string, settings Settings) ([]byte, string, error) {
	u, uerr := url.Parse(input)
	isURL := uerr == nil && u.Scheme != "" && u.Host != ""

	if isURL {
		scheme := strings.ToLower(u.Scheme)
		switch scheme {
		case "http", "https":
			raw, err := fetchWithRetry(ctx, input, settings)
			if err != nil {
				var se *SpecError
				if errors.As(err, &se) {
					return nil, "", err
				}
				return nil, "", &SpecError{Code: NetworkError, Message: fmt.Sprintf("fetch %s: %v", input, err), Location: input, Cause: err}
			}
			return raw, input, nil
		case "file":
			if !settings.AllowFileRefs {
				return nil, "", &SpecError{Code: InputError, Message: "loader: file:// URLs are blocked by default", Location: input}
			}
			raw, err := os.ReadFile(u.Path)
			if err != nil {
				return nil, "", &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", u.Path, err), Location: input, Cause: err}
			}
			return raw, u.Path, nil
		default:
			return nil, "", &SpecError{Code: InputError, Message: fmt.Sprintf("loader: unsupported URL scheme %q (only http/https allowed)", scheme), Location: input}
		}
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return nil, "", &SpecError{Code: InputError, Message: fmt.Sprintf("resolve path: %v", err), Location: input, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", abs, err), Location: abs, Cause: err}
	}
	return raw, abs, nil
}

func fetchWithRetry(ctx context.Context, rawURL string, settings Settings) ([]byte, error) {
	var store *cache.Cache
	if settings.CacheDir != "" {
		store = cache.New(settings.CacheDir, settings.CacheTTL)
		if body, ok := store.Get(rawURL); ok {
			return body, nil
		}
	}

	client := &http.Client{Timeout: settings.HTTPTimeout}
	var lastErr error
	backoff := settings.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	attempts := settings.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode < 300 {
			body, rerr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if rerr != nil {
				return nil, rerr
			}
			if store != nil {
				// Cache failures do not fail the load.
				_ = store.Put(rawURL, body)
			}
			return body, nil
		}
		if err != nil {
			lastErr = err
		} else {
			if resp.StatusCode >= 500 || resp.StatusCode == 429 {
				resp.Body.Close()
				lastErr = fmt.Errorf("transient http error %d", resp.StatusCode)
			} else {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
				resp.Body.Close()
				return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, lastErr
}

// sniffFormat treats input starting with a JSON object or array opener as
// JSON (allowing for JSONC comments), everything else as YAML.
func sniffFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[' || trimmed[0] == '/') {
		return FormatJSON
	}
	return FormatYAML
}

// detectVersion returns 3 for OpenAPI v3 documents and 2 for Swagger v2,
// along with the parsed version value.
func detectVersion(data []byte) (int, *version.Version, error) {
	var root struct {
		OpenAPI string `yaml:"openapi" json:"openapi"`
		Swagger string `yaml:"swagger" json:"swagger"`
	}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return 0, nil, fmt.Errorf("parse document: %w", err)
	}
	if s := strings.TrimSpace(root.OpenAPI); s != "" {
		v, err := version.NewVersion(s)
		if err != nil {
			return 0, nil, fmt.Errorf("parse openapi version %q: %w", s, err)
		}
		if !v3Constraint.Check(v.Core()) {
			return 0, nil, fmt.Errorf("unsupported openapi version %q (expected 3.x)", s)
		}
		return 3, v, nil
	}
	if s := strings.TrimSpace(root.Swagger); s != "" {
		v, err := version.NewVersion(s)
		if err != nil {
			return 0, nil, fmt.Errorf("parse swagger version %q: %w", s, err)
		}
		if !v2Constraint.Check(v.Core()) {
			return 0, nil, fmt.Errorf("unsupported swagger version %q (expected 2.0)", s)
		}
		return 2, v, nil
	}
	return 0, nil, errors.New("missing or unknown version (expected 'openapi: 3.x' or 'swagger: 2.0')")
}

// convertV2ToV3 converts Swagger 2.0 bytes into OpenAPI v3 JSON bytes via
// kin-openapi.
func convertV2ToV3(data []byte) ([]byte, error) {
	var v2 openapi2.T
	if err := yaml.Unmarshal(data, &v2); err != nil {
		return nil, err
	}
	v3doc, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v3doc)
}

func mapValidateOrParseErr(err error, location string) error {
	pointer := extractJSONPointer(err)
	code := ValidationError
	// Heuristics: some loader errors are parse errors.
	if strings.Contains(strings.ToLower(err.Error()), "parse") || strings.Contains(strings.ToLower(err.Error()), "invalid character") {
		code = ParseError
	}
	return &SpecError{Code: code, Message: err.Error(), Location: location, JSONPointer: pointer, Cause: err}
}

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	// Unwrap MultiError and take the first for brevity.
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	return ""
}

// canProceedDespiteValidation returns true for validation errors where a
// best-effort load can still proceed (e.g., unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unresolved ref") || strings.Contains(s, "found unresolved ref")
}
