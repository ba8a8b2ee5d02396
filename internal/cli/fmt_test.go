package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSpec = `openapi: 3.0.0
info:
  title: Sample API
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      responses:
        200:
          description: ok
        4xx:
          description: client error
        default:
          description: unexpected error
`

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errBuf bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errBuf.String(), err
}

func TestFmt_CanonicalizesStatusKeys(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, sampleSpec)
	out, _, err := runCLI(t, "fmt", "--input", path)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	for _, want := range []string{"\"200\":", "\"4XX\":", "default:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "4xx") {
		t.Fatalf("lowercase class key leaked:\n%s", out)
	}
}

func TestFmt_CheckAcceptsOwnOutput(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, sampleSpec)
	outFile := filepath.Join(t.TempDir(), "canonical.yaml")
	if _, _, err := runCLI(t, "fmt", "--input", path, "--output", outFile); err != nil {
		t.Fatalf("fmt: %v", err)
	}

	// The canonical output must pass --check; the original must not.
	if _, _, err := runCLI(t, "fmt", "--input", outFile, "--check"); err != nil {
		t.Fatalf("check on canonical output: %v", err)
	}
	_, _, err := runCLI(t, "fmt", "--input", path, "--check")
	if !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("expected ErrNotCanonical for original input, got %v", err)
	}
}

func TestFmt_JSONOutput(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, sampleSpec)
	out, _, err := runCLI(t, "fmt", "--input", path, "--format", "json")
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if !strings.Contains(out, "\"4XX\":") || !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestFmt_ConfigFile(t *testing.T) {
	t.Parallel()
	specPath := writeSpec(t, sampleSpec)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "input: " + specPath + "\nformat: json\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, err := runCLI(t, "fmt", "--config", cfgPath)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("config format not honored:\n%s", out)
	}
}

func TestFmt_MissingInput(t *testing.T) {
	t.Parallel()
	_, _, err := runCLI(t, "fmt")
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestFmt_BadStatusKeyIsFriendly(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, strings.Replace(sampleSpec, "4xx", "\"2XY\"", 1))
	_, _, err := runCLI(t, "fmt", "--input", path)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected friendly usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "2XY") || !strings.Contains(err.Error(), "Location:") {
		t.Fatalf("diagnostic missing offending key or location: %v", err)
	}
}

func TestValidate_Command(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, `openapi: 3.0.0
info:
  title: Sample API
  version: "1.0.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
`)
	out, _, err := runCLI(t, "validate", "--input", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestInspect_Command(t *testing.T) {
	t.Parallel()
	path := writeSpec(t, sampleSpec)
	out, _, err := runCLI(t, "inspect", "--input", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"GET", "/pets", "listPets", "default, 200, 4XX"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in table:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "inspect", "--input", path, "--tag", "nope")
	if err != nil {
		t.Fatalf("inspect with tag filter: %v", err)
	}
	if !strings.Contains(out, "no operations") {
		t.Fatalf("expected empty result, got:\n%s", out)
	}
}

func TestUnknownFlag_ShowsHelpAndUsageError(t *testing.T) {
	t.Parallel()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"fmt", "--unknown-flag"})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "unknown flag") || !strings.Contains(err.Error(), "Usage:") {
		t.Fatalf("unexpected error text: %v", err)
	}
}
