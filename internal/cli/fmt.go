package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/oasfmt/oasfmt/internal/loader"
	"github.com/oasfmt/oasfmt/oas"
)

// ErrNotCanonical is returned by fmt --check when the input differs from
// its canonical encoding.
var ErrNotCanonical = errors.New("document is not canonical")

// FmtConfig captures all inputs that influence the fmt command after
// merging defaults, config file values, and CLI overrides.
type FmtConfig struct {
	Input      string
	Format     string
	Output     string
	Check      bool
	CacheDir   string
	CacheTTL   time.Duration
	ConfigPath string
	Verbose    bool
}

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Re-encode an OpenAPI document in its canonical form",
		Long: "Decode an OpenAPI/Swagger document into the typed model and re-encode it canonically: " +
			"sorted maps, one spelling per status-code key, absent fields omitted.",
		Example: strings.TrimSpace(`  oasfmt fmt --input openapi.yaml
  oasfmt fmt --input openapi.yaml --format json --output openapi.json
  oasfmt fmt --input openapi.yaml --check`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveFmtConfig(cmd)
			if err != nil {
				return err
			}
			return runFmt(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("format", "", "Output format (yaml|json); defaults to the input format")
	flags.String("output", "", "Output file path (stdout when omitted)")
	flags.Bool("check", false, "Exit nonzero when the input is not already canonical")
	flags.String("cache-dir", "", "Directory for the remote fetch cache")
	flags.Duration("cache-ttl", 0, "How long cached fetches stay fresh")

	return cmd
}

func resolveFmtConfig(cmd *cobra.Command) (*FmtConfig, error) {
	cfg := &FmtConfig{}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyFmtConfigFromFile(cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFmtFlagOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if verbose, err := cmd.Flags().GetBool("verbose"); err == nil {
		cfg.Verbose = cfg.Verbose || verbose
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if cfg.Input == "" {
		return nil, newUsageError("fmt: --input is required (set via flag or config file)")
	}
	switch cfg.Format {
	case "", "yaml", "json":
	default:
		return nil, newUsageError(fmt.Sprintf("fmt: unsupported --format %q (allowed: yaml, json)", cfg.Format))
	}
	if cfg.Check && cfg.Output != "" {
		return nil, newUsageError("fmt: --check and --output are mutually exclusive")
	}
	return cfg, nil
}

// fileFmtConfig mirrors FmtConfig for config files; the TTL is a duration
// string like "1h".
type fileFmtConfig struct {
	Input    string `yaml:"input" json:"input"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	Check    bool   `yaml:"check" json:"check"`
	CacheDir string `yaml:"cacheDir" json:"cacheDir"`
	CacheTTL string `yaml:"cacheTtl" json:"cacheTtl"`
	Verbose  bool   `yaml:"verbose" json:"verbose"`
}

func applyFmtConfigFromFile(cfg *FmtConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("config: read %s: %v", path, err))
	}
	var fc fileFmtConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return newUsageError(fmt.Sprintf("config: parse %s: %v", path, err))
	}
	cfg.Input = fc.Input
	cfg.Format = fc.Format
	cfg.Output = fc.Output
	cfg.Check = fc.Check
	cfg.CacheDir = fc.CacheDir
	cfg.Verbose = fc.Verbose
	if strings.TrimSpace(fc.CacheTTL) != "" {
		ttl, err := time.ParseDuration(fc.CacheTTL)
		if err != nil {
			return newUsageError(fmt.Sprintf("config: invalid cacheTtl %q: %v", fc.CacheTTL, err))
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

func applyFmtFlagOverrides(flags *pflag.FlagSet, cfg *FmtConfig) error {
	if flags.Changed("input") {
		value, err := flags.GetString("input")
		if err != nil {
			return err
		}
		cfg.Input = strings.TrimSpace(value)
	}
	if flags.Changed("format") {
		value, err := flags.GetString("format")
		if err != nil {
			return err
		}
		cfg.Format = strings.TrimSpace(value)
	}
	if flags.Changed("output") {
		value, err := flags.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = strings.TrimSpace(value)
	}
	if flags.Changed("check") {
		value, err := flags.GetBool("check")
		if err != nil {
			return err
		}
		cfg.Check = value
	}
	if flags.Changed("cache-dir") {
		value, err := flags.GetString("cache-dir")
		if err != nil {
			return err
		}
		cfg.CacheDir = strings.TrimSpace(value)
	}
	if flags.Changed("cache-ttl") {
		value, err := flags.GetDuration("cache-ttl")
		if err != nil {
			return err
		}
		cfg.CacheTTL = value
	}
	return nil
}

func runFmt(ctx context.Context, cfg *FmtConfig, stdout, stderr io.Writer) error {
	doc, src, err := loader.Load(ctx, cfg.Input, loadOptions(cfg.CacheDir, cfg.CacheTTL)...)
	if err != nil {
		return friendlySpecError(err)
	}
	if cfg.Verbose {
		fmt.Fprintf(stderr, "loaded %s (%s, version %s)\n", src.Location, src.Format, src.Version)
	}

	format := cfg.Format
	if format == "" {
		format = string(src.Format)
	}
	var out []byte
	switch format {
	case "json":
		out, err = oas.EncodeJSON(doc)
	default:
		out, err = oas.EncodeYAML(doc)
	}
	if err != nil {
		return err
	}

	if cfg.Check {
		if !bytes.Equal(out, src.Raw) {
			return fmt.Errorf("%s: %w", src.Location, ErrNotCanonical)
		}
		if cfg.Verbose {
			fmt.Fprintf(stderr, "%s is canonical\n", src.Location)
		}
		return nil
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", cfg.Output, err)
		}
		if cfg.Verbose {
			fmt.Fprintf(stderr, "wrote %s\n", cfg.Output)
		}
		return nil
	}
	_, err = stdout.Write(out)
	return err
}
