package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oasfmt/oasfmt/internal/loader"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		Long: "Decode the document into the typed model (syntactic validation), then run full " +
			"semantic validation over it. Swagger 2.0 documents are converted to v3 first.",
		Example: strings.TrimSpace(`  oasfmt validate --input openapi.yaml
  oasfmt validate --input https://example.com/openapi.json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := cmd.Flags().GetString("input")
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
			if input == "" {
				return newUsageError("validate: --input is required")
			}
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
			return runValidate(cmd.Context(), input, cacheDir, cacheTTL, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.String("cache-dir", "", "Directory for the remote fetch cache")
	flags.Duration("cache-ttl", 0, "How long cached fetches stay fresh")

	return cmd
}

func runValidate(ctx context.Context, input, cacheDir string, cacheTTL time.Duration, stdout io.Writer) error {
	_, src, err := loader.Load(ctx, input, loadOptions(cacheDir, cacheTTL)...)
	if err != nil {
		return friendlySpecError(err)
	}
	if err := loader.Validate(ctx, src.Parsed, src.Location); err != nil {
		return friendlySpecError(err)
	}
	fmt.Fprintf(stdout, "%s: valid (version %s)\n", src.Location, src.Version)
	return nil
}
