package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bndr/gotabulate"
	"github.com/spf13/cobra"

	"github.com/oasfmt/oasfmt/internal/loader"
	"github.com/oasfmt/oasfmt/oas"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List a document's operations and their response keys",
		Example: strings.TrimSpace(`  oasfmt inspect --input openapi.yaml
  oasfmt inspect --input openapi.yaml --tag pets`),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := cmd.Flags().GetString("input")
			if err != nil {
				return err
			}
			input = strings.TrimSpace(input)
			if input == "" {
				return newUsageError("inspect: --input is required")
			}
			tags, _ := cmd.Flags().GetStringSlice("tag")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
			return runInspect(cmd.Context(), input, tags, cacheDir, cacheTTL, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the Swagger/OpenAPI document")
	flags.StringSlice("tag", nil, "Only list operations carrying one of these tags")
	flags.String("cache-dir", "", "Directory for the remote fetch cache")
	flags.Duration("cache-ttl", 0, "How long cached fetches stay fresh")

	return cmd
}

func runInspect(ctx context.Context, input string, tags []string, cacheDir string, cacheTTL time.Duration, stdout io.Writer) error {
	doc, _, err := loader.Load(ctx, input, loadOptions(cacheDir, cacheTTL)...)
	if err != nil {
		return friendlySpecError(err)
	}

	include := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			include[t] = struct{}{}
		}
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var rows [][]string
	for _, p := range paths {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		for _, pair := range item.Operations() {
			if len(include) > 0 && !hasAnyTag(pair.Operation.Tags, include) {
				continue
			}
			rows = append(rows, []string{
				strings.ToUpper(pair.Method),
				p,
				pair.Operation.OperationID,
				responseKeys(pair.Operation.Responses),
			})
		}
	}

	if len(rows) == 0 {
		fmt.Fprintln(stdout, "no operations")
		return nil
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"method", "path", "operation", "responses"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	fmt.Fprint(stdout, t.Render("grid"))
	return nil
}

func hasAnyTag(tags []string, include map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := include[t]; ok {
			return true
		}
	}
	return false
}

// responseKeys renders the response keys in canonical order, default first.
func responseKeys(r oas.Responses) string {
	keys := make([]string, 0, r.Len())
	if r.Default != nil {
		keys = append(keys, "default")
	}
	for _, code := range r.Keys() {
		keys = append(keys, code.String())
	}
	return strings.Join(keys, ", ")
}
