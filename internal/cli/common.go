package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/oasfmt/oasfmt/internal/loader"
)

// friendlySpecError maps structured loader errors into usage errors with
// the location and JSON pointer attached.
func friendlySpecError(err error) error {
	var se *loader.SpecError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("spec: %s", se.Message)
		if se.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
		}
		if se.JSONPointer != "" {
			msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
		}
		return newUsageError(msg)
	}
	return err
}

func loadOptions(cacheDir string, cacheTTL time.Duration) []loader.Option {
	var opts []loader.Option
	if cacheDir != "" {
		opts = append(opts, loader.WithCacheDir(cacheDir))
	}
	if cacheTTL > 0 {
		opts = append(opts, loader.WithCacheTTL(cacheTTL))
	}
	return opts
}
