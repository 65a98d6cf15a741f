package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger used by all packages.
// Progress output goes to stdout via fmt, diagnostics go here.
func Setup(verbose bool) {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	slog.SetDefault(slog.New(handler))
}
