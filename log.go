package scaffoldenv

import (
	"log/slog"

	"github.com/websauna/scaffoldenv/internal/core"
)

// SetLogger replaces the package-level logger used by scaffoldenv.
// The provided logger should already have any desired attributes.
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute. Call SetLogger(nil) after slog.SetDefault() to
// pick up changes.
//
// Example:
//
//	scaffoldenv.SetLogger(myLogger.With("component", "scaffoldenv"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
