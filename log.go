package scenegroup

import (
	"log/slog"

	"github.com/giantswarm/scenegroup/internal/core"
)

// SetLogger replaces the package-level logger used by scenegroup. The
// provided logger should already carry any attributes the application
// wants; scenegroup adds per-call attributes such as "group", "scene" and
// "cycle".
//
// If l is nil, the logger resets to slog.Default() with a "component"
// attribute, re-derived on the next log call. Call SetLogger(nil) after
// slog.SetDefault() to pick up the change.
//
// SetLogger is safe to call concurrently with loads, but a load already in
// progress may keep logging through the previous logger.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
