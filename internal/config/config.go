// Package config holds the one process-wide configuration slot the
// core reads: a default temp-emulation schema and an optional logger
// (spec.md §5, §6). The slot is written rarely (typically once at
// program start) and read concurrently, so it lives behind an
// atomic.Pointer rather than a mutex.
package config

import (
	"sync/atomic"

	"github.com/gosqlrender/sqlrender/internal/renderlog"
)

// Config is the process-wide default configuration. Per-call parameters
// to Render/Translate/RenderTranslate always override these defaults.
type Config struct {
	// TempEmulationSchema is used for `#name` rewriting when a caller
	// does not supply an explicit schema.
	TempEmulationSchema string

	// Logger, if set, receives the core's opt-in diagnostic logging.
	Logger *renderlog.Logger
}

var slot atomic.Pointer[Config]

// Set installs the process-wide configuration, replacing any previous
// value. Safe to call concurrently with Get.
func Set(cfg Config) {
	slot.Store(&cfg)
}

// Get returns the current process-wide configuration, or the zero value
// if none has been set.
func Get() Config {
	if c := slot.Load(); c != nil {
		return *c
	}
	return Config{}
}
