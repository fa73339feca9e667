// Package sqlrender is the top-level facade over the templating
// renderer (pkg/render) and the dialect translator (pkg/translate): the
// three operations spec.md §6 exposes to callers — render, translate,
// and their composition renderTranslate — plus the process-wide
// configuration slot from spec.md §5.
package sqlrender

import (
	"github.com/gosqlrender/sqlrender/internal/config"
	"github.com/gosqlrender/sqlrender/internal/renderlog"
	"github.com/gosqlrender/sqlrender/pkg/dialect"
	"github.com/gosqlrender/sqlrender/pkg/render"
	"github.com/gosqlrender/sqlrender/pkg/translate"
)

// Value is the tagged-variant type used for parameter bindings. Re-
// exported here so callers of this package need not import pkg/render
// directly for the common case.
type Value = render.Value

// Re-exported Value constructors.
var (
	IntValue     = render.IntValue
	RealValue    = render.RealValue
	RealFromFloat = render.RealFromFloat
	BoolValue    = render.BoolValue
	StringValue  = render.StringValue
	SeqValue     = render.SeqValue
)

// Dialect identifies a target SQL back end. Re-exported from pkg/dialect.
type Dialect = dialect.Dialect

// Render substitutes parameter bindings into a template and resolves
// its conditional blocks and defaults (spec.md §4.1–§4.3).
func Render(template string, bindings map[string]Value) (string, error) {
	return render.Render(template, bindings)
}

// Translate rewrites already-rendered SQL from the canonical dialect
// into target. If tempEmulationSchema is empty, the process-wide
// default configured via SetConfig is used.
func Translate(sql string, target Dialect, tempEmulationSchema string) (string, error) {
	if tempEmulationSchema == "" {
		tempEmulationSchema = config.Get().TempEmulationSchema
	}
	return translate.Translate(sql, target, tempEmulationSchema)
}

// RenderTranslate composes Render and Translate: the common case of
// producing dialect-specific SQL from one template in a single call.
func RenderTranslate(template string, target Dialect, bindings map[string]Value, tempEmulationSchema string) (string, error) {
	rendered, err := Render(template, bindings)
	if err != nil {
		return "", err
	}
	return Translate(rendered, target, tempEmulationSchema)
}

// SetConfig installs the process-wide default configuration (spec.md
// §5, §6): the default temp-emulation schema, and optionally a logger
// for the core's opt-in diagnostics. A non-nil logger is installed as
// the renderlog default logger the core writes to; a nil logger leaves
// the current default logger in place.
func SetConfig(tempEmulationSchema string, logger *renderlog.Logger) {
	config.Set(config.Config{TempEmulationSchema: tempEmulationSchema, Logger: logger})
	if logger != nil {
		renderlog.SetDefault(logger)
	}
}

// GetConfig returns the current process-wide configuration.
func GetConfig() (tempEmulationSchema string, logger *renderlog.Logger) {
	c := config.Get()
	return c.TempEmulationSchema, c.Logger
}
