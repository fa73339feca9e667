package translate

import "github.com/gosqlrender/sqlrender/pkg/dialect"

// Rule is one translation rule: a search pattern, expressed in the
// small `@@@name`/whitespace/literal pattern language documented in
// spec.md §4.4, and its replacement.
type Rule struct {
	SourceDialect dialect.Dialect
	TargetDialect dialect.Dialect
	PatternSearch string
	PatternReplace string
}
