// Package translate implements the pattern-based dialect translator:
// the ordered rule engine, temp-table emulation, and MPP hint expansion
// described in spec.md §4.4–§4.7. It is a pure, allocate-per-call
// library with no ambient I/O in the hot path (spec.md §5); the only
// process-wide state is the lazily-built default pattern table and the
// lazily-generated session salt, both guarded by sync.Once.
package translate

import (
	"github.com/gosqlrender/sqlrender/internal/rendererr"
	"github.com/gosqlrender/sqlrender/internal/renderlog"
	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

// Translate applies target's rule list, temp-table emulation, and MPP
// hint expansion to already-rendered SQL text, in the fixed pipeline
// order documented in spec.md §4.7:
//
//	INIT → STRING_PROTECT → RULE_LOOP → TEMP_EMUL → HINT_EXPAND → DONE
//
// Translating text already in the canonical dialect is the identity
// (spec.md §8): the canonical dialect never has rules registered
// against it, requires no temp emulation, and supports no MPP hints.
func Translate(sql string, target dialect.Dialect, tempEmulationSchema string) (string, error) {
	if target == dialect.Unknown {
		return "", rendererr.New(rendererr.ErrCodeUnknownDialect, "unknown target dialect")
	}

	table, err := DefaultTable()
	if err != nil {
		return "", err
	}
	return TranslateWithTable(sql, target, tempEmulationSchema, table)
}

// TranslateWithTable is Translate parameterized over an explicit rule
// table, letting callers supply a table other than the embedded default
// (spec.md §9: "allow replacement for testing").
func TranslateWithTable(sql string, target dialect.Dialect, tempEmulationSchema string, table *Table) (string, error) {
	if target == dialect.Unknown {
		return "", rendererr.New(rendererr.ErrCodeUnknownDialect, "unknown target dialect")
	}

	// STRING_PROTECT
	protected := protectStrings(sql)

	// RULE_LOOP: each rule for this target gets one left-to-right,
	// non-overlapping pass, in load order. Protection is recomputed
	// after every rule since a substitution can change which byte
	// offsets fall inside a string literal.
	text := sql
	for _, rule := range table.byTarget[target] {
		out := rule.apply(text, protected)
		if out == text {
			renderlog.Default().Debug(renderlog.CategoryTranslate, "rule did not match", map[string]interface{}{
				"pattern_search": rule.rule.PatternSearch,
			})
		}
		text = out
		protected = protectStrings(text)
	}

	// TEMP_EMUL
	text, err := emulateTempTables(text, target, tempEmulationSchema, protected)
	if err != nil {
		return "", err
	}

	// HINT_EXPAND
	text = expandHints(text, target)

	// DONE
	return text, nil
}

// Rules returns the compiled rule list for a target dialect from the
// embedded default table, for introspection (SPEC_FULL.md §4).
func Rules(target dialect.Dialect) ([]Rule, error) {
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return table.Rules(target), nil
}

// ExplainMatches runs target's RULE_LOOP stage against sql, exactly as
// Translate does, and returns the subset of the target's rule list that
// actually matched and produced a substitution, in firing order — the
// "fired-rule trace" the CLI's -explain flag prints (SPEC_FULL.md §4,
// §5). Unlike Rules, which returns every configured rule regardless of
// whether it applies to a given input, this only reports rules that
// fired on sql.
func ExplainMatches(sql string, target dialect.Dialect) ([]Rule, error) {
	table, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return ExplainMatchesWithTable(sql, target, table), nil
}

// ExplainMatchesWithTable is ExplainMatches parameterized over an
// explicit rule table.
func ExplainMatchesWithTable(sql string, target dialect.Dialect, table *Table) []Rule {
	protected := protectStrings(sql)
	text := sql
	var fired []Rule
	for _, rule := range table.byTarget[target] {
		out := rule.apply(text, protected)
		if out != text {
			fired = append(fired, rule.rule)
		}
		text = out
		protected = protectStrings(text)
	}
	return fired
}
