package translate

import (
	_ "embed"
	"encoding/csv"
	"io"
	"strings"
	"sync"

	"github.com/gosqlrender/sqlrender/internal/rendererr"
	"github.com/gosqlrender/sqlrender/internal/renderlog"
	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

//go:embed data/default_rules.csv
var defaultRulesCSV string

var (
	defaultTableOnce sync.Once
	defaultTable     *Table
	defaultTableErr  error
)

// Table is an immutable, load-once set of rules keyed by target dialect.
// Order within each target's rule list is load order, which is
// semantically significant (spec.md §3): earlier rules fire first.
type Table struct {
	byTarget map[dialect.Dialect][]*compiledRule
}

// LoadResult reports what happened while loading a pattern table:
// how many rules were accepted, and how many rows were skipped because
// their target_dialect was not one this build recognizes.
type LoadResult struct {
	Table        *Table
	RulesLoaded  int
	RowsSkipped  int
}

// Rules returns the compiled rule list for a target dialect, in load
// order. In the embedded default table the canonical dialect has an
// empty rule list, since no row there names it as target_dialect;
// LoadTable does not reject such rows in other tables.
func (t *Table) Rules(target dialect.Dialect) []Rule {
	compiled := t.byTarget[target]
	rules := make([]Rule, len(compiled))
	for i, c := range compiled {
		rules[i] = c.rule
	}
	return rules
}

// DefaultTable returns the pattern table embedded into this binary,
// compiled once and cached for the lifetime of the process. It is safe
// to call concurrently.
func DefaultTable() (*Table, error) {
	defaultTableOnce.Do(func() {
		res, err := LoadTable(strings.NewReader(defaultRulesCSV))
		if err != nil {
			defaultTableErr = err
			return
		}
		defaultTable = res.Table
		renderlog.Default().Info(renderlog.CategoryTranslate, "pattern table cache populated", map[string]interface{}{
			"rules_loaded": res.RulesLoaded,
			"rows_skipped": res.RowsSkipped,
		})
	})
	return defaultTable, defaultTableErr
}

// LoadTable parses a pattern table in the CSV format from spec.md §6:
// header row required, columns `source_dialect, target_dialect,
// pattern_search, pattern_replace`, standard CSV quoting. A row with an
// unknown target_dialect is silently skipped (future-dialect rows are
// expected to accumulate in shared tables ahead of this build knowing
// about them). A row with an unknown source_dialect, or one that names
// anything but the canonical dialect, is a load error: this translator
// accepts only canonical-dialect input.
func LoadTable(r io.Reader) (LoadResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return LoadResult{}, rendererr.New(rendererr.ErrCodeRuleBadHeader, "pattern table is empty, header row required")
	}
	if err != nil {
		return LoadResult{}, rendererr.Newf(rendererr.ErrCodeRuleBadHeader, "failed to read pattern table header: %v", err)
	}
	if err := validateHeader(header); err != nil {
		return LoadResult{}, err
	}

	table := &Table{byTarget: make(map[dialect.Dialect][]*compiledRule)}
	loaded, skipped := 0, 0

	rowNum := 1
	for {
		rowNum++
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			loadErr := rendererr.Atf(rendererr.ErrCodeRuleParse, rowNum, "malformed row %d in pattern table: %v", rowNum, err)
			renderlog.Default().Error(renderlog.CategoryTranslate, "pattern table row failed to load", loadErr, map[string]interface{}{"row": rowNum})
			return LoadResult{}, loadErr
		}
		if len(rec) != 4 {
			loadErr := rendererr.Atf(rendererr.ErrCodeRuleParse, rowNum, "row %d: expected 4 columns, got %d", rowNum, len(rec))
			renderlog.Default().Error(renderlog.CategoryTranslate, "pattern table row failed to load", loadErr, map[string]interface{}{"row": rowNum})
			return LoadResult{}, loadErr
		}

		sourceStr, targetStr, search, replace := rec[0], rec[1], rec[2], rec[3]

		source, ok := dialect.Parse(sourceStr)
		if !ok || source != dialect.Canonical() {
			loadErr := rendererr.Atf(rendererr.ErrCodeRuleBadDialect, rowNum,
				"row %d: unknown or non-canonical source_dialect %q", rowNum, sourceStr)
			renderlog.Default().Error(renderlog.CategoryTranslate, "pattern table row failed to load", loadErr, map[string]interface{}{"row": rowNum})
			return LoadResult{}, loadErr
		}

		target, ok := dialect.Parse(targetStr)
		if !ok {
			skipped++
			renderlog.Default().Warn(renderlog.CategoryTranslate, "skipping pattern table row: unknown target dialect", map[string]interface{}{
				"row":            rowNum,
				"target_dialect": targetStr,
			})
			continue
		}

		rule := Rule{
			SourceDialect:  source,
			TargetDialect:  target,
			PatternSearch:  search,
			PatternReplace: replace,
		}
		compiled, err := compileRule(rule)
		if err != nil {
			renderlog.Default().Error(renderlog.CategoryTranslate, "pattern table row failed to load", err, map[string]interface{}{"row": rowNum})
			return LoadResult{}, err
		}
		table.byTarget[target] = append(table.byTarget[target], compiled)
		loaded++
	}

	return LoadResult{Table: table, RulesLoaded: loaded, RowsSkipped: skipped}, nil
}

func validateHeader(header []string) error {
	want := []string{"source_dialect", "target_dialect", "pattern_search", "pattern_replace"}
	if len(header) != len(want) {
		return rendererr.Newf(rendererr.ErrCodeRuleBadHeader, "expected %d header columns, got %d", len(want), len(header))
	}
	for i, w := range want {
		if strings.TrimSpace(strings.ToLower(header[i])) != w {
			return rendererr.Newf(rendererr.ErrCodeRuleBadHeader, "header column %d: expected %q, got %q", i+1, w, header[i])
		}
	}
	return nil
}
