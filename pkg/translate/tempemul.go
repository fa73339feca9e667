package translate

import (
	"regexp"
	"strings"

	"github.com/gosqlrender/sqlrender/internal/rendererr"
	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

var tempTableRef = regexp.MustCompile(`#([A-Za-z_][A-Za-z0-9_]*)`)

// emulateTempTables rewrites `#name` references for dialects that lack
// true session-local temp tables (spec.md §4.5). Oracle additionally
// enforces a 22-character ceiling on the input name itself (spec.md
// §4.5); every dialect enforces the general rule that the emitted
// identifier (name plus salt suffix) never exceeds
// dialect.MaxIdentifierLength, per the fixed policy recorded in
// DESIGN.md: the limit applies to the table identifier component, not
// the schema-qualified full name. Occurrences of a given name are
// renamed consistently within one call, and references inside a
// protected (single-quoted) span are left untouched.
func emulateTempTables(text string, target dialect.Dialect, tempSchema string, protected []bool) (string, error) {
	if !dialect.RequiresTempEmulation(target) {
		return text, nil
	}

	idxs := tempTableRef.FindAllStringSubmatchIndex(text, -1)
	if idxs == nil {
		return text, nil
	}

	salt := SessionSalt()
	maxLen := dialect.MaxIdentifierLength(target)
	replaced := make(map[string]string)

	var b strings.Builder
	last := 0
	for _, m := range idxs {
		start, end := m[0], m[1]
		nameStart, nameEnd := m[2], m[3]
		if rangeTouchesProtected(protected, start, end) {
			continue
		}

		name := text[nameStart:nameEnd]
		full, ok := replaced[name]
		if !ok {
			if target == dialect.Oracle && len(name) > 22 {
				return "", rendererr.Newf(rendererr.ErrCodeIdentifierTooLong,
					"temp table name %q exceeds the 22-character input limit for %s emulation", name, target)
			}
			// The length limit applies to the table identifier itself,
			// not the schema qualifier: Oracle (and friends) enforce
			// per-component identifier length, not combined qualified
			// name length.
			tableIdent := name + "_" + salt
			if len(tableIdent) > maxLen {
				return "", rendererr.Newf(rendererr.ErrCodeIdentifierTooLong,
					"emulated temp table identifier %q exceeds the %d-character limit for %s", tableIdent, maxLen, target)
			}
			if tempSchema != "" {
				full = tempSchema + "." + tableIdent
			} else {
				full = tableIdent
			}
			replaced[name] = full
		}

		b.WriteString(text[last:start])
		b.WriteString(full)
		last = end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}
