package translate

import (
	"regexp"
	"strings"

	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

var (
	distributeHint = regexp.MustCompile(`(?i)^--\s*HINT\s+DISTRIBUTE_ON_KEY\(([A-Za-z_][A-Za-z0-9_]*)\)\s*$`)
	sortHint       = regexp.MustCompile(`(?i)^--\s*HINT\s+SORT_ON_KEY\(INTERLEAVED:([A-Za-z_][A-Za-z0-9_]*)\)\s*$`)
	createOrInto   = regexp.MustCompile(`(?i)^\s*(CREATE\s+TABLE|SELECT\b.*\bINTO\b)`)
)

// expandHints implements spec.md §4.6: a `--HINT ...` comment line
// immediately preceding a CREATE TABLE or SELECT ... INTO statement
// causes that statement to be rewritten with an MPP distribution or sort
// clause for dialects that understand them. "Immediately preceding"
// means no non-whitespace, non-comment content between hint and
// statement. The hint line itself is left in the output.
func expandHints(text string, target dialect.Dialect) string {
	if !dialect.SupportsMPPHints(target) {
		return text
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		var clause string
		switch {
		case distributeHint.MatchString(lines[i]):
			col := distributeHint.FindStringSubmatch(lines[i])[1]
			clause = " WITH (DISTRIBUTION = HASH(" + col + "))"
		case sortHint.MatchString(lines[i]):
			col := sortHint.FindStringSubmatch(lines[i])[1]
			clause = " INTERLEAVED SORTKEY(" + col + ")"
		default:
			continue
		}

		j := nextStatementLine(lines, i+1)
		if j == -1 {
			continue
		}
		lines[j] = insertClauseIntoStatement(lines[j], clause)
	}
	return strings.Join(lines, "\n")
}

// nextStatementLine finds the first non-blank, non-comment,
// non-hint line at or after start, returning -1 if none of those lines
// begins a CREATE TABLE or SELECT ... INTO statement, or if any other
// content intervenes first.
func nextStatementLine(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "--") {
			// Another comment line: still "immediately preceding" as
			// long as it isn't itself unrelated statement text.
			continue
		}
		if createOrInto.MatchString(trimmed) {
			return i
		}
		return -1
	}
	return -1
}

// insertClauseIntoStatement appends the MPP clause to the end of the
// statement's first line. This is a line-local, best-effort insertion
// consistent with the pattern-based, non-parsing nature of the
// translator (spec.md §1): multi-line column lists are out of scope.
func insertClauseIntoStatement(line, clause string) string {
	return strings.TrimRight(line, " \t") + clause
}
