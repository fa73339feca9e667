package translate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosqlrender/sqlrender/internal/rendererr"
)

// A rule's patternSearch/patternReplace are small template languages of
// their own (see spec.md §4.4): literal text matches case-insensitively,
// runs of whitespace match one-or-more whitespace, and `@@@`/`@@@name`
// tokens capture a bounded run of text. Both strings are tokenized into
// patElem runs before compiling the search side to a Go regexp — the
// same trick the T-SQL normalizer this package descends from used for
// its own hand-rolled CHARINDEX/CONVERT rewrites, just generalized to a
// declarative table instead of one Go function per construct.

type patElemKind int

const (
	elemLiteral patElemKind = iota
	elemWhitespace
	elemCapture
)

type patElem struct {
	kind patElemKind
	text string // elemLiteral
	name string // elemCapture; "" means positional/anonymous
}

// tokenizePattern splits a pattern string into literal/whitespace/capture
// runs. Capture tokens are `@@@` optionally followed by a bare identifier.
func tokenizePattern(s string) []patElem {
	var elems []patElem
	i, n := 0, len(s)
	for i < n {
		switch {
		case isPatternSpace(s[i]):
			j := i
			for j < n && isPatternSpace(s[j]) {
				j++
			}
			elems = append(elems, patElem{kind: elemWhitespace})
			i = j

		case strings.HasPrefix(s[i:], "@@@"):
			j := i + 3
			for j < n && isPatternIdentByte(s[j]) {
				j++
			}
			elems = append(elems, patElem{kind: elemCapture, name: s[i+3 : j]})
			i = j

		default:
			j := i
			for j < n && !isPatternSpace(s[j]) && !strings.HasPrefix(s[j:], "@@@") {
				j++
			}
			if j == i {
				// A lone '@' that didn't form "@@@": consume one byte as
				// literal so the scan always makes progress.
				j = i + 1
			}
			elems = append(elems, patElem{kind: elemLiteral, text: s[i:j]})
			i = j
		}
	}
	return elems
}

func isPatternSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isPatternIdentByte(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// compiledRule is a rule whose search pattern has been compiled to a
// regexp and whose replace pattern has been tokenized against the same
// capture names.
type compiledRule struct {
	rule            Rule
	re              *regexp.Regexp
	replaceElems    []patElem // elemLiteral text or elemCapture name
	hasQuoteLiteral bool      // pattern text contains a literal single quote
}

// compileRule compiles one rule's search/replace pair. Anonymous `@@@`
// captures are numbered in left-to-right declaration order within the
// search pattern; the replace pattern's own bare `@@@` occurrences are
// assumed to reference them in the same left-to-right order.
func compileRule(r Rule) (*compiledRule, error) {
	searchElems := tokenizePattern(r.PatternSearch)

	var buf strings.Builder
	buf.WriteString("(?is)")

	declared := make(map[string]bool)
	anon := 0
	for _, e := range searchElems {
		switch e.kind {
		case elemWhitespace:
			buf.WriteString(`\s+`)
		case elemLiteral:
			if e.text == "," {
				buf.WriteString(`\s*,\s*`)
			} else {
				buf.WriteString(regexp.QuoteMeta(e.text))
			}
		case elemCapture:
			name := e.name
			if name == "" {
				anon++
				name = fmt.Sprintf("anon%d", anon)
			}
			if declared[name] {
				return nil, rendererr.Newf(rendererr.ErrCodeRulePatternBad,
					"pattern search re-declares capture @@@%s", e.name)
			}
			declared[name] = true

			// Captures never cross an unbalanced closing paren and stop
			// at the first comma at the current paren depth; commas
			// inside a parenthesized group within the capture are kept.
			// Such groups may be nested one level deep; a capture that
			// would need deeper nesting does not match. The spec's
			// carve-out for a capture immediately followed by a literal
			// comma anchor collapses to the same behavior in practice
			// (the anchor itself is the first comma reached), so one
			// capture form covers both cases.
			buf.WriteString(fmt.Sprintf(`(?P<%s>[^,()]*(?:\([^()]*\)[^,()]*)*)`, name))
		}
	}

	re, err := regexp.Compile(buf.String())
	if err != nil {
		return nil, rendererr.Newf(rendererr.ErrCodeRulePatternBad,
			"failed to compile pattern %q: %v", r.PatternSearch, err)
	}

	replaceElems := tokenizePattern(r.PatternReplace)
	anonReplay := 0
	for _, e := range replaceElems {
		if e.kind != elemCapture {
			continue
		}
		name := e.name
		if name == "" {
			anonReplay++
			name = fmt.Sprintf("anon%d", anonReplay)
		}
		if !declared[name] {
			return nil, rendererr.Newf(rendererr.ErrCodeRulePatternBad,
				"pattern replace %q references undeclared capture @@@%s", r.PatternReplace, e.name)
		}
	}

	return &compiledRule{
		rule:            r,
		re:              re,
		replaceElems:    replaceElems,
		hasQuoteLiteral: strings.Contains(r.PatternSearch, "'"),
	}, nil
}

// apply runs one left-to-right, non-overlapping pass of the rule over
// text. protected marks byte offsets inside single-quoted string
// literals; matches that overlap a protected span are skipped unless
// the rule's own search pattern references a literal quote. Matches are
// applied in the order found and the scan never revisits substituted
// output, satisfying the "advance past the substitution" requirement in
// spec.md §4.4.
func (c *compiledRule) apply(text string, protected []bool) string {
	idxs := c.re.FindAllStringSubmatchIndex(text, -1)
	if idxs == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range idxs {
		start, end := m[0], m[1]
		if start < last {
			continue
		}
		if !c.hasQuoteLiteral && rangeTouchesProtected(protected, start, end) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(c.expand(text, m))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func (c *compiledRule) expand(text string, m []int) string {
	names := c.re.SubexpNames()
	nameToIdx := make(map[string]int, len(names))
	for idx, n := range names {
		if n != "" {
			nameToIdx[n] = idx
		}
	}

	var b strings.Builder
	anon := 0
	for _, e := range c.replaceElems {
		switch e.kind {
		case elemLiteral:
			b.WriteString(e.text)
		case elemWhitespace:
			b.WriteByte(' ')
		case elemCapture:
			name := e.name
			if name == "" {
				anon++
				name = fmt.Sprintf("anon%d", anon)
			}
			if idx, ok := nameToIdx[name]; ok && 2*idx+1 < len(m) && m[2*idx] >= 0 {
				b.WriteString(text[m[2*idx]:m[2*idx+1]])
			}
		}
	}
	return b.String()
}

func rangeTouchesProtected(protected []bool, start, end int) bool {
	for i := start; i < end && i < len(protected); i++ {
		if protected[i] {
			return true
		}
	}
	return false
}
