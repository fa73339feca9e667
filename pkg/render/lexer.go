package render

import (
	"strconv"
	"strings"

	"github.com/gosqlrender/sqlrender/internal/rendererr"
)

// Lex scans template text into a token stream. It never leaves markup
// unresolved in a way that would surface at render time: ambiguous `{`
// sequences fall back to literal text, per spec. Only a genuinely
// unterminated brace is a syntax error.
func Lex(template string) ([]Token, error) {
	var toks []Token
	var textBuf strings.Builder
	textStart := 0

	flushText := func(end int) {
		if textBuf.Len() > 0 {
			toks = append(toks, Token{Kind: TokText, Offset: textStart, Text: textBuf.String()})
			textBuf.Reset()
		}
		textStart = end
	}

	i := 0
	n := len(template)
	for i < n {
		c := template[i]

		switch {
		case c == '\'':
			// String literal: pass through untouched, including any
			// '@' or braces inside it.
			j := skipStringLiteral(template, i)
			textBuf.WriteString(template[i:j])
			i = j

		case c == '@':
			if name, end, ok := scanIdentifier(template, i+1); ok {
				flushText(i)
				toks = append(toks, Token{Kind: TokParam, Offset: i, Name: name})
				i = end
				textStart = i
			} else {
				textBuf.WriteByte(c)
				i++
			}

		case c == '{':
			tok, end, consumed, err := scanBrace(template, i)
			if err != nil {
				return nil, err
			}
			if consumed {
				flushText(i)
				toks = append(toks, tok)
				i = end
				textStart = i
			} else {
				// Ambiguous: whole balanced span is literal text.
				textBuf.WriteString(template[i:end])
				i = end
			}

		default:
			textBuf.WriteByte(c)
			i++
		}
	}
	flushText(n)

	return toks, nil
}

// skipStringLiteral returns the index just past a single-quoted string
// literal starting at s[start] == '\''. Handles '' as an escaped quote.
// If the literal is unterminated, returns len(s).
func skipStringLiteral(s string, start int) int {
	end, _ := scanStringLiteral(s, start)
	return end
}

// scanStringLiteral is like skipStringLiteral but also reports whether
// the literal was properly closed.
func scanStringLiteral(s string, start int) (end int, terminated bool) {
	i := start + 1
	n := len(s)
	for i < n {
		if s[i] == '\'' {
			if i+1 < n && s[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, true
		}
		i++
	}
	return n, false
}

// scanIdentifier scans [A-Za-z_][A-Za-z0-9_]* starting at s[start].
func scanIdentifier(s string, start int) (name string, end int, ok bool) {
	n := len(s)
	if start >= n || !isIdentStart(s[start]) {
		return "", start, false
	}
	i := start + 1
	for i < n && isIdentCont(s[i]) {
		i++
	}
	return s[start:i], i, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// findMatchingBrace finds the index of the '}' matching the '{' at
// s[openPos], skipping over single-quoted string literals and nested
// brace pairs. Returns (-1, false) if unterminated.
func findMatchingBrace(s string, openPos int) (int, bool) {
	depth := 1
	i := openPos + 1
	n := len(s)
	for i < n {
		switch s[i] {
		case '\'':
			i = skipStringLiteral(s, i)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
		i++
	}
	return -1, false
}

// skipWhitespace returns the index of the first non-whitespace byte at
// or after i.
func skipWhitespace(s string, i int) int {
	n := len(s)
	for i < n && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// scanBrace attempts to lex a `{DEFAULT ...}` or `{expr}?{...}[:{...}]`
// construct starting at s[i] == '{'. If consumed is false, end is the
// index just past the balanced `{...}` span, which the caller should
// treat as literal text. If the outer brace itself is unterminated,
// returns a TemplateSyntaxError.
func scanBrace(s string, i int) (tok Token, end int, consumed bool, err error) {
	close1, ok := findMatchingBrace(s, i)
	if !ok {
		return Token{}, 0, false, rendererr.At(rendererr.ErrCodeUnterminatedConditional, i,
			"unterminated '{' with no matching '}'")
	}
	body := s[i+1 : close1]

	if name, litText, litVal, ok := parseDefaultBody(body); ok {
		tok = Token{Kind: TokDefault, Offset: i, Name: name, Literal: litText, LiteralVal: litVal}
		end = close1 + 1
		// Trailing whitespace after the removed token is left in place:
		// a leading space or blank line in the output is acceptable
		// (spec.md design notes, ambiguity (a)) and simpler to reason about
		// than guessing how much surrounding whitespace to eat.
		return tok, end, true, nil
	}

	// Try `}?{...}` (optionally with whitespace around `?`).
	j := skipWhitespace(s, close1+1)
	if j >= len(s) || s[j] != '?' {
		return Token{}, close1 + 1, false, nil
	}
	j = skipWhitespace(s, j+1)
	if j >= len(s) || s[j] != '{' {
		return Token{}, close1 + 1, false, nil
	}

	thenClose, ok := findMatchingBrace(s, j)
	if !ok {
		return Token{}, 0, false, rendererr.At(rendererr.ErrCodeUnterminatedConditional, j,
			"unterminated conditional then-body")
	}
	thenBody := s[j+1 : thenClose]

	tok = Token{Kind: TokCond, Offset: i, Expr: strings.TrimSpace(body), Then: thenBody}
	end = thenClose + 1

	// Optional `:` `{elseBody}`.
	k := skipWhitespace(s, end)
	if k < len(s) && s[k] == ':' {
		k = skipWhitespace(s, k+1)
		if k < len(s) && s[k] == '{' {
			elseClose, ok := findMatchingBrace(s, k)
			if !ok {
				return Token{}, 0, false, rendererr.At(rendererr.ErrCodeUnterminatedConditional, k,
					"unterminated conditional else-body")
			}
			tok.Else = s[k+1 : elseClose]
			tok.HasElse = true
			end = elseClose + 1
		}
	}

	return tok, end, true, nil
}

// parseDefaultBody recognises `DEFAULT @name = literal` (case-insensitive
// keyword). literal is integer, real, single-quoted string, or a bare
// identifier treated as a string.
func parseDefaultBody(body string) (name, litText string, val Value, ok bool) {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < 7 || !strings.EqualFold(trimmed[:7], "DEFAULT") {
		return "", "", Value{}, false
	}
	rest := strings.TrimSpace(trimmed[7:])
	if len(rest) == 0 || rest[0] != '@' {
		return "", "", Value{}, false
	}
	rest = rest[1:]
	pname, afterName, identOK := scanIdentifier(rest, 0)
	if !identOK {
		return "", "", Value{}, false
	}
	rest = strings.TrimSpace(rest[afterName:])
	if len(rest) == 0 || rest[0] != '=' {
		return "", "", Value{}, false
	}
	litText = strings.TrimSpace(rest[1:])
	if litText == "" {
		return "", "", Value{}, false
	}

	val, ok = parseLiteral(litText)
	if !ok {
		return "", "", Value{}, false
	}
	return pname, litText, val, true
}

// parseLiteral parses a DEFAULT literal: integer, real, single-quoted
// string, or bare identifier (treated as a string).
func parseLiteral(s string) (Value, bool) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, "''", "'")
		return StringValue(inner), true
	}
	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(iv), true
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return RealFromFloat(fv), true
	}
	if name, end, ok := scanIdentifier(s, 0); ok && end == len(s) {
		return StringValue(name), true
	}
	return Value{}, false
}
