package render

import "strings"

// Render drives the lexer and expression evaluator to produce fully
// substituted SQL text from a template and a set of parameter bindings.
//
// Rendering is total: an unbound parameter renders as the empty string
// rather than raising an error (spec.md §4.3). Only malformed markup
// (unterminated conditionals) or malformed boolean expressions fail.
func Render(template string, bindings map[string]Value) (string, error) {
	toks, err := Lex(template)
	if err != nil {
		return "", err
	}

	defaults := make(map[string]Value)
	if err := collectDefaults(toks, defaults); err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := emit(toks, bindings, defaults, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// collectDefaults walks a token stream, including recursively into
// conditional bodies, gathering DEFAULT declarations into one map.
// The last declaration for a given name wins.
func collectDefaults(toks []Token, defaults map[string]Value) error {
	for _, t := range toks {
		switch t.Kind {
		case TokDefault:
			defaults[t.Name] = t.LiteralVal
		case TokCond:
			thenToks, err := Lex(t.Then)
			if err != nil {
				return err
			}
			if err := collectDefaults(thenToks, defaults); err != nil {
				return err
			}
			if t.HasElse {
				elseToks, err := Lex(t.Else)
				if err != nil {
					return err
				}
				if err := collectDefaults(elseToks, defaults); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// emit walks a token stream and writes fully substituted output.
func emit(toks []Token, bindings, defaults map[string]Value, buf *strings.Builder) error {
	for _, t := range toks {
		switch t.Kind {
		case TokText:
			buf.WriteString(t.Text)
		case TokParam:
			buf.WriteString(Stringify(effective(t.Name, bindings, defaults)))
		case TokDefault:
			// Removed from output.
		case TokCond:
			truthy, err := EvalExprString(t.Expr, bindings, defaults)
			if err != nil {
				return err
			}
			var body string
			var hasBody bool
			if truthy {
				body, hasBody = t.Then, true
			} else if t.HasElse {
				body, hasBody = t.Else, true
			}
			if hasBody {
				subToks, err := Lex(body)
				if err != nil {
					return err
				}
				if err := emit(subToks, bindings, defaults, buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// effective resolves a parameter reference: explicit binding wins over
// default, and an unbound, undefaulted parameter renders as empty string.
func effective(name string, bindings, defaults map[string]Value) Value {
	if v, ok := bindings[name]; ok {
		return v
	}
	if v, ok := defaults[name]; ok {
		return v
	}
	return EmptyString
}
