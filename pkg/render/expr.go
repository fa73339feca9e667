package render

import (
	"strconv"
	"strings"

	"github.com/gosqlrender/sqlrender/internal/rendererr"
)

// exprNode is a parsed boolean-expression AST node.
type exprNode interface{ isExprNode() }

type litNode struct{ v Value }
type paramNode struct{ name string }
type unaryNode struct {
	op string
	x  exprNode
}
type binaryNode struct {
	op   string
	l, r exprNode
}
type inNode struct {
	x    exprNode
	list []exprNode
}

func (litNode) isExprNode()    {}
func (paramNode) isExprNode()  {}
func (unaryNode) isExprNode()  {}
func (binaryNode) isExprNode() {}
func (inNode) isExprNode()     {}

// exprToken kinds for the expression sub-lexer.
type exprTokKind int

const (
	etEOF exprTokKind = iota
	etNumber
	etString
	etTrue
	etFalse
	etParam
	etOp
	etLParen
	etRParen
	etComma
)

type exprTok struct {
	kind exprTokKind
	text string
}

// lexExpr tokenizes a boolean-expression string.
func lexExpr(s string) ([]exprTok, error) {
	var toks []exprTok
	i, n := 0, len(s)
	for i < n {
		c := s[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			toks = append(toks, exprTok{etLParen, "("})
			i++
		case c == ')':
			toks = append(toks, exprTok{etRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, exprTok{etComma, ","})
			i++
		case c == '!':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, exprTok{etOp, "!="})
				i += 2
			} else {
				toks = append(toks, exprTok{etOp, "!"})
				i++
			}
		case c == '&':
			toks = append(toks, exprTok{etOp, "&"})
			i++
		case c == '|':
			toks = append(toks, exprTok{etOp, "|"})
			i++
		case c == '=':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, exprTok{etOp, "=="})
				i += 2
			} else {
				return nil, rendererr.Atf(rendererr.ErrCodeExprBadOp, i, "expected '==' near %q", s[i:])
			}
		case c == '<':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, exprTok{etOp, "<="})
				i += 2
			} else {
				toks = append(toks, exprTok{etOp, "<"})
				i++
			}
		case c == '>':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, exprTok{etOp, ">="})
				i += 2
			} else {
				toks = append(toks, exprTok{etOp, ">"})
				i++
			}
		case c == '\'':
			j, terminated := scanStringLiteral(s, i)
			if !terminated {
				return nil, rendererr.Atf(rendererr.ErrCodeExprBadLiteral, i, "unterminated string literal in expression")
			}
			inner := strings.ReplaceAll(s[i+1:j-1], "''", "'")
			toks = append(toks, exprTok{etString, inner})
			i = j
		case c == '@':
			name, end, ok := scanIdentifier(s, i+1)
			if !ok {
				return nil, rendererr.Atf(rendererr.ErrCodeExprBadLiteral, i, "expected identifier after '@'")
			}
			toks = append(toks, exprTok{etParam, name})
			i = end
		case c >= '0' && c <= '9':
			j := i
			for j < n && (s[j] >= '0' && s[j] <= '9') {
				j++
			}
			if j < n && s[j] == '.' {
				j++
				for j < n && s[j] >= '0' && s[j] <= '9' {
					j++
				}
			}
			toks = append(toks, exprTok{etNumber, s[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentCont(s[j]) {
				j++
			}
			word := s[i:j]
			switch strings.ToUpper(word) {
			case "TRUE":
				toks = append(toks, exprTok{etTrue, word})
			case "FALSE":
				toks = append(toks, exprTok{etFalse, word})
			case "IN":
				toks = append(toks, exprTok{etOp, "IN"})
			default:
				return nil, rendererr.Atf(rendererr.ErrCodeExprMalformed, i, "unexpected identifier %q in expression", word)
			}
			i = j
		default:
			return nil, rendererr.Atf(rendererr.ErrCodeExprMalformed, i, "unexpected character %q in expression", c)
		}
	}
	toks = append(toks, exprTok{etEOF, ""})
	return toks, nil
}

// exprParser is a recursive-descent parser over a token stream.
type exprParser struct {
	toks []exprTok
	pos  int
}

func (p *exprParser) peek() exprTok { return p.toks[p.pos] }
func (p *exprParser) next() exprTok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// ParseExpr parses a full boolean expression, erroring on trailing tokens.
func ParseExpr(s string) (exprNode, error) {
	toks, err := lexExpr(s)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != etEOF {
		return nil, rendererr.Newf(rendererr.ErrCodeExprMalformed, "unexpected trailing token %q in expression", p.peek().text)
	}
	return node, nil
}

func (p *exprParser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == etOp && p.peek().text == "|" {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "|", l: left, r: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (exprNode, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == etOp && p.peek().text == "&" {
		p.next()
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "&", l: left, r: right}
	}
	return left, nil
}

var cmpOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

func (p *exprParser) parseCmp() (exprNode, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == etOp && cmpOps[p.peek().text] {
		op := p.next().text
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: op, l: left, r: right}, nil
	}
	if p.peek().kind == etOp && p.peek().text == "IN" {
		p.next()
		if p.peek().kind != etLParen {
			return nil, rendererr.Newf(rendererr.ErrCodeExprMalformed, "expected '(' after IN")
		}
		p.next()
		var list []exprNode
		if p.peek().kind != etRParen {
			for {
				a, err := p.parseAtom()
				if err != nil {
					return nil, err
				}
				list = append(list, a)
				if p.peek().kind == etComma {
					p.next()
					continue
				}
				break
			}
		}
		if p.peek().kind != etRParen {
			return nil, rendererr.Newf(rendererr.ErrCodeExprMalformed, "expected ')' to close IN list")
		}
		p.next()
		return inNode{x: left, list: list}, nil
	}
	return left, nil
}

func (p *exprParser) parseAtom() (exprNode, error) {
	t := p.peek()
	switch {
	case t.kind == etOp && t.text == "!":
		p.next()
		x, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: "!", x: x}, nil
	case t.kind == etLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != etRParen {
			return nil, rendererr.Newf(rendererr.ErrCodeExprMalformed, "expected ')'")
		}
		p.next()
		return inner, nil
	case t.kind == etNumber:
		p.next()
		if strings.Contains(t.text, ".") {
			f, err := strconv.ParseFloat(t.text, 64)
			if err != nil {
				return nil, rendererr.Newf(rendererr.ErrCodeExprBadLiteral, "invalid number %q", t.text)
			}
			return litNode{v: RealFromFloat(f)}, nil
		}
		iv, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, rendererr.Newf(rendererr.ErrCodeExprBadLiteral, "invalid number %q", t.text)
		}
		return litNode{v: IntValue(iv)}, nil
	case t.kind == etString:
		p.next()
		return litNode{v: StringValue(t.text)}, nil
	case t.kind == etTrue:
		p.next()
		return litNode{v: BoolValue(true)}, nil
	case t.kind == etFalse:
		p.next()
		return litNode{v: BoolValue(false)}, nil
	case t.kind == etParam:
		p.next()
		return paramNode{name: t.text}, nil
	default:
		return nil, rendererr.Newf(rendererr.ErrCodeExprMalformed, "unexpected token %q in expression", t.text)
	}
}

// evalCtx carries the binding/default maps used to resolve @name atoms.
type evalCtx struct {
	bindings map[string]Value
	defaults map[string]Value
}

func (c *evalCtx) resolve(name string) Value {
	if v, ok := c.bindings[name]; ok {
		return v
	}
	if v, ok := c.defaults[name]; ok {
		return v
	}
	return EmptyString
}

// evalExpr evaluates a parsed expression to a boolean, per the
// short-circuit and coercion rules in spec.md §4.2.
func evalExpr(node exprNode, ctx *evalCtx) (bool, error) {
	v, err := evalValue(node, ctx)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

// evalValue evaluates a node to its Value, used both for the top-level
// boolean result and for atom resolution inside comparisons.
func evalValue(node exprNode, ctx *evalCtx) (Value, error) {
	switch n := node.(type) {
	case litNode:
		return n.v, nil
	case paramNode:
		return ctx.resolve(n.name), nil
	case unaryNode:
		if n.op == "!" {
			b, err := evalExpr(n.x, ctx)
			if err != nil {
				return Value{}, err
			}
			return BoolValue(!b), nil
		}
		return Value{}, rendererr.Newf(rendererr.ErrCodeExprMalformed, "unknown unary operator %q", n.op)
	case binaryNode:
		return evalBinary(n, ctx)
	case inNode:
		return evalIn(n, ctx)
	default:
		return Value{}, rendererr.Newf(rendererr.ErrCodeExprMalformed, "unknown expression node")
	}
}

func evalBinary(n binaryNode, ctx *evalCtx) (Value, error) {
	switch n.op {
	case "&":
		lb, err := evalExpr(n.l, ctx)
		if err != nil {
			return Value{}, err
		}
		if !lb {
			return BoolValue(false), nil
		}
		rb, err := evalExpr(n.r, ctx)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(rb), nil
	case "|":
		lb, err := evalExpr(n.l, ctx)
		if err != nil {
			return Value{}, err
		}
		if lb {
			return BoolValue(true), nil
		}
		rb, err := evalExpr(n.r, ctx)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(rb), nil
	default:
		lv, err := evalValue(n.l, ctx)
		if err != nil {
			return Value{}, err
		}
		rv, err := evalValue(n.r, ctx)
		if err != nil {
			return Value{}, err
		}
		cmp := compareValues(lv, rv)
		switch n.op {
		case "==":
			return BoolValue(cmp == 0), nil
		case "!=":
			return BoolValue(cmp != 0), nil
		case "<":
			return BoolValue(cmp < 0), nil
		case "<=":
			return BoolValue(cmp <= 0), nil
		case ">":
			return BoolValue(cmp > 0), nil
		case ">=":
			return BoolValue(cmp >= 0), nil
		default:
			return Value{}, rendererr.Newf(rendererr.ErrCodeExprMalformed, "unknown comparison operator %q", n.op)
		}
	}
}

func evalIn(n inNode, ctx *evalCtx) (Value, error) {
	xv, err := evalValue(n.x, ctx)
	if err != nil {
		return Value{}, err
	}
	for _, item := range n.list {
		iv, err := evalValue(item, ctx)
		if err != nil {
			return Value{}, err
		}
		if compareValues(xv, iv) == 0 {
			return BoolValue(true), nil
		}
	}
	return BoolValue(false), nil
}

// compareValues implements the numeric-if-both-parse, else string
// coercion rule from spec.md §4.2.
func compareValues(l, r Value) int {
	if ln, ok := AsNumber(l); ok {
		if rn, ok2 := AsNumber(r); ok2 {
			return ln.Cmp(rn)
		}
	}
	return strings.Compare(exprString(l), exprString(r))
}

// exprString is the expression-context string form of a value: the
// same as Stringify for scalars (booleans render TRUE/FALSE).
func exprString(v Value) string {
	return Stringify(v)
}

// EvalExprString parses and evaluates a boolean expression string in one
// step, given the effective bindings and defaults in scope.
func EvalExprString(s string, bindings, defaults map[string]Value) (bool, error) {
	node, err := ParseExpr(s)
	if err != nil {
		return false, err
	}
	return evalExpr(node, &evalCtx{bindings: bindings, defaults: defaults})
}
