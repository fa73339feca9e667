// Package render implements the templating mini-language: parameter
// substitution, default declarations, and boolean-guarded conditional
// blocks, embedded in SQL text.
package render

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the underlying type of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindReal
	KindBool
	KindString
	KindSequence
)

// Value is a tagged-variant parameter binding: integer, real, boolean,
// string, or an ordered sequence of any of those.
type Value struct {
	kind Kind
	i    int64
	d    decimal.Decimal
	b    bool
	s    string
	seq  []Value
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns v's integer payload (only meaningful when Kind() == KindInt).
func (v Value) Int() int64 { return v.i }

// Real returns v's decimal payload (only meaningful when Kind() == KindReal).
func (v Value) Real() decimal.Decimal { return v.d }

// Bool returns v's boolean payload (only meaningful when Kind() == KindBool).
func (v Value) Bool() bool { return v.b }

// Str returns v's string payload (only meaningful when Kind() == KindString).
func (v Value) Str() string { return v.s }

// Seq returns v's element slice (only meaningful when Kind() == KindSequence).
func (v Value) Seq() []Value { return v.seq }

// IntValue constructs an integer value.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// RealValue constructs a real (decimal) value.
func RealValue(d decimal.Decimal) Value { return Value{kind: KindReal, d: d} }

// RealFromFloat constructs a real value from a float64.
func RealFromFloat(f float64) Value { return Value{kind: KindReal, d: decimal.NewFromFloat(f)} }

// BoolValue constructs a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// StringValue constructs a string value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// SeqValue constructs an ordered sequence value.
func SeqValue(vals []Value) Value { return Value{kind: KindSequence, seq: vals} }

// EmptyString is the value an unbound parameter renders as.
var EmptyString = StringValue("")

// Stringify renders v the way a top-level PARAM substitution or an
// expression-context reference would: sequences become comma-joined
// (elements quoted per element rules), scalars render bare except
// booleans which render as the literal TRUE/FALSE.
func Stringify(v Value) string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return v.d.String()
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = stringifyElement(e)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// stringifyElement renders a value as it appears inside a sequence:
// strings are single-quoted (internal quotes doubled), everything else
// renders the same as top-level Stringify.
func stringifyElement(v Value) string {
	if v.kind == KindString {
		return "'" + strings.ReplaceAll(v.s, "'", "''") + "'"
	}
	return Stringify(v)
}

// AsNumber attempts to interpret v as a decimal number: KindInt and
// KindReal always succeed; KindString succeeds if it parses as a number.
func AsNumber(v Value) (decimal.Decimal, bool) {
	switch v.kind {
	case KindInt:
		return decimal.NewFromInt(v.i), true
	case KindReal:
		return v.d, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.s))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// Truthy implements the expression-context boolean coercion rules: a
// nonzero number, a non-empty string other than "FALSE"/"0", or the
// boolean true, are truthy.
func Truthy(v Value) bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindReal:
		return !v.d.IsZero()
	case KindString:
		if v.s == "" || v.s == "0" || strings.EqualFold(v.s, "FALSE") {
			return false
		}
		return true
	case KindSequence:
		return len(v.seq) > 0
	default:
		return false
	}
}
