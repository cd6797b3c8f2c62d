package ast

import "strconv"

// Value is the right hand side of a comparison: a single Literal or a ListValue.
type Value interface {
	valueNode()
}

// Literal is a scalar value. Whether it renders quoted or not is decided by
// its concrete type, never by looking at its text.
type Literal interface {
	Value
	literal()
	String() string
}

// IntLiteral is a numeric literal. Renderers emit it unquoted.
type IntLiteral int64

func (IntLiteral) valueNode() {}
func (IntLiteral) literal()   {}

func (l IntLiteral) String() string {
	return strconv.FormatInt(int64(l), 10)
}

// StrLiteral is a string literal. Renderers escape and quote it.
type StrLiteral string

func (StrLiteral) valueNode() {}
func (StrLiteral) literal()   {}

func (l StrLiteral) String() string {
	return string(l)
}

// ListValue is an ordered sequence of literals.
type ListValue []Literal

func (ListValue) valueNode() {}

// Strings is a helper that builds a ListValue of string literals.
func Strings(values ...string) ListValue {
	l := make(ListValue, len(values))
	for i, v := range values {
		l[i] = StrLiteral(v)
	}
	return l
}

// Ints is a helper that builds a ListValue of numeric literals.
func Ints(values ...int64) ListValue {
	l := make(ListValue, len(values))
	for i, v := range values {
		l[i] = IntLiteral(v)
	}
	return l
}
