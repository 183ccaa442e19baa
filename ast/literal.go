package ast

import (
	"strconv"
)

// LiteralKind distinguishes literal values.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BoolLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case StringLiteral:
		return "string"
	case NumberLiteral:
		return "number"
	default:
		return "boolean"
	}
}

// LiteralValue is the value of a literal type or enum initializer.
type LiteralValue struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
	Raw  string // source spelling of numbers, e.g. "0x1F" or "-2"

	// Inexact marks an integer literal a float64 cannot hold exactly.
	Inexact bool
}

// StringValue builds a string literal value.
func StringValue(s string) LiteralValue {
	return LiteralValue{Kind: StringLiteral, Str: s}
}

// NumberValue builds a numeric literal value.
func NumberValue(n float64, raw string) LiteralValue {
	if raw == "" {
		raw = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return LiteralValue{Kind: NumberLiteral, Num: n, Raw: raw}
}

// BoolValue builds a boolean literal value.
func BoolValue(b bool) LiteralValue {
	return LiteralValue{Kind: BoolLiteral, Bool: b}
}

// IsInteger reports whether a numeric value has no fractional part.
func (v LiteralValue) IsInteger() bool {
	return v.Kind == NumberLiteral && v.Num == float64(int64(v.Num))
}

// String renders the value in TypeScript syntax.
func (v LiteralValue) String() string {
	switch v.Kind {
	case StringLiteral:
		return strconv.Quote(v.Str)
	case NumberLiteral:
		if v.Inexact && v.Raw != "" {
			return v.Raw
		}
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return strconv.FormatBool(v.Bool)
	}
}
