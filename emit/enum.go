package emit

import (
	"math"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/token"
)

// EnumKind is the raw value type of a target enum.
type EnumKind int

const (
	EnumString EnumKind = iota
	EnumInt
	EnumDouble
)

// EnumCase is one case of a target enum. Name is the source spelling and
// still needs target casing.
type EnumCase struct {
	Name  string
	Value ast.LiteralValue
	Doc   string
	Pos   token.Position
}

// Enum is a target enum built from a TypeScript enum or a literal union.
type Enum struct {
	Kind  EnumKind
	Cases []EnumCase
}

// Wide reports whether an integer enum has values outside 32 bits.
func (e Enum) Wide() bool {
	if e.Kind != EnumInt {
		return false
	}
	for _, c := range e.Cases {
		if c.Value.Num > math.MaxInt32 || c.Value.Num < math.MinInt32 {
			return true
		}
	}
	return false
}

// EnumFromDecl computes the values of a TypeScript enum, applying implicit
// numbering: an uninitialized member is one more than its numeric
// predecessor, or zero when first. Heterogeneous enums and implicit members
// after string members are rejected with a reason.
func EnumFromDecl(d *ast.EnumDecl) (Enum, string) {
	var e Enum
	var hasString, hasNumber bool
	next, nextOK := 0.0, true

	for _, m := range d.Members {
		var v ast.LiteralValue
		switch {
		case m.Value == nil && !nextOK:
			return Enum{}, "member " + m.Name + " needs an initializer after a string member"
		case m.Value == nil:
			v = ast.NumberValue(next, "")
		default:
			v = *m.Value
		}

		switch v.Kind {
		case ast.StringLiteral:
			hasString = true
			nextOK = false
		case ast.NumberLiteral:
			if v.Inexact {
				return Enum{}, "member " + m.Name + " value " + v.Raw + " cannot be represented exactly"
			}
			hasNumber = true
			next, nextOK = v.Num+1, true
		default:
			return Enum{}, "member " + m.Name + " has a boolean value"
		}
		e.Cases = append(e.Cases, EnumCase{Name: m.Name, Value: v, Doc: m.Doc, Pos: m.Pos})
	}

	if hasString && hasNumber {
		return Enum{}, "mixes string and numeric members"
	}
	e.Kind = kindOf(e.Cases, hasString)
	return e, ""
}

// EnumFromUnion builds an enum from a union of string or numeric literals.
// Case names are derived from the values.
func EnumFromUnion(t ast.TypeExpr) (Enum, bool) {
	u, ok := LiteralUnionOf(t)
	if !ok || u.Kind == ast.BoolLiteral {
		return Enum{}, false
	}
	for _, v := range u.Values {
		if v.Inexact {
			return Enum{}, false
		}
	}
	e := Enum{Cases: make([]EnumCase, len(u.Values))}
	for i, v := range u.Values {
		name := v.Str
		if v.Kind == ast.NumberLiteral {
			name = v.Raw
		}
		e.Cases[i] = EnumCase{Name: CaseName(name), Value: v, Pos: t.Position()}
	}
	e.Kind = kindOf(e.Cases, u.Kind == ast.StringLiteral)
	return e, true
}

func kindOf(cases []EnumCase, isString bool) EnumKind {
	if isString {
		return EnumString
	}
	for _, c := range cases {
		if !c.Value.IsInteger() {
			return EnumDouble
		}
	}
	if len(cases) == 0 {
		return EnumString
	}
	return EnumInt
}
