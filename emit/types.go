package emit

import (
	"fmt"
	"strings"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/errors"
)

// TypeSyntax describes how a target spells types. A primitive missing from
// Primitives has no equivalent in the target.
type TypeSyntax struct {
	Primitives map[string]string
	Array      func(elem string) string
	Map        func(key, value string) string
	Set        func(elem string) string
	Optional   func(inner string) string
	Reference  func(name string) string

	// Function spells a function type. When nil, function types are
	// unsupported.
	Function func(params []string, ret string, async bool) string
}

// UnsupportedError reports a type the target cannot express.
type UnsupportedError struct {
	Type   ast.TypeExpr
	Reason string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

// Converted is a type rendered in target syntax. OneOf carries the allowed
// values of a literal union that was widened to its base type.
type Converted struct {
	Code  string
	OneOf string
}

// Converter renders type expressions using a TypeSyntax.
type Converter struct {
	Syntax *TypeSyntax

	// Nested names an inline object type. The caller is responsible for
	// emitting a declaration under that name. When nil, inline objects are
	// unsupported.
	Nested func(obj *ast.Object) string
}

// Convert renders t. The error is an *UnsupportedError.
func (c *Converter) Convert(t ast.TypeExpr) (Converted, error) {
	switch t := t.(type) {
	case *ast.Primitive:
		code, ok := c.Syntax.Primitives[t.Name]
		if !ok {
			return Converted{}, &UnsupportedError{Type: t, Reason: t.Name + " has no equivalent"}
		}
		return Converted{Code: code}, nil

	case *ast.Reference:
		return Converted{Code: c.Syntax.Reference(t.Name)}, nil

	case *ast.Optional:
		inner, err := c.Convert(t.Inner)
		if err != nil {
			return Converted{}, err
		}
		if _, ok := t.Inner.(*ast.Function); ok {
			inner.Code = "(" + inner.Code + ")"
		}
		if !strings.HasSuffix(inner.Code, "?") {
			inner.Code = c.Syntax.Optional(inner.Code)
		}
		return inner, nil

	case *ast.Array:
		elem, err := c.Convert(t.Elem)
		if err != nil {
			return Converted{}, err
		}
		elem.Code = c.Syntax.Array(elem.Code)
		return elem, nil

	case *ast.Set:
		elem, err := c.Convert(t.Elem)
		if err != nil {
			return Converted{}, err
		}
		elem.Code = c.Syntax.Set(elem.Code)
		return elem, nil

	case *ast.Map:
		key, err := c.Convert(t.Key)
		if err != nil {
			return Converted{}, err
		}
		value, err := c.Convert(t.Value)
		if err != nil {
			return Converted{}, err
		}
		return Converted{Code: c.Syntax.Map(key.Code, value.Code), OneOf: cmpOr(key.OneOf, value.OneOf)}, nil

	case *ast.Literal, *ast.Union:
		lit, ok := LiteralUnionOf(t)
		if !ok {
			return Converted{}, &UnsupportedError{Type: t, Reason: "only unions of literals of one kind are supported"}
		}
		base, ok := c.Syntax.Primitives[lit.Kind.String()]
		if !ok {
			return Converted{}, &UnsupportedError{Type: t, Reason: lit.Kind.String() + " has no equivalent"}
		}
		return Converted{Code: base, OneOf: lit.OneOf()}, nil

	case *ast.Object:
		if c.Nested == nil {
			return Converted{}, &UnsupportedError{Type: t, Reason: "inline object types are not supported here"}
		}
		return Converted{Code: c.Nested(t)}, nil

	case *ast.Function:
		if c.Syntax.Function == nil {
			return Converted{}, &UnsupportedError{Type: t, Reason: "function types are only supported on interface members and type aliases"}
		}
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			pt, err := c.Param(p)
			if err != nil {
				return Converted{}, err
			}
			params[i] = pt.Code
		}
		ret, err := c.Convert(t.Return)
		if err != nil {
			return Converted{}, err
		}
		return Converted{Code: c.Syntax.Function(params, ret.Code, t.Async)}, nil
	}
	return Converted{}, &UnsupportedError{Type: t, Reason: "unsupported type"}
}

// Param renders the type of a function parameter. A parameter without an
// annotation is any; an optional one is nullable.
func (c *Converter) Param(p *ast.Param) (Converted, error) {
	t := p.Type
	if t == nil {
		t = &ast.Primitive{Name: ast.Any, Pos: p.Pos}
	}
	if p.Optional {
		t = &ast.Optional{Inner: t, Pos: p.Pos}
	}
	return c.Convert(t)
}

// MemberType returns the type of m, made optional when m is.
func MemberType(m *ast.Member) ast.TypeExpr {
	if _, ok := m.Type.(*ast.Optional); ok || !m.Optional {
		return m.Type
	}
	return &ast.Optional{Inner: m.Type, Pos: m.Pos}
}

// HasFunction reports whether t is or contains a function type.
func HasFunction(t ast.TypeExpr) bool {
	found := false
	ast.Walk(t, func(t ast.TypeExpr) bool {
		if _, ok := t.(*ast.Function); ok {
			found = true
		}
		return !found
	})
	return found
}

// IsVoid reports whether t is the void or undefined primitive.
func IsVoid(t ast.TypeExpr) bool {
	p, ok := t.(*ast.Primitive)
	return ok && (p.Name == ast.Void || p.Name == ast.Undefined)
}

func cmpOr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// LiteralUnion is a union whose variants are all literals of one kind.
type LiteralUnion struct {
	Kind   ast.LiteralKind
	Values []ast.LiteralValue
}

// LiteralUnionOf reports whether t is a literal or a union of literals of a
// single kind. Repeated values are dropped.
func LiteralUnionOf(t ast.TypeExpr) (LiteralUnion, bool) {
	var variants []ast.TypeExpr
	switch t := t.(type) {
	case *ast.Literal:
		variants = []ast.TypeExpr{t}
	case *ast.Union:
		variants = t.Variants
	default:
		return LiteralUnion{}, false
	}

	var u LiteralUnion
	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		lit, ok := v.(*ast.Literal)
		if !ok {
			return LiteralUnion{}, false
		}
		if i == 0 {
			u.Kind = lit.Value.Kind
		} else if lit.Value.Kind != u.Kind {
			return LiteralUnion{}, false
		}
		key := lit.Value.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		u.Values = append(u.Values, lit.Value)
	}
	return u, true
}

// OneOf renders the values for a trailing comment: `one of: "a", "b"`.
func (u LiteralUnion) OneOf() string {
	parts := make([]string, len(u.Values))
	for i, v := range u.Values {
		parts[i] = v.String()
	}
	return "one of: " + strings.Join(parts, ", ")
}

// Reason returns the reason of an *UnsupportedError, or the error text.
func Reason(err error) string {
	var u *UnsupportedError
	if errors.As(err, &u) {
		return u.Reason
	}
	return err.Error()
}
