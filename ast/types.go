package ast

import (
	"strconv"
	"strings"

	"github.com/teranos/typetransform/token"
)

// TypeExpr is a type annotation: *Primitive, *Reference, *Optional, *Array,
// *Map, *Set, *Union, *Literal, *Object or *Function. Trees are acyclic; references to
// other declarations are by name only.
type TypeExpr interface {
	Node
	String() string
	typeExpr()
}

// Primitive names a built-in type such as string, number or any.
type Primitive struct {
	Name string
	Pos  token.Position
}

// Reference names a declaration in the same unit.
type Reference struct {
	Name string
	Pos  token.Position
}

// Optional is `T | null`, `T | undefined` or `T | null | undefined`.
type Optional struct {
	Inner TypeExpr
	Pos   token.Position
}

// Array is `T[]`, `Array<T>`, `ReadonlyArray<T>` or `readonly T[]`.
type Array struct {
	Elem     TypeExpr
	Readonly bool
	Pos      token.Position
}

// Map is `Record<K, V>`, `Map<K, V>` or `ReadonlyMap<K, V>`. Generic holds
// the spelling used in the source.
type Map struct {
	Key     TypeExpr
	Value   TypeExpr
	Generic string
	Pos     token.Position
}

// Set is `Set<T>` or `ReadonlySet<T>`.
type Set struct {
	Elem     TypeExpr
	Readonly bool
	Pos      token.Position
}

// Union is `A | B | C` with at least two variants, none of them null or
// undefined.
type Union struct {
	Variants []TypeExpr
	Pos      token.Position
}

// Literal is a string, numeric or boolean literal type.
type Literal struct {
	Value LiteralValue
	Pos   token.Position
}

// Object is an inline object literal type `{ a: string }`.
type Object struct {
	Members []*Member
	Pos     token.Position
}

// Function is a function type `(a: A, b?: B) => R` or the signature of a
// method. Async marks a `Promise<R>` return; Return then holds R.
type Function struct {
	Params []*Param
	Return TypeExpr
	Async  bool
	Pos    token.Position
}

// Param is a function parameter. Type is nil when the parameter has no
// annotation.
type Param struct {
	Name     string
	Type     TypeExpr
	Optional bool
	Rest     bool
	Pos      token.Position
}

func (t *Primitive) Position() token.Position { return t.Pos }
func (t *Reference) Position() token.Position { return t.Pos }
func (t *Optional) Position() token.Position  { return t.Pos }
func (t *Array) Position() token.Position     { return t.Pos }
func (t *Map) Position() token.Position       { return t.Pos }
func (t *Set) Position() token.Position       { return t.Pos }
func (t *Union) Position() token.Position     { return t.Pos }
func (t *Literal) Position() token.Position   { return t.Pos }
func (t *Object) Position() token.Position    { return t.Pos }
func (t *Function) Position() token.Position  { return t.Pos }

func (*Primitive) typeExpr() {}
func (*Reference) typeExpr() {}
func (*Optional) typeExpr()  {}
func (*Array) typeExpr()     {}
func (*Map) typeExpr()       {}
func (*Set) typeExpr()       {}
func (*Union) typeExpr()     {}
func (*Literal) typeExpr()   {}
func (*Object) typeExpr()    {}
func (*Function) typeExpr()  {}

// String renders the type in TypeScript syntax.
func (t *Primitive) String() string { return t.Name }
func (t *Reference) String() string { return t.Name }
func (t *Optional) String() string  { return wrapUnion(t.Inner) + " | null" }
func (t *Literal) String() string   { return t.Value.String() }

func (t *Array) String() string {
	s := wrapUnion(t.Elem) + "[]"
	if t.Readonly {
		s = "readonly " + s
	}
	return s
}

func (t *Map) String() string {
	generic := t.Generic
	if generic == "" {
		generic = "Record"
	}
	return generic + "<" + t.Key.String() + ", " + t.Value.String() + ">"
}

func (t *Set) String() string {
	if t.Readonly {
		return "ReadonlySet<" + t.Elem.String() + ">"
	}
	return "Set<" + t.Elem.String() + ">"
}

func (t *Union) String() string {
	parts := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		parts[i] = v.String()
	}
	return strings.Join(parts, " | ")
}

func (t *Object) String() string {
	if len(t.Members) == 0 {
		return "{}"
	}
	parts := make([]string, len(t.Members))
	for i, m := range t.Members {
		parts[i] = m.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (t *Function) String() string {
	return t.paramList() + " => " + t.returnString()
}

func (t *Function) paramList() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Function) returnString() string {
	ret := Void
	if t.Return != nil {
		ret = t.Return.String()
	}
	if t.Async {
		return "Promise<" + ret + ">"
	}
	return ret
}

// String renders the parameter as it would appear in a parameter list.
func (p *Param) String() string {
	s := p.Name
	if p.Rest {
		s = "..." + s
	}
	if p.Optional {
		s += "?"
	}
	if p.Type != nil {
		s += ": " + p.Type.String()
	}
	return s
}

// String renders the member as it would appear in an interface body.
func (m *Member) String() string {
	var b strings.Builder
	if m.Readonly {
		b.WriteString("readonly ")
	}
	if m.Quoted {
		b.WriteString(strconv.Quote(m.Name))
	} else {
		b.WriteString(m.Name)
	}
	if m.Optional {
		b.WriteString("?")
	}
	if fn, ok := m.Type.(*Function); ok && m.Method {
		b.WriteString(fn.paramList() + ": " + fn.returnString())
		return b.String()
	}
	b.WriteString(": ")
	if m.Type != nil {
		b.WriteString(m.Type.String())
	}
	return b.String()
}

func wrapUnion(t TypeExpr) string {
	switch t.(type) {
	case *Union, *Optional, *Function:
		return "(" + t.String() + ")"
	}
	return t.String()
}

// Primitive type names.
const (
	String    = "string"
	Number    = "number"
	Boolean   = "boolean"
	BigInt    = "bigint"
	Any       = "any"
	Unknown   = "unknown"
	ObjectT   = "object"
	Null      = "null"
	Undefined = "undefined"
	Void      = "void"
	Never     = "never"
	Symbol    = "symbol"
)

var primitives = map[string]bool{
	String: true, Number: true, Boolean: true, BigInt: true, Any: true, Unknown: true,
	ObjectT: true, Null: true, Undefined: true, Void: true, Never: true, Symbol: true,
}

// IsPrimitive reports whether name is a built-in type name.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// IsNullish reports whether t is the null or undefined primitive.
func IsNullish(t TypeExpr) bool {
	p, ok := t.(*Primitive)
	return ok && (p.Name == Null || p.Name == Undefined)
}
