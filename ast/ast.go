// Package ast defines the syntax tree of a TypeScript declaration file.
//
// Declarations and type expressions are closed sums: the sets of types
// implementing Decl and TypeExpr are fixed by this package, so a type switch
// over them is exhaustive.
package ast

import (
	"github.com/teranos/typetransform/token"
)

// Node is anything with a source position.
type Node interface {
	Position() token.Position
}

// Decl is a top-level declaration: *InterfaceDecl, *TypeAliasDecl or *EnumDecl.
type Decl interface {
	Node
	DeclName() string
	DeclKind() string
	IsExported() bool
	DocText() string
	declNode()
}

// InterfaceDecl is `interface Name extends A, B { members }`.
type InterfaceDecl struct {
	Name     string
	Pos      token.Position
	Doc      string
	Exported bool
	Extends  []*Reference
	Members  []*Member
}

// TypeAliasDecl is `type Name = Type`.
type TypeAliasDecl struct {
	Name     string
	Pos      token.Position
	Doc      string
	Exported bool
	Type     TypeExpr
}

// EnumDecl is `[const] enum Name { members }`.
type EnumDecl struct {
	Name     string
	Pos      token.Position
	Doc      string
	Exported bool
	Const    bool
	Members  []*EnumMember
}

func (d *InterfaceDecl) Position() token.Position { return d.Pos }
func (d *TypeAliasDecl) Position() token.Position { return d.Pos }
func (d *EnumDecl) Position() token.Position      { return d.Pos }
func (m *Member) Position() token.Position        { return m.Pos }

func (d *InterfaceDecl) DeclName() string { return d.Name }
func (d *TypeAliasDecl) DeclName() string { return d.Name }
func (d *EnumDecl) DeclName() string      { return d.Name }

func (d *InterfaceDecl) DeclKind() string { return "interface" }
func (d *TypeAliasDecl) DeclKind() string { return "type" }
func (d *EnumDecl) DeclKind() string      { return "enum" }

func (d *InterfaceDecl) IsExported() bool { return d.Exported }
func (d *TypeAliasDecl) IsExported() bool { return d.Exported }
func (d *EnumDecl) IsExported() bool      { return d.Exported }

func (d *InterfaceDecl) DocText() string { return d.Doc }
func (d *TypeAliasDecl) DocText() string { return d.Doc }
func (d *EnumDecl) DocText() string      { return d.Doc }

func (*InterfaceDecl) declNode() {}
func (*TypeAliasDecl) declNode() {}
func (*EnumDecl) declNode()      {}

// Member is a property or method signature of an interface or object
// literal type. The Type of a method is a *Function.
type Member struct {
	Name     string
	Quoted   bool // written as a string or numeric literal
	Type     TypeExpr
	Optional bool
	Readonly bool
	Method   bool
	Doc      string
	Pos      token.Position

	// Owner is the declaration the member belongs to, including members of
	// nested object literal types. It does not own the declaration.
	Owner Decl
}

// Callable reports whether the member is a method or a property of
// function type, optional or not.
func (m *Member) Callable() bool {
	t := m.Type
	if o, ok := t.(*Optional); ok {
		t = o.Inner
	}
	_, ok := t.(*Function)
	return ok
}

// Key identifies the member among its siblings. Method overloads share a
// name, so methods are keyed by name and parameter types.
func (m *Member) Key() string {
	fn, ok := m.Type.(*Function)
	if !m.Method || !ok {
		return m.Name
	}
	return m.Name + fn.paramList()
}

// EnumMember is one entry of an enum.
type EnumMember struct {
	Name  string
	Value *LiteralValue // nil when the initializer is implicit
	Doc   string
	Pos   token.Position
}

// CompilationUnit is one parsed source file. It owns its declarations.
type CompilationUnit struct {
	Name   string
	Source string
	Decls  []Decl
}

// Lookup returns the first declaration with the given name.
func (u *CompilationUnit) Lookup(name string) (Decl, bool) {
	for _, d := range u.Decls {
		if d.DeclName() == name {
			return d, true
		}
	}
	return nil, false
}
