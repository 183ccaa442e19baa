package ast

import "fmt"

// DeclDump is a serializable view of a declaration for the `ast` command.
type DeclDump struct {
	Kind     string           `json:"kind" yaml:"kind"`
	Name     string           `json:"name" yaml:"name"`
	Line     int              `json:"line" yaml:"line"`
	Doc      string           `json:"doc,omitempty" yaml:"doc,omitempty"`
	Exported bool             `json:"exported,omitempty" yaml:"exported,omitempty"`
	Const    bool             `json:"const,omitempty" yaml:"const,omitempty"`
	Extends  []string         `json:"extends,omitempty" yaml:"extends,omitempty"`
	Members  []MemberDump     `json:"members,omitempty" yaml:"members,omitempty"`
	Type     *TypeDump        `json:"type,omitempty" yaml:"type,omitempty"`
	Cases    []EnumMemberDump `json:"cases,omitempty" yaml:"cases,omitempty"`
}

// MemberDump is a serializable view of a member.
type MemberDump struct {
	Name     string    `json:"name" yaml:"name"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	Readonly bool      `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Method   bool      `json:"method,omitempty" yaml:"method,omitempty"`
	Doc      string    `json:"doc,omitempty" yaml:"doc,omitempty"`
	Type     *TypeDump `json:"type" yaml:"type"`
}

// ParamDump is a serializable view of a function parameter.
type ParamDump struct {
	Name     string    `json:"name" yaml:"name"`
	Optional bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	Rest     bool      `json:"rest,omitempty" yaml:"rest,omitempty"`
	Type     *TypeDump `json:"type,omitempty" yaml:"type,omitempty"`
}

// EnumMemberDump is a serializable view of an enum member.
type EnumMemberDump struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Doc   string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// TypeDump is a serializable view of a type expression.
type TypeDump struct {
	Kind     string       `json:"kind" yaml:"kind"`
	Name     string       `json:"name,omitempty" yaml:"name,omitempty"`
	Value    string       `json:"value,omitempty" yaml:"value,omitempty"`
	Elem     *TypeDump    `json:"elem,omitempty" yaml:"elem,omitempty"`
	Key      *TypeDump    `json:"key,omitempty" yaml:"key,omitempty"`
	Val      *TypeDump    `json:"val,omitempty" yaml:"val,omitempty"`
	Variants []*TypeDump  `json:"variants,omitempty" yaml:"variants,omitempty"`
	Members  []MemberDump `json:"members,omitempty" yaml:"members,omitempty"`
	Params   []ParamDump  `json:"params,omitempty" yaml:"params,omitempty"`
	Return   *TypeDump    `json:"return,omitempty" yaml:"return,omitempty"`
	Async    bool         `json:"async,omitempty" yaml:"async,omitempty"`
}

// UnitDump is a serializable view of a compilation unit.
type UnitDump struct {
	File  string     `json:"file" yaml:"file"`
	Decls []DeclDump `json:"decls" yaml:"decls"`
}

// Dump converts a unit into plain structs suitable for JSON or YAML encoding.
// Owner back-references are dropped so the result is a tree.
func Dump(u *CompilationUnit) UnitDump {
	out := UnitDump{File: u.Name, Decls: make([]DeclDump, 0, len(u.Decls))}
	for _, d := range u.Decls {
		out.Decls = append(out.Decls, dumpDecl(d))
	}
	return out
}

func dumpDecl(d Decl) DeclDump {
	dd := DeclDump{
		Kind:     d.DeclKind(),
		Name:     d.DeclName(),
		Line:     d.Position().Line,
		Doc:      d.DocText(),
		Exported: d.IsExported(),
	}
	switch d := d.(type) {
	case *InterfaceDecl:
		for _, e := range d.Extends {
			dd.Extends = append(dd.Extends, e.Name)
		}
		dd.Members = dumpMembers(d.Members)
	case *TypeAliasDecl:
		dd.Type = DumpType(d.Type)
	case *EnumDecl:
		dd.Const = d.Const
		for _, m := range d.Members {
			em := EnumMemberDump{Name: m.Name, Doc: m.Doc}
			if m.Value != nil {
				em.Value = m.Value.String()
			}
			dd.Cases = append(dd.Cases, em)
		}
	}
	return dd
}

func dumpMembers(members []*Member) []MemberDump {
	out := make([]MemberDump, 0, len(members))
	for _, m := range members {
		out = append(out, MemberDump{
			Name:     m.Name,
			Optional: m.Optional,
			Readonly: m.Readonly,
			Method:   m.Method,
			Doc:      m.Doc,
			Type:     DumpType(m.Type),
		})
	}
	return out
}

// DumpType converts a type expression into a TypeDump.
func DumpType(t TypeExpr) *TypeDump {
	switch t := t.(type) {
	case nil:
		return nil
	case *Primitive:
		return &TypeDump{Kind: "primitive", Name: t.Name}
	case *Reference:
		return &TypeDump{Kind: "reference", Name: t.Name}
	case *Optional:
		return &TypeDump{Kind: "optional", Elem: DumpType(t.Inner)}
	case *Array:
		return &TypeDump{Kind: "array", Elem: DumpType(t.Elem)}
	case *Set:
		return &TypeDump{Kind: "set", Elem: DumpType(t.Elem)}
	case *Map:
		return &TypeDump{Kind: "map", Name: t.Generic, Key: DumpType(t.Key), Val: DumpType(t.Value)}
	case *Literal:
		return &TypeDump{Kind: "literal", Value: t.Value.String()}
	case *Object:
		return &TypeDump{Kind: "object", Members: dumpMembers(t.Members)}
	case *Function:
		td := &TypeDump{Kind: "function", Return: DumpType(t.Return), Async: t.Async}
		for _, p := range t.Params {
			td.Params = append(td.Params, ParamDump{Name: p.Name, Optional: p.Optional, Rest: p.Rest, Type: DumpType(p.Type)})
		}
		return td
	case *Union:
		td := &TypeDump{Kind: "union"}
		for _, v := range t.Variants {
			td.Variants = append(td.Variants, DumpType(v))
		}
		return td
	default:
		panic(fmt.Sprintf("ast: unexpected type expression %T", t))
	}
}
