// Package swift renders TypeScript declarations as Swift structs, enums
// and type aliases.
package swift

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/resolver"
)

// Generator emits Swift source.
type Generator struct {
	// TypeMapping maps TypeScript primitives to Swift types. Primitives not
	// listed (any, unknown, object, symbol, ...) have no Swift equivalent.
	TypeMapping map[string]string
}

// NewGenerator creates a Swift generator with the default type mapping.
func NewGenerator() *Generator {
	return &Generator{
		TypeMapping: map[string]string{
			ast.String:  "String",
			ast.Number:  "Double",
			ast.Boolean: "Bool",
			ast.BigInt:  "Int64",
		},
	}
}

// Language returns "swift".
func (g *Generator) Language() string { return "swift" }

// FileExtension returns "swift".
func (g *Generator) FileExtension() string { return "swift" }

// Emit renders every declaration of unit in source order.
func (g *Generator) Emit(unit *ast.CompilationUnit, table *resolver.Table, opts emit.Options) (string, diag.List) {
	if table == nil {
		table, _ = resolver.Resolve(unit)
	}
	f := &file{
		gen:   g,
		table: table,
		opts:  opts,
		w:     emit.NewWriter(opts),
	}
	f.top = &emit.NestedNames{Reserved: f.declared}
	for i, d := range unit.Decls {
		if i > 0 {
			f.w.Line(0, "")
		}
		f.decl(d)
	}
	f.diags.SetFile(unit.Name)
	return f.w.String(), f.diags
}

func (g *Generator) syntax() *emit.TypeSyntax {
	return &emit.TypeSyntax{
		Primitives: g.TypeMapping,
		Array:      func(elem string) string { return "[" + elem + "]" },
		Map:        func(k, v string) string { return "[" + k + ": " + v + "]" },
		Set:        func(elem string) string { return "Set<" + elem + ">" },
		Optional:   func(inner string) string { return inner + "?" },
		Reference:  toSwiftIdent,
	}
}

// callableSyntax is used for protocol requirements and function type
// aliases, which need not be Codable.
func (g *Generator) callableSyntax() *emit.TypeSyntax {
	s := g.syntax()
	s.Primitives = maps.Clone(g.TypeMapping)
	for ts, swift := range map[string]string{
		ast.Any: "Any", ast.Unknown: "Any", ast.ObjectT: "[String: Any]",
		ast.Void: "Void", ast.Undefined: "Void", ast.Never: "Never",
	} {
		if _, ok := s.Primitives[ts]; !ok {
			s.Primitives[ts] = swift
		}
	}
	s.Function = func(params []string, ret string, async bool) string {
		effects := ""
		if async {
			effects = " async throws"
		}
		return "(" + strings.Join(params, ", ") + ")" + effects + " -> " + ret
	}
	return s
}

// file holds the state of one Emit call.
type file struct {
	gen   *Generator
	table *resolver.Table
	opts  emit.Options
	w     *emit.Writer
	diags diag.List

	// top names types generated at file scope
	top *emit.NestedNames
}

// pending is an inline object waiting to be emitted as a nested struct.
type pending struct {
	name string
	obj  *ast.Object
}

func (f *file) warn(pos ast.Node, format string, args ...interface{}) {
	f.diags.Addf(diag.EmissionWarning, pos.Position(), format, args...)
}

func (f *file) declared(name string) bool {
	_, ok := f.table.Lookup(name)
	return ok
}

// reserved reports names a nested type inside scope must not take.
func (f *file) reserved(scope []string) func(string) bool {
	return func(name string) bool {
		return f.declared(name) || name == "CodingKeys" || slices.Contains(scope, name)
	}
}

func (f *file) access(exported bool) string {
	switch f.opts.Swift.Access {
	case emit.AccessPublic:
		return "public "
	case emit.AccessInternal:
		return ""
	}
	if exported {
		return "public "
	}
	return ""
}

func (f *file) doc(level int, doc string) {
	for _, l := range emit.DocLines(doc) {
		if l == "" {
			f.w.Line(level, "///")
			continue
		}
		f.w.Line(level, "/// %s", l)
	}
}

func (f *file) decl(d ast.Decl) {
	if f.table.IsDuplicate(d) {
		first, _ := f.table.Lookup(d.DeclName())
		f.w.Line(0, "// duplicate %s %s omitted; first declared at line %d", d.DeclKind(), d.DeclName(), first.Position().Line)
		f.warn(d, "duplicate declaration %q emitted as a comment", d.DeclName())
		return
	}

	access := f.access(d.IsExported())
	switch d := d.(type) {
	case *ast.InterfaceDecl:
		for _, base := range f.table.UnusableBases(d) {
			if _, declared := f.table.Lookup(base); declared {
				f.warn(d, "%s cannot inherit members from %s", d.Name, base)
			}
		}
		f.record(access, d.Name, d.Doc, f.table.Members(d))

	case *ast.TypeAliasDecl:
		f.alias(access, d)

	case *ast.EnumDecl:
		e, reason := emit.EnumFromDecl(d)
		if reason != "" {
			f.w.Line(0, "// enum %s omitted: %s", d.Name, reason)
			f.warn(d, "enum %s %s; emitted as a comment", d.Name, reason)
			return
		}
		f.enum(0, access, d.Name, d.Doc, e)
	}
}

func (f *file) alias(access string, d *ast.TypeAliasDecl) {
	if obj, ok := d.Type.(*ast.Object); ok {
		f.record(access, d.Name, d.Doc, obj.Members)
		return
	}
	if f.opts.UnionLiterals == emit.UnionLiteralsEnum {
		if e, ok := emit.EnumFromUnion(d.Type); ok {
			f.enum(0, access, d.Name, d.Doc, e)
			return
		}
	}

	syntax := f.gen.syntax()
	if emit.HasFunction(d.Type) {
		syntax = f.gen.callableSyntax()
	}
	var nested []pending
	conv := &emit.Converter{Syntax: syntax, Nested: func(obj *ast.Object) string {
		name := f.top.Pick("", d.Name+"Item")
		nested = append(nested, pending{name, obj})
		return name
	}}
	t, err := conv.Convert(d.Type)
	if err != nil {
		f.w.Line(0, "// typealias %s = %s (unsupported: %s)", d.Name, d.Type, emit.Reason(err))
		f.warn(d, "type alias %s is not representable in Swift: %v", d.Name, err)
		return
	}
	for _, p := range nested {
		f.structure(0, access, p.name, "", p.obj.Members, nil)
		f.w.Line(0, "")
	}
	f.doc(0, d.Doc)
	f.w.Line(0, "%stypealias %s = %s%s", access, toSwiftIdent(d.Name), t.Code, trailing(t.OneOf))
}

// property is a rendered struct member.
type property struct {
	member  *ast.Member
	ident   string
	renamed bool
}

// record emits members as a protocol when any of them is callable, and as a
// struct otherwise.
func (f *file) record(access, name, doc string, members []*ast.Member) {
	if slices.ContainsFunc(members, (*ast.Member).Callable) {
		f.protocol(access, name, doc, members)
		return
	}
	f.structure(0, access, name, doc, members, nil)
}

// identifiers returns distinct member identifiers, warning about members
// renamed to avoid a clash.
func (f *file) identifiers(owner string, members []*ast.Member) []string {
	idents := emit.MemberIdentifiers(members)
	for i, m := range members {
		if base, _ := emit.Identifier(m.Name); base != idents[i] {
			f.warn(m, "member %s.%s renamed to %s to avoid a clash", owner, m.Name, idents[i])
		}
	}
	return idents
}

func (f *file) structure(level int, access, name, doc string, members []*ast.Member, scope []string) {
	f.doc(level, doc)
	conformance := ""
	if f.opts.Swift.Codable {
		conformance = ": Codable"
	}
	header := fmt.Sprintf("%sstruct %s%s", access, toSwiftIdent(name), conformance)
	if len(members) == 0 {
		f.w.Line(level, "%s {}", header)
		return
	}
	f.w.Line(level, "%s {", header)

	scope = append(slices.Clone(scope), name)
	names := &emit.NestedNames{Reserved: f.reserved(scope)}
	owner := toSwiftIdent(name)
	idents := f.identifiers(name, members)

	var nested []pending
	var props []property
	for i, m := range members {
		mark := len(nested)
		conv := &emit.Converter{Syntax: f.gen.syntax(), Nested: func(obj *ast.Object) string {
			n := names.Pick(owner, m.Name)
			nested = append(nested, pending{n, obj})
			return n
		}}

		t, err := conv.Convert(m.Type)
		if err != nil {
			nested = nested[:mark]
			f.w.Line(level+1, "// %s (unsupported: %s)", m, emit.Reason(err))
			f.warn(m, "member %s.%s is not representable in Swift: %v", name, m.Name, err)
			continue
		}

		typ := t.Code
		if m.Optional && !strings.HasSuffix(typ, "?") {
			typ += "?"
		}
		ident := idents[i]
		kw := "var"
		if m.Readonly {
			kw = "let"
		}
		f.doc(level+1, m.Doc)
		f.w.Line(level+1, "%s%s %s: %s%s", access, kw, escape(ident), typ, trailing(t.OneOf))
		props = append(props, property{member: m, ident: ident, renamed: ident != m.Name})
	}

	for _, p := range nested {
		f.w.Line(0, "")
		f.structure(level+1, access, p.name, "", p.obj.Members, scope)
	}
	if f.opts.Swift.Codable && anyRenamed(props) {
		f.w.Line(0, "")
		f.codingKeys(level+1, props)
	}
	f.w.Line(level, "}")
}

// requirement is one rendered protocol requirement.
type requirement struct {
	doc  string
	text string
}

// protocol emits an interface with methods as a protocol. Inline object
// types become file scope structs, since protocols cannot nest types.
func (f *file) protocol(access, name, doc string, members []*ast.Member) {
	owner := toSwiftIdent(name)
	idents := f.identifiers(name, members)

	var hoisted []pending
	var reqs []requirement
	for i, m := range members {
		mark := len(hoisted)
		conv := &emit.Converter{Syntax: f.gen.callableSyntax(), Nested: func(obj *ast.Object) string {
			n := f.top.Pick("", owner+emit.PascalCase(m.Name))
			hoisted = append(hoisted, pending{n, obj})
			return n
		}}

		text, err := requirementText(conv, idents[i], m)
		if err != nil {
			hoisted = hoisted[:mark]
			reqs = append(reqs, requirement{text: fmt.Sprintf("// %s (unsupported: %s)", m, emit.Reason(err))})
			f.warn(m, "member %s.%s is not representable in Swift: %v", name, m.Name, err)
			continue
		}
		if m.Method && m.Optional {
			f.warn(m, "optional method %s.%s is a required protocol method in Swift", name, m.Name)
		}
		reqs = append(reqs, requirement{doc: m.Doc, text: text})
	}

	for _, p := range hoisted {
		f.structure(0, access, p.name, "", p.obj.Members, nil)
		f.w.Line(0, "")
	}
	f.doc(0, doc)
	f.w.Line(0, "%sprotocol %s {", access, owner)
	for _, r := range reqs {
		f.doc(1, r.doc)
		f.w.Line(1, "%s", r.text)
	}
	f.w.Line(0, "}")
}

// requirementText renders a method as a func requirement and anything else
// as a property requirement, gettable only when readonly.
func requirementText(conv *emit.Converter, ident string, m *ast.Member) (string, error) {
	if fn, ok := m.Type.(*ast.Function); ok && m.Method {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			pt, err := conv.Param(p)
			if err != nil {
				return "", err
			}
			params[i] = escape(p.Name) + ": " + pt.Code
		}
		sig := fmt.Sprintf("func %s(%s)", escape(ident), strings.Join(params, ", "))
		if fn.Async {
			sig += " async throws"
		}
		if !emit.IsVoid(fn.Return) {
			ret, err := conv.Convert(fn.Return)
			if err != nil {
				return "", err
			}
			sig += " -> " + ret.Code
		}
		return sig, nil
	}

	t, err := conv.Convert(emit.MemberType(m))
	if err != nil {
		return "", err
	}
	accessors := "{ get set }"
	if m.Readonly {
		accessors = "{ get }"
	}
	return fmt.Sprintf("var %s: %s %s%s", escape(ident), t.Code, accessors, trailing(t.OneOf)), nil
}

func (f *file) codingKeys(level int, props []property) {
	f.w.Line(level, "enum CodingKeys: String, CodingKey {")
	for _, p := range props {
		if p.renamed {
			f.w.Line(level+1, "case %s = %s", escape(p.ident), quote(p.member.Name))
			continue
		}
		f.w.Line(level+1, "case %s", escape(p.ident))
	}
	f.w.Line(level, "}")
}

func (f *file) enum(level int, access, name, doc string, e emit.Enum) {
	f.doc(level, doc)
	var conformance []string
	switch e.Kind {
	case emit.EnumString:
		conformance = append(conformance, "String")
	case emit.EnumInt:
		conformance = append(conformance, "Int")
	case emit.EnumDouble:
		conformance = append(conformance, "Double")
	}
	if f.opts.Swift.Codable {
		conformance = append(conformance, "Codable")
	}
	header := fmt.Sprintf("%senum %s: %s", access, toSwiftIdent(name), strings.Join(conformance, ", "))
	if len(e.Cases) == 0 {
		f.w.Line(level, "%s {}", header)
		return
	}

	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = caseName(c.Name)
	}
	names = emit.Unique(names)

	f.w.Line(level, "%s {", header)
	for i, c := range e.Cases {
		f.doc(level+1, c.Doc)
		f.w.Line(level+1, "case %s = %s", escape(names[i]), rawValue(e.Kind, c.Value))
	}
	f.w.Line(level, "}")
}

func caseName(name string) string {
	n := emit.CamelCase(name)
	switch {
	case n == "":
		return "_"
	case n[0] >= '0' && n[0] <= '9':
		return "_" + n
	}
	return n
}

func rawValue(kind emit.EnumKind, v ast.LiteralValue) string {
	switch kind {
	case emit.EnumString:
		return quote(v.Str)
	case emit.EnumInt:
		return strconv.FormatInt(int64(v.Num), 10)
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

func anyRenamed(props []property) bool {
	for _, p := range props {
		if p.renamed {
			return true
		}
	}
	return false
}

func trailing(oneOf string) string {
	if oneOf == "" {
		return ""
	}
	return " // " + oneOf
}
