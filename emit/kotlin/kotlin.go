// Package kotlin renders TypeScript declarations as Kotlin data classes,
// enum classes and type aliases.
package kotlin

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/resolver"
)

const (
	importSerializable = "kotlinx.serialization.Serializable"
	importSerialName   = "kotlinx.serialization.SerialName"
)

// Generator emits Kotlin source.
type Generator struct {
	// TypeMapping maps TypeScript primitives to Kotlin types. Primitives
	// not listed (symbol, null, undefined) have no Kotlin equivalent.
	TypeMapping map[string]string
}

// NewGenerator creates a Kotlin generator with the default type mapping.
func NewGenerator() *Generator {
	return &Generator{
		TypeMapping: map[string]string{
			ast.String:  "String",
			ast.Number:  "Double",
			ast.Boolean: "Boolean",
			ast.BigInt:  "Long",
			ast.Any:     "Any",
			ast.Unknown: "Any",
			ast.ObjectT: "Map<String, Any>",
			ast.Void:    "Unit",
			ast.Never:   "Nothing",
		},
	}
}

// Language returns "kotlin".
func (g *Generator) Language() string { return "kotlin" }

// FileExtension returns "kt".
func (g *Generator) FileExtension() string { return "kt" }

// Emit renders every declaration of unit in source order, preceded by the
// package clause and imports the output needs.
func (g *Generator) Emit(unit *ast.CompilationUnit, table *resolver.Table, opts emit.Options) (string, diag.List) {
	if table == nil {
		table, _ = resolver.Resolve(unit)
	}
	f := &file{
		gen:     g,
		table:   table,
		opts:    opts,
		w:       emit.NewWriter(opts),
		imports: map[string]bool{},
	}
	f.top = &emit.NestedNames{Reserved: f.declared}
	for i, d := range unit.Decls {
		if i > 0 {
			f.w.Line(0, "")
		}
		f.decl(d)
	}
	f.diags.SetFile(unit.Name)

	var out strings.Builder
	if opts.Kotlin.Package != "" {
		fmt.Fprintf(&out, "package %s\n", opts.Kotlin.Package)
		if f.w.Len() > 0 {
			out.WriteByte('\n')
		}
	}
	if len(f.imports) > 0 {
		for _, imp := range []string{importSerialName, importSerializable} {
			if f.imports[imp] {
				fmt.Fprintf(&out, "import %s\n", imp)
			}
		}
		out.WriteByte('\n')
	}
	out.WriteString(f.w.String())
	return out.String(), f.diags
}

func (g *Generator) syntax() *emit.TypeSyntax {
	return &emit.TypeSyntax{
		Primitives: g.TypeMapping,
		Array:      func(elem string) string { return "List<" + elem + ">" },
		Map:        func(k, v string) string { return "Map<" + k + ", " + v + ">" },
		Set:        func(elem string) string { return "Set<" + elem + ">" },
		Optional:   func(inner string) string { return inner + "?" },
		Reference:  toKotlinIdent,
	}
}

// callableSyntax is used for interface members and function type aliases.
func (g *Generator) callableSyntax() *emit.TypeSyntax {
	s := g.syntax()
	s.Function = func(params []string, ret string, async bool) string {
		prefix := ""
		if async {
			prefix = "suspend "
		}
		return prefix + "(" + strings.Join(params, ", ") + ") -> " + ret
	}
	return s
}

// file holds the state of one Emit call.
type file struct {
	gen     *Generator
	table   *resolver.Table
	opts    emit.Options
	w       *emit.Writer
	diags   diag.List
	imports map[string]bool

	// top names types generated at file scope
	top *emit.NestedNames
}

// pending is an inline object waiting to be emitted as a nested class.
type pending struct {
	name string
	obj  *ast.Object
}

// param is one primary constructor parameter, or a commented-out member
// when comment is set.
type param struct {
	doc        string
	serialName string
	text       string
	oneOf      string
	comment    string
}

func (f *file) warn(pos ast.Node, format string, args ...interface{}) {
	f.diags.Addf(diag.EmissionWarning, pos.Position(), format, args...)
}

func (f *file) declared(name string) bool {
	_, ok := f.table.Lookup(name)
	return ok
}

// reserved reports names a nested class inside scope must not take.
func (f *file) reserved(scope []string) func(string) bool {
	return func(name string) bool {
		return f.declared(name) || slices.Contains(scope, name)
	}
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

func (f *file) serializable(level int) {
	if f.opts.Kotlin.Serializable {
		f.imports[importSerializable] = true
		f.w.Line(level, "@Serializable")
	}
}

func (f *file) kdoc(level int, doc string) {
	ls := emit.DocLines(doc)
	if len(ls) == 0 {
		return
	}
	f.w.Line(level, "/**")
	for _, l := range ls {
		l = strings.ReplaceAll(l, "*/", "*&#47;")
		if l == "" {
			f.w.Line(level, " *")
			continue
		}
		f.w.Line(level, " * %s", l)
	}
	f.w.Line(level, " */")
}

func (f *file) decl(d ast.Decl) {
	if f.table.IsDuplicate(d) {
		first, _ := f.table.Lookup(d.DeclName())
		f.w.Line(0, "// duplicate %s %s omitted; first declared at line %d", d.DeclKind(), d.DeclName(), first.Position().Line)
		f.warn(d, "duplicate declaration %q emitted as a comment", d.DeclName())
		return
	}

	switch d := d.(type) {
	case *ast.InterfaceDecl:
		for _, base := range f.table.UnusableBases(d) {
			if _, declared := f.table.Lookup(base); declared {
				f.warn(d, "%s cannot inherit members from %s", d.Name, base)
			}
		}
		f.record(d.Name, d.Doc, f.table.Members(d))

	case *ast.TypeAliasDecl:
		f.alias(d)

	case *ast.EnumDecl:
		e, reason := emit.EnumFromDecl(d)
		if reason != "" {
			f.w.Line(0, "// enum %s omitted: %s", d.Name, reason)
			f.warn(d, "enum %s %s; emitted as a comment", d.Name, reason)
			return
		}
		f.enum(0, d.Name, d.Doc, e)
	}
}

func (f *file) alias(d *ast.TypeAliasDecl) {
	if obj, ok := d.Type.(*ast.Object); ok {
		f.record(d.Name, d.Doc, obj.Members)
		return
	}
	if f.opts.UnionLiterals == emit.UnionLiteralsEnum {
		if e, ok := emit.EnumFromUnion(d.Type); ok {
			f.enum(0, d.Name, d.Doc, e)
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
		f.warn(d, "type alias %s is not representable in Kotlin: %v", d.Name, err)
		return
	}
	for _, p := range nested {
		f.class(0, p.name, "", p.obj.Members, nil)
		f.w.Line(0, "")
	}
	f.kdoc(0, d.Doc)
	f.w.Line(0, "typealias %s = %s%s", toKotlinIdent(d.Name), t.Code, trailing(t.OneOf))
}

// record emits members as an interface when any of them is callable, and
// as a data class otherwise.
func (f *file) record(name, doc string, members []*ast.Member) {
	if slices.ContainsFunc(members, (*ast.Member).Callable) {
		f.iface(name, doc, members)
		return
	}
	f.class(0, name, doc, members, nil)
}

func (f *file) class(level int, name, doc string, members []*ast.Member, scope []string) {
	scope = append(slices.Clone(scope), name)
	names := &emit.NestedNames{Reserved: f.reserved(scope)}
	owner := toKotlinIdent(name)
	idents := f.identifiers(name, members)

	var nested []pending
	var params []param
	live := 0
	for i, m := range members {
		conv := &emit.Converter{Syntax: f.gen.syntax(), Nested: func(obj *ast.Object) string {
			n := names.Pick(owner, m.Name)
			nested = append(nested, pending{n, obj})
			return n
		}}
		mark := len(nested)

		t, err := conv.Convert(m.Type)
		if err != nil {
			nested = nested[:mark]
			params = append(params, param{comment: fmt.Sprintf("// %s (unsupported: %s)", m, emit.Reason(err))})
			f.warn(m, "member %s.%s is not representable in Kotlin: %v", name, m.Name, err)
			continue
		}

		typ := t.Code
		optional := m.Optional || strings.HasSuffix(typ, "?")
		if optional && !strings.HasSuffix(typ, "?") {
			typ += "?"
		}
		kw := "val"
		if f.opts.Kotlin.MutableProperties && !m.Readonly {
			kw = "var"
		}
		ident := idents[i]
		renamed := ident != m.Name
		text := fmt.Sprintf("%s %s: %s", kw, escape(ident), typ)
		if optional && f.opts.Kotlin.NullDefaults {
			text += " = null"
		}
		p := param{doc: m.Doc, text: text, oneOf: t.OneOf}
		if renamed && f.opts.Kotlin.Serializable {
			p.serialName = m.Name
			f.imports[importSerialName] = true
		}
		params = append(params, p)
		live++
	}

	f.kdoc(level, doc)
	f.serializable(level)
	kind := "data class"
	if live == 0 {
		kind = "class"
	}
	header := kind + " " + toKotlinIdent(name)
	body := ""
	if len(nested) > 0 {
		body = " {"
	}

	switch {
	case len(params) == 0:
		f.w.Line(level, "%s%s", header, body)
	case f.fitsOneLine(level, header, body, params):
		texts := make([]string, len(params))
		for i, p := range params {
			texts[i] = p.text
		}
		f.w.Line(level, "%s(%s)%s", header, strings.Join(texts, ", "), body)
	default:
		f.w.Line(level, "%s(", header)
		for _, p := range params {
			if p.comment != "" {
				f.w.Line(level+1, "%s", p.comment)
				continue
			}
			f.kdoc(level+1, p.doc)
			if p.serialName != "" {
				f.w.Line(level+1, "@SerialName(%s)", quote(p.serialName))
			}
			f.w.Line(level+1, "%s,%s", p.text, trailing(p.oneOf))
		}
		f.w.Line(level, ")%s", body)
	}

	if len(nested) == 0 {
		return
	}
	for i, p := range nested {
		if i > 0 {
			f.w.Line(0, "")
		}
		f.class(level+1, p.name, "", p.obj.Members, scope)
	}
	f.w.Line(level, "}")
}

// iface emits an interface with methods as a Kotlin interface. Properties
// are var unless readonly; inline object types become nested classes.
func (f *file) iface(name, doc string, members []*ast.Member) {
	scope := []string{name}
	names := &emit.NestedNames{Reserved: f.reserved(scope)}
	owner := toKotlinIdent(name)
	idents := f.identifiers(name, members)

	f.kdoc(0, doc)
	f.w.Line(0, "interface %s {", owner)
	var nested []pending
	for i, m := range members {
		mark := len(nested)
		conv := &emit.Converter{Syntax: f.gen.callableSyntax(), Nested: func(obj *ast.Object) string {
			n := names.Pick(owner, m.Name)
			nested = append(nested, pending{n, obj})
			return n
		}}

		text, oneOf, err := memberText(conv, idents[i], m)
		if err != nil {
			nested = nested[:mark]
			f.w.Line(1, "// %s (unsupported: %s)", m, emit.Reason(err))
			f.warn(m, "member %s.%s is not representable in Kotlin: %v", name, m.Name, err)
			continue
		}
		if m.Method && m.Optional {
			f.warn(m, "optional method %s.%s is a required interface method in Kotlin", name, m.Name)
		}
		f.kdoc(1, m.Doc)
		f.w.Line(1, "%s%s", text, trailing(oneOf))
	}
	for _, p := range nested {
		f.w.Line(0, "")
		f.class(1, p.name, "", p.obj.Members, scope)
	}
	f.w.Line(0, "}")
}

// memberText renders a method as a fun and anything else as a property.
func memberText(conv *emit.Converter, ident string, m *ast.Member) (text, oneOf string, err error) {
	if fn, ok := m.Type.(*ast.Function); ok && m.Method {
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			pt, err := conv.Param(p)
			if err != nil {
				return "", "", err
			}
			params[i] = escape(p.Name) + ": " + pt.Code
		}
		text = fmt.Sprintf("fun %s(%s)", escape(ident), strings.Join(params, ", "))
		if fn.Async {
			text = "suspend " + text
		}
		if !emit.IsVoid(fn.Return) {
			ret, err := conv.Convert(fn.Return)
			if err != nil {
				return "", "", err
			}
			text += ": " + ret.Code
		}
		return text, "", nil
	}

	t, err := conv.Convert(emit.MemberType(m))
	if err != nil {
		return "", "", err
	}
	kw := "var"
	if m.Readonly {
		kw = "val"
	}
	return fmt.Sprintf("%s %s: %s", kw, escape(ident), t.Code), t.OneOf, nil
}

func (f *file) fitsOneLine(level int, header, body string, params []param) bool {
	width := len(f.opts.Pad(level)) + len(header) + len(body) + 2
	for i, p := range params {
		if p.comment != "" || p.doc != "" || p.serialName != "" || p.oneOf != "" {
			return false
		}
		if i > 0 {
			width += 2
		}
		width += len(p.text)
	}
	return width <= f.opts.LineWidth
}

func (f *file) enum(level int, name, doc string, e emit.Enum) {
	valueType := "String"
	switch {
	case e.Kind == emit.EnumInt && e.Wide():
		valueType = "Long"
	case e.Kind == emit.EnumInt:
		valueType = "Int"
	case e.Kind == emit.EnumDouble:
		valueType = "Double"
	}

	f.kdoc(level, doc)
	f.serializable(level)
	header := fmt.Sprintf("enum class %s(val value: %s)", toKotlinIdent(name), valueType)
	if len(e.Cases) == 0 {
		f.w.Line(level, "%s", header)
		return
	}

	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = entryName(c.Name)
	}
	names = emit.Unique(names)

	f.w.Line(level, "%s {", header)
	for i, c := range e.Cases {
		f.kdoc(level+1, c.Doc)
		if f.opts.Kotlin.Serializable && e.Kind == emit.EnumString {
			f.imports[importSerialName] = true
			f.w.Line(level+1, "@SerialName(%s)", quote(c.Value.Str))
		}
		sep := ","
		if i == len(e.Cases)-1 {
			sep = ""
		}
		f.w.Line(level+1, "%s(%s)%s", escape(names[i]), argument(e, c.Value), sep)
	}
	f.w.Line(level, "}")
}

func entryName(name string) string {
	n := emit.ScreamingSnake(name)
	switch {
	case n == "":
		return "_"
	case n[0] >= '0' && n[0] <= '9':
		return "_" + n
	}
	return n
}

func argument(e emit.Enum, v ast.LiteralValue) string {
	switch e.Kind {
	case emit.EnumString:
		return quote(v.Str)
	case emit.EnumInt:
		s := strconv.FormatInt(int64(v.Num), 10)
		if e.Wide() {
			s += "L"
		}
		return s
	}
	s := strconv.FormatFloat(v.Num, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}


func trailing(oneOf string) string {
	if oneOf == "" {
		return ""
	}
	return " // " + oneOf
}
