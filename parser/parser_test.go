package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
)

func parseOK(t *testing.T, src string) *ast.CompilationUnit {
	t.Helper()
	unit, diags := Parse("test.ts", src)
	require.Empty(t, diags, "unexpected diagnostics: %v", diags)
	return unit
}

func onlyDecl[T ast.Decl](t *testing.T, unit *ast.CompilationUnit) T {
	t.Helper()
	require.Len(t, unit.Decls, 1)
	d, ok := unit.Decls[0].(T)
	require.True(t, ok, "got %T", unit.Decls[0])
	return d
}

func TestParseInterface(t *testing.T) {
	unit := parseOK(t, `
export interface User extends Entity, Named {
  readonly id: string;
  age?: number,
  tags: string[]
  "content-type": string
  readonly: boolean
}`)
	iface := onlyDecl[*ast.InterfaceDecl](t, unit)

	assert.Equal(t, "User", iface.Name)
	assert.True(t, iface.Exported)
	assert.Equal(t, 2, iface.Pos.Line)
	require.Len(t, iface.Extends, 2)
	assert.Equal(t, "Entity", iface.Extends[0].Name)
	assert.Equal(t, "Named", iface.Extends[1].Name)

	require.Len(t, iface.Members, 5)
	id := iface.Members[0]
	assert.Equal(t, "id", id.Name)
	assert.True(t, id.Readonly)
	assert.False(t, id.Optional)
	assert.Equal(t, "string", id.Type.String())
	assert.Same(t, ast.Decl(iface), id.Owner)

	assert.True(t, iface.Members[1].Optional)
	assert.Equal(t, "string[]", iface.Members[2].Type.String())
	assert.True(t, iface.Members[3].Quoted)
	assert.Equal(t, "content-type", iface.Members[3].Name)
	assert.Equal(t, "readonly", iface.Members[4].Name)
	assert.False(t, iface.Members[4].Readonly)
}

func TestParseTypeExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"string", "string"},
		{"Array<number>", "number[]"},
		{"ReadonlyArray<string>", "readonly string[]"},
		{"readonly string[]", "readonly string[]"},
		{"string[][]", "string[][]"},
		{"Record<string, Item>", "Record<string, Item>"},
		{"Map<string, Array<number>>", "Map<string, number[]>"},
		{"Set<string>", "Set<string>"},
		{"string | null", "string | null"},
		{"undefined | Item", "Item | null"},
		{"string | null | undefined", "string | null"},
		{"(string | null)[]", "(string | null)[]"},
		{"| 'a' | 'b'", `"a" | "b"`},
		{"1 | -2 | 3.5", "1 | -2 | 3.5"},
		{"true", "true"},
		{"(A | B) | null", "(A | B) | null"},
		{"{ a: string; b?: number }", "{ a: string; b?: number }"},
		{"null", "null"},
		{"null | undefined", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			unit := parseOK(t, "type T = "+tt.src+";")
			alias := onlyDecl[*ast.TypeAliasDecl](t, unit)
			assert.Equal(t, tt.want, alias.Type.String())
		})
	}
}

func TestOptionalFolding(t *testing.T) {
	unit := parseOK(t, "type T = A | null | B;")
	alias := onlyDecl[*ast.TypeAliasDecl](t, unit)
	opt, ok := alias.Type.(*ast.Optional)
	require.True(t, ok)
	union, ok := opt.Inner.(*ast.Union)
	require.True(t, ok)
	assert.Len(t, union.Variants, 2)
}

func TestParseEnum(t *testing.T) {
	unit := parseOK(t, `
/** Paint colors. */
export const enum Color {
  Red = "RED",
  // the green one
  Green = 'GREEN',
  "Light Blue" = "LIGHT_BLUE",
}
enum Level { Low, Mid = 5, High, Neg = -1, Hex = 0x10, Frac = 2.5 }
`)
	require.Len(t, unit.Decls, 2)

	color := unit.Decls[0].(*ast.EnumDecl)
	assert.True(t, color.Const)
	assert.True(t, color.Exported)
	assert.Equal(t, "Paint colors.", color.Doc)
	require.Len(t, color.Members, 3)
	assert.Equal(t, "RED", color.Members[0].Value.Str)
	assert.Equal(t, "the green one", color.Members[1].Doc)
	assert.Equal(t, "Light Blue", color.Members[2].Name)

	level := unit.Decls[1].(*ast.EnumDecl)
	require.Len(t, level.Members, 6)
	assert.Nil(t, level.Members[0].Value)
	assert.Equal(t, 5.0, level.Members[1].Value.Num)
	assert.Nil(t, level.Members[2].Value)
	assert.Equal(t, -1.0, level.Members[3].Value.Num)
	assert.Equal(t, "-1", level.Members[3].Value.Raw)
	assert.Equal(t, 16.0, level.Members[4].Value.Num)
	assert.Equal(t, 2.5, level.Members[5].Value.Num)
	assert.False(t, level.Members[4].Value.Inexact)
}

func TestLargeIntegerLiterals(t *testing.T) {
	unit := parseOK(t, "enum Big { Max = 0xFFFFFFFFFFFFFFFF, Safe = 9007199254740992, Over = 9007199254740993, Sci = 1e300 }")
	e := onlyDecl[*ast.EnumDecl](t, unit)
	require.Len(t, e.Members, 4)
	assert.True(t, e.Members[0].Value.Inexact)
	assert.Equal(t, "0xFFFFFFFFFFFFFFFF", e.Members[0].Value.String())
	assert.False(t, e.Members[1].Value.Inexact)
	assert.True(t, e.Members[2].Value.Inexact)
	assert.False(t, e.Members[3].Value.Inexact)
}

func TestDocComments(t *testing.T) {
	unit := parseOK(t, `// file header

/**
 * A vehicle.
 *
 * @deprecated use Car
 */
interface Vehicle {
  wheels: number; // trailing, not a doc
  /// Maximum speed
  /// in km/h
  speed: number
  // detached

  plate: string
}`)
	v := onlyDecl[*ast.InterfaceDecl](t, unit)
	assert.Equal(t, "A vehicle.\n\n@deprecated use Car", v.Doc)
	require.Len(t, v.Members, 3)
	assert.Equal(t, "", v.Members[0].Doc)
	assert.Equal(t, "Maximum speed\nin km/h", v.Members[1].Doc)
	assert.Equal(t, "", v.Members[2].Doc)
}

func TestNestedObjectOwner(t *testing.T) {
	unit := parseOK(t, "interface Order { shipping: { address: string; zip?: string } }")
	order := onlyDecl[*ast.InterfaceDecl](t, unit)
	obj, ok := order.Members[0].Type.(*ast.Object)
	require.True(t, ok)
	require.Len(t, obj.Members, 2)
	assert.Same(t, ast.Decl(order), obj.Members[0].Owner)
	assert.True(t, obj.Members[1].Optional)
}

func TestSkippedStatements(t *testing.T) {
	unit := parseOK(t, `
import { Foo } from "./foo";
import type Bar from './bar'
export { Foo };
export * from "./baz";
export type { Qux } from "./qux";
declare interface A { a: string }
export declare enum B { X }
export default interface C { c: number }
;`)
	require.Len(t, unit.Decls, 3)
	assert.Equal(t, "A", unit.Decls[0].DeclName())
	assert.False(t, unit.Decls[0].IsExported())
	assert.Equal(t, "B", unit.Decls[1].DeclName())
	assert.True(t, unit.Decls[1].IsExported())
	assert.Equal(t, "C", unit.Decls[2].DeclName())
}

func TestParseMethods(t *testing.T) {
	unit := parseOK(t, `
interface Greeter {
  readonly id: string;
  /** Says hello */
  sayHello(): void;
  greet(name: string, times?: number): string;
  load(...ids: string[]): Promise<User[]>;
  stop?()
  onChange: (value: string) => void;
  onError: ((e) => void) | null;
}`)
	iface := onlyDecl[*ast.InterfaceDecl](t, unit)
	require.Len(t, iface.Members, 7)

	assert.False(t, iface.Members[0].Callable())

	hello := iface.Members[1]
	assert.True(t, hello.Method)
	assert.Equal(t, "Says hello", hello.Doc)
	assert.Equal(t, "sayHello(): void", hello.String())

	greet := iface.Members[2]
	fn, ok := greet.Type.(*ast.Function)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.True(t, fn.Params[1].Optional)
	assert.Equal(t, "greet(name: string, times?: number): string", greet.String())
	assert.Equal(t, "greet(name: string, times?: number)", greet.Key())

	load := iface.Members[3].Type.(*ast.Function)
	assert.True(t, load.Async)
	assert.True(t, load.Params[0].Rest)
	assert.Equal(t, "User[]", load.Return.String())
	assert.Equal(t, "load(...ids: string[]): Promise<User[]>", iface.Members[3].String())

	stop := iface.Members[4]
	assert.True(t, stop.Method)
	assert.True(t, stop.Optional)
	assert.Equal(t, "void", stop.Type.(*ast.Function).Return.String())

	onChange := iface.Members[5]
	assert.False(t, onChange.Method)
	assert.True(t, onChange.Callable())
	assert.Equal(t, "(value: string) => void", onChange.Type.String())

	onError := iface.Members[6]
	assert.Equal(t, "((e) => void) | null", onError.Type.String())
	assert.True(t, onError.Callable())
	assert.False(t, onError.Method)
}

func TestUnsupportedSyntax(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"class", "class Foo {}", "classes are not supported"},
		{"function", "function f(): void {}", "function declarations are not supported"},
		{"variable", "const x = 1;", "variable declarations are not supported"},
		{"namespace", "namespace N { }", "namespaces are not supported"},
		{"generic interface", "interface Box<T> { v: T }", "generic interfaces are not supported"},
		{"generic alias", "type Box<T> = T[]", "generic type aliases are not supported"},
		{"type args", "type A = Foo<string>", "type arguments on Foo are not supported"},
		{"utility", "type A = Partial<B>", "utility type Partial is not supported"},
		{"generic method", "interface A { run<T>(v: T): T }", "generic methods are not supported"},
		{"destructured param", "interface A { run({ a }: B): void }", "destructured parameters are not supported"},
		{"call signature", "interface A { (x: number): string }", "call signatures are not supported"},
		{"index signature", "interface A { [key: string]: number }", "index signatures are not supported"},
		{"generic function type", "type F = <T>(a: T) => void", "generic function types are not supported"},
		{"bare arrow", "type F = string => void", "unexpected '=>'"},
		{"intersection", "type A = B & C", "intersection types are not supported"},
		{"conditional", "type A = B extends C ? D : E", "conditional types are not supported"},
		{"keyof", "type A = keyof B", "'keyof' type operators are not supported"},
		{"tuple", "type A = [string, number]", "tuple types are not supported"},
		{"indexed access", "type A = B['c']", "indexed access types are not supported"},
		{"computed enum", "enum E { A = 1 << 2 }", "computed enum initializers are not supported"},
		{"reference enum", "enum E { A = B }", "computed enum initializers are not supported"},
		{"missing type", "interface A { name }", `member "name" has no type annotation`},
		{"arity", "type A = Record<string>", "Record expects 2 type argument(s), found 1"},
		{"readonly non-array", "type A = readonly B", "'readonly' is only supported on array types"},
		{"qualified", "type A = NS.B", "qualified type names are not supported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, diags := Parse("test.ts", tt.src)
			assert.Empty(t, unit.Decls)
			require.NotEmpty(t, diags)
			assert.Equal(t, diag.ParseError, diags[0].Kind)
			assert.Equal(t, tt.msg, diags[0].Message)
			assert.Equal(t, "test.ts", diags[0].File)
		})
	}
}

func TestRecoverySurfacesMultipleErrors(t *testing.T) {
	unit, diags := Parse("test.ts", `
interface Good1 { a: string }
class Bad { x = 1; method() { return { nested: true } } }
interface Good2 { b: number }
interface Bad2 { run<T>(): T; other: string }
type Good3 = "x" | "y"
function f() {}
enum Good4 { A }
`)
	names := make([]string, 0, len(unit.Decls))
	for _, d := range unit.Decls {
		names = append(names, d.DeclName())
	}
	assert.Equal(t, []string{"Good1", "Good2", "Good3", "Good4"}, names)

	require.Len(t, diags, 3)
	assert.Equal(t, 3, diags[0].Pos.Line)
	assert.Equal(t, 5, diags[1].Pos.Line)
	assert.Equal(t, 7, diags[2].Pos.Line)
}

func TestRecoveryFromUnclosedBrace(t *testing.T) {
	unit, diags := Parse("test.ts", "interface A {\n  a: string\n  b: (\ninterface B { b: string }\n")
	require.NotEmpty(t, diags)
	require.Len(t, unit.Decls, 1)
	assert.Equal(t, "B", unit.Decls[0].DeclName())
}

func TestLexErrorsAreReported(t *testing.T) {
	unit, diags := Parse("test.ts", "interface A {\n  name: \"oops\n}\n")
	require.NotEmpty(t, diags)
	assert.Equal(t, diag.LexError, diags[0].Kind)
	assert.True(t, diags.HasFatal())
	assert.Empty(t, unit.Decls)
}

func TestMissingSeparator(t *testing.T) {
	_, diags := Parse("test.ts", "interface A { a: string b: number }")
	require.Len(t, diags, 1)
	assert.Equal(t, `expected ';' after member "a", found 'b'`, diags[0].Message)
}

func TestDeterministicPositions(t *testing.T) {
	unit := parseOK(t, "type A = string\ninterface B {\n  x: A\n}")
	require.Len(t, unit.Decls, 2)
	b := unit.Decls[1].(*ast.InterfaceDecl)
	assert.Equal(t, 2, b.Pos.Line)
	assert.Equal(t, 11, b.Pos.Column)
	ref := b.Members[0].Type.(*ast.Reference)
	assert.Equal(t, 3, ref.Pos.Line)
	assert.Equal(t, 6, ref.Pos.Column)
}
