package kotlin

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/parser"
	"github.com/teranos/typetransform/resolver"
)

// =============================================================================
// Test helpers
// =============================================================================

func generate(t *testing.T, src string, opts emit.Options) (string, diag.List) {
	t.Helper()
	unit, diags := parser.Parse("test.ts", src)
	require.False(t, diags.HasFatal(), "parse failed: %v", diags)
	table, _ := resolver.Resolve(unit)
	return NewGenerator().Emit(unit, table, opts)
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

// =============================================================================
// Data classes
// =============================================================================

func TestGeneratorMetadata(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "kotlin", g.Language())
	assert.Equal(t, "kt", g.FileExtension())
}

func TestDataClass(t *testing.T) {
	out, diags := generate(t, "interface Foo { id: string; age?: number }", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, "data class Foo(val id: String, val age: Double?)\n", out)
}

func TestDataClassWrapsWhenTooWide(t *testing.T) {
	opts := emit.DefaultOptions()
	opts.LineWidth = 40
	out, _ := generate(t, "interface Foo { identifier: string; tags: string[] }", opts)
	assert.Equal(t, lines(
		"data class Foo(",
		"    val identifier: String,",
		"    val tags: List<String>,",
		")",
	), out)
}

func TestDataClassWithDocs(t *testing.T) {
	src := `
/** An account. */
interface Account {
  /** Primary key. */
  id: string;
  status: "open" | "closed";
  handle: symbol;
}`
	out, diags := generate(t, src, emit.DefaultOptions())
	assert.Equal(t, lines(
		"/**",
		" * An account.",
		" */",
		"data class Account(",
		"    /**",
		"     * Primary key.",
		"     */",
		"    val id: String,",
		`    val status: String, // one of: "open", "closed"`,
		"    // handle: symbol (unsupported: symbol has no equivalent)",
		")",
	), out)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.EmissionWarning, diags[0].Kind)
}

func TestEmptyInterface(t *testing.T) {
	out, _ := generate(t, "interface Empty {}", emit.DefaultOptions())
	assert.Equal(t, "class Empty\n", out)
}

func TestLooseTypes(t *testing.T) {
	out, diags := generate(t, "interface Bag { a: any; b: unknown; c: object; d: Map<string, bigint> }", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, "data class Bag(val a: Any, val b: Any, val c: Map<String, Any>, val d: Map<String, Long>)\n", out)
}

func TestMutableAndNullDefaults(t *testing.T) {
	opts := emit.DefaultOptions()
	opts.Kotlin.MutableProperties = true
	opts.Kotlin.NullDefaults = true
	out, _ := generate(t, "interface A { readonly id: string; name?: string; tag: string | null }", opts)
	assert.Equal(t, "data class A(val id: String, var name: String? = null, var tag: String? = null)\n", out)
}

func TestReservedWordsEscaped(t *testing.T) {
	out, _ := generate(t, "interface K { in: number; when: string }", emit.DefaultOptions())
	assert.Equal(t, "data class K(val `in`: Double, val `when`: String)\n", out)
}

func TestNestedClass(t *testing.T) {
	out, diags := generate(t, "interface Order { id: string; shippingAddress: { city: string } }", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, lines(
		"data class Order(val id: String, val shippingAddress: ShippingAddress) {",
		"    data class ShippingAddress(val city: String)",
		"}",
	), out)
}

func TestSerializableWithPackage(t *testing.T) {
	opts := emit.DefaultOptions()
	opts.Kotlin.Package = "com.example"
	opts.Kotlin.Serializable = true
	out, _ := generate(t, `export interface Headers { "content-type": string; accept?: string }`, opts)
	assert.Equal(t, lines(
		"package com.example",
		"",
		"import kotlinx.serialization.SerialName",
		"import kotlinx.serialization.Serializable",
		"",
		"@Serializable",
		"data class Headers(",
		`    @SerialName("content-type")`,
		"    val contentType: String,",
		"    val accept: String?,",
		")",
	), out)
}

func TestPackageOnly(t *testing.T) {
	opts := emit.DefaultOptions()
	opts.Kotlin.Package = "com.example"
	out, _ := generate(t, "", opts)
	assert.Equal(t, "package com.example\n", out)
}

func TestDuplicateDeclaration(t *testing.T) {
	out, diags := generate(t, "type A = string;\ninterface A { y: string }", emit.DefaultOptions())
	assert.Equal(t, lines(
		"typealias A = String",
		"",
		"// duplicate interface A omitted; first declared at line 1",
	), out)
	assert.Len(t, diags, 1)
}

// =============================================================================
// Enums and aliases
// =============================================================================

func TestStringEnum(t *testing.T) {
	out, _ := generate(t, `enum Color { Red = "RED", LightBlue = "LIGHT_BLUE" }`, emit.DefaultOptions())
	assert.Equal(t, lines(
		"enum class Color(val value: String) {",
		`    RED("RED"),`,
		`    LIGHT_BLUE("LIGHT_BLUE")`,
		"}",
	), out)
}

func TestSerializableEnum(t *testing.T) {
	opts := emit.DefaultOptions()
	opts.Kotlin.Serializable = true
	out, _ := generate(t, `enum Color { Red = "red" }`, opts)
	assert.Equal(t, lines(
		"import kotlinx.serialization.SerialName",
		"import kotlinx.serialization.Serializable",
		"",
		"@Serializable",
		"enum class Color(val value: String) {",
		`    @SerialName("red")`,
		`    RED("red")`,
		"}",
	), out)
}

func TestNumericEnums(t *testing.T) {
	out, _ := generate(t, "enum Level { Low, High }", emit.DefaultOptions())
	assert.Equal(t, lines("enum class Level(val value: Int) {", "    LOW(0),", "    HIGH(1)", "}"), out)

	out, _ = generate(t, "enum Big { Huge = 10000000000 }", emit.DefaultOptions())
	assert.Equal(t, lines("enum class Big(val value: Long) {", "    HUGE(10000000000L)", "}"), out)

	out, _ = generate(t, "enum Ratio { Half = 0.5, Whole = 1 }", emit.DefaultOptions())
	assert.Equal(t, lines("enum class Ratio(val value: Double) {", "    HALF(0.5),", "    WHOLE(1.0)", "}"), out)

	out, _ = generate(t, "enum Empty {}", emit.DefaultOptions())
	assert.Equal(t, "enum class Empty(val value: String)\n", out)
}

func TestLiteralUnionAlias(t *testing.T) {
	out, _ := generate(t, "type Code = 200 | 404;", emit.DefaultOptions())
	assert.Equal(t, lines("enum class Code(val value: Int) {", "    VALUE_200(200),", "    VALUE_404(404)", "}"), out)

	opts := emit.DefaultOptions()
	opts.UnionLiterals = emit.UnionLiteralsComment
	out, _ = generate(t, "type Code = 200 | 404;", opts)
	assert.Equal(t, "typealias Code = Double // one of: 200, 404\n", out)
}

func TestAliases(t *testing.T) {
	out, diags := generate(t, "type Ids = string[];\ntype Flags = Set<boolean>;", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, lines("typealias Ids = List<String>", "", "typealias Flags = Set<Boolean>"), out)

	out, diags = generate(t, "type S = symbol;", emit.DefaultOptions())
	assert.Equal(t, "// typealias S = symbol (unsupported: symbol has no equivalent)\n", out)
	assert.Len(t, diags, 1)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"cost: \$5 \"net\""`, quote(`cost: $5 "net"`))
	assert.Equal(t, `"\u0001"`, quote("\x01"))
}

func TestNestedClassDoesNotShadowDeclaration(t *testing.T) {
	src := `
interface User { name: string }
interface Post { user: { id: string }; author: User }`
	out, diags := generate(t, src, emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, lines(
		"data class User(val name: String)",
		"",
		"data class Post(val user: PostUser, val author: User) {",
		"    data class PostUser(val id: String)",
		"}",
	), out)
}

func TestClashingMemberIdentifiers(t *testing.T) {
	out, diags := generate(t, `interface H { "content-type": string; contentType: number }`, emit.DefaultOptions())
	assert.Equal(t, "data class H(val contentType2: String, val contentType: Double)\n", out)
	require.Len(t, diags, 1)
	assert.Equal(t, "member H.content-type renamed to contentType2 to avoid a clash", diags[0].Message)

	opts := emit.DefaultOptions()
	opts.Kotlin.Serializable = true
	out, _ = generate(t, `interface H { "content-type": string; contentType: number }`, opts)
	assert.Contains(t, out, "    @SerialName(\"content-type\")\n    val contentType2: String,\n")
}

// =============================================================================
// Interfaces
// =============================================================================

func TestInterfaceWithMethods(t *testing.T) {
	src := `
interface Greeter {
  /** ID */
  readonly id: string;
  readonly user: User;
  sayHello(): void;
  greet(name: string, times?: number): string;
  load(...ids: string[]): Promise<User[]>;
  onChange: (value: string) => void;
  onError?: (e: string) => Promise<void>;
  settings: { theme: string };
}
interface User { name: string }`
	out, diags := generate(t, src, emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, lines(
		"interface Greeter {",
		"    /**",
		"     * ID",
		"     */",
		"    val id: String",
		"    val user: User",
		"    fun sayHello()",
		"    fun greet(name: String, times: Double?): String",
		"    suspend fun load(ids: List<String>): List<User>",
		"    var onChange: (String) -> Unit",
		"    var onError: (suspend (String) -> Unit)?",
		"    var settings: Settings",
		"",
		"    data class Settings(val theme: String)",
		"}",
		"",
		"data class User(val name: String)",
	), out)
}

func TestMethodOverloadsShareName(t *testing.T) {
	out, diags := generate(t, "interface Bus { on(event: string): void; on(event: string, once: boolean): void }", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, lines(
		"interface Bus {",
		"    fun on(event: String)",
		"    fun on(event: String, once: Boolean)",
		"}",
	), out)
}

func TestFunctionTypeAlias(t *testing.T) {
	out, diags := generate(t, "type Handler = (event: string) => Promise<boolean>", emit.DefaultOptions())
	assert.Empty(t, diags)
	assert.Equal(t, "typealias Handler = suspend (String) -> Boolean\n", out)
}

// =============================================================================
// Determinism
// =============================================================================

func TestRandomPrimitiveInterfaces(t *testing.T) {
	primitives := map[string]string{"string": "String", "number": "Double", "boolean": "Boolean"}
	names := []string{"string", "number", "boolean"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		var src strings.Builder
		var want []string
		fmt.Fprintf(&src, "interface T%d {\n", i)
		for j := 0; j < 1+rng.Intn(4); j++ {
			p := names[rng.Intn(len(names))]
			mark, suffix := "", ""
			if rng.Intn(2) == 0 {
				mark, suffix = "?", "?"
			}
			fmt.Fprintf(&src, "  f%d%s: %s;\n", j, mark, p)
			want = append(want, fmt.Sprintf("val f%d: %s%s", j, primitives[p], suffix))
		}
		src.WriteString("}\n")

		first, diags := generate(t, src.String(), emit.DefaultOptions())
		require.Empty(t, diags)
		second, _ := generate(t, src.String(), emit.DefaultOptions())
		require.Equal(t, first, second)
		require.Equal(t, fmt.Sprintf("data class T%d(%s)\n", i, strings.Join(want, ", ")), first)
	}
}
