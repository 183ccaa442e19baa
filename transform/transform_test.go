package transform

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/errors"
)

func ptr(s string) *string { return &s }

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// =============================================================================
// Targets
// =============================================================================

func TestEmitterFor(t *testing.T) {
	for target, want := range map[string]string{
		"swift": "swift", "kotlin": "kotlin", "kt": "kotlin", "KTS": "kotlin",
	} {
		em, err := EmitterFor(target)
		require.NoError(t, err, target)
		assert.Equal(t, want, em.Language())
	}

	_, err := EmitterFor("rust")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownTargetError(err))
	assert.Contains(t, errors.FlattenHints(err), "kotlin, swift")
}

func TestResolveTarget(t *testing.T) {
	em, err := ResolveTarget("", "out/Models.swift")
	require.NoError(t, err)
	assert.Equal(t, "swift", em.Language())

	em, err = ResolveTarget("", "Models.kt")
	require.NoError(t, err)
	assert.Equal(t, "kotlin", em.Language())

	em, err = ResolveTarget("kotlin", "Models.swift")
	require.NoError(t, err)
	assert.Equal(t, "kotlin", em.Language())

	_, err = ResolveTarget("", "Models.txt")
	assert.True(t, errors.IsUnknownTargetError(err))
	_, err = ResolveTarget("", "Models")
	assert.True(t, errors.IsUnknownTargetError(err))
}

// =============================================================================
// Source
// =============================================================================

func TestSourceKotlin(t *testing.T) {
	r, err := Source("foo.ts", "interface Foo { readonly id: string; age?: number; }", "kotlin", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, "kotlin", r.Target)
	assert.Contains(t, r.Code, "data class Foo(val id: String, val age: Double?)")
	assert.NoError(t, r.Err())
}

func TestSourceBanner(t *testing.T) {
	opts := DefaultOptions()
	opts.Banner = ptr("// AUTO-GENERATED")
	r, err := Source("a.ts", "interface A { x: string }", "swift", opts)
	require.NoError(t, err)
	assert.Equal(t, "// AUTO-GENERATED", strings.SplitN(r.Code, "\n", 2)[0])
	assert.Equal(t, "// AUTO-GENERATED\n\nstruct A: Codable {\n    var x: String\n}\n", r.Code)
}

func TestSourceBannerAndFooterCommented(t *testing.T) {
	opts := DefaultOptions()
	opts.Banner = ptr("Generated file.\n\nDo not edit.")
	opts.Footer = ptr("end")
	r, err := Source("a.ts", "type Id = string;", "kotlin", opts)
	require.NoError(t, err)
	assert.Equal(t, "// Generated file.\n//\n// Do not edit.\n\ntypealias Id = String\n\n// end\n", r.Code)
}

func TestSourceBannerBeforePackage(t *testing.T) {
	opts := DefaultOptions()
	opts.Banner = ptr("/* generated */")
	opts.Emit.Kotlin.Package = "com.example"
	r, err := Source("a.ts", "type Id = string;", "kotlin", opts)
	require.NoError(t, err)
	assert.Equal(t, "/* generated */\n\npackage com.example\n\ntypealias Id = String\n", r.Code)
}

func TestSourceFatal(t *testing.T) {
	r, err := Source("bad.ts", `type A = "unterminated`, "swift", DefaultOptions())
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.Empty(t, r.Code)
	assert.Positive(t, r.Diagnostics.Count(diag.LexError))
	assert.True(t, errors.Is(r.Err(), errors.ErrFatalDiagnostics))
}

func TestSourceNonFatalDiagnostics(t *testing.T) {
	src := "interface A { b: Missing; c: Missing }\ninterface A { x: string }"
	r, err := Source("a.ts", src, "swift", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, 1, r.Diagnostics.Count(diag.ResolutionError))
	assert.Equal(t, 1, r.Diagnostics.Count(diag.DuplicateDeclarationError))
	assert.Equal(t, 1, r.Diagnostics.Count(diag.EmissionWarning))
	for _, d := range r.Diagnostics {
		assert.Equal(t, "a.ts", d.File)
	}
	assert.Contains(t, r.Code, "var b: Missing")
}

func TestSourceEmpty(t *testing.T) {
	for _, target := range []string{"swift", "kotlin"} {
		r, err := Source("empty.ts", "// nothing here\n", target, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, r.Success)
		assert.Equal(t, "\n", r.Code, target)
	}
}

func TestSourceMethods(t *testing.T) {
	src := `
/** Hello World!! */
interface HelloWorld {
  readonly id: string;
  sayHello(): void;
}`
	r, err := Source("hello.ts", src, "swift", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Contains(t, r.Code, "protocol HelloWorld {\n    var id: String { get }\n    func sayHello()\n}\n")

	r, err = Source("hello.ts", src, "kotlin", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Contains(t, r.Code, "interface HelloWorld {\n    val id: String\n    fun sayHello()\n}\n")
}

func TestSourceUnknownTarget(t *testing.T) {
	_, err := Source("a.ts", "", "java", DefaultOptions())
	assert.True(t, errors.IsUnknownTargetError(err))
}

// =============================================================================
// Run
// =============================================================================

func TestRunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "models.ts", "export interface User { id: string }")
	out := filepath.Join(dir, "gen", "Models.swift")

	r, err := Run(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.True(t, r.Written)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, r.Code, string(data))
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestRunFatalWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.ts", "interface A { name: 'oops }")
	out := filepath.Join(dir, "A.kt")

	r, err := Run(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, r.Success)
	assert.False(t, r.Written)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunInfrastructureErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), filepath.Join(dir, "missing.ts"), filepath.Join(dir, "a.swift"), DefaultOptions())
	assert.Error(t, err)

	src := writeSource(t, dir, "a.ts", "type A = string;")
	_, err = Run(context.Background(), src, filepath.Join(dir, "a.java"), DefaultOptions())
	assert.True(t, errors.IsUnknownTargetError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, src, filepath.Join(dir, "a.swift"), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFormatter(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.ts", "type A = string;")
	out := filepath.Join(dir, "a.swift")

	opts := DefaultOptions()
	opts.Format = `sh -c 'echo "// formatted" >> "$0"'`
	r, err := Run(context.Background(), src, out, opts)
	require.NoError(t, err)
	require.True(t, r.Written)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "typealias A = String\n// formatted\n", string(data))
}

// =============================================================================
// Batch
// =============================================================================

func TestPlan(t *testing.T) {
	dir := t.TempDir()

	jobs, err := Plan([]string{"a.ts"}, filepath.Join(dir, "A.swift"), "")
	require.NoError(t, err)
	assert.Equal(t, []Job{{Source: "a.ts", Output: filepath.Join(dir, "A.swift")}}, jobs)

	jobs, err = Plan([]string{"src/user.ts", "src/order.d.ts"}, dir, "kt")
	require.NoError(t, err)
	assert.Equal(t, []Job{
		{Source: "src/user.ts", Output: filepath.Join(dir, "user.kt")},
		{Source: "src/order.d.ts", Output: filepath.Join(dir, "order.kt")},
	}, jobs)

	_, err = Plan([]string{"a.ts", "b.ts"}, dir, "")
	assert.True(t, errors.IsUnknownTargetError(err))

	_, err = Plan(nil, dir, "swift")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a", "b", "c", "d"} {
		src := writeSource(t, dir, name+".ts", "export interface "+strings.ToUpper(name)+" { id: string }")
		jobs = append(jobs, Job{Source: src, Output: filepath.Join(dir, "out", name+".swift")})
	}
	jobs = append(jobs, Job{
		Source: writeSource(t, dir, "bad.ts", "interface {"),
		Output: filepath.Join(dir, "out", "bad.swift"),
	})

	results, err := Batch(context.Background(), jobs, DefaultOptions(), 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))
	for i, r := range results[:4] {
		require.NotNil(t, r)
		assert.True(t, r.Written, jobs[i].Source)
		assert.FileExists(t, jobs[i].Output)
	}
	assert.False(t, results[4].Success)
	assert.NoFileExists(t, jobs[4].Output)
}

func TestBatchRejectsSharedOutput(t *testing.T) {
	jobs := []Job{{Source: "a.ts", Output: "out/x.swift"}, {Source: "b.ts", Output: "out/./x.swift"}}
	_, err := Batch(context.Background(), jobs, DefaultOptions(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced by both a.ts and b.ts")
}

func TestBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.ts", "type A = string;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Batch(ctx, []Job{{Source: src, Output: filepath.Join(dir, "a.swift")}}, DefaultOptions(), 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results[0])
	assert.NoFileExists(t, filepath.Join(dir, "a.swift"))
}

// =============================================================================
// Check
// =============================================================================

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.ts", "interface A { x: string; y: number }")
	out := filepath.Join(dir, "A.swift")

	c, err := Check(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, c.Stale, "missing output is stale")
	assert.True(t, errors.IsStaleError(c.Err()))

	_, err = Run(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	c, err = Check(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, c.Stale)
	assert.Empty(t, c.Diff)
	assert.NoError(t, c.Err())

	require.NoError(t, os.WriteFile(out, []byte("struct A: Codable {\n    var x: String\n}\n"), 0o644))
	c, err = Check(context.Background(), src, out, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, c.Stale)
	assert.Contains(t, c.Diff, "+    var y: Double\n")
	assert.Contains(t, c.Diff, "--- "+out+"\n")
}

func TestUnifiedDiff(t *testing.T) {
	before := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\n"
	after := "a\nb\nc\nd\nE\nf\ng\nh\ni\nj\n"
	assert.Equal(t, strings.Join([]string{
		"--- x\n+++ x (generated)\n",
		"@@ -2,7 +2,7 @@\n",
		" b\n c\n d\n",
		"-e\n+E\n",
		" f\n g\n h\n",
	}, ""), UnifiedDiff("x", before, after))

	assert.Empty(t, UnifiedDiff("x", "same\n", "same\n"))
	assert.Equal(t, "--- x\n+++ x (generated)\n@@ -0,0 +1,1 @@\n+new\n", UnifiedDiff("x", "", "new\n"))
}
