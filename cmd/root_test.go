package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/presentation"
)

// testConfig writes a default config file into a temp dir and applies
// key/value overrides.
func testConfig(t *testing.T, overrides ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	for i := 0; i+1 < len(overrides); i += 2 {
		require.NoError(t, config.SaveValue(path, overrides[i], overrides[i+1]))
	}
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSource(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))
	return path
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestIndent_Cpp(t *testing.T) {
	src := writeSource(t, "call.cpp", "foo(int a,")

	out, err := execute(t, testConfig(t), "indent", src, "--row", "0", "--json")

	require.NoError(t, err)
	got := decode[presentation.IndentDTO](t, out)
	assert.Equal(t, "trailingComma", got.Rule)
	assert.Equal(t, "    ", got.Indent)
	assert.Equal(t, 4, got.Width)
	assert.Nil(t, got.Column)
}

func TestIndent_AtCaret(t *testing.T) {
	src := writeSource(t, "call.R", "foo(a, b)")

	out, err := execute(t, testConfig(t), "indent", src, "--row", "0", "--col", "7", "--json")

	require.NoError(t, err)
	got := decode[presentation.IndentDTO](t, out)
	require.NotNil(t, got.Column)
	assert.Equal(t, 7, *got.Column)
	assert.Equal(t, "    ", got.Indent)
}

func TestIndent_TextOutput(t *testing.T) {
	src := writeSource(t, "f.R", "f <- function(x) {")

	out, err := execute(t, testConfig(t), "indent", src, "--row", "0")

	require.NoError(t, err)
	assert.Contains(t, out, "row 0")
	assert.Contains(t, out, `"··"`)
}

func TestIndent_LanguageFlagOverridesExtension(t *testing.T) {
	src := writeSource(t, "script.txt", "f <- function(x) {")

	_, err := execute(t, testConfig(t), "indent", src, "--row", "0")
	require.Error(t, err)

	out, err := execute(t, testConfig(t), "--language", "r", "indent", src, "--row", "0", "--json")
	require.NoError(t, err)
	assert.Equal(t, "  ", decode[presentation.IndentDTO](t, out).Indent)
}

func TestIndent_RowOutOfRange(t *testing.T) {
	src := writeSource(t, "a.cpp", "int x;")

	_, err := execute(t, testConfig(t), "indent", src, "--row", "5")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReindent_PrintsResult(t *testing.T) {
	src := writeSource(t, "f.R",
		"f <- function(x) {",
		"if (x)",
		"print(x)",
		"}",
	)

	out, err := execute(t, testConfig(t), "reindent", src)

	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"f <- function(x) {",
		"  if (x)",
		"    print(x)",
		"}",
	}, "\n")+"\n", out)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\nif (x)\n", "file untouched without --write")
}

func TestReindent_WriteAndCheck(t *testing.T) {
	cfg := testConfig(t, "indent.tab_size", "4")
	src := writeSource(t, "main.cpp",
		"int main() {",
		"if (x) {",
		"y = 1;",
		"}",
		"",
		"return 0;",
		"}",
	)

	out, err := execute(t, cfg, "reindent", src, "--check", "--json")
	require.ErrorIs(t, err, errMisindented)
	report := decode[presentation.CheckDTO](t, out)
	require.Len(t, report.Rows, 4)
	assert.Equal(t, presentation.RowFixDTO{Row: 2, Have: "", Want: "        "}, report.Rows[1])

	out, err = execute(t, cfg, "reindent", src, "--write", "--json")
	require.NoError(t, err)
	result := decode[presentation.ReindentDTO](t, out)
	assert.Equal(t, []int{1, 2, 3, 5}, result.Changed)
	assert.True(t, result.Written)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n        y = 1;\n")

	_, err = execute(t, cfg, "reindent", src, "--check")
	assert.NoError(t, err)
}

func TestReindent_CheckHonoursRowRange(t *testing.T) {
	cfg := testConfig(t, "indent.tab_size", "4")
	src := writeSource(t, "main.cpp",
		"int main() {",
		"if (x) {",
		"y = 1;",
		"}",
		"}",
	)

	out, err := execute(t, cfg, "reindent", src, "--check", "--from", "2", "--to", "2", "--json")

	require.ErrorIs(t, err, errMisindented)
	report := decode[presentation.CheckDTO](t, out)
	assert.Equal(t, []presentation.RowFixDTO{{Row: 2, Have: "", Want: "    "}}, report.Rows)

	_, err = execute(t, cfg, "reindent", src, "--check", "--from", "3", "--to", "3")
	assert.NoError(t, err)
}

func TestReindent_Diff(t *testing.T) {
	src := writeSource(t, "f.R",
		"f <- function(x) {",
		"print(x)",
		"}",
	)

	out, err := execute(t, testConfig(t), "reindent", src, "--diff")

	require.NoError(t, err)
	assert.Contains(t, out, "-print(x)\n")
	assert.Contains(t, out, "+  print(x)\n")
}

func TestExpand_ToDocument(t *testing.T) {
	src := writeSource(t, "x.cpp", "x = foo(bar, baz);", "int y;")

	out, err := execute(t, testConfig(t), "expand", src, "--row", "0", "--col", "9", "--json")

	require.NoError(t, err)
	got := decode[presentation.ExpandDTO](t, out)
	rules := make([]string, len(got.Steps))
	for i, s := range got.Steps {
		rules[i] = s.Rule
	}
	assert.Equal(t, []string{"token", "matching", "includeBoundaries", "statement", "scope"}, rules)
	assert.Equal(t, "bar", got.Steps[0].Text)
	assert.Equal(t, "foo(bar, baz)", got.Steps[2].Text)
	assert.Equal(t, presentation.RangeDTO{End: presentation.PositionDTO{Row: 1, Column: 6}}, got.Final)
}

func TestExpand_StepsAndShrink(t *testing.T) {
	src := writeSource(t, "x.cpp", "x = foo(bar, baz);")

	out, err := execute(t, testConfig(t), "expand", src, "--row", "0", "--col", "9", "--steps", "2", "--shrink", "1", "--json")

	require.NoError(t, err)
	got := decode[presentation.ExpandDTO](t, out)
	require.Len(t, got.Steps, 2)
	require.Len(t, got.Shrunk, 1)
	assert.Equal(t, got.Steps[0].Range, got.Final)
}

func TestExpand_TextOutput(t *testing.T) {
	src := writeSource(t, "x.cpp", "x = foo(bar, baz);")

	out, err := execute(t, testConfig(t), "expand", src, "--row", "0", "--col", "9", "--steps", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "expand 1 token (0,8)-(0,11)")
	assert.Contains(t, out, "final (0,8)-(0,11)")
}

func TestExpand_RejectsBackwardSelection(t *testing.T) {
	src := writeSource(t, "x.cpp", "x = foo(bar, baz);")

	_, err := execute(t, testConfig(t), "expand", src, "--row", "0", "--col", "9", "--end-row", "0", "--end-col", "2")

	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	src := writeSource(t, "x.cpp", "x = foo(bar(1), baz);")

	out, err := execute(t, testConfig(t), "match", src, "--row", "0", "--col", "7", "--json")
	require.NoError(t, err)
	got := decode[presentation.MatchDTO](t, out)
	require.True(t, got.Found)
	assert.Equal(t, ")", got.To.Value)
	assert.Equal(t, 19, got.To.Column)

	out, err = execute(t, testConfig(t), "match", src, "--row", "0", "--col", "19", "--json")
	require.NoError(t, err)
	got = decode[presentation.MatchDTO](t, out)
	assert.Equal(t, 7, got.To.Column)

	_, err = execute(t, testConfig(t), "match", src, "--row", "0", "--col", "0")
	assert.ErrorContains(t, err, "not a bracket")
}

func TestMatch_Unbalanced(t *testing.T) {
	src := writeSource(t, "x.cpp", "foo(bar")

	out, err := execute(t, testConfig(t), "match", src, "--row", "0", "--col", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "has no match")
}

func TestOutline(t *testing.T) {
	src := writeSource(t, "f.R",
		"outer <- function(a) {",
		"  inner <- function(b) {",
		"    b + 1",
		"  }",
		"}",
	)

	out, err := execute(t, testConfig(t), "outline", src, "--json")

	require.NoError(t, err)
	got := decode[[]presentation.OutlineEntryDTO](t, out)
	require.Len(t, got, 1)
	assert.Equal(t, "outer", got[0].Label)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, "inner", got[0].Children[0].Label)
}

func TestOutline_Empty(t *testing.T) {
	src := writeSource(t, "a.cpp", "int x;")

	out, err := execute(t, testConfig(t), "outline", src, "--json")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestTokens(t *testing.T) {
	src := writeSource(t, "a.cpp", "// note", "int x;")

	out, err := execute(t, testConfig(t), "tokens", src, "--json")
	require.NoError(t, err)
	rows := decode[[]presentation.TokenRowDTO](t, out)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].Tokens, "comments are not stored")

	out, err = execute(t, testConfig(t), "tokens", src, "--row", "1", "--json")
	require.NoError(t, err)
	rows = decode[[]presentation.TokenRowDTO](t, out)
	require.Len(t, rows, 1)
	values := make([]string, 0, len(rows[0].Tokens))
	for _, tok := range rows[0].Tokens {
		values = append(values, tok.Value)
	}
	assert.Equal(t, []string{"int", "x", ";"}, values)
}

func TestTokens_ChromaLexer(t *testing.T) {
	src := writeSource(t, "a.cpp", "int x;")

	out, err := execute(t, testConfig(t), "tokens", src, "--lexer", "chroma", "--json")

	require.NoError(t, err)
	rows := decode[[]presentation.TokenRowDTO](t, out)
	require.Len(t, rows, 1)
	assert.NotEmpty(t, rows[0].Tokens)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	cfg := testConfig(t, "indent.tab_size", "0")
	src := writeSource(t, "a.cpp", "int x;")

	_, err := execute(t, cfg, "tokens", src)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTracingWritesCommandSpan(t *testing.T) {
	traces := filepath.Join(t.TempDir(), "traces.jsonl")
	cfg := testConfig(t, "tracing.enabled", "true", "tracing.exporter", "file", "tracing.file_path", traces)
	src := writeSource(t, "a.cpp", "foo(int a,")

	_, err := execute(t, cfg, "indent", src, "--row", "0")
	require.NoError(t, err)

	data, err := os.ReadFile(traces)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"command.indent"`)
	assert.Contains(t, string(data), "trailingComma")
}
