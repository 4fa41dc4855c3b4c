package presentation

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/codenav/internal/scope"
	"github.com/zjrosen/codenav/internal/token"
)

func TestFromOutline(t *testing.T) {
	entries := []scope.Entry{{
		Label:    "f",
		Preamble: token.Position{Row: 0, Column: 0},
		End:      token.Position{Row: 4, Column: 0},
		Closed:   true,
		Children: []scope.Entry{{
			Label:    "g",
			Preamble: token.Position{Row: 1, Column: 2},
			End:      token.Position{Row: 3, Column: 0},
			Closed:   true,
			Depth:    1,
		}},
	}}

	got := FromOutline(entries)

	require.Len(t, got, 1)
	assert.Equal(t, "f", got[0].Label)
	assert.Equal(t, PositionDTO{Row: 4}, got[0].End)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, PositionDTO{Row: 1, Column: 2}, got[0].Children[0].Start)
	assert.NotNil(t, got[0].Children[0].Children)
}

func TestRangeDTO_Range(t *testing.T) {
	r := token.NewRange(1, 2, 3, 4)
	assert.Equal(t, r, FromRange(r).Range())
}

func TestFormatter_EmptyCollections(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	require.NoError(t, f.FormatOutline(nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatCheck(CheckDTO{File: "a.cpp"}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["rows"])
}

func TestFormatter_IndentOmitsEmptyFields(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewFormatter(&buf).Format(IndentDTO{File: "a.r", Row: 2, Indent: "  ", Width: 2, Rule: "header"}))

	assert.NotContains(t, buf.String(), "column")
	assert.NotContains(t, buf.String(), `"line"`)
	assert.Contains(t, buf.String(), `"rule": "header"`)
}

func TestLineDiff(t *testing.T) {
	before := "a\n  b\nc\n"
	after := "a\n    b\nc\n"

	lines := LineDiff(before, after)

	assert.True(t, Changed(lines))
	assert.Equal(t, []DiffLine{
		{Op: DiffKeep, OldRow: 0, NewRow: 0, Text: "a"},
		{Op: DiffRemove, OldRow: 1, NewRow: -1, Text: "  b"},
		{Op: DiffAdd, OldRow: -1, NewRow: 1, Text: "    b"},
		{Op: DiffKeep, OldRow: 2, NewRow: 2, Text: "c"},
	}, lines)
}

func TestLineDiff_Unchanged(t *testing.T) {
	lines := LineDiff("x\ny", "x\ny")

	assert.False(t, Changed(lines))
	assert.Len(t, lines, 2)
}

func TestRenderer_Diff_Context(t *testing.T) {
	before := "1\n2\n3\n4\n5\n6\n7\n"
	after := "1\n2\n3\n4\n5\n6\n  7\n"
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf).Diff("f.cpp", LineDiff(before, after), 1))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "--- f.cpp")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, " 6\n")
	assert.Contains(t, out, "-7\n")
	assert.Contains(t, out, "+  7\n")
	assert.NotContains(t, out, " 4\n")
}

func TestRenderer_Expand(t *testing.T) {
	lines := []string{"x = foo(bar);"}
	d := ExpandDTO{
		Steps: []ExpandStepDTO{{Step: 1, Rule: "token", Range: FromRange(token.NewRange(0, 8, 0, 11)), Text: "bar"}},
		Final: FromRange(token.NewRange(0, 8, 0, 11)),
	}
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf).Expand(d, lines))

	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "token")
	assert.Contains(t, out, "(0,8)-(0,11)")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "x = foo(")
}

func TestRenderer_ExpandTruncatesLongRanges(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	d := ExpandDTO{Steps: []ExpandStepDTO{{Step: 1, Rule: "everything", Range: FromRange(token.NewRange(0, 0, 19, 4))}}}
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, WithoutColor()).Expand(d, lines))

	assert.Contains(t, buf.String(), "12 more rows")
}

func TestRenderer_Check(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, WithoutColor())

	require.NoError(t, r.Check(CheckDTO{File: "ok.r"}))
	assert.Contains(t, buf.String(), "ok.r")
	assert.Contains(t, buf.String(), "ok")

	buf.Reset()
	require.NoError(t, r.Check(CheckDTO{File: "bad.r", Rows: []RowFixDTO{{Row: 3, Have: "\t", Want: "  "}}}))
	assert.Contains(t, buf.String(), "1 misindented rows")
	assert.Contains(t, buf.String(), `row 3: have "→" want "··"`)
}

func TestRenderer_Outline(t *testing.T) {
	var buf bytes.Buffer
	entries := []OutlineEntryDTO{{
		Label:  "outer",
		End:    PositionDTO{Row: 5},
		Closed: true,
		Children: []OutlineEntryDTO{{
			Label: "inner",
			Start: PositionDTO{Row: 1, Column: 2},
			End:   PositionDTO{Row: 9},
		}},
	}}

	require.NoError(t, NewRenderer(&buf, WithoutColor()).Outline(entries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "  "))
	assert.Contains(t, lines[1], "unclosed")
	assert.NotContains(t, lines[0], "unclosed")
}

func TestVisible(t *testing.T) {
	assert.Equal(t, "→→··", Visible("\t\t  "))
}

func TestRenderer_WithoutColor(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, WithoutColor()).Check(CheckDTO{File: "a.cpp"}))

	assert.Equal(t, "a.cpp ok\n", buf.String())
}

func TestRenderer_ExpandTruncatesWideRows(t *testing.T) {
	lines := []string{strings.Repeat("x", 300)}
	d := ExpandDTO{Steps: []ExpandStepDTO{{Step: 1, Rule: "token", Range: FromRange(token.NewRange(0, 0, 0, 300))}}}
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, WithoutColor()).Expand(d, lines))

	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 200))
}

func TestRenderer_TokensPadsValues(t *testing.T) {
	var buf bytes.Buffer
	rows := []TokenRowDTO{{Row: 0, State: "start", Tokens: []TokenDTO{
		{Row: 0, Column: 0, Value: "int", Type: "storage.type"},
		{Row: 0, Column: 4, Value: "x", Type: "identifier"},
	}}}

	require.NoError(t, NewRenderer(&buf, WithoutColor()).Tokens(rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "row 0 start", lines[0])
	assert.Equal(t, strings.Index(lines[1], "storage.type"), strings.Index(lines[2], "identifier"))
}
