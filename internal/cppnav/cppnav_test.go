package cppnav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/codenav/internal/token"
)

func TestBwdOverClassInheritance(t *testing.T) {
	store := storeOf(
		"class Foo :",
		"    public A,",
		"    public B<T> {",
	)
	brace := cursorOn(store, "{", 0)

	colon, ok := BwdOverClassInheritance(brace)
	require.True(t, ok)
	require.Equal(t, ":", colon.Value())
	require.Equal(t, 0, colon.Row())
}

func TestBwdOverClassInheritance_NoBases(t *testing.T) {
	store := storeOf("class Foo {")
	brace := cursorOn(store, "{", 0)

	got, ok := BwdOverClassInheritance(brace)
	require.False(t, ok)
	require.True(t, got.Equal(brace))
}

func TestBwdOverClassySpecifiers_QualifiedTemplateBase(t *testing.T) {
	store := storeOf("struct S : protected virtual ns::Base<std::vector<int>> {")
	brace := cursorOn(store, "{", 0)

	got, ok := BwdOverClassySpecifiers(brace)
	require.True(t, ok)
	require.Equal(t, ":", got.Value())
}

func TestBwdOverInitializationList(t *testing.T) {
	store := storeOf(
		"Foo::Foo(int a) : a_(a),",
		"    b_{b} {",
	)
	brace := cursorOn(store, "{", 1)

	got, moved := BwdOverInitializationList(brace)
	require.True(t, moved)
	require.Equal(t, ":", got.Value())
	require.Equal(t, token.Position{Row: 0, Column: 16}, got.Position())
}

func TestBwdOverInitializationList_RejectsAccessSpecifier(t *testing.T) {
	store := storeOf(
		"class A {",
		"public:",
		"    A(int a) {",
	)
	brace := cursorOn(store, "{", 1)

	got, moved := BwdOverInitializationList(brace)
	require.False(t, moved)
	require.True(t, got.Equal(brace))
}

func TestBwdOverConstNoexceptDecltype(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		column int
	}{
		{"const noexcept", "int f(int a) const noexcept {", 11},
		{"noexcept expr and decltype return", "auto g() noexcept(true) -> decltype(x) {", 7},
		{"trailing qualified return", "auto h() -> std::vector<int> {", 7},
		{"plain", "void k() {", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeOf(tt.line)
			brace := cursorOn(store, "{", 0)

			got, ok := BwdOverConstNoexceptDecltype(brace)
			require.True(t, ok)
			require.Equal(t, ")", got.Value())
			require.Equal(t, tt.column, got.Position().Column)
		})
	}
}

func TestBwdOverConstNoexceptDecltype_NotAFunction(t *testing.T) {
	store := storeOf("class Foo {")
	brace := cursorOn(store, "{", 0)

	got, ok := BwdOverConstNoexceptDecltype(brace)
	require.False(t, ok)
	require.True(t, got.Equal(brace))
}

func TestNeedsSemicolon(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"class Foo : public Bar {", true},
		{"struct S {", true},
		{"enum class Color {", true},
		{"int a[] = {", true},
		{"void f() {", false},
		{"if (x) {", false},
		{"namespace ns {", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			store := storeOf(tt.line)
			assert.Equal(t, tt.want, NeedsSemicolon(cursorOn(store, "{", 0)))
		})
	}
}

func TestMoveToStartOfCurrentStatement(t *testing.T) {
	store := storeOf(
		"int x = foo(a,",
		"            b);",
		"int y = 2;",
	)

	got, ok := MoveToStartOfCurrentStatement(cursorOn(store, "foo", 0))
	require.True(t, ok)
	assert.Equal(t, token.Position{Row: 0, Column: 0}, got.Position())

	got, ok = MoveToStartOfCurrentStatement(cursorOn(store, "b", 0))
	require.True(t, ok)
	assert.Equal(t, "b", got.Value(), "argument starts after the comma")

	got, ok = MoveToStartOfCurrentStatement(cursorOn(store, "2", 0))
	require.True(t, ok)
	assert.Equal(t, token.Position{Row: 2, Column: 0}, got.Position())
}

func TestMoveToEndOfCurrentStatement(t *testing.T) {
	store := storeOf(
		"int x = foo(a,",
		"            b);",
		"int y = 2;",
	)

	got, ok := MoveToEndOfCurrentStatement(cursorOn(store, "foo", 0))
	require.True(t, ok)
	assert.Equal(t, ";", got.Value())
	assert.Equal(t, 1, got.Row())

	got, ok = MoveToEndOfCurrentStatement(cursorOn(store, "a", 0))
	require.True(t, ok)
	assert.Equal(t, "a", got.Value(), "stops before the comma")
}

func TestStatementBounds_IfElseChain(t *testing.T) {
	store := storeOf(
		"if (a) {",
		"  x;",
		"} else {",
		"  y;",
		"}",
		"z;",
	)

	start, end, ok := Statements{}.StatementBounds(cursorOn(store, "else", 0))
	require.True(t, ok)
	assert.Equal(t, token.Position{Row: 0, Column: 0}, start.Position())
	assert.Equal(t, token.Position{Row: 4, Column: 0}, end.Position())

	start, end, ok = Statements{}.StatementBounds(cursorOn(store, "x", 0))
	require.True(t, ok)
	assert.Equal(t, "x", start.Value())
	assert.Equal(t, ";", end.Value())
	assert.Equal(t, 1, end.Row())
}

func TestMoveToEndOfCurrentStatement_DoWhile(t *testing.T) {
	store := storeOf(
		"do {",
		"  x;",
		"} while (c);",
	)

	got, ok := MoveToEndOfCurrentStatement(cursorOn(store, "do", 0))
	require.True(t, ok)
	assert.Equal(t, ";", got.Value())
	assert.Equal(t, 2, got.Row())
}

func TestMoveToStartOfCurrentStatement_CaseLabel(t *testing.T) {
	store := storeOf(
		"switch (v) {",
		"case 1:",
		"  f();",
		"}",
	)

	got, ok := MoveToStartOfCurrentStatement(cursorOn(store, ")", 1))
	require.True(t, ok)
	assert.Equal(t, "f", got.Value())
}

func TestScopeLabel(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		brace int
		label string
		ok    bool
	}{
		{"method", []string{"void Foo::bar(int a) const {"}, 0, "Foo::bar", true},
		{"constructor", []string{"Foo::Foo(int a) : a_(a) {"}, 0, "Foo::Foo", true},
		{"class", []string{"class Widget : public Base {"}, 0, "Widget", true},
		{"enum class", []string{"enum class Color {"}, 0, "Color", true},
		{"namespace", []string{"namespace util {"}, 0, "util", true},
		{"control block", []string{"if (x) {"}, 0, "", false},
		{"split header", []string{"int", "main(int argc) {"}, 0, "main", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeOf(tt.lines...)
			label, _, ok := ScopeLabel(cursorOn(store, "{", tt.brace))
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestScopeLabel_PreambleStartsRow(t *testing.T) {
	store := storeOf(
		"",
		"  void run() {",
	)
	_, preamble, ok := ScopeLabel(cursorOn(store, "{", 0))
	require.True(t, ok)
	assert.Equal(t, token.Position{Row: 1, Column: 0}, preamble)
}
