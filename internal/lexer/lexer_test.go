package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/codenav/internal/token"
)

// significant drops whitespace tokens.
func significant(toks []token.Token) []token.Token {
	var out []token.Token
	for _, t := range toks {
		if strings.TrimSpace(t.Value) != "" {
			out = append(out, t)
		}
	}
	return out
}

func values(toks []token.Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Value)
	}
	return out
}

func TestCpp_TokenTypes(t *testing.T) {
	toks, state := NewCpp().TokenizeLine(`std::vector<int> v = foo("a//b", 1.5); // done`, StartState)
	toks = significant(toks)

	assert.Equal(t, StartState, state)
	assert.Equal(t, []string{
		"std", "::", "vector", "<", "int", ">", "v", "=", "foo", "(", `"a//b"`, ",", "1.5", ")", ";", "// done",
	}, values(toks))

	assert.Equal(t, "identifier", toks[0].Type)
	assert.Equal(t, "storage.type", toks[4].Type)
	assert.Equal(t, "paren.keyword.operator", toks[9].Type)
	assert.Equal(t, "string", toks[10].Type)
	assert.Equal(t, "constant.numeric", toks[12].Type)
	assert.Equal(t, "comment", toks[15].Type)
	assert.Equal(t, 3, toks[1].Column)
}

func TestCpp_NestedTemplateClosersStaySeparate(t *testing.T) {
	toks, _ := NewCpp().TokenizeLine("map<int, vector<int>> m;", StartState)

	assert.Equal(t, []string{"map", "<", "int", ",", "vector", "<", "int", ">", ">", "m", ";"}, values(significant(toks)))
}

func TestCpp_BlockCommentSpansLines(t *testing.T) {
	lx := NewCpp()

	toks, state := lx.TokenizeLine("int a; /* open", StartState)
	require.Equal(t, "comment", state)
	assert.Equal(t, "comment", toks[len(toks)-1].Type)

	toks, state = lx.TokenizeLine(" * middle", state)
	assert.Equal(t, "comment", state)
	require.Len(t, toks, 1)

	toks, state = lx.TokenizeLine("   done */ int b;", state)
	assert.Equal(t, StartState, state)
	assert.Equal(t, []string{"   done */", "int", "b", ";"}, values(significant(toks)))
}

func TestCpp_KeywordsAndPreprocessor(t *testing.T) {
	toks, _ := NewCpp().TokenizeLine("#define MAX(a) ((a) > 0 ? a : 0) \\", StartState)
	toks = significant(toks)

	assert.Equal(t, "#define", toks[0].Value)
	assert.Equal(t, "keyword.preprocessor", toks[0].Type)
	assert.Equal(t, `\`, toks[len(toks)-1].Value)

	toks, _ = NewCpp().TokenizeLine("class A : public B {", StartState)
	toks = significant(toks)
	assert.Equal(t, "keyword", toks[0].Type)
	assert.Equal(t, "keyword", toks[3].Type)
}

func TestR_Tokens(t *testing.T) {
	toks, state := NewR().TokenizeLine("x <- df[[\"a\"]] %in% c(1L, TRUE) # note", StartState)
	toks = significant(toks)

	assert.Equal(t, StartState, state)
	assert.Equal(t, []string{"x", "<-", "df", "[[", `"a"`, "]]", "%in%", "c", "(", "1L", ",", "TRUE", ")", "# note"}, values(toks))
	assert.Equal(t, "keyword.operator", toks[1].Type)
	assert.Equal(t, "paren.keyword.operator", toks[3].Type)
	assert.Equal(t, "constant.language", toks[11].Type)
	assert.Equal(t, "comment", toks[13].Type)
}

func TestR_FunctionKeyword(t *testing.T) {
	toks, _ := NewR().TokenizeLine("f <- function(x) if (x) x else NULL", StartState)
	toks = significant(toks)

	assert.Equal(t, "keyword", toks[2].Type)
	assert.Equal(t, "keyword", toks[6].Type)
	assert.Equal(t, "keyword", toks[11].Type)
}

func TestR_MultiLineString(t *testing.T) {
	lx := NewR()

	_, state := lx.TokenizeLine(`msg <- "first`, StartState)
	require.Equal(t, "qqstring", state)

	toks, state := lx.TokenizeLine(`second" ; y`, state)
	assert.Equal(t, StartState, state)
	assert.Equal(t, "string", toks[0].Type)
	assert.Equal(t, `second"`, toks[0].Value)
}

func TestRMarkdown_Chunks(t *testing.T) {
	lx := NewRMarkdown()
	state := lx.StartState()

	toks, state := lx.TokenizeLine("Some *prose* (here).", state)
	require.Len(t, toks, 1)
	assert.Equal(t, "text.markdown", toks[0].Type)
	assert.Equal(t, StartState, state)

	toks, state = lx.TokenizeLine("```{r setup, echo=FALSE}", state)
	require.Len(t, toks, 1)
	assert.Equal(t, "support.function.codebegin", toks[0].Type)
	assert.Equal(t, "r-start", state)

	toks, state = lx.TokenizeLine("x <- 1", state)
	assert.Equal(t, "r-start", state)
	assert.Equal(t, []string{"x", "<-", "1"}, values(significant(toks)))

	toks, state = lx.TokenizeLine("```", state)
	require.Len(t, toks, 1)
	assert.Equal(t, "support.function.codeend", toks[0].Type)
	assert.Equal(t, StartState, state)
}

func TestSimple_UnknownStateRestarts(t *testing.T) {
	toks, state := NewCpp().TokenizeLine("a", "no-such-state")

	assert.Equal(t, StartState, state)
	assert.Equal(t, []string{"a"}, values(toks))
}

func TestChroma_Cpp(t *testing.T) {
	lx, err := NewChroma("cpp")
	require.NoError(t, err)
	assert.Equal(t, "chroma/cpp", lx.Name())

	toks, state := lx.TokenizeLine("foo(a, b);", lx.StartState())
	assert.Equal(t, StartState, state)
	toks = significant(toks)
	assert.Equal(t, []string{"foo", "(", "a", ",", "b", ")", ";"}, values(toks))
	assert.Equal(t, "paren.keyword.operator", toks[1].Type)
	assert.Equal(t, 8, toks[5].Column)
}

func TestChroma_OpenBlockComment(t *testing.T) {
	lx, err := NewChroma("cpp")
	require.NoError(t, err)

	toks, state := lx.TokenizeLine("x; /* open", StartState)
	require.Equal(t, "comment", state)
	assert.Equal(t, "/* open", toks[len(toks)-1].Value)

	toks, state = lx.TokenizeLine("close */ y;", state)
	assert.Equal(t, StartState, state)
	assert.Equal(t, "close */", toks[0].Value)
}

func TestNewChroma_UnknownLanguage(t *testing.T) {
	_, err := NewChroma("no-such-language-xyz")
	require.Error(t, err)
}
