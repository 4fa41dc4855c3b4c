package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/document"
	"github.com/zjrosen/codenav/internal/indent"
	"github.com/zjrosen/codenav/internal/token"
)

func TestLookup(t *testing.T) {
	lang, err := Lookup("CPP")
	require.NoError(t, err)
	assert.Equal(t, "cpp", lang.Name)

	_, err = Lookup("cobol")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestForFile(t *testing.T) {
	tests := map[string]string{
		"src/main.cpp":   "cpp",
		"include/a.H":    "cpp",
		"analysis.R":     "r",
		"report.Rmd":     "rmd",
		"/tmp/x/util.cc": "cpp",
	}
	for path, want := range tests {
		lang, err := ForFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, lang.Name, path)
	}

	_, err := ForFile("notes.txt")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestResolve_NamePrecedence(t *testing.T) {
	lang, err := Resolve("r", "main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "r", lang.Name)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cpp", "r", "rmd"}, Names())
}

func TestNewLexer(t *testing.T) {
	cpp, _ := Lookup("cpp")

	lx, err := cpp.NewLexer(EngineSimple)
	require.NoError(t, err)
	assert.Equal(t, "simple/cpp", lx.Name())

	lx, err = cpp.NewLexer(EngineChroma)
	require.NoError(t, err)
	assert.Equal(t, "chroma/cpp", lx.Name())

	_, err = cpp.NewLexer("antlr")
	assert.Error(t, err)

	rmd, _ := Lookup("rmd")
	_, err = rmd.NewLexer(EngineChroma)
	assert.Error(t, err)
}

func TestIsCode(t *testing.T) {
	cpp, _ := Lookup("cpp")
	rmd, _ := Lookup("rmd")

	assert.True(t, cpp.IsCode("comment"))
	assert.True(t, rmd.IsCode("r-start"))
	assert.False(t, rmd.IsCode("start"))
}

func TestEndToEnd_IndentAndExpand(t *testing.T) {
	lang, _ := Lookup("r")
	m, err := lang.NewModel(document.New("f <- function(x) {", "  "), EngineSimple)
	require.NoError(t, err)
	defer m.Close()

	in := lang.NewIndenter(m, config.Defaults().Indent)
	assert.Equal(t, "  ", in.NextLineIndent(m.EndState(0), m.Line(0), "  ", 0))

	e := lang.NewExpander(m, config.Defaults().Expand)
	defer e.Close()
	got, ok := e.Expand(token.NewRange(0, 1, 0, 1))
	require.True(t, ok)
	assert.Equal(t, token.NewRange(0, 0, 0, 1), got.Range)

	_, isR := in.(*indent.R)
	assert.True(t, isR)
}

func TestRmdIndenterSkipsProse(t *testing.T) {
	lang, _ := Lookup("rmd")
	m, err := lang.NewModel(document.New("  prose line", "  "), EngineSimple)
	require.NoError(t, err)
	defer m.Close()

	res := lang.NewIndenter(m, config.Defaults().Indent).Explain(m.EndState(0), m.Line(0), "  ", 0)

	assert.Equal(t, indent.RuleNotCode, res.Rule)
}
