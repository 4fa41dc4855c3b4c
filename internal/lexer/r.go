package lexer

import (
	"regexp"
	"strings"

	"github.com/zjrosen/codenav/internal/token"
)

var rKeywords = set(
	"if", "else", "repeat", "while", "function", "for", "in", "next", "break",
)

var rConstants = set(
	"TRUE", "FALSE", "NULL", "NA", "NA_integer_", "NA_real_",
	"NA_character_", "NA_complex_", "Inf", "NaN", "T", "F",
)

func rStates(prefix string) map[string][]rule {
	words := wordTypes(rKeywords, nil, rConstants)
	return map[string][]rule{
		prefix + StartState: {
			r(`\s+`, fixed("text"), ""),
			r(`#.*`, fixed("comment"), ""),
			r(`"(?:[^"\\]|\\.)*"`, fixed("string"), ""),
			r(`"(?:[^"\\]|\\.)*`, fixed("string"), prefix+"qqstring"),
			r(`'(?:[^'\\]|\\.)*'`, fixed("string"), ""),
			r(`'(?:[^'\\]|\\.)*`, fixed("string"), prefix+"qstring"),
			r("`[^`]*`", fixed("identifier"), ""),
			r(`0[xX][0-9A-Fa-f]+[Li]?|(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?[Li]?`, fixed("constant.numeric"), ""),
			r(`[A-Za-z.][A-Za-z0-9._]*`, words, ""),
			r(`[(){}]|\[\[?|\]\]?`, fixed("paren.keyword.operator"), ""),
			r(`[,;]`, fixed("punctuation.operator"), ""),
			r(`%[^%]*%|<<-|->>|<-|->|:::|::|\|>|==|!=|<=|>=|&&|\|\||[-+*/^<>=!&|~$@?:\\]`, fixed("keyword.operator"), ""),
		},
		prefix + "qqstring": {
			r(`(?:[^"\\]|\\.)*"`, fixed("string"), prefix+StartState),
			r(`.+`, fixed("string"), ""),
		},
		prefix + "qstring": {
			r(`(?:[^'\\]|\\.)*'`, fixed("string"), prefix+StartState),
			r(`.+`, fixed("string"), ""),
		},
	}
}

// NewR returns the regex lexer for R. Double brackets ("[[", "]]") come
// out as single tokens; the code model splits them.
func NewR() *Simple {
	return &Simple{name: "simple/r", start: StartState, states: rStates("")}
}

// CodeStatePrefix marks R Markdown states inside an R chunk.
const CodeStatePrefix = "r-"

var (
	reChunkBegin = regexp.MustCompile("^\\s*```+\\s*\\{[rR]\\b.*\\}\\s*$")
	reChunkEnd   = regexp.MustCompile("^\\s*```+\\s*$")
)

// RMarkdown tokenizes R Markdown: prose lines become a single
// "text.markdown" token, chunk fences become "support.function.codebegin"
// and "support.function.codeend" tokens, and chunk bodies are lexed as R
// with states prefixed by CodeStatePrefix.
type RMarkdown struct {
	code *Simple
}

// NewRMarkdown returns the R Markdown lexer.
func NewRMarkdown() *RMarkdown {
	return &RMarkdown{code: &Simple{
		name:   "simple/r",
		start:  CodeStatePrefix + StartState,
		states: rStates(CodeStatePrefix),
	}}
}

// Name implements Lexer.
func (m *RMarkdown) Name() string { return "simple/rmarkdown" }

// StartState implements Lexer.
func (m *RMarkdown) StartState() string { return StartState }

// TokenizeLine implements Lexer.
func (m *RMarkdown) TokenizeLine(line, state string) ([]token.Token, string) {
	trimmed := strings.TrimSpace(line)
	col := strings.Index(line, trimmed)
	if strings.HasPrefix(state, CodeStatePrefix) {
		if reChunkEnd.MatchString(line) {
			return []token.Token{{Value: trimmed, Type: "support.function.codeend", Column: col}}, StartState
		}
		return m.code.TokenizeLine(line, state)
	}
	if reChunkBegin.MatchString(line) {
		return []token.Token{{Value: trimmed, Type: "support.function.codebegin", Column: col}}, m.code.StartState()
	}
	if trimmed == "" {
		return nil, StartState
	}
	return []token.Token{{Value: trimmed, Type: "text.markdown", Column: col}}, StartState
}
