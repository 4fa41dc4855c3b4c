package lexer

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/zjrosen/codenav/internal/token"
)

// Chroma adapts a chroma lexer to the line-oriented Lexer interface.
// Chroma lexes whole documents, so the only state carried between lines
// is whether a /* block */ comment is still open.
type Chroma struct {
	language string
	lexer    chroma.Lexer
}

// NewChroma returns an adapter over chroma's lexer for language ("cpp",
// "r", ...).
func NewChroma(language string) (*Chroma, error) {
	lx := lexers.Get(language)
	if lx == nil {
		return nil, fmt.Errorf("no chroma lexer for %q", language)
	}
	return &Chroma{language: language, lexer: lx}, nil
}

// Name implements Lexer.
func (c *Chroma) Name() string { return "chroma/" + c.language }

// StartState implements Lexer.
func (c *Chroma) StartState() string { return StartState }

// Operators that chroma emits one character at a time but the navigation
// code expects as one token.
var joinedOperators = set("::", "->", "&&", "||", "==", "!=", "<=", ">=", "<-")

// TokenizeLine implements Lexer.
func (c *Chroma) TokenizeLine(line, state string) ([]token.Token, string) {
	var toks []token.Token
	col := 0
	if state == "comment" {
		end := strings.Index(line, "*/")
		if end < 0 {
			if line == "" {
				return nil, state
			}
			return []token.Token{{Value: line, Type: "comment", Column: 0}}, state
		}
		col = end + 2
		toks = append(toks, token.Token{Value: line[:col], Type: "comment", Column: 0})
	}
	if col >= len(line) {
		return toks, StartState
	}

	it, err := c.lexer.Tokenise(nil, line[col:])
	if err != nil {
		return append(toks, token.Token{Value: line[col:], Type: "text", Column: col}), StartState
	}

	next := StartState
	for _, ct := range it.Tokens() {
		if col >= len(line) {
			break
		}
		value := ct.Value
		if col+len(value) > len(line) {
			value = line[col:]
		}
		if value == "" {
			continue
		}

		// An unterminated block comment swallows the rest of the line.
		if strings.HasPrefix(line[col:], "/*") && !ct.Type.InCategory(chroma.Comment) {
			toks = append(toks, token.Token{Value: line[col:], Type: "comment", Column: col})
			next = "comment"
			break
		}

		if ct.Type.InCategory(chroma.Punctuation) {
			for i := 0; i < len(value); i++ {
				toks = appendJoined(toks, token.Token{Value: value[i : i+1], Type: punctuationType(value[i]), Column: col + i})
			}
		} else {
			toks = appendJoined(toks, token.Token{Value: value, Type: chromaType(ct.Type), Column: col})
		}
		col += len(value)
	}
	return toks, next
}

// appendJoined appends t, merging it into the previous operator when the
// pair forms one of joinedOperators.
func appendJoined(toks []token.Token, t token.Token) []token.Token {
	if n := len(toks); n > 0 {
		last := &toks[n-1]
		if t.Type == "keyword.operator" && last.Type == t.Type && last.End() == t.Column &&
			joinedOperators[last.Value+t.Value] {
			last.Value += t.Value
			return toks
		}
	}
	return append(toks, t)
}

func punctuationType(b byte) string {
	switch b {
	case '(', ')', '[', ']', '{', '}':
		return "paren.keyword.operator"
	case ',', ';':
		return "punctuation.operator"
	}
	return "keyword.operator"
}

// chromaType maps a chroma token type onto the dot-delimited tags the
// navigation code matches on.
func chromaType(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordType:
		return "storage.type"
	case t == chroma.KeywordConstant:
		return "constant.language"
	case t == chroma.CommentPreproc:
		return "keyword.preprocessor"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameBuiltin:
		return "support.function"
	case t.InCategory(chroma.Name):
		return "identifier"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "constant.numeric"
	case t.InCategory(chroma.Comment):
		return "comment"
	case t.InCategory(chroma.Operator):
		return "keyword.operator"
	}
	return "text"
}
