// Package lexer turns source lines into tokens. Lexers are line oriented:
// each line is tokenized from the state the previous line ended in, which
// lets the code model re-tokenize from any row.
package lexer

import (
	"regexp"

	"github.com/zjrosen/codenav/internal/token"
)

// StartState is the state at the top of every document.
const StartState = "start"

// Lexer tokenizes one line at a time.
type Lexer interface {
	// Name identifies the engine and language, e.g. "simple/cpp".
	Name() string
	// StartState is the state for the first line of a document.
	StartState() string
	// TokenizeLine tokenizes line beginning in state and returns the
	// tokens and the state the line ends in.
	TokenizeLine(line, state string) ([]token.Token, string)
}

// rule matches at the current column. Patterns must be anchored with ^.
type rule struct {
	re   *regexp.Regexp
	typ  func(value string) string
	next string
}

func fixed(typ string) func(string) string {
	return func(string) string { return typ }
}

func r(pattern string, typ func(string) string, next string) rule {
	return rule{re: regexp.MustCompile(`^(?:` + pattern + `)`), typ: typ, next: next}
}

// Simple is a regular-expression state machine in the style of editor
// highlighting grammars: every state has an ordered rule list and the
// first rule matching at the current column wins.
type Simple struct {
	name   string
	start  string
	states map[string][]rule
}

// Name implements Lexer.
func (s *Simple) Name() string { return s.name }

// StartState implements Lexer.
func (s *Simple) StartState() string { return s.start }

// TokenizeLine implements Lexer. Characters no rule matches become single
// "text" tokens; unknown states restart from the start state.
func (s *Simple) TokenizeLine(line, state string) ([]token.Token, string) {
	rules, ok := s.states[state]
	if !ok {
		state = s.start
		rules = s.states[state]
	}

	var toks []token.Token
	for col := 0; col < len(line); {
		rest := line[col:]
		matched := false
		for _, ru := range rules {
			loc := ru.re.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			value := rest[:loc[1]]
			toks = append(toks, token.Token{Value: value, Type: ru.typ(value), Column: col})
			col += loc[1]
			if ru.next != "" {
				state = ru.next
				rules = s.states[state]
			}
			matched = true
			break
		}
		if !matched {
			toks = append(toks, token.Token{Value: rest[:1], Type: "text", Column: col})
			col++
		}
	}
	return toks, state
}

// wordTypes classifies an identifier-shaped value.
func wordTypes(keywords, storage, constants map[string]bool) func(string) string {
	return func(v string) string {
		switch {
		case keywords[v]:
			return "keyword"
		case storage[v]:
			return "storage.type"
		case constants[v]:
			return "constant.language"
		}
		return "identifier"
	}
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
