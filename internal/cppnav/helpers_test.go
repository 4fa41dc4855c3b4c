package cppnav

import (
	"regexp"
	"strings"

	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

var fixtureTokenRE = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|[0-9]+|::|->|&&|\S`)

var fixtureKeywords = map[string]bool{
	"class": true, "struct": true, "union": true, "enum": true, "namespace": true,
	"public": true, "private": true, "protected": true, "virtual": true,
	"const": true, "noexcept": true, "decltype": true, "override": true, "final": true,
	"if": true, "else": true, "for": true, "while": true, "do": true, "return": true,
	"case": true, "default": true, "switch": true, "try": true, "catch": true, "template": true,
}

var fixtureStorage = map[string]bool{"int": true, "void": true, "auto": true, "bool": true}

func fixtureType(v string) string {
	switch {
	case strings.ContainsAny(v, "()[]{}") && len(v) == 1:
		return "paren.keyword.operator"
	case v == "," || v == ";":
		return "punctuation"
	case fixtureKeywords[v]:
		return "keyword"
	case fixtureStorage[v]:
		return "storage.type"
	case v[0] >= '0' && v[0] <= '9':
		return "constant.numeric"
	case v[0] == '_' || (v[0]|0x20 >= 'a' && v[0]|0x20 <= 'z'):
		return "identifier"
	}
	return "keyword.operator"
}

func storeOf(lines ...string) *token.Store {
	rows := make([][]token.Token, len(lines))
	for i, line := range lines {
		for _, loc := range fixtureTokenRE.FindAllStringIndex(line, -1) {
			v := line[loc[0]:loc[1]]
			rows[i] = append(rows[i], token.Token{Value: v, Type: fixtureType(v), Column: loc[0]})
		}
	}
	return token.NewStoreFromRows(rows)
}

// cursorOn returns a cursor on the n-th (0-based) occurrence of value.
func cursorOn(store *token.Store, value string, n int) cursor.Cursor {
	c := cursor.New(store)
	for {
		if c.Value() == value {
			if n == 0 {
				return c
			}
			n--
		}
		next, ok := c.MoveToNextToken()
		if !ok {
			panic("token not found: " + value)
		}
		c = next
	}
}
