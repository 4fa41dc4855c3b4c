package cursor

import (
	"regexp"

	"github.com/zjrosen/codenav/internal/token"
)

var fixtureTokenRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|[0-9]+|::|->|<-|\S`)

func fixtureType(v string) string {
	switch {
	case v == "(" || v == ")" || v == "[" || v == "]" || v == "{" || v == "}":
		return "paren.keyword.operator"
	case v == "," || v == ";":
		return "punctuation"
	case regexp.MustCompile(`^[0-9]`).MatchString(v):
		return "constant.numeric"
	case regexp.MustCompile(`^[A-Za-z_]`).MatchString(v):
		return "identifier"
	}
	return "keyword.operator"
}

func fixtureRow(line string) []token.Token {
	var toks []token.Token
	for _, loc := range fixtureTokenRe.FindAllStringIndex(line, -1) {
		v := line[loc[0]:loc[1]]
		toks = append(toks, token.Token{Value: v, Type: fixtureType(v), Column: loc[0]})
	}
	return toks
}

// storeOf tokenizes each line on identifiers, numbers and single
// punctuation characters.
func storeOf(lines ...string) *token.Store {
	rows := make([][]token.Token, len(lines))
	for i, line := range lines {
		rows[i] = fixtureRow(line)
	}
	return token.NewStoreFromRows(rows)
}

// storeOfValues lays values out on rows, one space apart, breaking rows
// wherever value is "\n".
func storeOfValues(values []string) *token.Store {
	rows := [][]token.Token{nil}
	col := 0
	for _, v := range values {
		if v == "\n" {
			rows = append(rows, nil)
			col = 0
			continue
		}
		last := len(rows) - 1
		rows[last] = append(rows[last], token.Token{Value: v, Type: fixtureType(v), Column: col})
		col += len(v) + 1
	}
	return token.NewStoreFromRows(rows)
}

// allCursors lists every valid cursor position in document order.
func allCursors(store *token.Store) []Cursor {
	var out []Cursor
	for row := 0; row < store.Len(); row++ {
		toks, _ := store.Row(row)
		for off := range toks {
			out = append(out, At(store, row, off))
		}
	}
	return out
}
