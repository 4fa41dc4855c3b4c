package indent

import (
	"strings"

	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/token"
)

// Editor is a Model that can report row states and rewrite indentation.
type Editor interface {
	Model
	EndState(row int) string
	StateAt(pos token.Position) string
	SetIndent(row int, indent string) bool
}

// braceHeaderFinder is implemented by engines that can tell which row a
// "{" block takes its indent from.
type braceHeaderFinder interface {
	RowForOpenBraceIndent(row, col int) int
}

// AtCaret answers the query for a line break typed at pos: the row is cut
// at pos and the state is the one the lexer is in at the caret.
func AtCaret(ed Editor, in Indenter, tab string, pos token.Position) Result {
	line := ed.Line(pos.Row)
	col := min(max(pos.Column, 0), len(line))
	return in.Explain(ed.StateAt(pos), line[:col], tab, pos.Row)
}

// Reindent recomputes the indentation of rows from..to (inclusive) top
// down, each from the nearest non-blank row above it. A row starting with
// a closing bracket takes the indent of the row holding its opener, or of
// the block's header row when the engine can find it. Blank
// rows and rows outside code are left alone. It returns the rows that
// changed.
func Reindent(ed Editor, in Indenter, tab string, from, to int) []int {
	from = max(from, 1)
	to = min(to, ed.LineCount()-1)

	var changed []int
	for row := from; row <= to; row++ {
		line := ed.Line(row)
		body := strings.TrimLeft(line, " \t")
		if body == "" {
			continue
		}

		prev := row - 1
		for prev >= 0 && strings.TrimSpace(ed.Line(prev)) == "" {
			prev--
		}
		if prev < 0 {
			continue
		}

		res := in.Explain(ed.EndState(prev), ed.Line(prev), tab, prev)
		if res.Rule == RuleNotCode {
			continue
		}
		indent := indentOf(res.Indent)

		if strings.ContainsAny(body[:1], ")]}") {
			at := token.Position{Row: row, Column: len(line) - len(body) + 1}
			if open, ok := ed.FindMatchingBracket(at); ok && open.Row < row {
				anchor := open.Row
				if h, ok := in.(braceHeaderFinder); ok && body[0] == '}' {
					if r := h.RowForOpenBraceIndent(open.Row, open.Column+1); r >= 0 && r <= open.Row {
						anchor = r
					}
				}
				indent = indentOf(ed.Line(anchor))
			}
		}

		if ed.SetIndent(row, indent) {
			changed = append(changed, row)
		}
	}
	log.Debug(log.CatIndent, "reindented", "from", from, "to", to, "changed", len(changed))
	return changed
}
