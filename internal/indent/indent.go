// Package indent computes the leading whitespace for the line after a
// given row. Each language has an engine; the C++ engine is an ordered
// rule cascade where the first matching rule decides.
package indent

import (
	"regexp"
	"strings"

	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

// Model is the document and token view the engines read from.
type Model interface {
	Line(row int) string
	LineCount() int
	Store() *token.Store
	TokenizeUpToRow(row int) bool
	FindMatchingBracket(pos token.Position) (token.Position, bool)
}

// Result is the outcome of one indentation query.
type Result struct {
	// Indent is the leading whitespace for the next line.
	Indent string
	// Line is the queried line, rewritten when the rule adjusts it (macro
	// continuation backslashes). Otherwise it equals the input.
	Line string
	// Rule names the rule that decided.
	Rule string
}

// Indenter is implemented by every engine.
//
// state is the lexer state the row ends in. line is the row's text, or a
// prefix of it when indenting at the caret. The result depends only on
// the arguments and the document.
type Indenter interface {
	NextLineIndent(state, line, tab string, row int) string
	Explain(state, line, tab string, row int) Result
}

// indentOf returns the leading whitespace of line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// alignTo returns whitespace reaching column col of line: the line's own
// indent followed by spaces.
func alignTo(line string, col int) string {
	ws := indentOf(line)
	if col <= len(ws) {
		return line[:col]
	}
	return ws + strings.Repeat(" ", col-len(ws))
}

var (
	reQuoted            = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`)
	reBlockComment      = regexp.MustCompile(`/\*.*?\*/`)
	reEndsWithBackslash = regexp.MustCompile(`\\\s*$`)
)

// blank replaces the inside of a match with spaces, keeping its first and
// last character, so columns are preserved.
func blank(m string) string {
	if len(m) <= 2 {
		return m
	}
	return m[:1] + strings.Repeat(" ", len(m)-2) + m[len(m)-1:]
}

// LineSansComments returns line with string and block comment contents
// blanked out, a trailing // comment removed and a trailing macro
// backslash dropped. Columns of the remaining characters are unchanged.
func LineSansComments(line string) string {
	line = reQuoted.ReplaceAllStringFunc(line, blank)
	line = reBlockComment.ReplaceAllStringFunc(line, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	if reEndsWithBackslash.MatchString(line) {
		line = line[:strings.LastIndex(line, `\`)]
	}
	return line
}

// FindMatchingBracketRow walks rows from row in direction dir (-1 or 1),
// balancing occurrences of char against its complement, and returns the
// row where the balance drops to zero. It gives up after maxLookaround
// rows and returns -1.
func FindMatchingBracketRow(lines func(int) string, count int, char string, row, maxLookaround, dir int) int {
	comp := cursor.Complements[char]
	balance := 0
	for n := 0; n <= maxLookaround; n++ {
		if row < 0 || row >= count {
			return -1
		}
		line := LineSansComments(lines(row))
		balance += strings.Count(line, char) - strings.Count(line, comp)
		if balance <= 0 {
			return row
		}
		row += dir
	}
	return -1
}

// FindStartOfCommentBlock returns the nearest row at or above row that
// contains "/*", looking at most maxLookback rows back.
func FindStartOfCommentBlock(lines func(int) string, row, maxLookback int) int {
	for n := 0; row >= 0 && n < maxLookback; n++ {
		if strings.Contains(lines(row), "/*") {
			return row
		}
		row--
	}
	return -1
}

// unmatchedOpener returns the column of the rightmost opener in line that
// is not closed later on the same line.
func unmatchedOpener(line string, openers string) int {
	var stack []int
	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case strings.IndexByte(openers, ch) >= 0:
			stack = append(stack, i)
		case ch == ')' || ch == ']' || ch == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1]
}

// firstNonSpaceAfter returns the column of the first non-blank character
// after col, or -1.
func firstNonSpaceAfter(line string, col int) int {
	for i := col + 1; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return i
		}
	}
	return -1
}
