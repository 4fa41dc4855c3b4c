package indent

import (
	"strings"

	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/token"
)

// Rows searched back for the opener of a header's closing paren.
const rHeaderLookback = 10

// RuleNotCode is reported when the row is outside code, e.g. in the prose
// of an R Markdown document.
const RuleNotCode = "notCode"

// R is the R indentation engine.
type R struct {
	model  Model
	cfg    config.IndentConfig
	isCode func(state string) bool
}

// ROption configures an R engine.
type ROption func(*R)

// WithCodeStates limits the engine to lines ending in a state accepted by
// isCode. Other lines keep their own indent.
func WithCodeStates(isCode func(state string) bool) ROption {
	return func(e *R) { e.isCode = isCode }
}

// NewR returns an R engine reading from model.
func NewR(model Model, cfg config.IndentConfig, opts ...ROption) *R {
	e := &R{model: model, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NextLineIndent implements Indenter.
func (e *R) NextLineIndent(state, line, tab string, row int) string {
	return e.Explain(state, line, tab, row).Indent
}

// Explain implements Indenter.
func (e *R) Explain(state, line, tab string, row int) Result {
	res := e.explain(state, line, tab, row)
	res.Line = line
	log.Debug(log.CatIndent, "rule fired", "rule", res.Rule, "row", row)
	return res
}

func (e *R) explain(state, line, tab string, row int) Result {
	if row < 0 {
		return Result{Rule: "default"}
	}
	defaultIndent := indentOf(line)
	if !e.model.TokenizeUpToRow(row) {
		return Result{Indent: defaultIndent, Rule: "default"}
	}
	if e.isCode != nil && !e.isCode(state) {
		return Result{Indent: defaultIndent, Rule: RuleNotCode}
	}

	w := rWalker{e: e, row: row, line: line}
	limit := token.Position{Row: row, Column: len(line)}

	if prev, ok := w.previous(limit, row-rHeaderLookback); ok {
		switch {
		case prev.tok.HasType("paren") && prev.tok.Value == ")":
			if open, ok := w.headerOpener(prev); ok {
				if pre, ok := w.previous(open, 0); ok && isHeaderKeyword(pre.tok) {
					return Result{Indent: w.indentAt(pre.row) + tab, Rule: "header"}
				}
			}
		case prev.tok.Type == "keyword" && (prev.tok.Value == "repeat" || prev.tok.Value == "else"):
			return Result{Indent: w.indentAt(prev.row) + tab, Rule: "repeatElse"}
		case isContinuationOp(prev.tok):
			// Only the first line of a continuation chain indents.
			cont, ok := w.previous(token.Position{Row: prev.row, Column: 0}, 0)
			if !ok || !isContinuationOp(cont.tok) {
				return Result{Indent: w.indentAt(prev.row) + tab, Rule: "continuation"}
			}
			return Result{Indent: w.indentAt(prev.row), Rule: "continuation"}
		}
	}

	if open, ok := w.innermostOpener(limit); ok {
		next, ok := w.next(token.Position{Row: open.Row, Column: open.Column + 1}, limit)
		if !ok {
			return Result{Indent: w.indentAt(open.Row) + tab, Rule: "openBracket"}
		}
		return Result{Indent: e.columnIndent(next.Column, tab), Rule: "alignBracket"}
	}

	if first, ok := w.next(token.Position{}, limit); ok {
		return Result{Indent: w.indentAt(first.Row), Rule: "topLevel"}
	}
	return Result{Rule: "default"}
}

// columnIndent reaches col with whole tabs, then spaces.
func (e *R) columnIndent(col int, tab string) string {
	size := max(e.cfg.TabSize, 1)
	return strings.Repeat(tab, col/size) + strings.Repeat(" ", col%size)
}

// BraceIndent returns the indent for a line that starts with "}" following
// row: the indent of the if/while/for/function header when row ends its
// parenthesised condition, else row's own indent.
func (e *R) BraceIndent(row int) string {
	e.model.TokenizeUpToRow(row)
	line := e.model.Line(row)
	w := rWalker{e: e, row: row, line: line}
	if prev, ok := w.previous(token.Position{Row: row, Column: len(line)}, row-rHeaderLookback); ok &&
		prev.tok.HasType("paren") && prev.tok.Value == ")" {
		if open, ok := w.headerOpener(prev); ok {
			if pre, ok := w.previous(open, 0); ok && isHeaderKeyword(pre.tok) {
				return w.indentAt(pre.row)
			}
		}
	}
	return indentOf(line)
}

func isHeaderKeyword(t token.Token) bool {
	if t.Type != "keyword" {
		return false
	}
	switch t.Value {
	case "if", "while", "for", "function":
		return true
	}
	return false
}

// isContinuationOp reports whether t is a binary operator that carries an
// expression onto the next line.
func isContinuationOp(t token.Token) bool {
	return t.HasType("operator") && !t.HasType("paren") && t.Value != "," && t.Value != ";"
}

// located is a token with its row.
type located struct {
	tok token.Token
	row int
}

// rWalker reads the token store for one query. Tokens at or after the
// queried line's length on its row are ignored, so a caret-truncated line
// is honoured.
type rWalker struct {
	e    *R
	row  int
	line string
}

func (w rWalker) indentAt(row int) string {
	if row == w.row {
		return indentOf(w.line)
	}
	return indentOf(w.e.model.Line(row))
}

func (w rWalker) tokens(row int) []token.Token {
	toks, ok := w.e.model.Store().Tokens(row)
	if !ok {
		return nil
	}
	if row == w.row {
		n := 0
		for n < len(toks) && toks[n].Column < len(w.line) {
			n++
		}
		toks = toks[:n]
	}
	return toks
}

// previous returns the last token strictly before pos, searching no
// further up than firstRow.
func (w rWalker) previous(pos token.Position, firstRow int) (located, bool) {
	firstRow = max(firstRow, 0)
	for row := min(pos.Row, w.e.model.Store().Len()-1); row >= firstRow; row-- {
		toks := w.tokens(row)
		for i := len(toks) - 1; i >= 0; i-- {
			if row != pos.Row || toks[i].Column < pos.Column {
				return located{tok: toks[i], row: row}, true
			}
		}
	}
	return located{}, false
}

// next returns the first token ending after pos and starting before
// limit. Its column is clamped to pos on pos's row.
func (w rWalker) next(pos, limit token.Position) (token.Position, bool) {
	col := pos.Column
	for row := pos.Row; row <= limit.Row; row++ {
		for _, t := range w.tokens(row) {
			if row == limit.Row && t.Column >= limit.Column {
				break
			}
			if t.End() > col {
				return token.Position{Row: row, Column: max(t.Column, col)}, true
			}
		}
		col = 0
	}
	return token.Position{}, false
}

// walkParens visits paren tokens backward from before pos down to
// firstRow. visit returns false to stop.
func (w rWalker) walkParens(pos token.Position, firstRow int, visit func(value string, at token.Position) bool) {
	firstRow = max(firstRow, 0)
	for row := pos.Row; row >= firstRow; row-- {
		toks := w.tokens(row)
		for i := len(toks) - 1; i >= 0; i-- {
			t := toks[i]
			if row == pos.Row && t.Column >= pos.Column {
				continue
			}
			if !t.HasType("paren") {
				continue
			}
			if !visit(t.Value, token.Position{Row: row, Column: t.Column}) {
				return
			}
		}
	}
}

// headerOpener balances parens backward from the ")" at closer and returns
// the position of its "(".
func (w rWalker) headerOpener(closer located) (token.Position, bool) {
	var (
		stack  []string
		result token.Position
		found  bool
	)
	start := token.Position{Row: closer.row, Column: closer.tok.Column + 1}
	w.walkParens(start, closer.row-rHeaderLookback, func(p string, at token.Position) bool {
		if cursor.IsOpener(p) {
			if len(stack) == 0 || stack[len(stack)-1] != cursor.Complements[p] {
				return true
			}
			stack = stack[:len(stack)-1]
		} else {
			stack = append(stack, p)
		}
		if len(stack) == 0 {
			result, found = at, true
			return false
		}
		return true
	})
	return result, found
}

// innermostOpener returns the closest unclosed bracket before pos.
func (w rWalker) innermostOpener(pos token.Position) (token.Position, bool) {
	var (
		stack  []string
		result token.Position
		found  bool
	)
	w.walkParens(pos, 0, func(p string, at token.Position) bool {
		if cursor.IsOpener(p) {
			if len(stack) == 0 {
				result, found = at, true
				return false
			}
			if stack[len(stack)-1] == cursor.Complements[p] {
				stack = stack[:len(stack)-1]
			}
			return true
		}
		stack = append(stack, p)
		return true
	})
	return result, found
}
