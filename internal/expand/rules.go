package expand

import (
	"strings"

	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

// Upper bound on enclosing groups climbed by one rule.
const maxClimb = 256

var openers = []string{"(", "[", "{"}

func tokenRange(row int, t token.Token) token.Range {
	return token.NewRange(row, t.Column, row, t.End())
}

// tokenAround returns the token on sel's row that covers sel, if sel is
// on one row.
func (e *Expander) tokenAround(sel token.Range, accept func(token.Token) bool) (token.Token, bool) {
	if sel.Start.Row != sel.End.Row {
		return token.Token{}, false
	}
	toks, _ := e.model.Store().Tokens(sel.Start.Row)
	for _, t := range toks {
		if t.Column <= sel.Start.Column && sel.End.Column <= t.End() && accept(t) {
			return t, true
		}
	}
	return token.Token{}, false
}

// ruleString selects the contents of a string literal, then the literal
// with its quotes.
func ruleString(e *Expander, sel token.Range) []token.Range {
	t, ok := e.tokenAround(sel, func(t token.Token) bool { return t.HasType("string") })
	if !ok {
		return nil
	}
	row := sel.Start.Row
	var out []token.Range
	if n := len(t.Value); n >= 2 && t.Value[n-1] == t.Value[0] {
		out = append(out, token.NewRange(row, t.Column+1, row, t.End()-1))
	}
	return append(out, tokenRange(row, t))
}

// ruleToken selects the word under the caret. Brackets and separators
// are left to the matching rule.
func ruleToken(e *Expander, sel token.Range) []token.Range {
	t, ok := e.tokenAround(sel, func(t token.Token) bool {
		return !t.HasType("paren", "punctuation", "string")
	})
	if !ok {
		return nil
	}
	return []token.Range{tokenRange(sel.Start.Row, t)}
}

func (e *Expander) isCommentLine(row int) bool {
	if e.commentPrefix == "" || row < 0 || row >= e.model.LineCount() {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(e.model.Line(row), " \t"), e.commentPrefix)
}

// ruleComment selects the block of consecutive line comments around the
// selection.
func ruleComment(e *Expander, sel token.Range) []token.Range {
	last := sel.End.Row
	if sel.End.Column == 0 && last > sel.Start.Row {
		last--
	}
	for row := sel.Start.Row; row <= last; row++ {
		if !e.isCommentLine(row) {
			return nil
		}
	}
	first := sel.Start.Row
	for e.isCommentLine(first - 1) {
		first--
	}
	for e.isCommentLine(last + 1) {
		last++
	}
	head := e.model.Line(first)
	indent := len(head) - len(strings.TrimLeft(head, " \t"))
	return []token.Range{token.NewRange(first, indent, last, len(e.model.Line(last)))}
}

// ruleIncludeBoundaries grows a selection that is exactly the inside of a
// bracket pair to include the brackets and a call name directly before
// them, and a selection that is exactly an R Markdown chunk body to
// include its fences.
func ruleIncludeBoundaries(e *Expander, sel token.Range) []token.Range {
	var out []token.Range

	open, ok := cursor.New(e.model.Store()).MoveToPosition(sel.Start, false)
	if ok && open.EndPosition() == sel.Start && open.HasType("paren") && cursor.IsOpener(open.Value()) {
		if closer, ok := open.FwdToMatchingToken(); ok && closer.Position() == sel.End {
			start := open.Position()
			if name := open.PeekBwd(1); name.Valid() && name.EndPosition() == start && name.HasType("identifier") {
				start = name.Position()
			}
			out = append(out, token.Range{Start: start, End: closer.EndPosition()})
		}
	}

	if begin, end, ok := e.chunkAround(sel); ok {
		body := token.NewRange(begin+1, 0, end, 0)
		if sel == body {
			out = append(out, token.NewRange(begin, 0, end, len(e.model.Line(end))))
		}
	}
	return out
}

// ruleMatching selects the inside of the nearest bracket pair enclosing
// the selection, the pair itself and, for calls, the pair with its name.
func ruleMatching(e *Expander, sel token.Range) []token.Range {
	c, ok := cursor.New(e.model.Store()).MoveToPosition(sel.Start, false)
	for n := 0; ok && n < maxClimb; n++ {
		open, found := c.FindOpeningBracket(openers, false)
		if !found {
			return nil
		}
		if closer, ok := open.FwdToMatchingToken(); ok && !closer.Position().Before(sel.End) {
			ranges := []token.Range{
				{Start: open.EndPosition(), End: closer.Position()},
				{Start: open.Position(), End: closer.EndPosition()},
			}
			if name := open.PeekBwd(1); name.Valid() && name.EndPosition() == open.Position() && name.HasType("identifier") {
				ranges = append(ranges, token.Range{Start: name.Position(), End: closer.EndPosition()})
			}
			for _, r := range ranges {
				if r.StrictlyContains(sel) {
					return ranges
				}
			}
		}
		c, ok = open.MoveToPreviousToken()
	}
	return nil
}

// firstTokenIn returns the first token at or after sel's start.
func (e *Expander) firstTokenIn(sel token.Range) (cursor.Cursor, bool) {
	c, ok := cursor.New(e.model.Store()).MoveToPosition(sel.Start, true)
	if !ok {
		return cursor.First(e.model.Store())
	}
	if c.EndPosition().Before(sel.Start) || c.EndPosition() == sel.Start && !sel.IsEmpty() {
		return c.MoveToNextToken()
	}
	return c, true
}

// ruleStatement selects the statement around the selection, climbing to
// the statement that holds the enclosing bracket when the selection
// already covers it.
func ruleStatement(e *Expander, sel token.Range) []token.Range {
	if e.statements == nil {
		return nil
	}
	c, ok := e.firstTokenIn(sel)
	for n := 0; ok && n < maxClimb; n++ {
		start, end, found := e.statements.StatementBounds(c)
		if !found {
			return nil
		}
		r := token.Range{Start: start.Position(), End: end.EndPosition()}
		if r.StrictlyContains(sel) {
			return []token.Range{r}
		}
		before, moved := start.MoveToPreviousToken()
		if !moved {
			return nil
		}
		c, ok = before.FindOpeningBracket(openers, false)
	}
	return nil
}

// ruleScope selects the innermost scope, or R Markdown chunk body, that
// strictly contains the selection.
func ruleScope(e *Expander, sel token.Range) []token.Range {
	var out []token.Range
	if begin, end, ok := e.chunkAround(sel); ok {
		out = append(out, token.NewRange(begin+1, 0, end, 0))
	}
	docEnd := e.docEnd()
	for s := e.model.CurrentScope(sel.Start); s != nil; s = s.Parent {
		if r := s.Range(docEnd); r.StrictlyContains(sel) {
			return append(out, r)
		}
	}
	return out
}

func ruleEverything(e *Expander, _ token.Range) []token.Range {
	return []token.Range{{End: e.docEnd()}}
}

func (e *Expander) fenceRow(row int, typ string) bool {
	toks, _ := e.model.Store().Tokens(row)
	return len(toks) > 0 && toks[0].HasType(typ)
}

// chunkAround returns the fence rows of the R Markdown chunk holding sel.
func (e *Expander) chunkAround(sel token.Range) (begin, end int, ok bool) {
	begin = -1
	for row := sel.Start.Row; row >= 0; row-- {
		if e.fenceRow(row, "codebegin") {
			begin = row
			break
		}
		if row < sel.Start.Row && e.fenceRow(row, "codeend") {
			return 0, 0, false
		}
	}
	if begin < 0 || begin == sel.Start.Row {
		return 0, 0, false
	}
	for row := sel.End.Row; row < e.model.LineCount(); row++ {
		if e.fenceRow(row, "codeend") {
			return begin, row, true
		}
		if row > sel.End.Row && e.fenceRow(row, "codebegin") {
			return 0, 0, false
		}
	}
	return 0, 0, false
}
