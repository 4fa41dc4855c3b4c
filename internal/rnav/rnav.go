// Package rnav finds R statement boundaries and function scopes on top of
// the token cursor.
package rnav

import (
	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

// Keywords whose parenthesised header is followed by a body, possibly on a
// later row.
var headerKeywords = map[string]bool{
	"if":       true,
	"for":      true,
	"while":    true,
	"function": true,
}

// IsBinaryOp reports whether c is on an infix operator such as "+", "<-",
// "%in%" or "$". Brackets, separators and "!" are not binary operators.
func IsBinaryOp(c cursor.Cursor) bool {
	if !c.HasType("operator") || c.HasType("paren") {
		return false
	}
	switch c.Value() {
	case ",", ";", "!":
		return false
	}
	return true
}

func isKeyword(c cursor.Cursor, values ...string) bool {
	if c.Type() != "keyword" {
		return false
	}
	for _, v := range values {
		if c.Value() == v {
			return true
		}
	}
	return false
}

// closesHeader reports whether the ")" under c ends the header of an if,
// for, while or function.
func closesHeader(c cursor.Cursor) bool {
	if c.Value() != ")" {
		return false
	}
	open, ok := c.BwdToMatchingToken()
	if !ok {
		return false
	}
	kw, ok := open.MoveToPreviousToken()
	return ok && kw.Type() == "keyword" && headerKeywords[kw.Value()]
}

// IsAtStartOfNewExpression reports whether c begins an expression rather
// than continuing the one before it. A token after a binary operator, an
// "else", or the closing paren of an if/for/while/function header is a
// continuation, so a body on the next row is not taken for a new statement.
func IsAtStartOfNewExpression(c cursor.Cursor) bool {
	if !c.Valid() {
		return false
	}
	p, ok := c.MoveToPreviousToken()
	if !ok {
		return true
	}
	switch p.Value() {
	case ";", ",", "(", "[", "{":
		return true
	}
	if IsBinaryOp(p) || isKeyword(p, "else", "repeat", "in") {
		return false
	}
	if isKeyword(c, "else") {
		return false
	}
	if IsBinaryOp(c) {
		return false
	}
	if v := c.Value(); (v == "(" || v == "[") && p.Row() == c.Row() {
		return false
	}
	if closesHeader(p) {
		return false
	}
	return true
}

// MoveToStartOfCurrentStatement walks back from c over brackets and
// operator chains to the first token of the statement.
func MoveToStartOfCurrentStatement(c cursor.Cursor) (cursor.Cursor, bool) {
	if !c.Valid() {
		return c, false
	}
	cur := c
	for {
		if cursor.IsCloser(cur.Value()) && cur.Value() != ">" {
			if open, ok := cur.BwdToMatchingToken(); ok {
				cur = open
			}
		}
		if IsAtStartOfNewExpression(cur) {
			return cur, true
		}
		p, ok := cur.MoveToPreviousToken()
		if !ok {
			return cur, true
		}
		cur = p
	}
}

// MoveToEndOfCurrentStatement walks forward from c to the last token of the
// statement. A trailing ";" is not part of it.
func MoveToEndOfCurrentStatement(c cursor.Cursor) (cursor.Cursor, bool) {
	if !c.Valid() {
		return c, false
	}
	cur := c
	for {
		if v := cur.Value(); v == "(" || v == "[" || v == "{" {
			closer, ok := cur.FwdToMatchingToken()
			if !ok {
				return cur, true
			}
			cur = closer
		}
		next, ok := cur.MoveToNextToken()
		if !ok {
			return cur, true
		}
		switch next.Value() {
		case ";", ",", ")", "]", "}":
			return cur, true
		}
		if IsAtStartOfNewExpression(next) {
			return cur, true
		}
		cur = next
	}
}

// Statements finds R statement bounds for selection expansion.
type Statements struct{}

// StatementBounds returns the first and last token of the statement
// around c.
func (Statements) StatementBounds(c cursor.Cursor) (start, end cursor.Cursor, ok bool) {
	if start, ok = MoveToStartOfCurrentStatement(c); !ok {
		return c, c, false
	}
	if end, ok = MoveToEndOfCurrentStatement(c); !ok {
		return c, c, false
	}
	return start, end, true
}

func isAssign(c cursor.Cursor) bool {
	if !c.HasType("operator") {
		return false
	}
	switch c.Value() {
	case "=", "<-", "<<-":
		return true
	}
	return false
}

// FunctionLabel names the function whose body opens at the "{" under c, as
// in `name <- function(args) {`. The preamble is the name's position, moved
// to column 0 when the name starts its row.
func FunctionLabel(c cursor.Cursor) (string, token.Position, bool) {
	if c.Value() != "{" {
		return "", token.Position{}, false
	}
	closer, ok := c.MoveToPreviousToken()
	if !ok || closer.Value() != ")" {
		return "", token.Position{}, false
	}
	open, ok := closer.BwdToMatchingToken()
	if !ok {
		return "", token.Position{}, false
	}
	fn, ok := open.MoveToPreviousToken()
	if !ok || !isKeyword(fn, "function") {
		return "", token.Position{}, false
	}
	assign, ok := fn.MoveToPreviousToken()
	if !ok || !isAssign(assign) {
		return "", token.Position{}, false
	}
	name, ok := assign.MoveToPreviousToken()
	if !ok || !name.HasType("identifier") {
		return "", token.Position{}, false
	}
	pos := name.Position()
	if name.IsFirstOnRow() {
		pos.Column = 0
	}
	return name.Value(), pos, true
}
