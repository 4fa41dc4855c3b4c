package cppnav

import (
	"strings"

	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

func isGroupCloser(v string) bool {
	return v == ")" || v == "]" || v == "}"
}

func isGroupOpener(v string) bool {
	return v == "(" || v == "[" || v == "{"
}

// isLabelColon reports whether the ":" under c ends an access specifier,
// a case label or a default label.
func isLabelColon(c cursor.Cursor) bool {
	if c.Value() != ":" {
		return false
	}
	if before, ok := prev(c); ok && (accessSpecifiers[before.Value()] || before.Value() == "default") {
		return true
	}
	first, ok := c.MoveToStartOfRow(c.Row())
	return ok && first.Value() == "case"
}

// Tokens that may follow a "}" without ending the statement.
func continuesAfterBlock(next cursor.Cursor) bool {
	switch next.Value() {
	case "else", "catch":
		return true
	case "while":
		// do { ... } while (cond);
		open := next.PeekFwd(1)
		if open.Value() != "(" {
			return false
		}
		closer, ok := open.FwdToMatchingToken()
		return ok && closer.PeekFwd(1).Value() == ";"
	}
	return false
}

// MoveToStartOfCurrentStatement walks back from c to the first token of the
// statement containing it. Statements end at ";", "{", "}", "," and label
// colons, and start inside an unmatched "(" or "[".
func MoveToStartOfCurrentStatement(c cursor.Cursor) (cursor.Cursor, bool) {
	if !c.Valid() {
		return c, false
	}
	cur := c
	for {
		if isGroupCloser(cur.Value()) {
			if open, ok := cur.BwdToMatchingToken(); ok {
				cur = open
			}
		}
		p, ok := prev(cur)
		if !ok {
			return cur, true
		}
		switch v := p.Value(); {
		case v == ";" || v == "{" || v == "(" || v == "[" || v == ",":
			return cur, true
		case v == "}":
			if !continuesAfterBlock(cur) {
				return cur, true
			}
		case v == ":" && isLabelColon(p):
			return cur, true
		case strings.HasPrefix(v, "#"):
			return cur, true
		}
		cur = p
	}
}

// MoveToEndOfCurrentStatement walks forward from c to the last token of its
// statement, including a terminating ";".
func MoveToEndOfCurrentStatement(c cursor.Cursor) (cursor.Cursor, bool) {
	if !c.Valid() {
		return c, false
	}
	cur := c
	for {
		if isGroupOpener(cur.Value()) {
			closer, ok := cur.FwdToMatchingToken()
			if !ok {
				return cur, true
			}
			cur = closer
			if cur.Value() == "}" {
				next, ok := cur.MoveToNextToken()
				switch {
				case !ok:
					return cur, true
				case next.Value() == ";":
					return next, true
				case continuesAfterBlock(next):
					cur = next
					continue
				default:
					return cur, true
				}
			}
		}
		if cur.Value() == ";" {
			return cur, true
		}
		next, ok := cur.MoveToNextToken()
		if !ok {
			return cur, true
		}
		if v := next.Value(); v == "," || isGroupCloser(v) || strings.HasPrefix(v, "#") {
			return cur, true
		}
		cur = next
	}
}

// Statements finds C++ statement bounds for selection expansion.
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

// ScopeLabel names the scope opened by the "{" under c: a function
// ("Foo::bar"), or a class, struct, union, enum or namespace name. The
// preamble is where the declaration begins.
func ScopeLabel(c cursor.Cursor) (string, token.Position, bool) {
	if c.Value() != "{" {
		return "", token.Position{}, false
	}

	start := c
	if init, moved := BwdOverInitializationList(c); moved {
		start = init
	} else if inh, ok := BwdOverClassInheritance(c); ok {
		start = inh
	}

	if params, ok := BwdOverConstNoexceptDecltype(start); ok {
		open, ok := params.BwdToMatchingToken()
		if !ok {
			return "", token.Position{}, false
		}
		name, ok := prev(open)
		if !ok || !isName(name) || name.HasType("storage") {
			return "", token.Position{}, false
		}
		return qualifiedName(name), preambleOf(name), true
	}

	cur, ok := prev(start)
	for i := 0; ok && i < 16; i++ {
		v := cur.Value()
		if classLikeKeywords[v] || v == "namespace" {
			name := cur.PeekFwd(1)
			if v == "enum" && (name.Value() == "class" || name.Value() == "struct") {
				name = name.PeekFwd(1)
			}
			if !isName(name) {
				return "", token.Position{}, false
			}
			return name.Value(), preambleOf(cur), true
		}
		if v == ";" || v == "{" || v == "}" || v == ")" {
			break
		}
		cur, ok = prev(cur)
	}
	return "", token.Position{}, false
}

// qualifiedName joins "A::B::name" ending at c.
func qualifiedName(c cursor.Cursor) string {
	parts := []string{c.Value()}
	cur := c
	for {
		sep, ok := prev(cur)
		if !ok || sep.Value() != "::" {
			break
		}
		qual, ok := prev(sep)
		if !ok || !isName(qual) {
			break
		}
		parts = append([]string{qual.Value()}, parts...)
		cur = qual
	}
	return strings.Join(parts, "::")
}

// preambleOf is the start of the row holding the declaration name.
func preambleOf(c cursor.Cursor) token.Position {
	return token.Position{Row: c.Row(), Column: 0}
}
