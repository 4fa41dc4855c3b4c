package cursor

// Complements maps every bracket character to its partner.
var Complements = map[string]string{
	"(": ")",
	")": "(",
	"[": "]",
	"]": "[",
	"{": "}",
	"}": "{",
	"<": ">",
	">": "<",
}

// IsOpener reports whether v opens a bracket pair, including "<".
func IsOpener(v string) bool {
	return v == "(" || v == "[" || v == "{" || v == "<"
}

// IsCloser reports whether v closes a bracket pair, including ">".
func IsCloser(v string) bool {
	return v == ")" || v == "]" || v == "}" || v == ">"
}

// isBracketCloser excludes ">", whose bracket role is ambiguous.
func isBracketCloser(v string) bool {
	return v == ")" || v == "]" || v == "}"
}

// BwdToMatchingToken moves from a closer to its opener. Same-character
// closers deepen the walk and complements unwind it. The walk stops only at
// the match or the document start, so it ends after at most one visit per
// preceding token.
func (c Cursor) BwdToMatchingToken() (Cursor, bool) {
	v := c.Value()
	if !IsCloser(v) {
		return c, false
	}
	return c.walkToMatch(v, Complements[v], Cursor.MoveToPreviousToken)
}

// FwdToMatchingToken moves from an opener to its closer.
func (c Cursor) FwdToMatchingToken() (Cursor, bool) {
	v := c.Value()
	if !IsOpener(v) {
		return c, false
	}
	return c.walkToMatch(v, Complements[v], Cursor.MoveToNextToken)
}

// BwdToMatchingArrow steps from ">" back over a template argument list.
// Callers must only use it where "<" and ">" are known to be brackets, e.g.
// right after an identifier; the cursor cannot tell them from comparisons.
func (c Cursor) BwdToMatchingArrow() (Cursor, bool) {
	if c.Value() != ">" {
		return c, false
	}
	return c.walkToMatch(">", "<", Cursor.MoveToPreviousToken)
}

// FwdToMatchingArrow is the forward counterpart of BwdToMatchingArrow.
func (c Cursor) FwdToMatchingArrow() (Cursor, bool) {
	if c.Value() != "<" {
		return c, false
	}
	return c.walkToMatch("<", ">", Cursor.MoveToNextToken)
}

func (c Cursor) walkToMatch(self, comp string, step func(Cursor) (Cursor, bool)) (Cursor, bool) {
	depth := 1
	cur := c
	for {
		next, ok := step(cur)
		if !ok {
			return c, false
		}
		cur = next
		switch cur.Value() {
		case self:
			depth++
		case comp:
			depth--
			if depth == 0 {
				return cur, true
			}
		}
	}
}

// FindOpeningBracket walks backward from the current token (inclusive),
// skipping balanced (), [] and {} groups, until it reaches a token whose
// value is one of tokens. It fails at the document start, or at an
// unmatched "{" when failOnOpenBrace is set.
func (c Cursor) FindOpeningBracket(tokens []string, failOnOpenBrace bool) (Cursor, bool) {
	found, _, ok := c.findOpening(tokens, failOnOpenBrace)
	return found, ok
}

// FindOpeningBracketCountCommas is FindOpeningBracket that also reports how
// many top-level commas were crossed, i.e. which argument the cursor is in.
// The count is -1 on failure.
func (c Cursor) FindOpeningBracketCountCommas(tokens []string, failOnOpenBrace bool) (Cursor, int, bool) {
	return c.findOpening(tokens, failOnOpenBrace)
}

func (c Cursor) findOpening(tokens []string, failOnOpenBrace bool) (Cursor, int, bool) {
	commas := 0
	cur := c
	for cur.Valid() {
		if opener, ok := cur.bwdOverGroup(); ok {
			cur = opener
		} else {
			v := cur.Value()
			if v == "," {
				commas++
			}
			if failOnOpenBrace && v == "{" {
				return c, -1, false
			}
			for _, t := range tokens {
				if v == t {
					return cur, commas, true
				}
			}
		}

		prev, ok := cur.MoveToPreviousToken()
		if !ok {
			break
		}
		cur = prev
	}
	return c, -1, false
}

func (c Cursor) bwdOverGroup() (Cursor, bool) {
	if !isBracketCloser(c.Value()) {
		return c, false
	}
	return c.BwdToMatchingToken()
}
