// Package cursor implements the token cursor: a (row, offset) handle into a
// token.Store with stepping, seeking and bracket matching.
//
// A Cursor is an immutable value. Every move returns a new Cursor plus an ok
// flag; on failure the receiver is returned unchanged, so callers never need
// to clone before probing.
package cursor

import (
	"github.com/zjrosen/codenav/internal/token"
)

// emptyStore backs the invalid sentinel. It is never written to.
var emptyStore = token.NewStore(0)

// Cursor addresses one token in a store.
type Cursor struct {
	store  *token.Store
	row    int
	offset int
}

// New returns a cursor at (0, 0) over store.
func New(store *token.Store) Cursor {
	return Cursor{store: store}
}

// First returns a cursor on the first token of store, tokenizing leading
// rows as needed.
func First(store *token.Store) (Cursor, bool) {
	c := New(store)
	if toks, ok := store.Tokens(0); ok && len(toks) > 0 {
		return c, true
	}
	return c.MoveToNextToken()
}

// At returns a cursor at the given row and offset. The position is not
// checked; use Valid to find out whether it addresses a token.
func At(store *token.Store, row, offset int) Cursor {
	return Cursor{store: store, row: row, offset: offset}
}

// Invalid returns the sentinel cursor: (0, 0) over an empty store. Every
// query on it fails safely.
func Invalid() Cursor {
	return Cursor{store: emptyStore}
}

// Row returns the cursor's row.
func (c Cursor) Row() int { return c.row }

// Offset returns the index of the token within its row.
func (c Cursor) Offset() int { return c.offset }

// Store returns the backing store.
func (c Cursor) Store() *token.Store { return c.store }

// Clone returns an independent copy. Cursors are values, so this is the
// identity; it exists for callers that want the intent spelled out.
func (c Cursor) Clone() Cursor { return c }

// Equal reports whether both cursors address the same row and offset.
func (c Cursor) Equal(o Cursor) bool {
	return c.row == o.row && c.offset == o.offset
}

// Token returns the token under the cursor.
func (c Cursor) Token() (token.Token, bool) {
	if c.store == nil {
		return token.Token{}, false
	}
	toks, ok := c.store.Row(c.row)
	if !ok || c.offset < 0 || c.offset >= len(toks) {
		return token.Token{}, false
	}
	return toks[c.offset], true
}

// Valid reports whether the cursor addresses an existing token.
func (c Cursor) Valid() bool {
	_, ok := c.Token()
	return ok
}

// Value returns the current token's text, or "" when invalid.
func (c Cursor) Value() string {
	t, _ := c.Token()
	return t.Value
}

// Type returns the current token's type, or "" when invalid.
func (c Cursor) Type() string {
	t, _ := c.Token()
	return t.Type
}

// HasType reports whether the current token carries any of the tags.
func (c Cursor) HasType(tags ...string) bool {
	t, ok := c.Token()
	return ok && t.HasType(tags...)
}

// Position returns the document position of the current token's first
// character.
func (c Cursor) Position() token.Position {
	t, _ := c.Token()
	return token.Position{Row: c.row, Column: t.Column}
}

// EndPosition returns the position one past the current token.
func (c Cursor) EndPosition() token.Position {
	t, _ := c.Token()
	return token.Position{Row: c.row, Column: t.End()}
}

// IsFirstOnRow reports whether the cursor is on the first token of its row.
func (c Cursor) IsFirstOnRow() bool {
	return c.Valid() && c.offset == 0
}

// IsLastOnRow reports whether the cursor is on the last token of its row.
func (c Cursor) IsLastOnRow() bool {
	if c.store == nil {
		return false
	}
	toks, ok := c.store.Row(c.row)
	return ok && c.offset == len(toks)-1
}

// MoveToPreviousToken steps one token backward, crossing blank and unknown
// rows. It never triggers tokenization.
func (c Cursor) MoveToPreviousToken() (Cursor, bool) {
	if c.store == nil {
		return c, false
	}
	if c.offset > 0 {
		if toks, ok := c.store.Row(c.row); ok && len(toks) > 0 {
			off := c.offset - 1
			if off >= len(toks) {
				off = len(toks) - 1
			}
			return Cursor{store: c.store, row: c.row, offset: off}, true
		}
	}
	for row := c.row - 1; row >= 0; row-- {
		if toks, ok := c.store.Row(row); ok && len(toks) > 0 {
			return Cursor{store: c.store, row: row, offset: len(toks) - 1}, true
		}
	}
	return c, false
}

// MoveToNextToken steps one token forward, tokenizing unknown rows on the
// way.
func (c Cursor) MoveToNextToken() (Cursor, bool) {
	if c.store == nil {
		return c, false
	}
	return c.MoveToNextTokenBounded(c.store.Len() - 1)
}

// MoveToNextTokenBounded is MoveToNextToken that never leaves maxRow.
func (c Cursor) MoveToNextTokenBounded(maxRow int) (Cursor, bool) {
	if c.store == nil || c.row > maxRow {
		return c, false
	}
	if toks, ok := c.store.Tokens(c.row); ok && c.offset+1 < len(toks) {
		return Cursor{store: c.store, row: c.row, offset: c.offset + 1}, true
	}
	last := c.store.Len() - 1
	if maxRow < last {
		last = maxRow
	}
	for row := c.row + 1; row <= last; row++ {
		if toks, ok := c.store.Tokens(row); ok && len(toks) > 0 {
			return Cursor{store: c.store, row: row, offset: 0}, true
		}
	}
	return c, false
}

// MoveToStartOfRow moves to the first token of row.
func (c Cursor) MoveToStartOfRow(row int) (Cursor, bool) {
	if c.store == nil {
		return c, false
	}
	if toks, ok := c.store.Tokens(row); ok && len(toks) > 0 {
		return Cursor{store: c.store, row: row, offset: 0}, true
	}
	return c, false
}

// MoveToEndOfRow moves to the last token of row.
func (c Cursor) MoveToEndOfRow(row int) (Cursor, bool) {
	if c.store == nil {
		return c, false
	}
	if toks, ok := c.store.Tokens(row); ok && len(toks) > 0 {
		return Cursor{store: c.store, row: row, offset: len(toks) - 1}, true
	}
	return c, false
}

// MoveToPosition moves to the rightmost token on pos.Row whose column is
// strictly before pos.Column (at or before it when rightInclusive). When no
// token on that row qualifies, it falls back to the last token of the
// nearest preceding non-blank row.
//
// The default excludes the token under the caret: indentation and matching
// only look at what precedes an edit point.
func (c Cursor) MoveToPosition(pos token.Position, rightInclusive bool) (Cursor, bool) {
	if c.store == nil || c.store.Len() == 0 || pos.Row < 0 {
		return c, false
	}
	row := pos.Row
	col := pos.Column
	if row >= c.store.Len() {
		row = c.store.Len() - 1
		col = int(^uint(0) >> 1)
	}

	if toks, ok := c.store.Tokens(row); ok {
		for i := len(toks) - 1; i >= 0; i-- {
			if toks[i].Column < col || (rightInclusive && toks[i].Column == col) {
				return Cursor{store: c.store, row: row, offset: i}, true
			}
		}
	}

	for r := row - 1; r >= 0; r-- {
		if toks, ok := c.store.Tokens(r); ok && len(toks) > 0 {
			return Cursor{store: c.store, row: r, offset: len(toks) - 1}, true
		}
	}
	return c, false
}

// FindToken returns the first cursor at or after c, up to maxRow, whose token
// satisfies pred.
func (c Cursor) FindToken(pred func(token.Token) bool, maxRow int) (Cursor, bool) {
	cur := c
	for {
		if t, ok := cur.Token(); ok && pred(t) {
			return cur, true
		}
		next, ok := cur.MoveToNextTokenBounded(maxRow)
		if !ok {
			return c, false
		}
		cur = next
	}
}

// PeekFwd returns the cursor n tokens ahead, or Invalid if any step fails.
func (c Cursor) PeekFwd(n int) Cursor {
	cur := c
	for i := 0; i < n; i++ {
		next, ok := cur.MoveToNextToken()
		if !ok {
			return Invalid()
		}
		cur = next
	}
	return cur
}

// PeekBwd returns the cursor n tokens back, or Invalid if any step fails.
func (c Cursor) PeekBwd(n int) Cursor {
	cur := c
	for i := 0; i < n; i++ {
		prev, ok := cur.MoveToPreviousToken()
		if !ok {
			return Invalid()
		}
		cur = prev
	}
	return cur
}
