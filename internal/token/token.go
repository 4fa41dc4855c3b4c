// Package token defines the lexed units the navigation engines walk over and
// the sparse, lazily populated row store that holds them.
package token

import (
	"fmt"
	"strings"
)

// Token is a single lexed unit on a row.
// Type is a dot-delimited tag list such as "paren.keyword.operator".
type Token struct {
	Value  string
	Type   string
	Column int
}

// End returns the column one past the last character of the token.
func (t Token) End() int {
	return t.Column + len(t.Value)
}

// HasType reports whether any of the given tags appears as a component of
// the token's dot-delimited type.
func (t Token) HasType(tags ...string) bool {
	for _, part := range strings.Split(t.Type, ".") {
		for _, tag := range tags {
			if part == tag {
				return true
			}
		}
	}
	return false
}

func (t Token) String() string {
	return fmt.Sprintf("%q<%s>@%d", t.Value, t.Type, t.Column)
}

// Position is a zero-based document coordinate.
type Position struct {
	Row    int
	Column int
}

// Compare returns -1, 0 or 1 ordering p against o in document order.
func (p Position) Compare(o Position) int {
	switch {
	case p.Row < o.Row:
		return -1
	case p.Row > o.Row:
		return 1
	case p.Column < o.Column:
		return -1
	case p.Column > o.Column:
		return 1
	}
	return 0
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Column)
}

// Range spans Start to End; End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range from four coordinates.
func NewRange(startRow, startCol, endRow, endCol int) Range {
	return Range{
		Start: Position{Row: startRow, Column: startCol},
		End:   Position{Row: endRow, Column: endCol},
	}
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether o lies entirely within r (equal ranges contain
// each other).
func (r Range) Contains(o Range) bool {
	return r.Start.Compare(o.Start) <= 0 && o.End.Compare(r.End) <= 0
}

// StrictlyContains reports whether r contains o and is not equal to it.
func (r Range) StrictlyContains(o Range) bool {
	return r != o && r.Contains(o)
}

// RowSpan is the number of row boundaries the range crosses.
func (r Range) RowSpan() int {
	return r.End.Row - r.Start.Row
}

// ColumnSpan is the column distance between the endpoints. It is only a
// tie-breaker between ranges with equal row spans.
func (r Range) ColumnSpan() int {
	return r.End.Column - r.Start.Column
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
