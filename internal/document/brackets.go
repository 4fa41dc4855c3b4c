package document

import "github.com/zjrosen/codenav/internal/token"

// bracketPairs maps each bracket character to its matching partner.
var bracketPairs = map[byte]byte{
	'(': ')',
	')': '(',
	'{': '}',
	'}': '{',
	'[': ']',
	']': '[',
}

var openBrackets = map[byte]bool{
	'(': true,
	'{': true,
	'[': true,
}

// FindMatchingBracket looks at the character just before pos and, when it
// is a bracket, returns the position of its partner. The scan is textual:
// brackets inside strings and comments count.
func (d *Document) FindMatchingBracket(pos token.Position) (token.Position, bool) {
	pos = d.Clip(pos)
	if pos.Column == 0 {
		return token.Position{}, false
	}
	line := d.lines[pos.Row]
	ch := line[pos.Column-1]
	partner, isBracket := bracketPairs[ch]
	if !isBracket {
		return token.Position{}, false
	}

	depth := 1
	if openBrackets[ch] {
		col := pos.Column
		for row := pos.Row; row < len(d.lines); row++ {
			text := d.lines[row]
			for ; col < len(text); col++ {
				switch text[col] {
				case ch:
					depth++
				case partner:
					if depth--; depth == 0 {
						return token.Position{Row: row, Column: col}, true
					}
				}
			}
			col = 0
		}
		return token.Position{}, false
	}

	col := pos.Column - 2
	for row := pos.Row; row >= 0; row-- {
		text := d.lines[row]
		if row != pos.Row {
			col = len(text) - 1
		}
		for ; col >= 0; col-- {
			switch text[col] {
			case ch:
				depth++
			case partner:
				if depth--; depth == 0 {
					return token.Position{Row: row, Column: col}, true
				}
			}
		}
	}
	return token.Position{}, false
}
