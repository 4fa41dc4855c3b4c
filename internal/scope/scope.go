// Package scope builds the brace-delimited scope tree of a tokenized
// document and answers "which scope is this position in" queries.
package scope

import (
	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/token"
)

// TopLevelLabel labels the root scope.
const TopLevelLabel = "(Top Level)"

// Labeler names the scope opened by the "{" under brace and reports where
// its declaration begins. ok is false for anonymous blocks.
type Labeler func(brace cursor.Cursor) (label string, preamble token.Position, ok bool)

// Scope is one brace-delimited region. End is exclusive and only
// meaningful when Closed is set.
type Scope struct {
	Label    string
	Preamble token.Position
	Start    token.Position
	End      token.Position
	Closed   bool
	Parent   *Scope
	Children []*Scope
}

// IsRoot reports whether s is the top-level scope.
func (s *Scope) IsRoot() bool {
	return s.Parent == nil
}

// IsFunction reports whether the scope carries a label, i.e. a named
// function or type body.
func (s *Scope) IsFunction() bool {
	return !s.IsRoot() && s.Label != ""
}

// Contains reports whether pos lies between the preamble and the end.
func (s *Scope) Contains(pos token.Position) bool {
	if pos.Before(s.Preamble) {
		return false
	}
	return !s.Closed || pos.Before(s.End)
}

// Range returns the region from preamble to end. Unclosed scopes, and
// scopes closed on the last row, end at docEnd.
func (s *Scope) Range(docEnd token.Position) token.Range {
	end := s.End
	if !s.Closed || docEnd.Before(end) {
		end = docEnd
	}
	return token.Range{Start: s.Preamble, End: end}
}

func (s *Scope) addChild(label string, preamble, start token.Position) *Scope {
	child := &Scope{Label: label, Preamble: preamble, Start: start, Parent: s}
	s.Children = append(s.Children, child)
	return child
}

// Tree is the scope tree of one document.
type Tree struct {
	Root *Scope
}

// Build walks every token in store and nests a scope per "{". A "}"
// closes the innermost open scope; its end is the start of the next row
// when the brace ends its row, else the column after it. Unmatched "}"
// at top level are ignored.
func Build(store *token.Store, label Labeler) *Tree {
	root := &Scope{Label: TopLevelLabel}
	tree := &Tree{Root: root}

	c, ok := cursor.First(store)
	stack := []*Scope{root}
	for ; ok; c, ok = c.MoveToNextToken() {
		switch c.Value() {
		case "{":
			var (
				name     string
				preamble token.Position
				named    bool
			)
			if label != nil {
				name, preamble, named = label(c)
			}
			if !named {
				name = ""
				preamble = c.Position()
				if c.IsFirstOnRow() {
					preamble.Column = 0
				}
			}
			child := stack[len(stack)-1].addChild(name, preamble, c.Position())
			stack = append(stack, child)
		case "}":
			if len(stack) == 1 {
				continue
			}
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			end := c.Position()
			if c.IsLastOnRow() {
				end = token.Position{Row: end.Row + 1, Column: 0}
			} else {
				end.Column++
			}
			node.End = end
			node.Closed = true
		}
	}
	return tree
}

// CurrentScope returns the innermost scope containing pos, or the root.
func (t *Tree) CurrentScope(pos token.Position) *Scope {
	cur := t.Root
	for {
		var next *Scope
		for _, child := range cur.Children {
			if child.Contains(pos) {
				next = child
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// FunctionAt returns the innermost labelled scope containing pos.
func (t *Tree) FunctionAt(pos token.Position) (*Scope, bool) {
	for s := t.CurrentScope(pos); s != nil; s = s.Parent {
		if s.IsFunction() {
			return s, true
		}
	}
	return nil, false
}

// Entry is one node of an exported outline.
type Entry struct {
	Label    string
	Preamble token.Position
	End      token.Position
	Closed   bool
	Depth    int
	Children []Entry
}

// Outline exports the labelled scopes. Anonymous blocks are flattened
// into their nearest labelled ancestor.
func (t *Tree) Outline() []Entry {
	return outline(t.Root, 0)
}

func outline(s *Scope, depth int) []Entry {
	var out []Entry
	for _, child := range s.Children {
		if !child.IsFunction() {
			out = append(out, outline(child, depth)...)
			continue
		}
		out = append(out, Entry{
			Label:    child.Label,
			Preamble: child.Preamble,
			End:      child.End,
			Closed:   child.Closed,
			Depth:    depth,
			Children: outline(child, depth+1),
		})
	}
	return out
}

// Walk visits every scope depth-first, root first.
func (t *Tree) Walk(fn func(*Scope)) {
	var walk func(*Scope)
	walk = func(s *Scope) {
		fn(s)
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(t.Root)
}
