// Package document holds source text as lines and notifies listeners of
// every edit.
package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/zjrosen/codenav/internal/token"
)

// Action is the kind of edit a Delta describes.
type Action string

const (
	ActionInsert Action = "insert"
	ActionRemove Action = "remove"
)

// Delta describes one edit. For inserts Range spans the inserted text in
// the new document; for removes it spans the removed text in the old one.
type Delta struct {
	Action Action
	Range  token.Range
	Text   string
}

// Document is a line-oriented text buffer.
type Document struct {
	path      string
	lines     []string
	tab       string
	listeners map[int]func(Delta)
	nextID    int
}

// New creates a document from text. tab is the string one indent level
// inserts, e.g. "  " or "\t".
func New(text, tab string) *Document {
	return &Document{
		lines:     strings.Split(text, "\n"),
		tab:       tab,
		listeners: make(map[int]func(Delta)),
	}
}

// Open reads the file at path into a new document.
func Open(path, tab string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d := New(string(data), tab)
	d.path = path
	return d, nil
}

// Save writes the document back to the path it was opened from.
func (d *Document) Save() error {
	if d.path == "" {
		return fmt.Errorf("document has no path")
	}
	if err := os.WriteFile(d.path, []byte(d.Text()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	return nil
}

// Path returns the file the document was opened from, if any.
func (d *Document) Path() string { return d.path }

// TabString returns one level of indentation.
func (d *Document) TabString() string { return d.tab }

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int { return len(d.lines) }

// Line returns row's text, or "" when out of range.
func (d *Document) Line(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return d.lines[row]
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Text returns the whole document.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// End returns the position after the last character.
func (d *Document) End() token.Position {
	last := len(d.lines) - 1
	return token.Position{Row: last, Column: len(d.lines[last])}
}

// Clip clamps pos into the document.
func (d *Document) Clip(pos token.Position) token.Position {
	if pos.Row < 0 {
		return token.Position{}
	}
	if pos.Row >= len(d.lines) {
		return d.End()
	}
	if pos.Column < 0 {
		pos.Column = 0
	}
	if n := len(d.lines[pos.Row]); pos.Column > n {
		pos.Column = n
	}
	return pos
}

// TextRange returns the text covered by r.
func (d *Document) TextRange(r token.Range) string {
	start, end := d.Clip(r.Start), d.Clip(r.End)
	if !start.Before(end) {
		return ""
	}
	if start.Row == end.Row {
		return d.lines[start.Row][start.Column:end.Column]
	}
	var b strings.Builder
	b.WriteString(d.lines[start.Row][start.Column:])
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteString("\n")
		b.WriteString(d.lines[row])
	}
	b.WriteString("\n")
	b.WriteString(d.lines[end.Row][:end.Column])
	return b.String()
}

// Insert puts text at pos and returns the position after it.
func (d *Document) Insert(pos token.Position, text string) token.Position {
	pos = d.Clip(pos)
	if text == "" {
		return pos
	}
	line := d.lines[pos.Row]
	head, tail := line[:pos.Column], line[pos.Column:]
	parts := strings.Split(text, "\n")

	var end token.Position
	if len(parts) == 1 {
		d.lines[pos.Row] = head + text + tail
		end = token.Position{Row: pos.Row, Column: pos.Column + len(text)}
	} else {
		last := parts[len(parts)-1]
		inserted := make([]string, 0, len(parts))
		inserted = append(inserted, head+parts[0])
		inserted = append(inserted, parts[1:len(parts)-1]...)
		inserted = append(inserted, last+tail)
		d.lines = append(d.lines[:pos.Row], append(inserted, d.lines[pos.Row+1:]...)...)
		end = token.Position{Row: pos.Row + len(parts) - 1, Column: len(last)}
	}

	d.emit(Delta{Action: ActionInsert, Range: token.Range{Start: pos, End: end}, Text: text})
	return end
}

// Remove deletes the text covered by r.
func (d *Document) Remove(r token.Range) {
	start, end := d.Clip(r.Start), d.Clip(r.End)
	if !start.Before(end) {
		return
	}
	removed := d.TextRange(token.Range{Start: start, End: end})
	joined := d.lines[start.Row][:start.Column] + d.lines[end.Row][end.Column:]
	d.lines = append(d.lines[:start.Row], append([]string{joined}, d.lines[end.Row+1:]...)...)

	d.emit(Delta{Action: ActionRemove, Range: token.Range{Start: start, End: end}, Text: removed})
}

// SetIndent replaces row's leading whitespace with indent. It reports
// whether the line changed.
func (d *Document) SetIndent(row int, indent string) bool {
	line := d.Line(row)
	current := LeadingWhitespace(line)
	if current == indent {
		return false
	}
	if current != "" {
		d.Remove(token.NewRange(row, 0, row, len(current)))
	}
	d.Insert(token.Position{Row: row, Column: 0}, indent)
	return true
}

// OnChange registers fn for every subsequent edit. Listeners run
// synchronously, in no particular order. The returned func unsubscribes.
func (d *Document) OnChange(fn func(Delta)) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

func (d *Document) emit(delta Delta) {
	for _, fn := range d.listeners {
		fn(delta)
	}
}

// LeadingWhitespace returns the spaces and tabs that start line.
func LeadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
