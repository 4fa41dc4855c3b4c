package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

// Limits of the text shown under each expansion step.
const (
	maxPreviewRows  = 8
	maxPreviewWidth = 120
)

// Renderer writes results as styled text. Colors are dropped when the
// writer is not a terminal.
type Renderer struct {
	w  io.Writer
	st styles
}

// RendererOption configures a Renderer.
type RendererOption func(*[]termenv.OutputOption)

// WithoutColor renders plain text even on a terminal.
func WithoutColor() RendererOption {
	return func(opts *[]termenv.OutputOption) {
		*opts = append(*opts, termenv.WithProfile(termenv.Ascii))
	}
}

// NewRenderer returns a Renderer for w.
func NewRenderer(w io.Writer, opts ...RendererOption) *Renderer {
	var outOpts []termenv.OutputOption
	for _, opt := range opts {
		opt(&outOpts)
	}
	return &Renderer{w: w, st: newStyles(lipgloss.NewRenderer(w, outOpts...))}
}

// Visible spells out leading whitespace: "·" for a space, "→" for a tab.
func Visible(ws string) string {
	return strings.NewReplacer(" ", "·", "\t", "→").Replace(ws)
}

// Indent prints one indentation answer.
func (r *Renderer) Indent(d IndentDTO) error {
	at := fmt.Sprintf("row %d", d.Row)
	if d.Column != nil {
		at = fmt.Sprintf("row %d col %d", d.Row, *d.Column)
	}
	_, err := fmt.Fprintf(r.w, "%s %s %s width %d %q\n",
		r.st.header.Render(d.File), at, r.st.rule.Render("["+d.Rule+"]"), d.Width, Visible(d.Indent))
	if err == nil && d.Line != "" {
		_, err = fmt.Fprintf(r.w, "  line: %s\n", d.Line)
	}
	return err
}

// Expand prints every step with its range highlighted in lines.
func (r *Renderer) Expand(d ExpandDTO, lines []string) error {
	var b strings.Builder
	for _, s := range d.Steps {
		r.step(&b, "expand", s, lines)
	}
	for _, s := range d.Shrunk {
		r.step(&b, "shrink", s, lines)
	}
	fmt.Fprintf(&b, "%s %s\n", r.st.header.Render("final"), rangeString(d.Final))
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) step(b *strings.Builder, verb string, s ExpandStepDTO, lines []string) {
	fmt.Fprintf(b, "%s %d %s %s\n",
		r.st.header.Render(verb), s.Step, r.st.rule.Render(s.Rule), r.st.muted.Render(rangeString(s.Range)))

	last := min(s.Range.End.Row, len(lines)-1)
	shown := 0
	for row := s.Range.Start.Row; row <= last; row++ {
		if shown == maxPreviewRows {
			fmt.Fprintf(b, "%s\n", r.st.muted.Render(fmt.Sprintf("    ... %d more rows", last-row+1)))
			break
		}
		line := truncate.StringWithTail(r.highlight(lines[row], row, s.Range), maxPreviewWidth, "…")
		fmt.Fprintf(b, "%4d %s\n", row, line)
		shown++
	}
}

// highlight styles the part of line row that falls inside rg.
func (r *Renderer) highlight(line string, row int, rg RangeDTO) string {
	from, to := 0, len(line)
	if row == rg.Start.Row {
		from = min(rg.Start.Column, len(line))
	}
	if row == rg.End.Row {
		to = min(rg.End.Column, len(line))
	}
	if from >= to {
		return line
	}
	return line[:from] + r.st.selection.Render(line[from:to]) + line[to:]
}

func rangeString(rg RangeDTO) string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", rg.Start.Row, rg.Start.Column, rg.End.Row, rg.End.Column)
}

// Match prints a bracket and its partner.
func (r *Renderer) Match(d MatchDTO) error {
	from := fmt.Sprintf("%q at (%d,%d)", d.From.Value, d.From.Row, d.From.Column)
	if !d.Found || d.To == nil {
		_, err := fmt.Fprintf(r.w, "%s %s\n", from, r.st.warn.Render("has no match"))
		return err
	}
	_, err := fmt.Fprintf(r.w, "%s matches %q at (%d,%d)\n", from, d.To.Value, d.To.Row, d.To.Column)
	return err
}

// Tokens prints token rows, one token per line.
func (r *Renderer) Tokens(rows []TokenRowDTO) error {
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s %s\n", r.st.header.Render(fmt.Sprintf("row %d", row.Row)), r.st.muted.Render(row.State))
		for _, t := range row.Tokens {
			fmt.Fprintf(&b, "  %3d %s %s\n", t.Column, runewidth.FillRight(fmt.Sprintf("%q", t.Value), 12), r.st.rule.Render(t.Type))
		}
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Outline prints the scope tree indented by depth.
func (r *Renderer) Outline(entries []OutlineEntryDTO) error {
	var b strings.Builder
	var walk func(es []OutlineEntryDTO, depth int)
	walk = func(es []OutlineEntryDTO, depth int) {
		for _, e := range es {
			span := fmt.Sprintf("%d:%d-%d:%d", e.Start.Row, e.Start.Column, e.End.Row, e.End.Column)
			if !e.Closed {
				span += " unclosed"
			}
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", depth), r.st.header.Render(e.Label), r.st.muted.Render(span))
			walk(e.Children, depth+1)
		}
	}
	walk(entries, 0)
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Check prints a check report.
func (r *Renderer) Check(c CheckDTO) error {
	if c.OK() {
		_, err := fmt.Fprintf(r.w, "%s %s\n", c.File, r.st.ok.Render("ok"))
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", c.File, r.st.warn.Render(fmt.Sprintf("%d misindented rows", len(c.Rows))))
	for _, fix := range c.Rows {
		fmt.Fprintf(&b, "  row %d: have %q want %q\n", fix.Row, Visible(fix.Have), Visible(fix.Want))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Diff prints the changed lines of a line diff with context lines of
// surrounding text.
func (r *Renderer) Diff(file string, lines []DiffLine, context int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", r.st.removed.Render("--- "+file), r.st.added.Render("+++ "+file))

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == DiffKeep {
			continue
		}
		for j := max(i-context, 0); j <= min(i+context, len(lines)-1); j++ {
			keep[j] = true
		}
	}

	gap := false
	for i, l := range lines {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			fmt.Fprintf(&b, "%s\n", r.st.muted.Render("..."))
			gap = false
		}
		text := string(l.Op) + l.Text
		switch l.Op {
		case DiffAdd:
			text = r.st.added.Render(text)
		case DiffRemove:
			text = r.st.removed.Render(text)
		}
		fmt.Fprintf(&b, "%s\n", text)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}
