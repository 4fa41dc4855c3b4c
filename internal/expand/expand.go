// Package expand grows and shrinks a selection over structural units:
// tokens, strings, comment blocks, bracket groups, statements, scopes and
// finally the whole document.
package expand

import (
	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/document"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/scope"
	"github.com/zjrosen/codenav/internal/token"
)

// Model is the code model the rules read from.
type Model interface {
	Store() *token.Store
	Line(row int) string
	LineCount() int
	CurrentScope(pos token.Position) *scope.Scope
	OnChange(fn func(document.Delta)) func()
}

// StatementFinder returns the first and last token of the statement
// around c.
type StatementFinder interface {
	StatementBounds(c cursor.Cursor) (start, end cursor.Cursor, ok bool)
}

// Candidate is a range proposed by one rule.
type Candidate struct {
	Name      string
	Range     token.Range
	Immediate bool
}

// Rule produces candidate ranges for a selection.
type Rule struct {
	Name string
	// Immediate rules are tried first, in order; the first candidate that
	// strictly contains the selection wins outright.
	Immediate bool
	Apply     func(e *Expander, sel token.Range) []token.Range
}

// Option configures an Expander.
type Option func(*Expander)

// WithStatements enables the statement rule.
func WithStatements(s StatementFinder) Option {
	return func(e *Expander) { e.statements = s }
}

// WithCommentPrefix sets the line comment marker used by the comment
// rule, e.g. "//" or "#".
func WithCommentPrefix(prefix string) Option {
	return func(e *Expander) { e.commentPrefix = prefix }
}

// Expander holds the rule list and the shrink history of one document.
// It is not safe for concurrent use.
type Expander struct {
	model         Model
	cfg           config.ExpandConfig
	statements    StatementFinder
	commentPrefix string
	rules         []Rule

	history     []token.Range
	unsubscribe func()
}

// New returns an Expander over model. Its history is cleared on every
// document change; Close stops listening.
func New(model Model, cfg config.ExpandConfig, opts ...Option) *Expander {
	e := &Expander{model: model, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = []Rule{
		{Name: "string", Immediate: true, Apply: ruleString},
		{Name: "token", Immediate: true, Apply: ruleToken},
		{Name: "comment", Immediate: true, Apply: ruleComment},
		{Name: "includeBoundaries", Immediate: true, Apply: ruleIncludeBoundaries},
		{Name: "matching", Apply: ruleMatching},
		{Name: "statement", Apply: ruleStatement},
		{Name: "scope", Apply: ruleScope},
		{Name: "everything", Apply: ruleEverything},
	}
	e.unsubscribe = model.OnChange(func(document.Delta) { e.ClearHistory() })
	return e
}

// Close detaches the Expander from document changes.
func (e *Expander) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// RuleNames lists the rules in evaluation order.
func (e *Expander) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Candidates returns every candidate that strictly contains sel, in rule
// order.
func (e *Expander) Candidates(sel token.Range) []Candidate {
	e.prepare(sel)
	var out []Candidate
	for _, r := range e.rules {
		for _, rng := range r.Apply(e, sel) {
			if rng.StrictlyContains(sel) {
				out = append(out, Candidate{Name: r.Name, Range: rng, Immediate: r.Immediate})
			}
		}
	}
	return out
}

// Expand returns the next larger range around sel and records sel for
// Shrink. It reports false when sel already covers the document.
func (e *Expander) Expand(sel token.Range) (Candidate, bool) {
	best, ok := e.choose(sel)
	if !ok {
		return Candidate{}, false
	}
	e.push(sel)
	log.Debug(log.CatExpand, "expansion rule won", "rule", best.Name, "range", best.Range.String())
	return best, true
}

func (e *Expander) choose(sel token.Range) (Candidate, bool) {
	e.prepare(sel)

	for _, r := range e.rules {
		if !r.Immediate {
			continue
		}
		for _, rng := range r.Apply(e, sel) {
			if rng.StrictlyContains(sel) {
				return Candidate{Name: r.Name, Range: rng, Immediate: true}, true
			}
		}
	}

	var (
		best  Candidate
		found bool
	)
	for _, r := range e.rules {
		if r.Immediate {
			continue
		}
		for _, rng := range r.Apply(e, sel) {
			if !rng.StrictlyContains(sel) {
				continue
			}
			if !found || smaller(rng, best.Range) {
				best = Candidate{Name: r.Name, Range: rng}
				found = true
			}
		}
	}
	return best, found
}

// smaller orders by row span, then column span.
func smaller(a, b token.Range) bool {
	if a.RowSpan() != b.RowSpan() {
		return a.RowSpan() < b.RowSpan()
	}
	return a.ColumnSpan() < b.ColumnSpan()
}

// Shrink returns the range most recently replaced by Expand.
func (e *Expander) Shrink() (token.Range, bool) {
	if len(e.history) == 0 {
		return token.Range{}, false
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	return last, true
}

// Depth is the number of ranges Shrink can still return.
func (e *Expander) Depth() int {
	return len(e.history)
}

// ClearHistory forgets every recorded range.
func (e *Expander) ClearHistory() {
	if len(e.history) > 0 {
		log.Debug(log.CatExpand, "history cleared", "depth", len(e.history))
	}
	e.history = nil
}

func (e *Expander) push(r token.Range) {
	e.history = append(e.history, r)
	if limit := e.cfg.HistoryLimit; limit > 0 && len(e.history) > limit {
		e.history = e.history[len(e.history)-limit:]
	}
}

// prepare tokenizes through the selection so backward walks see every
// row they can reach.
func (e *Expander) prepare(sel token.Range) {
	if n := e.model.LineCount(); n > 0 {
		e.model.Store().Tokens(min(sel.End.Row, n-1))
	}
}

func (e *Expander) docEnd() token.Position {
	last := max(e.model.LineCount()-1, 0)
	return token.Position{Row: last, Column: len(e.model.Line(last))}
}
