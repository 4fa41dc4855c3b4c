// Package codemodel ties a document to its tokens. It tokenizes lazily,
// caches the state every row ends in, keeps the token store in step with
// edits and builds the scope tree on demand.
package codemodel

import (
	"strings"

	"github.com/zjrosen/codenav/internal/document"
	"github.com/zjrosen/codenav/internal/lexer"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/scope"
	"github.com/zjrosen/codenav/internal/token"
)

type endState struct {
	state string
	known bool
}

// Model is the code model of one document. It is not safe for concurrent
// use.
type Model struct {
	doc       *document.Document
	lexer     lexer.Lexer
	store     *token.Store
	endStates []endState

	isCode  func(state string) bool
	labeler scope.Labeler
	tree    *scope.Tree

	listeners   map[int]func(document.Delta)
	nextID      int
	unsubscribe func()
}

// Option configures a Model.
type Option func(*Model)

// WithCodeStates keeps tokens only on rows that begin or end in a state
// accepted by isCode. R Markdown uses it to drop prose rows.
func WithCodeStates(isCode func(state string) bool) Option {
	return func(m *Model) { m.isCode = isCode }
}

// WithLabeler names the scopes of the scope tree.
func WithLabeler(l scope.Labeler) Option {
	return func(m *Model) { m.labeler = l }
}

// New binds a model to doc. Close releases the document subscription.
func New(doc *document.Document, lx lexer.Lexer, opts ...Option) *Model {
	m := &Model{
		doc:       doc,
		lexer:     lx,
		store:     token.NewStore(doc.LineCount()),
		endStates: make([]endState, doc.LineCount()),
		listeners: make(map[int]func(document.Delta)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.store.SetTokenizer(m.TokenizeUpToRow)
	m.unsubscribe = doc.OnChange(m.onDocChange)
	return m
}

// Close detaches the model from its document.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Document returns the underlying document.
func (m *Model) Document() *document.Document { return m.doc }

// Lexer returns the lexer in use.
func (m *Model) Lexer() lexer.Lexer { return m.lexer }

// Store returns the token store. Unknown rows are tokenized on demand.
func (m *Model) Store() *token.Store { return m.store }

// Line returns the text of row.
func (m *Model) Line(row int) string { return m.doc.Line(row) }

// LineCount returns the number of rows.
func (m *Model) LineCount() int { return m.doc.LineCount() }

// TabString returns the document's indent unit.
func (m *Model) TabString() string { return m.doc.TabString() }

// FindMatchingBracket forwards to the document's text-level matcher.
func (m *Model) FindMatchingBracket(pos token.Position) (token.Position, bool) {
	return m.doc.FindMatchingBracket(pos)
}

// TokenizeUpToRow makes rows 0..lastRow known. Rows are skipped until the
// first invalidated one; from there every row is re-tokenized until one
// ends in the state the cache already held for it.
func (m *Model) TokenizeUpToRow(lastRow int) bool {
	lastRow = min(lastRow, len(m.endStates)-1)

	assumeGood := true
	row := 0
	for ; row <= lastRow; row++ {
		if assumeGood && m.endStates[row].known && m.store.Known(row) {
			continue
		}
		assumeGood = false

		state := m.lexer.StartState()
		if row > 0 {
			state = m.endStates[row-1].state
		}
		toks, end := m.lexer.TokenizeLine(m.doc.Line(row), state)
		if m.isCode == nil || m.isCode(state) || m.isCode(end) {
			m.store.SetRow(row, Filter(toks))
		} else {
			m.store.SetRow(row, nil)
		}

		if m.endStates[row].known && m.endStates[row].state == end {
			assumeGood = true
		} else {
			m.endStates[row] = endState{state: end, known: true}
		}
	}

	// The last row we tokenized disagreed with the cache, so the next row
	// must not be trusted on the following pass.
	if !assumeGood && row < len(m.endStates) {
		m.invalidateRow(row)
	}
	return true
}

// EndState returns the lexer state row ends in, which is the state the
// next row starts in.
func (m *Model) EndState(row int) string {
	if row < 0 || row >= len(m.endStates) {
		return m.lexer.StartState()
	}
	m.TokenizeUpToRow(row)
	return m.endStates[row].state
}

// StartState returns the lexer state row begins in.
func (m *Model) StartState(row int) string {
	if row <= 0 {
		return m.lexer.StartState()
	}
	return m.EndState(row - 1)
}

// StateAt returns the lexer state at pos, the state the text before pos on
// its row ends in.
func (m *Model) StateAt(pos token.Position) string {
	line := m.doc.Line(pos.Row)
	col := min(max(pos.Column, 0), len(line))
	_, state := m.lexer.TokenizeLine(line[:col], m.StartState(pos.Row))
	return state
}

// SetIndent replaces row's leading whitespace with indent.
func (m *Model) SetIndent(row int, indent string) bool {
	return m.doc.SetIndent(row, indent)
}

// ScopeTree returns the scope tree, building it when edits made it stale.
func (m *Model) ScopeTree() *scope.Tree {
	if m.tree == nil {
		m.TokenizeUpToRow(m.doc.LineCount() - 1)
		m.tree = scope.Build(m.store, m.labeler)
		log.Debug(log.CatModel, "scope tree built", "rows", m.doc.LineCount(), "lexer", m.lexer.Name())
	}
	return m.tree
}

// CurrentScope returns the innermost scope containing pos.
func (m *Model) CurrentScope(pos token.Position) *scope.Scope {
	return m.ScopeTree().CurrentScope(pos)
}

// OnChange registers fn to run after the model has absorbed an edit. The
// returned func unsubscribes.
func (m *Model) OnChange(fn func(document.Delta)) func() {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

func (m *Model) onDocChange(d document.Delta) {
	start, end := d.Range.Start.Row, d.Range.End.Row
	switch d.Action {
	case document.ActionInsert:
		m.invalidateRow(start)
		m.insertRows(start+1, end-start)
	case document.ActionRemove:
		m.removeRows(start+1, end-start)
		m.invalidateRow(start)
	}
	m.tree = nil
	log.Debug(log.CatModel, "document changed", "action", d.Action, "start", start, "end", end)

	for _, fn := range m.listeners {
		fn(d)
	}
}

func (m *Model) invalidateRow(row int) {
	if row < 0 || row >= len(m.endStates) {
		return
	}
	m.endStates[row] = endState{}
	m.store.Invalidate(row)
}

func (m *Model) insertRows(row, count int) {
	if count <= 0 {
		return
	}
	row = min(max(row, 0), len(m.endStates))
	m.endStates = append(m.endStates[:row], append(make([]endState, count), m.endStates[row:]...)...)
	m.store.InsertRows(row, count)
}

func (m *Model) removeRows(row, count int) {
	if count <= 0 || row < 0 || row >= len(m.endStates) {
		return
	}
	end := min(row+count, len(m.endStates))
	m.endStates = append(m.endStates[:row], m.endStates[end:]...)
	m.store.RemoveRows(row, count)
}

// Filter drops whitespace and comment tokens and splits multi-character
// bracket tokens such as "))" or "[[" into one token per character.
func Filter(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if strings.TrimSpace(t.Value) == "" || t.HasType("comment") {
			continue
		}
		if len(t.Value) > 1 && t.HasType("paren") {
			for i := 0; i < len(t.Value); i++ {
				out = append(out, token.Token{Value: t.Value[i : i+1], Type: t.Type, Column: t.Column + i})
			}
			continue
		}
		out = append(out, t)
	}
	return out
}
