package cmd

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/codenav/internal/codemodel"
	"github.com/zjrosen/codenav/internal/document"
	"github.com/zjrosen/codenav/internal/indent"
	"github.com/zjrosen/codenav/internal/language"
	"github.com/zjrosen/codenav/internal/log"
	"github.com/zjrosen/codenav/internal/presentation"
	"github.com/zjrosen/codenav/internal/token"
	"github.com/zjrosen/codenav/internal/tracing"
)

// session is one source file opened for a command.
type session struct {
	path  string
	lang  language.Language
	doc   *document.Document
	model *codemodel.Model
}

func (a *app) open(ctx context.Context, path string) (*session, error) {
	lang, err := language.Resolve(a.language, path)
	if err != nil {
		return nil, err
	}
	doc, err := document.Open(path, a.cfg.Indent.Tab())
	if err != nil {
		return nil, err
	}
	model, err := lang.NewModel(doc, a.cfg.Lexer.Engine)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	tracing.AddEvent(ctx, tracing.EventModelLoaded,
		attribute.String(tracing.AttrLanguage, lang.Name),
		attribute.String(tracing.AttrLexer, model.Lexer().Name()),
		attribute.Int(tracing.AttrLines, doc.LineCount()),
	)
	log.Debug(log.CatModel, "model loaded", "path", path, "language", lang.Name, "lexer", model.Lexer().Name())
	return &session{path: path, lang: lang, doc: doc, model: model}, nil
}

func (s *session) Close() {
	s.model.Close()
}

func (s *session) checkRow(row int) error {
	if row < 0 || row >= s.doc.LineCount() {
		return fmt.Errorf("row %d out of range: %s has %d rows", row, s.path, s.doc.LineCount())
	}
	return nil
}

func (s *session) checkPosition(pos token.Position) error {
	if err := s.checkRow(pos.Row); err != nil {
		return err
	}
	if n := len(s.doc.Line(pos.Row)); pos.Column < 0 || pos.Column > n {
		return fmt.Errorf("column %d out of range: row %d has %d columns", pos.Column, pos.Row, n)
	}
	return nil
}

// check reindents rows from..to of the session's document in memory and
// reports the rows whose indentation changed. The file is not written.
func (s *session) check(a *app, from, to int) presentation.CheckDTO {
	before := s.doc.Lines()
	rows := indent.Reindent(s.model, s.lang.NewIndenter(s.model, a.cfg.Indent), a.cfg.Indent.Tab(), from, to)

	report := presentation.CheckDTO{File: s.path, Rows: []presentation.RowFixDTO{}}
	for _, row := range rows {
		report.Rows = append(report.Rows, presentation.RowFixDTO{
			Row:  row,
			Have: document.LeadingWhitespace(before[row]),
			Want: document.LeadingWhitespace(s.doc.Line(row)),
		})
	}
	return report
}

// emit writes v as JSON under --json and through text otherwise.
func (a *app) emit(w io.Writer, v any, text func(*presentation.Renderer) error) error {
	if a.asJSON {
		return presentation.NewFormatter(w).Format(v)
	}
	return text(a.renderer(w))
}

func (a *app) renderer(w io.Writer) *presentation.Renderer {
	if a.noColor {
		return presentation.NewRenderer(w, presentation.WithoutColor())
	}
	return presentation.NewRenderer(w)
}

// indentWidth is the display width of leading whitespace.
func indentWidth(ws string, tabSize int) int {
	width := 0
	for _, r := range ws {
		if r == '\t' {
			width += tabSize
		} else {
			width++
		}
	}
	return width
}
