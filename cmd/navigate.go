package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/codenav/internal/cursor"
	"github.com/zjrosen/codenav/internal/presentation"
	"github.com/zjrosen/codenav/internal/token"
	"github.com/zjrosen/codenav/internal/tracing"
)

func newExpandCmd(a *app) *cobra.Command {
	var (
		row, col       int
		endRow, endCol int
		steps, shrink  int
	)

	c := &cobra.Command{
		Use:   "expand FILE",
		Short: "Grow a selection over structural units",
		Long: `Start from the caret at --row/--col (or the selection up to
--end-row/--end-col) and expand it step by step: token, string, comment
block, bracket contents, brackets, statement, scope, whole document.

--steps limits the number of expansions (0 expands to the whole
document); --shrink then undoes that many of them.

Examples:
  codenav expand main.cpp --row 4 --col 12
  codenav expand main.cpp --row 4 --col 12 --steps 3 --shrink 1 --json`,
		Args: cobra.ExactArgs(1),
	}
	c.RunE = a.run("expand", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		sel := token.NewRange(row, col, row, col)
		if c.Flags().Changed("end-row") || c.Flags().Changed("end-col") {
			sel.End = token.Position{Row: endRow, Column: endCol}
		}
		if err := s.checkPosition(sel.Start); err != nil {
			return err
		}
		if err := s.checkPosition(sel.End); err != nil {
			return err
		}
		if sel.End.Before(sel.Start) {
			return fmt.Errorf("selection end %s is before its start %s", sel.End, sel.Start)
		}

		e := s.lang.NewExpander(s.model, a.cfg.Expand)
		defer e.Close()

		dto := presentation.ExpandDTO{File: s.path, Start: presentation.FromRange(sel), Steps: []presentation.ExpandStepDTO{}}
		for i := 1; steps <= 0 || i <= steps; i++ {
			next, ok := e.Expand(sel)
			if !ok {
				break
			}
			tracing.AddEvent(ctx, tracing.EventExpandRule, attribute.String(tracing.AttrRule, next.Name))
			dto.Steps = append(dto.Steps, presentation.ExpandStepDTO{
				Step:  i,
				Rule:  next.Name,
				Range: presentation.FromRange(next.Range),
				Text:  s.doc.TextRange(next.Range),
			})
			sel = next.Range
		}
		for i := 1; i <= shrink; i++ {
			prev, ok := e.Shrink()
			if !ok {
				break
			}
			dto.Shrunk = append(dto.Shrunk, presentation.ExpandStepDTO{
				Step:  i,
				Rule:  "shrink",
				Range: presentation.FromRange(prev),
				Text:  s.doc.TextRange(prev),
			})
			sel = prev
		}
		dto.Final = presentation.FromRange(sel)

		return a.emit(c.OutOrStdout(), dto, func(r *presentation.Renderer) error { return r.Expand(dto, s.doc.Lines()) })
	})

	c.Flags().IntVarP(&row, "row", "r", 0, "zero-based caret row")
	c.Flags().IntVar(&col, "col", 0, "zero-based caret column")
	c.Flags().IntVar(&endRow, "end-row", 0, "row where the initial selection ends")
	c.Flags().IntVar(&endCol, "end-col", 0, "column where the initial selection ends")
	c.Flags().IntVarP(&steps, "steps", "n", 0, "number of expansions (0: until the whole document)")
	c.Flags().IntVar(&shrink, "shrink", 0, "number of expansions to undo afterwards")
	_ = c.MarkFlagRequired("row")
	_ = c.MarkFlagRequired("col")
	c.MarkFlagsRequiredTogether("end-row", "end-col")
	return c
}

func newMatchCmd(a *app) *cobra.Command {
	var row, col int

	c := &cobra.Command{
		Use:   "match FILE",
		Short: "Find the bracket matching the one at a position",
		Long: `Find the partner of the bracket token at --row/--col. Openers are
matched forward and closers backward; "<" and ">" are treated as
brackets.

Example:
  codenav match main.cpp --row 10 --col 4`,
		Args: cobra.ExactArgs(1),
	}
	c.RunE = a.run("match", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		pos := token.Position{Row: row, Column: col}
		if err := s.checkPosition(pos); err != nil {
			return err
		}
		s.model.TokenizeUpToRow(row)

		at, ok := cursor.New(s.model.Store()).MoveToPosition(pos, true)
		tok, valid := at.Token()
		if !ok || !valid || at.Row() != row || tok.End() <= col {
			return fmt.Errorf("no token at %s", pos)
		}

		var (
			partner cursor.Cursor
			found   bool
		)
		switch {
		case cursor.IsOpener(tok.Value):
			partner, found = at.FwdToMatchingToken()
		case cursor.IsCloser(tok.Value):
			partner, found = at.BwdToMatchingToken()
		default:
			return fmt.Errorf("%q at %s is not a bracket", tok.Value, pos)
		}

		dto := presentation.MatchDTO{File: s.path, From: presentation.FromToken(row, tok), Found: found}
		if found {
			pt, _ := partner.Token()
			to := presentation.FromToken(partner.Row(), pt)
			dto.To = &to
		}
		return a.emit(c.OutOrStdout(), dto, func(r *presentation.Renderer) error { return r.Match(dto) })
	})

	c.Flags().IntVarP(&row, "row", "r", 0, "zero-based row of the bracket")
	c.Flags().IntVar(&col, "col", 0, "zero-based column of the bracket")
	_ = c.MarkFlagRequired("row")
	_ = c.MarkFlagRequired("col")
	return c
}

func newOutlineCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "outline FILE",
		Short: "Print the function and scope outline",
		Args:  cobra.ExactArgs(1),
	}
	c.RunE = a.run("outline", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		entries := presentation.FromOutline(s.model.ScopeTree().Outline())
		if a.asJSON {
			return presentation.NewFormatter(c.OutOrStdout()).FormatOutline(entries)
		}
		return a.renderer(c.OutOrStdout()).Outline(entries)
	})
	return c
}

func newTokensCmd(a *app) *cobra.Command {
	var row int

	c := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Dump the token store",
		Long: `Tokenize FILE and print every row of the token store with the lexer
state the row ends in. Whitespace and comments are not stored.

Examples:
  codenav tokens main.cpp
  codenav tokens main.cpp --row 3 --lexer chroma`,
		Args: cobra.ExactArgs(1),
	}
	c.RunE = a.run("tokens", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		first, last := 0, s.doc.LineCount()-1
		if c.Flags().Changed("row") {
			if err := s.checkRow(row); err != nil {
				return err
			}
			first, last = row, row
		}
		s.model.TokenizeUpToRow(last)

		rows := make([]presentation.TokenRowDTO, 0, last-first+1)
		for r := first; r <= last; r++ {
			toks, _ := s.model.Store().Row(r)
			dto := presentation.TokenRowDTO{Row: r, State: s.model.EndState(r), Tokens: make([]presentation.TokenDTO, 0, len(toks))}
			for _, t := range toks {
				dto.Tokens = append(dto.Tokens, presentation.FromToken(r, t))
			}
			rows = append(rows, dto)
		}
		return a.emit(c.OutOrStdout(), rows, func(r *presentation.Renderer) error { return r.Tokens(rows) })
	})

	c.Flags().IntVarP(&row, "row", "r", 0, "only this zero-based row")
	return c
}
