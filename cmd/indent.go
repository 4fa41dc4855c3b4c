package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/codenav/internal/indent"
	"github.com/zjrosen/codenav/internal/presentation"
	"github.com/zjrosen/codenav/internal/token"
	"github.com/zjrosen/codenav/internal/tracing"
)

// errMisindented fails `reindent --check` on a file that needs changes.
var errMisindented = errors.New("file is not indented as computed")

func newIndentCmd(a *app) *cobra.Command {
	var row, col int

	c := &cobra.Command{
		Use:   "indent FILE",
		Short: "Print the indentation for the line after a row",
		Long: `Print the leading whitespace a new line after --row would get, and the
name of the rule that decided it.

With --col the row is cut at that column, as if Enter were pressed there.

Examples:
  codenav indent main.cpp --row 12
  codenav indent analysis.R --row 3 --col 10 --json`,
		Args: cobra.ExactArgs(1),
	}
	c.RunE = a.run("indent", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		pos := token.Position{Row: row, Column: col}
		if err := s.checkRow(row); err != nil {
			return err
		}

		tab := a.cfg.Indent.Tab()
		in := s.lang.NewIndenter(s.model, a.cfg.Indent)
		line := s.model.Line(row)

		dto := presentation.IndentDTO{File: s.path, Row: row}
		var res indent.Result
		if c.Flags().Changed("col") {
			if err := s.checkPosition(pos); err != nil {
				return err
			}
			res = indent.AtCaret(s.model, in, tab, pos)
			line = line[:col]
			dto.Column = &col
		} else {
			res = in.Explain(s.model.EndState(row), line, tab, row)
		}

		tracing.AddEvent(ctx, tracing.EventIndentRule,
			attribute.String(tracing.AttrRule, res.Rule),
			attribute.Int(tracing.AttrRow, row),
		)

		dto.Indent = res.Indent
		dto.Width = indentWidth(res.Indent, a.cfg.Indent.TabSize)
		dto.Rule = res.Rule
		if res.Line != line {
			dto.Line = res.Line
		}
		return a.emit(c.OutOrStdout(), dto, func(r *presentation.Renderer) error { return r.Indent(dto) })
	})

	c.Flags().IntVarP(&row, "row", "r", 0, "zero-based row the new line follows")
	c.Flags().IntVar(&col, "col", 0, "zero-based column of the caret on --row")
	_ = c.MarkFlagRequired("row")
	return c
}

func newReindentCmd(a *app) *cobra.Command {
	var (
		write, diff, check bool
		from, to           int
	)

	c := &cobra.Command{
		Use:   "reindent FILE",
		Short: "Recompute the indentation of every line",
		Long: `Recompute the indentation of rows --from..--to from the top down and
print the result.

  --write   save the file in place
  --diff    print a line diff instead of the whole file
  --check   list misindented rows and fail when there are any

Examples:
  codenav reindent main.cpp --diff
  codenav reindent analysis.R --write
  codenav reindent report.Rmd --check --json`,
		Args: cobra.ExactArgs(1),
	}
	c.RunE = a.run("reindent", func(ctx context.Context, args []string) error {
		s, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		defer s.Close()

		last := s.doc.LineCount() - 1
		if to < 0 || to > last {
			to = last
		}
		out := c.OutOrStdout()

		if check {
			report := s.check(a, from, to)
			tracing.AddEvent(ctx, tracing.EventIndentRule, attribute.Int(tracing.AttrChanged, len(report.Rows)))
			if err := a.emit(out, report, func(r *presentation.Renderer) error { return r.Check(report) }); err != nil {
				return err
			}
			if !report.OK() {
				return errMisindented
			}
			return nil
		}

		before := s.doc.Text()
		changed := indent.Reindent(s.model, s.lang.NewIndenter(s.model, a.cfg.Indent), a.cfg.Indent.Tab(), from, to)
		tracing.AddEvent(ctx, tracing.EventIndentRule, attribute.Int(tracing.AttrChanged, len(changed)))

		dto := presentation.ReindentDTO{File: s.path, Changed: append([]int{}, changed...)}
		if write && len(changed) > 0 {
			if err := s.doc.Save(); err != nil {
				return err
			}
			dto.Written = true
		}

		switch {
		case a.asJSON:
			return presentation.NewFormatter(out).Format(dto)
		case diff:
			return a.renderer(out).Diff(s.path, presentation.LineDiff(before, s.doc.Text()), 2)
		case write:
			_, err := fmt.Fprintf(out, "%s: %d rows reindented\n", s.path, len(changed))
			return err
		default:
			text := s.doc.Text()
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			_, err := io.WriteString(out, text)
			return err
		}
	})

	c.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	c.Flags().BoolVar(&diff, "diff", false, "print a line diff")
	c.Flags().BoolVar(&check, "check", false, "report misindented rows and exit non-zero when any")
	c.Flags().IntVar(&from, "from", 0, "first row to reindent")
	c.Flags().IntVar(&to, "to", -1, "last row to reindent (default: last row)")
	c.MarkFlagsMutuallyExclusive("check", "write")
	return c
}
