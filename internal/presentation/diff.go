package presentation

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp marks a diff line as kept, removed or added.
type DiffOp byte

// Diff line operations, printed as the line prefix.
const (
	DiffKeep   DiffOp = ' '
	DiffRemove DiffOp = '-'
	DiffAdd    DiffOp = '+'
)

// DiffLine is one line of a line diff. OldRow and NewRow are -1 on the
// side the line is absent from.
type DiffLine struct {
	Op     DiffOp
	OldRow int
	NewRow int
	Text   string
}

// LineDiff compares before and after line by line.
func LineDiff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out []DiffLine
	oldRow, newRow := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, DiffLine{Op: DiffKeep, OldRow: oldRow, NewRow: newRow, Text: text})
				oldRow++
				newRow++
			case diffmatchpatch.DiffDelete:
				out = append(out, DiffLine{Op: DiffRemove, OldRow: oldRow, NewRow: -1, Text: text})
				oldRow++
			case diffmatchpatch.DiffInsert:
				out = append(out, DiffLine{Op: DiffAdd, OldRow: -1, NewRow: newRow, Text: text})
				newRow++
			}
		}
	}
	return out
}

// Changed reports whether any line was added or removed.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffKeep {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitAfter(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}
