package presentation

import (
	"github.com/zjrosen/codenav/internal/scope"
	"github.com/zjrosen/codenav/internal/token"
)

// PositionDTO is a zero-based row/column pair.
type PositionDTO struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// RangeDTO is a half-open span of text.
type RangeDTO struct {
	Start PositionDTO `json:"start"`
	End   PositionDTO `json:"end"`
}

// FromPosition converts a token position.
func FromPosition(p token.Position) PositionDTO {
	return PositionDTO{Row: p.Row, Column: p.Column}
}

// FromRange converts a token range.
func FromRange(r token.Range) RangeDTO {
	return RangeDTO{Start: FromPosition(r.Start), End: FromPosition(r.End)}
}

// Range converts back to a token range.
func (r RangeDTO) Range() token.Range {
	return token.NewRange(r.Start.Row, r.Start.Column, r.End.Row, r.End.Column)
}

// IndentDTO is the answer to one indentation query.
type IndentDTO struct {
	File   string `json:"file"`
	Row    int    `json:"row"`
	Column *int   `json:"column,omitempty"`
	Indent string `json:"indent"`
	Width  int    `json:"width"`
	Rule   string `json:"rule"`
	// Line is set when the rule rewrote the queried line.
	Line string `json:"line,omitempty"`
}

// ExpandStepDTO is one expansion or shrink step.
type ExpandStepDTO struct {
	Step  int      `json:"step"`
	Rule  string   `json:"rule"`
	Range RangeDTO `json:"range"`
	Text  string   `json:"text"`
}

// ExpandDTO is the full run of an expand command.
type ExpandDTO struct {
	File   string          `json:"file"`
	Start  RangeDTO        `json:"start"`
	Steps  []ExpandStepDTO `json:"steps"`
	Shrunk []ExpandStepDTO `json:"shrunk,omitempty"`
	Final  RangeDTO        `json:"final"`
}

// TokenDTO is one token with its row.
type TokenDTO struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Value  string `json:"value"`
	Type   string `json:"type"`
}

// FromToken converts tok found on row.
func FromToken(row int, tok token.Token) TokenDTO {
	return TokenDTO{Row: row, Column: tok.Column, Value: tok.Value, Type: tok.Type}
}

// TokenRowDTO is one row of the token store.
type TokenRowDTO struct {
	Row    int        `json:"row"`
	State  string     `json:"state"`
	Tokens []TokenDTO `json:"tokens"`
}

// MatchDTO pairs a bracket with its partner.
type MatchDTO struct {
	File  string    `json:"file"`
	From  TokenDTO  `json:"from"`
	To    *TokenDTO `json:"to,omitempty"`
	Found bool      `json:"found"`
}

// OutlineEntryDTO is one labelled scope.
type OutlineEntryDTO struct {
	Label    string            `json:"label"`
	Start    PositionDTO       `json:"start"`
	End      PositionDTO       `json:"end"`
	Closed   bool              `json:"closed"`
	Children []OutlineEntryDTO `json:"children"` // always present
}

// FromOutline converts a scope outline.
func FromOutline(entries []scope.Entry) []OutlineEntryDTO {
	out := make([]OutlineEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, OutlineEntryDTO{
			Label:    e.Label,
			Start:    FromPosition(e.Preamble),
			End:      FromPosition(e.End),
			Closed:   e.Closed,
			Children: FromOutline(e.Children),
		})
	}
	return out
}

// RowFixDTO is a row whose indentation differs from the computed one.
type RowFixDTO struct {
	Row  int    `json:"row"`
	Have string `json:"have"`
	Want string `json:"want"`
}

// CheckDTO lists the misindented rows of a file.
type CheckDTO struct {
	File string      `json:"file"`
	Rows []RowFixDTO `json:"rows"` // always present
}

// OK reports whether every row is indented as computed.
func (c CheckDTO) OK() bool {
	return len(c.Rows) == 0
}

// ReindentDTO summarizes a reindent run.
type ReindentDTO struct {
	File    string `json:"file"`
	Changed []int  `json:"changed"` // always present
	Written bool   `json:"written"`
}
