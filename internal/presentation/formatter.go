// Package presentation turns command results into JSON or styled text.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter writes results as indented JSON.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Format encodes any DTO.
func (f *Formatter) Format(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatOutline encodes an outline. An empty outline is written as [].
func (f *Formatter) FormatOutline(entries []OutlineEntryDTO) error {
	if entries == nil {
		entries = []OutlineEntryDTO{}
	}
	return f.Format(entries)
}

// FormatCheck encodes a check report. A clean file has "rows": [].
func (f *Formatter) FormatCheck(check CheckDTO) error {
	if check.Rows == nil {
		check.Rows = []RowFixDTO{}
	}
	return f.Format(check)
}
