package token

// TokenizeFunc populates the store for rows 0..row. It runs synchronously
// and reports whether tokenization succeeded.
type TokenizeFunc func(row int) bool

type storeRow struct {
	tokens []Token
	known  bool
}

// Store maps rows to their token sequences. A row that has not been
// tokenized yet is unknown; a known row with no tokens is blank.
//
// Store is not safe for concurrent use. Hosts that share one across
// goroutines must serialize access.
type Store struct {
	rows     []storeRow
	tokenize TokenizeFunc
}

// NewStore creates a store with rowCount unknown rows.
func NewStore(rowCount int) *Store {
	return &Store{rows: make([]storeRow, rowCount)}
}

// NewStoreFromRows creates a fully known store. Useful for fixtures.
func NewStoreFromRows(rows [][]Token) *Store {
	s := NewStore(len(rows))
	for i, r := range rows {
		s.SetRow(i, r)
	}
	return s
}

// SetTokenizer installs the callback used to populate unknown rows.
func (s *Store) SetTokenizer(fn TokenizeFunc) {
	s.tokenize = fn
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// SetRow stores the tokens for row, growing the store when needed.
func (s *Store) SetRow(row int, tokens []Token) {
	if row < 0 {
		return
	}
	for row >= len(s.rows) {
		s.rows = append(s.rows, storeRow{})
	}
	if tokens == nil {
		tokens = []Token{}
	}
	s.rows[row] = storeRow{tokens: tokens, known: true}
}

// Known reports whether row has been tokenized.
func (s *Store) Known(row int) bool {
	return row >= 0 && row < len(s.rows) && s.rows[row].known
}

// Row returns the tokens of row without triggering tokenization. The second
// result is false when the row is unknown or out of range.
func (s *Store) Row(row int) ([]Token, bool) {
	if !s.Known(row) {
		return nil, false
	}
	return s.rows[row].tokens, true
}

// Tokens returns the tokens of row, asking the tokenizer to populate it first
// when it is unknown.
func (s *Store) Tokens(row int) ([]Token, bool) {
	if row < 0 || row >= len(s.rows) {
		return nil, false
	}
	if !s.rows[row].known && s.tokenize != nil {
		s.tokenize(row)
	}
	return s.Row(row)
}

// Invalidate marks row as unknown.
func (s *Store) Invalidate(row int) {
	if row >= 0 && row < len(s.rows) {
		s.rows[row] = storeRow{}
	}
}

// InsertRows inserts count unknown rows before row.
func (s *Store) InsertRows(row, count int) {
	if count <= 0 {
		return
	}
	if row < 0 {
		row = 0
	}
	if row > len(s.rows) {
		row = len(s.rows)
	}
	s.rows = append(s.rows[:row], append(make([]storeRow, count), s.rows[row:]...)...)
}

// RemoveRows deletes count rows starting at row.
func (s *Store) RemoveRows(row, count int) {
	if count <= 0 || row < 0 || row >= len(s.rows) {
		return
	}
	end := row + count
	if end > len(s.rows) {
		end = len(s.rows)
	}
	s.rows = append(s.rows[:row], s.rows[end:]...)
}
