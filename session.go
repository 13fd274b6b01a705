package solve

import (
	"crosswarped.com/wordsolve/pkg/dictionary"
	"crosswarped.com/wordsolve/pkg/primitives"
)

// Session is a board being filled in against a dictionary, with the words
// found by the last Calculate.
type Session struct {
	dict  *dictionary.Dictionary
	board *Board
	opts  []SearchOption

	// nil until a calculation has run with at least one complete row.
	words []dictionary.WordID
}

// NewSession returns a session with an empty board of the given size.
func NewSession(d *dictionary.Dictionary, rows, cols int, opts ...SearchOption) *Session {
	return &Session{
		dict:  d,
		board: NewBoard(rows, cols),
		opts:  opts,
	}
}

// Board returns the board being edited.
func (s *Session) Board() *Board {
	return s.board
}

// Add types l into the next empty cell. It does not recalculate.
func (s *Session) Add(l primitives.Letter) bool {
	return s.board.Add(l)
}

// Remove clears the last filled cell.
func (s *Session) Remove() bool {
	return s.board.Remove()
}

// Toggle cycles the state of one cell, see Board.Toggle.
func (s *Session) Toggle(row, col int) bool {
	return s.board.Toggle(row, col)
}

// ToggleColumn toggles one column, see Board.ToggleColumn.
func (s *Session) ToggleColumn(col int) bool {
	return s.board.ToggleColumn(col)
}

// Calculate searches for the words matching the complete rows of the board.
// With no complete row the results are cleared. On error the previous results
// are cleared too.
func (s *Session) Calculate() error {
	s.words = nil
	if s.board.CompleteRows() == 0 {
		return nil
	}

	c, err := s.board.Constraints()
	if err != nil {
		return err
	}

	words := Search(s.dict, c, s.opts...)
	if words == nil {
		words = []dictionary.WordID{}
	}
	s.words = words
	return nil
}

// HasResults reports whether the last Calculate ran a search.
func (s *Session) HasResults() bool {
	return s.words != nil
}

// WordCount returns the number of words found by the last Calculate.
func (s *Session) WordCount() int {
	return len(s.words)
}

// Word returns the i'th word found, in upper case.
func (s *Session) Word(i int) (string, bool) {
	if i < 0 || i >= len(s.words) {
		return "", false
	}
	return s.dict.WordAt(s.words[i]), true
}
