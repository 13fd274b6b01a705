package solve

import (
	"errors"
	"fmt"
	"strings"

	"crosswarped.com/wordsolve/pkg/primitives"
)

// Default Wordle board dimensions.
const (
	DefaultRows = 6
	DefaultCols = 5
)

var (
	ErrBoardFull     = errors.New("board is full")
	ErrRowInProgress = errors.New("current row is partly filled")
	ErrBadFeedback   = errors.New("bad feedback")
)

// CellState is the feedback colour of a board cell.
type CellState uint8

const (
	CellEmpty CellState = iota
	// CellGray is a letter not in the word at this position, and not
	// anywhere unless the same row shows it elsewhere.
	CellGray
	// CellYellow is a letter in the word, but not at this position.
	CellYellow
	// CellGreen is a letter at the correct position.
	CellGreen
)

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "Empty"
	case CellGray:
		return "Gray"
	case CellYellow:
		return "Yellow"
	case CellGreen:
		return "Green"
	}
	return fmt.Sprintf("CellState(%d)", uint8(s))
}

// Cell is one square of the board.
type Cell struct {
	State  CellState
	Letter primitives.Letter
}

func (c Cell) hasLetter(l primitives.Letter) bool {
	return c.State != CellEmpty && c.Letter == l
}

func (c Cell) placed(l primitives.Letter) bool {
	return (c.State == CellYellow || c.State == CellGreen) && c.Letter == l
}

// Board is a grid of guesses and their feedback, filled row by row.
type Board struct {
	cells    [][]Cell
	row, col int
}

// NewBoard returns an empty board.
func NewBoard(rows, cols int) *Board {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}
	return &Board{cells: cells}
}

func (b *Board) Rows() int {
	return len(b.cells)
}

func (b *Board) Cols() int {
	if len(b.cells) == 0 {
		return 0
	}
	return len(b.cells[0])
}

func (b *Board) Cell(row, col int) Cell {
	return b.cells[row][col]
}

// CompleteRows returns the number of fully filled rows.
func (b *Board) CompleteRows() int {
	return b.row
}

// Add puts a letter in the next free cell. The cell copies the colour of the
// same letter in the same column on an earlier row when that was yellow or
// green, and is gray otherwise. It returns false when the board is full.
func (b *Board) Add(l primitives.Letter) bool {
	if b.row >= b.Rows() || b.Cols() == 0 {
		return false
	}

	cell := Cell{State: CellGray, Letter: l}
	for _, row := range b.cells[:b.row] {
		if row[b.col].placed(l) {
			cell = row[b.col]
			break
		}
	}
	b.cells[b.row][b.col] = cell

	b.col++
	if b.col == b.Cols() {
		b.col = 0
		b.row++
	}

	return true
}

// Remove clears the last filled cell. It returns false when the board is
// empty.
func (b *Board) Remove() bool {
	switch {
	case b.col > 0:
		b.col--
	case b.row > 0:
		b.row--
		b.col = b.Cols() - 1
	default:
		return false
	}

	b.cells[b.row][b.col] = Cell{}
	return true
}

// Toggle cycles a filled cell through gray, yellow and green. Yellow goes
// straight back to gray when the column already has a green. The new colour
// is copied to every row with the same letter in that column, except rows
// that show the letter yellow or green in another column.
func (b *Board) Toggle(row, col int) bool {
	if row < 0 || row >= b.Rows() || col < 0 || col >= b.Cols() {
		return false
	}
	cell := b.cells[row][col]

	var next CellState
	switch cell.State {
	case CellEmpty:
		return false
	case CellGray:
		next = CellYellow
	case CellYellow:
		next = CellGreen
		for _, r := range b.cells {
			if r[col].State == CellGreen {
				next = CellGray
				break
			}
		}
	case CellGreen:
		next = CellGray
	}

	for rn, r := range b.cells {
		if !r[col].hasLetter(cell.Letter) {
			continue
		}
		if rn != row && placedElsewhere(r, col, cell.Letter) {
			continue
		}
		r[col].State = next
	}

	return true
}

func placedElsewhere(row []Cell, col int, l primitives.Letter) bool {
	for cn, c := range row {
		if cn != col && c.placed(l) {
			return true
		}
	}
	return false
}

// ToggleColumn toggles a column of the row being typed, or of the last
// complete row when that column is not filled yet.
func (b *Board) ToggleColumn(col int) bool {
	row := b.row
	if col >= b.col {
		if b.row == 0 {
			return false
		}
		row = b.row - 1
	}
	return b.Toggle(row, col)
}

// AddGuess fills the next row with a guess and its feedback: g for green, y
// for yellow, b or . for gray.
func (b *Board) AddGuess(guess, feedback string) error {
	if b.col != 0 {
		return ErrRowInProgress
	}
	if b.row >= b.Rows() {
		return ErrBoardFull
	}
	if len(guess) != b.Cols() || len(feedback) != b.Cols() {
		return fmt.Errorf("%w: guess %q and feedback %q must both have %d letters", ErrBadFeedback, guess, feedback, b.Cols())
	}

	row := make([]Cell, b.Cols())
	for i := range row {
		l, err := primitives.LetterFromByte(guess[i])
		if err != nil {
			return fmt.Errorf("%w: guess %q: %v", ErrBadFeedback, guess, err)
		}
		row[i].Letter = l

		switch feedback[i] {
		case 'g', 'G':
			row[i].State = CellGreen
		case 'y', 'Y':
			row[i].State = CellYellow
		case 'b', 'B', '.':
			row[i].State = CellGray
		default:
			return fmt.Errorf("%w: %q is not one of g, y, b or .", ErrBadFeedback, feedback[i])
		}
	}

	copy(b.cells[b.row], row)
	b.row++
	return nil
}

// Constraints derives the search constraints from the complete rows.
//
// Green fixes a position. Yellow and gray exclude the letter from their
// position. Within a row, a letter shown yellow or green n times must appear
// at least n times, and exactly n times if the same row also shows it gray. A
// letter only ever shown gray is unused.
func (b *Board) Constraints() (Constraints, error) {
	c := NewConstraints(b.Cols())

	atLeast := make(map[primitives.Letter]int)
	exactly := make(map[primitives.Letter]int)
	var placed, grayOnly primitives.LetterSet

	for rn, row := range b.cells[:b.row] {
		var used, gray [primitives.NumLetters]int
		for col, cell := range row {
			l := cell.Letter
			switch cell.State {
			case CellGreen:
				if c.Correct[col].Set && c.Correct[col].Letter != l {
					return Constraints{}, fmt.Errorf("%w: column %d is green for both %v and %v", ErrInvalidConstraints, col+1, c.Correct[col].Letter, l)
				}
				c.Correct[col] = Some(l)
				used[l]++
			case CellYellow:
				c.Excluded[col] = c.Excluded[col].Add(l)
				used[l]++
			case CellGray:
				c.Excluded[col] = c.Excluded[col].Add(l)
				gray[l]++
			}
		}

		for i := range primitives.NumLetters {
			l := primitives.Letter(i)
			switch {
			case used[l] > 0 && gray[l] > 0:
				if n, ok := exactly[l]; ok && n != used[l] {
					return Constraints{}, fmt.Errorf("%w: row %d shows %v %d times, an earlier row %d times", ErrInvalidConstraints, rn+1, l, used[l], n)
				}
				exactly[l] = used[l]
				placed = placed.Add(l)
			case used[l] > 0:
				atLeast[l] = max(atLeast[l], used[l])
				placed = placed.Add(l)
			case gray[l] > 0:
				grayOnly = grayOnly.Add(l)
			}
		}
	}

	for l, n := range atLeast {
		c.Multiplicity[l] = AtLeast(n)
	}
	for l, n := range exactly {
		if atLeast[l] > n {
			return Constraints{}, fmt.Errorf("%w: %v appears exactly %d times but another row shows it %d times", ErrInvalidConstraints, l, n, atLeast[l])
		}
		c.Multiplicity[l] = Exactly(n)
	}
	c.Unused = grayOnly &^ placed

	if err := c.Validate(); err != nil {
		return Constraints{}, err
	}
	return c, nil
}

// String draws each row as its letters and feedback, e.g. "CRANE bygbb".
func (b *Board) String() string {
	lines := make([]string, b.Rows())
	for r, row := range b.cells {
		letters := make([]byte, len(row))
		states := make([]byte, len(row))
		for i, cell := range row {
			switch cell.State {
			case CellEmpty:
				letters[i], states[i] = '_', '_'
				continue
			case CellGray:
				states[i] = 'b'
			case CellYellow:
				states[i] = 'y'
			case CellGreen:
				states[i] = 'g'
			}
			letters[i] = cell.Letter.Byte()
		}
		lines[r] = string(letters) + " " + string(states)
	}
	return strings.Join(lines, "\n")
}
