package solve

import (
	"errors"
	"fmt"

	"crosswarped.com/wordsolve/pkg/primitives"
)

// ErrBadPattern is returned when a pattern board or letter list cannot be parsed.
var ErrBadPattern = errors.New("bad pattern")

// ParsePattern builds constraints from a board of known letters with '.' for
// unknown positions, the letters known to be absent, and the letters known to
// appear somewhere. Each repeat of a letter in unplaced raises the number of
// times it must appear. Letters may be in either case.
func ParsePattern(board, unused, unplaced string) (Constraints, error) {
	if board == "" {
		return Constraints{}, fmt.Errorf("%w: empty board", ErrBadPattern)
	}

	c := NewConstraints(len(board))
	for pos := 0; pos < len(board); pos++ {
		if board[pos] == '.' {
			continue
		}
		l, err := primitives.LetterFromByte(board[pos])
		if err != nil {
			return Constraints{}, fmt.Errorf("%w: board %q: letters must be A-Z or .", ErrBadPattern, board)
		}
		c.Correct[pos] = Some(l)
	}

	var err error
	c.Unused, err = primitives.ParseLetterSet(unused)
	if err != nil {
		return Constraints{}, fmt.Errorf("%w: unused letters %q: %v", ErrBadPattern, unused, err)
	}

	for i := 0; i < len(unplaced); i++ {
		l, err := primitives.LetterFromByte(unplaced[i])
		if err != nil {
			return Constraints{}, fmt.Errorf("%w: unplaced letters %q: %v", ErrBadPattern, unplaced, err)
		}
		c.Multiplicity[l] = AtLeast(c.Multiplicity[l].Count + 1)
	}

	if err := c.Validate(); err != nil {
		return Constraints{}, err
	}
	return c, nil
}
