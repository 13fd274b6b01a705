package solve

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"crosswarped.com/wordsolve/pkg/primitives"
)

// ErrInvalidConstraints is wrapped by every error Validate returns.
var ErrInvalidConstraints = errors.New("invalid constraints")

// Requirement is a bound on how often a letter appears in the solution.
type Requirement struct {
	Count int
	Exact bool
}

// AtLeast requires a letter to appear n or more times.
func AtLeast(n int) Requirement {
	return Requirement{Count: n}
}

// Exactly requires a letter to appear n times.
func Exactly(n int) Requirement {
	return Requirement{Count: n, Exact: true}
}

// Satisfied reports whether a word holding the letter count times meets the
// requirement.
func (r Requirement) Satisfied(count int) bool {
	if r.Exact {
		return count == r.Count
	}
	return count >= r.Count
}

func (r Requirement) String() string {
	if r.Exact {
		return fmt.Sprintf("Exactly(%d)", r.Count)
	}
	return fmt.Sprintf("AtLeast(%d)", r.Count)
}

// OptionalLetter is a letter that may be unset.
type OptionalLetter struct {
	Letter primitives.Letter
	Set    bool
}

// Some returns a set OptionalLetter.
func Some(l primitives.Letter) OptionalLetter {
	return OptionalLetter{Letter: l, Set: true}
}

// Constraints describe what is known about a word of Len() letters.
type Constraints struct {
	// Correct holds the letter known to be at each position.
	Correct []OptionalLetter
	// Excluded holds the letters known not to be at each position.
	Excluded []primitives.LetterSet
	// Unused holds the letters absent from the word.
	Unused primitives.LetterSet
	// Multiplicity bounds how often letters appear anywhere in the word.
	Multiplicity map[primitives.Letter]Requirement
}

// NewConstraints returns unconstrained constraints for words of length n.
func NewConstraints(n int) Constraints {
	return Constraints{
		Correct:      make([]OptionalLetter, n),
		Excluded:     make([]primitives.LetterSet, n),
		Multiplicity: make(map[primitives.Letter]Requirement),
	}
}

// Len returns the word length the constraints apply to.
func (c Constraints) Len() int {
	return len(c.Correct)
}

// Candidates returns the letters allowed at a position, in ascending order.
func (c Constraints) Candidates(pos int) []primitives.Letter {
	if c.Correct[pos].Set {
		return []primitives.Letter{c.Correct[pos].Letter}
	}
	var allowed primitives.LetterSet
	if pos < len(c.Excluded) {
		allowed = primitives.FullLetterSet() &^ c.Excluded[pos] &^ c.Unused
	} else {
		allowed = primitives.FullLetterSet() &^ c.Unused
	}
	return allowed.Letters()
}

// Validate rejects constraints no word could satisfy because they contradict
// themselves.
func (c Constraints) Validate() error {
	n := c.Len()
	if len(c.Excluded) != n {
		return fmt.Errorf("%w: %d excluded sets for %d positions", ErrInvalidConstraints, len(c.Excluded), n)
	}

	forced := make(map[primitives.Letter]int)
	for pos, correct := range c.Correct {
		if !correct.Set {
			continue
		}
		if correct.Letter >= primitives.NumLetters {
			return fmt.Errorf("%w: position %d holds letter %d", ErrInvalidConstraints, pos+1, correct.Letter)
		}
		if c.Excluded[pos].Contains(correct.Letter) {
			return fmt.Errorf("%w: %v is both correct and excluded at position %d", ErrInvalidConstraints, correct.Letter, pos+1)
		}
		if c.Unused.Contains(correct.Letter) {
			return fmt.Errorf("%w: %v is correct at position %d but unused", ErrInvalidConstraints, correct.Letter, pos+1)
		}
		forced[correct.Letter]++
	}

	total := 0
	for l, req := range c.Multiplicity {
		if l >= primitives.NumLetters {
			return fmt.Errorf("%w: count given for letter %d", ErrInvalidConstraints, l)
		}
		if req.Count < 0 || req.Count > n {
			return fmt.Errorf("%w: %v requires %v in a %d letter word", ErrInvalidConstraints, l, req, n)
		}
		if req.Count > 0 && c.Unused.Contains(l) {
			return fmt.Errorf("%w: %v is required but unused", ErrInvalidConstraints, l)
		}
		if req.Exact && req.Count < forced[l] {
			return fmt.Errorf("%w: %v requires %v but is correct at %d positions", ErrInvalidConstraints, l, req, forced[l])
		}
		total += req.Count
	}
	if total > n {
		return fmt.Errorf("%w: %d required letters in a %d letter word", ErrInvalidConstraints, total, n)
	}

	return nil
}

func (c Constraints) String() string {
	var b strings.Builder
	for _, correct := range c.Correct {
		if correct.Set {
			b.WriteByte(correct.Letter.Byte())
		} else {
			b.WriteByte('.')
		}
	}
	for pos, ex := range c.Excluded {
		if !ex.IsEmpty() {
			fmt.Fprintf(&b, " !%d:%v", pos+1, ex)
		}
	}
	if !c.Unused.IsEmpty() {
		fmt.Fprintf(&b, " -%v", c.Unused)
	}

	letters := make([]primitives.Letter, 0, len(c.Multiplicity))
	for l := range c.Multiplicity {
		letters = append(letters, l)
	}
	slices.Sort(letters)
	for _, l := range letters {
		fmt.Fprintf(&b, " %v=%v", l, c.Multiplicity[l])
	}
	return b.String()
}
