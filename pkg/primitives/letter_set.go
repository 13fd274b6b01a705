package primitives

import (
	"fmt"
	"math/bits"
	"strings"
)

const allLetters = 1<<NumLetters - 1

// LetterSet efficiently represents a set of letters, one bit per letter.
type LetterSet uint32

// FullLetterSet returns the set holding every letter.
func FullLetterSet() LetterSet {
	return allLetters
}

// ParseLetterSet builds a set from a string of letters in either case.
func ParseLetterSet(s string) (LetterSet, error) {
	var set LetterSet
	for i := 0; i < len(s); i++ {
		l, err := LetterFromByte(s[i])
		if err != nil {
			return 0, err
		}
		set = set.Add(l)
	}
	return set, nil
}

// Add returns the set with the letter added.
func (s LetterSet) Add(l Letter) LetterSet {
	if l >= NumLetters {
		panic(fmt.Sprintf("letter %d is out of range", l))
	}
	return s | 1<<l
}

// Remove returns the set with the letter removed.
func (s LetterSet) Remove(l Letter) LetterSet {
	return s &^ (1 << l)
}

// Contains checks if a letter is in the set.
func (s LetterSet) Contains(l Letter) bool {
	return s&(1<<l) != 0
}

// Union returns the letters in either set.
func (s LetterSet) Union(other LetterSet) LetterSet {
	return s | other
}

// IsFull checks if the set holds every letter.
func (s LetterSet) IsFull() bool {
	return s&allLetters == allLetters
}

// IsEmpty checks if the set holds no letter.
func (s LetterSet) IsEmpty() bool {
	return s == 0
}

// Count returns the number of letters in the set.
func (s LetterSet) Count() int {
	return bits.OnesCount32(uint32(s))
}

// Letters returns the members of the set in ascending order.
func (s LetterSet) Letters() []Letter {
	letters := make([]Letter, 0, s.Count())
	for rest := uint32(s); rest != 0; rest &= rest - 1 {
		letters = append(letters, Letter(bits.TrailingZeros32(rest)))
	}
	return letters
}

func (s LetterSet) String() string {
	var b strings.Builder
	for _, l := range s.Letters() {
		b.WriteByte(l.Byte())
	}
	return b.String()
}
