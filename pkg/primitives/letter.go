package primitives

import "fmt"

// NumLetters is the size of the alphabet every word is drawn from.
const NumLetters = 26

// Letter is a letter of the alphabet, 0 for 'A' through 25 for 'Z'.
type Letter uint8

// LetterFromByte converts an ASCII letter in either case to a Letter.
func LetterFromByte(b byte) (Letter, error) {
	switch {
	case b >= 'a' && b <= 'z':
		return Letter(b - 'a'), nil
	case b >= 'A' && b <= 'Z':
		return Letter(b - 'A'), nil
	}
	return 0, fmt.Errorf("character %q is not a letter", b)
}

// MustLetter is LetterFromByte for constants known to be valid.
func MustLetter(b byte) Letter {
	l, err := LetterFromByte(b)
	if err != nil {
		panic(err)
	}
	return l
}

// Byte returns the upper case ASCII form of the letter.
func (l Letter) Byte() byte {
	return byte(l) + 'A'
}

// Lower returns the lower case ASCII form of the letter.
func (l Letter) Lower() byte {
	return byte(l) + 'a'
}

func (l Letter) String() string {
	if l >= NumLetters {
		return fmt.Sprintf("Letter(%d)", uint8(l))
	}
	return string(l.Byte())
}
