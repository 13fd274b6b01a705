package dictionary

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"unsafe"

	"crosswarped.com/wordsolve/pkg/primitives"
)

// ErrDuplicateWord is matched by every *DuplicateWordError.
var ErrDuplicateWord = errors.New("duplicate word")

// ErrTooManyNodes is returned once the node table cannot address another node.
var ErrTooManyNodes = errors.New("dictionary node table is full")

// DuplicateWordError reports a word inserted when it was already a complete
// entry.
type DuplicateWordError struct {
	Word string
	// Line is the 1-based source line, or 0 when inserted directly.
	Line int
}

func (e *DuplicateWordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate word %q on line %d", e.Word, e.Line)
	}
	return fmt.Sprintf("duplicate word %q", e.Word)
}

func (e *DuplicateWordError) Is(target error) bool {
	return target == ErrDuplicateWord
}

// WordID identifies the terminal slot a word ends in. It is only meaningful
// to the Dictionary that produced it.
type WordID uint32

// MakeWordID returns the identifier of the word ending in the given slot.
func MakeWordID(n NodeID, letter primitives.Letter) WordID {
	return WordID(uint32(n)*primitives.NumLetters + uint32(letter))
}

// Node returns the node holding the word's final slot.
func (id WordID) Node() NodeID {
	return NodeID(uint32(id) / primitives.NumLetters)
}

// Letter returns the word's final letter.
func (id WordID) Letter() primitives.Letter {
	return primitives.Letter(uint32(id) % primitives.NumLetters)
}

// maxNodes keeps every WordID within 32 bits.
const maxNodes = math.MaxUint32 / primitives.NumLetters

type node [primitives.NumLetters]Slot

// noOrigin marks the root in the origin table.
const noOrigin = math.MaxUint32

// Dictionary is an append-only 26-ary prefix trie over a word list.
//
// Nodes hold no parent link. The word a WordID names is recovered through
// origins, a table parallel to nodes recording the slot that links to each
// node. The search never consults it.
type Dictionary struct {
	nodes   []node
	origins []WordID
	words   int
}

// New returns an empty dictionary holding only the root node.
func New() *Dictionary {
	return &Dictionary{
		nodes:   make([]node, 1),
		origins: []WordID{noOrigin},
	}
}

// Insert adds a word of lower case ASCII letters. It returns a
// *DuplicateWordError if the word is already present.
func (d *Dictionary) Insert(word string) error {
	if word == "" {
		return fmt.Errorf("cannot insert an empty word")
	}

	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return fmt.Errorf("word %q: character %q is not a lower case letter", word, word[i])
		}
	}

	cur := RootNode
	last := len(word) - 1
	for i := 0; i < last; i++ {
		l := primitives.Letter(word[i] - 'a')
		slot := d.nodes[cur][l]
		if next, ok := slot.Next(); ok {
			cur = next
			continue
		}

		if len(d.nodes) >= maxNodes {
			return ErrTooManyNodes
		}
		next := NodeID(len(d.nodes))
		d.nodes = append(d.nodes, node{})
		d.origins = append(d.origins, MakeWordID(cur, l))
		if slot.IsTerminal() {
			d.nodes[cur][l] = continues(next).withTerminal()
		} else {
			d.nodes[cur][l] = continues(next)
		}
		cur = next
	}

	l := primitives.Letter(word[last] - 'a')
	slot := d.nodes[cur][l]
	if slot.IsTerminal() {
		return &DuplicateWordError{Word: word}
	}
	d.nodes[cur][l] = slot.withTerminal()
	d.words++

	return nil
}

// Lookup returns the slot for a letter in a node.
func (d *Dictionary) Lookup(n NodeID, letter primitives.Letter) Slot {
	return d.nodes[n][letter]
}

// WordAt returns the upper case word identified by id.
func (d *Dictionary) WordAt(id WordID) string {
	letters := d.path(id)
	word := make([]byte, len(letters))
	for i, l := range letters {
		word[i] = l.Byte()
	}
	return string(word)
}

// WordContains tests whether the word identified by id holds the letter at
// least count times, or exactly count times when exact is set.
func (d *Dictionary) WordContains(id WordID, letter primitives.Letter, count int, exact bool) bool {
	found := 0
	for _, l := range d.path(id) {
		if l == letter {
			found++
		}
	}
	if exact {
		return found == count
	}
	return found >= count
}

// path returns the letters from the root to the slot id names.
func (d *Dictionary) path(id WordID) []primitives.Letter {
	var letters []primitives.Letter
	for {
		letters = append(letters, id.Letter())
		id = d.origins[id.Node()]
		if id == noOrigin {
			break
		}
	}
	slices.Reverse(letters)
	return letters
}

// WordCount returns the number of words stored in the dictionary.
func (d *Dictionary) WordCount() int {
	return d.words
}

// NodeCount returns the size of the node table.
func (d *Dictionary) NodeCount() int {
	return len(d.nodes)
}

// MemUsage returns the bytes used by the node table.
func (d *Dictionary) MemUsage() int {
	return len(d.nodes) * int(unsafe.Sizeof(node{}))
}

// MemAlloc returns the bytes allocated to the node table.
func (d *Dictionary) MemAlloc() int {
	return cap(d.nodes) * int(unsafe.Sizeof(node{}))
}
