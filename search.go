package solve

import (
	"iter"
	"slices"

	"github.com/rs/zerolog"

	"crosswarped.com/wordsolve/pkg/dictionary"
	"crosswarped.com/wordsolve/pkg/primitives"
)

type searchOptions struct {
	debug *zerolog.Logger
}

// SearchOption configures a search.
type SearchOption func(*searchOptions)

// WithDebug traces every letter tried, with the partial word and the slot it
// led to, at debug level.
func WithDebug(logger zerolog.Logger) SearchOption {
	return func(o *searchOptions) {
		o.debug = &logger
	}
}

// Search returns every word in d that satisfies c, in discovery order.
func Search(d *dictionary.Dictionary, c Constraints, opts ...SearchOption) []dictionary.WordID {
	return slices.Collect(Words(d, c, opts...))
}

// Words returns a sequence of every word in d that satisfies c.
//
// The trie is walked depth first, trying letters in ascending order at each
// position, so the sequence is deterministic but only sorted when the forced
// letters make it so.
func Words(d *dictionary.Dictionary, c Constraints, opts ...SearchOption) iter.Seq[dictionary.WordID] {
	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(dictionary.WordID) bool) {
		n := c.Len()
		if n == 0 {
			return
		}

		s := searcher{
			dict:       d,
			candidates: make([][]primitives.Letter, n),
			chosen:     make([]byte, n),
			debug:      o.debug,
		}
		for pos := range n {
			s.candidates[pos] = c.Candidates(pos)
		}
		for l, req := range c.Multiplicity {
			s.requirements = append(s.requirements, letterRequirement{letter: l, Requirement: req})
		}
		slices.SortFunc(s.requirements, func(a, b letterRequirement) int {
			return int(a.letter) - int(b.letter)
		})

		s.walk(0, dictionary.RootNode, yield)
	}
}

type letterRequirement struct {
	Requirement
	letter primitives.Letter
}

// searcher is the state of one search. counts tracks the letters chosen on
// the current branch so multiplicity is checked without walking back up the
// trie.
type searcher struct {
	dict         *dictionary.Dictionary
	candidates   [][]primitives.Letter
	requirements []letterRequirement

	counts [primitives.NumLetters]int
	chosen []byte

	debug *zerolog.Logger
}

// walk tries every candidate letter at pos below node. It returns false once
// yield asks to stop.
func (s *searcher) walk(pos int, node dictionary.NodeID, yield func(dictionary.WordID) bool) bool {
	last := len(s.candidates) - 1

	for _, l := range s.candidates[pos] {
		slot := s.dict.Lookup(node, l)
		s.chosen[pos] = l.Byte()
		if s.debug != nil {
			s.trace(pos, slot)
		}

		if slot.Kind() == dictionary.SlotEmpty {
			continue
		}

		s.counts[l]++
		if !s.feasible(last - pos) {
			s.counts[l]--
			continue
		}

		keepGoing := true
		if pos == last {
			if slot.IsTerminal() && s.satisfied() {
				keepGoing = yield(dictionary.MakeWordID(node, l))
			}
		} else if next, ok := slot.Next(); ok {
			keepGoing = s.walk(pos+1, next, yield)
		}

		s.counts[l]--
		if !keepGoing {
			return false
		}
	}

	return true
}

// feasible reports whether the requirements can still be met with remaining
// positions left to fill.
func (s *searcher) feasible(remaining int) bool {
	need := 0
	for _, r := range s.requirements {
		have := s.counts[r.letter]
		if r.Exact && have > r.Count {
			return false
		}
		if have < r.Count {
			need += r.Count - have
		}
	}
	return need <= remaining
}

func (s *searcher) satisfied() bool {
	for _, r := range s.requirements {
		if !r.Satisfied(s.counts[r.letter]) {
			return false
		}
	}
	return true
}

func (s *searcher) trace(pos int, slot dictionary.Slot) {
	s.debug.Debug().Msgf("%*s%s (%v)", pos+1, "", s.chosen[:pos+1], slot)
}
