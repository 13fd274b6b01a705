package dictionary

import "fmt"

// NodeID is the position of a node in the dictionary's node table. The root
// is always node 0.
type NodeID uint32

// RootNode is the node representing the empty prefix.
const RootNode NodeID = 0

// SlotKind is the variant of a Slot.
type SlotKind uint8

const (
	// SlotEmpty means no word continues with this letter here.
	SlotEmpty SlotKind = iota
	// SlotContinues means longer words continue via the slot's node.
	SlotContinues
	// SlotTerminal means a word ends here and nothing continues.
	SlotTerminal
	// SlotTerminalContinues means a word ends here and longer words continue
	// via the slot's node.
	SlotTerminalContinues
)

func (k SlotKind) String() string {
	switch k {
	case SlotEmpty:
		return "Empty"
	case SlotContinues:
		return "Continues"
	case SlotTerminal:
		return "Terminal"
	case SlotTerminalContinues:
		return "TerminalContinues"
	}
	return fmt.Sprintf("SlotKind(%d)", uint8(k))
}

const (
	slotTerminalBit = 1 << 31
	slotNextMask    = slotTerminalBit - 1
)

// Slot is a node's entry for one letter. The high bit marks the end of a word;
// the remaining bits hold the continuation node plus one, so the zero Slot is
// empty.
type Slot uint32

func continues(next NodeID) Slot {
	return Slot(next + 1)
}

// Kind returns which of the four variants the slot holds.
func (s Slot) Kind() SlotKind {
	switch {
	case s == 0:
		return SlotEmpty
	case s == slotTerminalBit:
		return SlotTerminal
	case s&slotTerminalBit != 0:
		return SlotTerminalContinues
	}
	return SlotContinues
}

// Next returns the node longer words continue through, if any.
func (s Slot) Next() (NodeID, bool) {
	n := uint32(s) & slotNextMask
	if n == 0 {
		return 0, false
	}
	return NodeID(n - 1), true
}

// IsTerminal reports whether a word ends at this slot.
func (s Slot) IsTerminal() bool {
	return s&slotTerminalBit != 0
}

func (s Slot) withTerminal() Slot {
	return s | slotTerminalBit
}

func (s Slot) String() string {
	next, ok := s.Next()
	if !ok {
		return s.Kind().String()
	}
	return fmt.Sprintf("%s(%d)", s.Kind(), next)
}
