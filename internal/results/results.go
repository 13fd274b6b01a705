package results

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"

	"crosswarped.com/wordsolve/internal/numformat"
)

const gutter = 2

// TerminalWidth returns the width of the terminal on f, or 0 when f is not a
// terminal.
func TerminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// Print writes the number of words found followed by the words in
// alphabetical order, packed into as many columns as fit in width. A width of
// 0 prints one word per line.
func Print(w io.Writer, nf *numformat.Formatter, words []string, width int) error {
	words = slices.Clone(words)
	slices.Sort(words)

	noun := "words"
	if len(words) == 1 {
		noun = "word"
	}
	if _, err := fmt.Fprintf(w, "%s %s found\n", nf.Int(len(words)), noun); err != nil {
		return err
	}

	cols := 1
	if longest := maxLen(words); width > 0 && longest > 0 {
		cols = max(1, width/(longest+gutter))
	}

	for line := range slices.Chunk(words, cols) {
		if _, err := fmt.Fprintln(w, strings.Join(line, strings.Repeat(" ", gutter))); err != nil {
			return err
		}
	}
	return nil
}

func maxLen(words []string) int {
	n := 0
	for _, w := range words {
		n = max(n, len(w))
	}
	return n
}
