package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	solve "crosswarped.com/wordsolve"
)

// defaultDicts are tried in order when no word list is given.
var defaultDicts = []string{
	"words.txt",
	"words.txt.gz",
	"/etc/dictionaries-common/words",
}

var errUsage = errors.New("usage")

func findDictionary(candidates []string) (string, bool) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// parseCommand turns the command line after the flags into constraints.
//
//	pattern BOARD UNUSED [UNPLACED]
//	wordle GUESS=FEEDBACK...
func parseCommand(args []string, rows int) (solve.Constraints, error) {
	if len(args) == 0 {
		return solve.Constraints{}, errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "pattern":
		if len(rest) < 2 || len(rest) > 3 {
			return solve.Constraints{}, fmt.Errorf("%w: pattern BOARD UNUSED [UNPLACED]", errUsage)
		}
		unplaced := ""
		if len(rest) == 3 {
			unplaced = rest[2]
		}
		return solve.ParsePattern(rest[0], rest[1], unplaced)

	case "wordle":
		if len(rest) == 0 {
			return solve.Constraints{}, fmt.Errorf("%w: wordle GUESS=FEEDBACK...", errUsage)
		}
		return parseGuesses(rest, rows)
	}

	return solve.Constraints{}, fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func parseGuesses(guesses []string, rows int) (solve.Constraints, error) {
	first, _, _ := strings.Cut(guesses[0], "=")
	if first == "" {
		return solve.Constraints{}, fmt.Errorf("%w: empty guess", errUsage)
	}
	board := solve.NewBoard(max(rows, len(guesses)), len(first))

	for _, g := range guesses {
		guess, feedback, ok := strings.Cut(g, "=")
		if !ok {
			return solve.Constraints{}, fmt.Errorf("%w: %q should look like CRANE=bygbb", errUsage, g)
		}
		if err := board.AddGuess(guess, feedback); err != nil {
			return solve.Constraints{}, err
		}
	}

	return board.Constraints()
}
