package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"

	solve "crosswarped.com/wordsolve"
	"crosswarped.com/wordsolve/internal/config"
	"crosswarped.com/wordsolve/internal/numformat"
	"crosswarped.com/wordsolve/internal/results"
	"crosswarped.com/wordsolve/pkg/dictionary"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  %s [flags] pattern BOARD UNUSED [UNPLACED]\n", os.Args[0])
	fmt.Fprintf(out, "  %s [flags] wordle GUESS=FEEDBACK...\n\n", os.Args[0])
	fmt.Fprintf(out, "BOARD holds known letters with . for unknown positions, e.g. s..re.\n")
	fmt.Fprintf(out, "FEEDBACK has one of g (green), y (yellow), b or . (gray) per letter.\n\n")
	flag.PrintDefaults()
}

func main() {
	configFile := flag.String("config", "", "The config file to load")
	dictFile := flag.String("d", "", "The word list file, optionally gzipped (default: first of "+strings.Join(defaultDicts, ", ")+")")
	verbose := flag.Bool("v", false, "Log dictionary statistics and search time")
	debug := flag.Bool("debug", false, "Trace every dictionary lookup made by the search")

	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the search")

	profile := flag.Bool("profile", false, "Profile the search")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Usage = usage
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.InfoLevel
	}
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(*configFile)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error loading config")
		os.Exit(1)
	}

	c, err := parseCommand(flag.Args(), cfg.Board.Rows)
	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Error parsing constraints")
		os.Exit(1)
	}
	logger.Debug().Stringer("constraints", c).Msg("Searching")

	path := *dictFile
	if path == "" {
		path = cfg.Dictionary.Path
	}
	if path == "" {
		var ok bool
		if path, ok = findDictionary(defaultDicts); !ok {
			logger.Error().Strs("defaults", defaultDicts).Msg("No dictionary file given and none of the default dictionaries could be found")
			os.Exit(1)
		}
	}

	d, _, err := dictionary.LoadFile(path, dictionary.Exact(c.Len()),
		dictionary.WithLogger(logger),
		dictionary.WithDuplicates(cfg.DuplicatePolicy()),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading dictionary")
		os.Exit(1)
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			logger.Error().Err(err).Msg("Error creating profile file")
			os.Exit(1)
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			logger.Error().Err(err).Msg("Error creating memory profile file")
			os.Exit(1)
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error().Err(err).Msg("Error starting CPU profile")
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	var opts []solve.SearchOption
	if *debug {
		opts = append(opts, solve.WithDebug(logger))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	nf := numformat.System()
	start := time.Now()

	var words []string
	for id := range solve.Words(d, c, opts...) {
		if ctx.Err() != nil {
			break
		}
		words = append(words, d.WordAt(id))
	}

	logger.Info().Str("seconds", nf.SigDig(time.Since(start).Seconds(), 2)).Msg("Search finished")
	if ctx.Err() != nil {
		logger.Warn().Err(ctx.Err()).Msg("Search stopped early, results are incomplete")
	}

	if err := results.Print(os.Stdout, nf, words, results.TerminalWidth(os.Stdout)); err != nil {
		logger.Error().Err(err).Msg("Error printing results")
	}

	if mf != nil {
		pprof.WriteHeapProfile(mf)
	}
}
