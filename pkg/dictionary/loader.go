package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// WordSizeConstraint bounds the length of words accepted at load time. A zero
// bound is unbounded on that side.
type WordSizeConstraint struct {
	Min int
	Max int
}

// Exact returns a constraint admitting only words of length n.
func Exact(n int) WordSizeConstraint {
	return WordSizeConstraint{Min: n, Max: n}
}

// Admits reports whether a word of length n satisfies the constraint.
func (c WordSizeConstraint) Admits(n int) bool {
	if c.Min > 0 && n < c.Min {
		return false
	}
	if c.Max > 0 && n > c.Max {
		return false
	}
	return true
}

// DuplicatePolicy decides what Build does with a word that is already present.
type DuplicatePolicy int

const (
	// DuplicatesFail aborts the build with a *DuplicateWordError.
	DuplicatesFail DuplicatePolicy = iota
	// DuplicatesSkip counts the line in Stats.Duplicates and carries on.
	DuplicatesSkip
)

// Stats are the counters gathered while building a dictionary.
type Stats struct {
	Lines       int
	Words       int
	WrongLength int
	WrongCase   int
	Duplicates  int
	Nodes       int
	MemUsed     int
	MemAlloc    int
}

type options struct {
	logger     zerolog.Logger
	duplicates DuplicatePolicy
}

// Option configures Build.
type Option func(*options)

// WithLogger logs load progress and statistics to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDuplicates sets the policy for words that appear more than once.
func WithDuplicates(p DuplicatePolicy) Option {
	return func(o *options) {
		o.duplicates = p
	}
}

// Build reads every line of src into a new dictionary. Lines of the wrong
// length or holding anything other than a-z are counted and skipped.
func Build(src LineSource, size WordSizeConstraint, opts ...Option) (*Dictionary, Stats, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	if IsGzip(src) {
		o.logger.Debug().Msg("Decompressing word list")
	}

	d := New()
	var stats Stats
	for {
		line, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Lines++

		if line == "" || !size.Admits(len(line)) {
			stats.WrongLength++
			continue
		}
		if !isLower(line) {
			stats.WrongCase++
			continue
		}

		if err := d.Insert(line); err != nil {
			var dup *DuplicateWordError
			if !errors.As(err, &dup) {
				return nil, stats, err
			}
			dup.Line = stats.Lines
			if o.duplicates == DuplicatesFail {
				return nil, stats, dup
			}
			o.logger.Warn().Str("word", line).Int("line", stats.Lines).Msg("Skipping duplicate word")
			stats.Duplicates++
			continue
		}
		stats.Words++
	}

	stats.Nodes = d.NodeCount()
	stats.MemUsed = d.MemUsage()
	stats.MemAlloc = d.MemAlloc()

	o.logger.Info().
		Int("lines", stats.Lines).
		Int("wrong_length", stats.WrongLength).
		Int("wrong_case", stats.WrongCase).
		Int("duplicates", stats.Duplicates).
		Msg("Read word list")
	o.logger.Info().
		Int("words", stats.Words).
		Int("nodes", stats.Nodes).
		Int("mem_used", stats.MemUsed).
		Int("mem_alloc", stats.MemAlloc).
		Msg("Built dictionary")

	return d, stats, nil
}

func isLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Load builds a dictionary from r, which may be gzip compressed.
func Load(r io.Reader, size WordSizeConstraint, opts ...Option) (*Dictionary, Stats, error) {
	src, err := OpenSource(r)
	if err != nil {
		return nil, Stats{}, err
	}
	return Build(src, size, opts...)
}

// LoadString builds a dictionary from newline separated words.
func LoadString(s string, size WordSizeConstraint, opts ...Option) (*Dictionary, Stats, error) {
	return Load(strings.NewReader(s), size, opts...)
}

// LoadBytes builds a dictionary from a byte slice, which may be gzip
// compressed.
func LoadBytes(b []byte, size WordSizeConstraint, opts ...Option) (*Dictionary, Stats, error) {
	return Load(bytes.NewReader(b), size, opts...)
}

// LoadFile builds a dictionary from the file at path, which may be gzip
// compressed.
func LoadFile(path string, size WordSizeConstraint, opts ...Option) (*Dictionary, Stats, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	spec, err := FileSpec(path)
	if err != nil {
		return nil, Stats{}, err
	}
	o.logger.Info().Str("file", spec).Msg("Loading words")

	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer f.Close()

	d, stats, err := Load(f, size, opts...)
	if err != nil {
		return nil, stats, fmt.Errorf("loading %s: %w", path, err)
	}
	return d, stats, nil
}

// FileSpec describes path, following any chain of symlinks as "a -> b".
func FileSpec(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return path, nil
	}

	target, err := os.Readlink(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	rest, err := FileSpec(target)
	if err != nil {
		return "", err
	}
	return path + " -> " + rest, nil
}
