package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// LineSource yields candidate words one line at a time. Next returns io.EOF
// once the source is exhausted.
type LineSource interface {
	Next() (string, error)
}

// OpenSource returns a LineSource over r, transparently decompressing it when
// the stream starts with the gzip magic bytes.
func OpenSource(r io.Reader) (LineSource, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading word source: %w", err)
	}

	if bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip word source: %w", err)
		}
		return &gzipSource{plainSource: newPlainSource(zr)}, nil
	}

	return newPlainSource(br), nil
}

// IsGzip reports whether src decompresses its input.
func IsGzip(src LineSource) bool {
	_, ok := src.(*gzipSource)
	return ok
}

// plainSource reads one line per call. Lines longer than the read buffer are
// joined rather than rejected, so the loader can count them as wrong length.
type plainSource struct {
	r    *bufio.Reader
	long []byte
}

func newPlainSource(r io.Reader) *plainSource {
	return &plainSource{r: bufio.NewReader(r)}
}

func (s *plainSource) Next() (string, error) {
	line, isPrefix, err := s.r.ReadLine()
	if err != nil {
		return "", err
	}
	if isPrefix {
		s.long = append(s.long[:0], line...)
		for isPrefix {
			line, isPrefix, err = s.r.ReadLine()
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			s.long = append(s.long, line...)
			if err != nil {
				break
			}
		}
		line = s.long
	}
	return strings.TrimSuffix(string(line), "\r"), nil
}

type gzipSource struct {
	*plainSource
}

func (s *gzipSource) Next() (string, error) {
	line, err := s.plainSource.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("decompressing word source: %w", err)
	}
	return line, nil
}

// SliceSource is a LineSource over words already in memory.
type SliceSource struct {
	lines []string
	pos   int
}

// NewSliceSource returns a LineSource yielding lines in order.
func NewSliceSource(lines []string) *SliceSource {
	return &SliceSource{lines: lines}
}

func (s *SliceSource) Next() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}
