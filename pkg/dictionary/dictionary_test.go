package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/wordsolve/pkg/primitives"
)

func gzDict(t testing.TB, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func letter(b byte) primitives.Letter {
	return primitives.MustLetter(b)
}

// walk follows word from the root and returns the final slot and the node it
// sits in.
func walk(t testing.TB, d *Dictionary, word string) (NodeID, Slot) {
	t.Helper()
	cur := RootNode
	for i := 0; i < len(word)-1; i++ {
		next, ok := d.Lookup(cur, letter(word[i])).Next()
		require.Truef(t, ok, "no continuation at %q", word[:i+1])
		cur = next
	}
	return cur, d.Lookup(cur, letter(word[len(word)-1]))
}

func TestDictionary_Rust(t *testing.T) {
	for name, load := range map[string]func(string) (*Dictionary, Stats, error){
		"plain": func(s string) (*Dictionary, Stats, error) {
			return LoadString(s, WordSizeConstraint{})
		},
		"gzip": func(s string) (*Dictionary, Stats, error) {
			return LoadBytes(gzDict(t, s), WordSizeConstraint{})
		},
	} {
		t.Run(name, func(t *testing.T) {
			d, stats, err := load("rust")
			require.NoError(t, err)
			assert.Equal(t, 1, d.WordCount())
			assert.Equal(t, 4, d.NodeCount())
			assert.Equal(t, 4, stats.Nodes)

			assert.Equal(t, continues(1), d.Lookup(0, letter('r')))
			assert.Equal(t, continues(2), d.Lookup(1, letter('u')))
			assert.Equal(t, continues(3), d.Lookup(2, letter('s')))
			assert.Equal(t, SlotTerminal, d.Lookup(3, letter('t')).Kind())

			d, _, err = load("rust\nrusty")
			require.NoError(t, err)
			assert.Equal(t, 2, d.WordCount())
			assert.Equal(t, 5, d.NodeCount())

			tSlot := d.Lookup(3, letter('t'))
			assert.Equal(t, SlotTerminalContinues, tSlot.Kind())
			next, ok := tSlot.Next()
			require.True(t, ok)
			assert.Equal(t, NodeID(4), next)
			assert.Equal(t, SlotTerminal, d.Lookup(4, letter('y')).Kind())

			assert.Equal(t, "RUST", d.WordAt(MakeWordID(3, letter('t'))))
			assert.Equal(t, "RUSTY", d.WordAt(MakeWordID(4, letter('y'))))
		})
	}
}

func TestDictionary_ContinuesThenTerminal(t *testing.T) {
	// The longer word first: "rust" must upgrade an existing Continues slot.
	d, _, err := LoadString("rusty\nrust", WordSizeConstraint{})
	require.NoError(t, err)
	assert.Equal(t, 5, d.NodeCount())

	_, slot := walk(t, d, "rust")
	assert.Equal(t, SlotTerminalContinues, slot.Kind())
	_, slot = walk(t, d, "rusty")
	assert.Equal(t, SlotTerminal, slot.Kind())
}

func TestDictionary_LookupWalk(t *testing.T) {
	words := []string{"a", "at", "ate", "crane", "crate", "cranes", "zebra", "eaten", "erase", "stare", "store"}
	d := New()
	for _, w := range words {
		require.NoError(t, d.Insert(w))
	}
	assert.Equal(t, len(words), d.WordCount())

	for _, w := range words {
		t.Run(w, func(t *testing.T) {
			n, slot := walk(t, d, w)
			require.True(t, slot.IsTerminal(), "slot for %q is %v", w, slot)
			id := MakeWordID(n, letter(w[len(w)-1]))
			assert.Equal(t, bytes.ToUpper([]byte(w)), []byte(d.WordAt(id)))
		})
	}

	_, slot := walk(t, d, "cran")
	assert.Equal(t, SlotContinues, slot.Kind())
	assert.Equal(t, SlotEmpty, d.Lookup(RootNode, letter('q')).Kind())
}

func TestDictionary_NodeCount(t *testing.T) {
	// No shared first letter: every word contributes one node per letter but
	// its last.
	disjoint := []string{"alpha", "bravo", "delta", "gamma", "omega"}
	d := New()
	for _, w := range disjoint {
		require.NoError(t, d.Insert(w))
	}
	assert.Equal(t, len(disjoint)*(5-1)+1, d.NodeCount())

	shared := []string{"stare", "store", "stork", "story", "stair"}
	d = New()
	for _, w := range shared {
		require.NoError(t, d.Insert(w))
	}
	assert.Less(t, d.NodeCount(), len(shared)*(5-1)+1)
}

func TestDictionary_WordContains(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert("erase"))
	require.NoError(t, d.Insert("eaten"))

	erase, slot := walk(t, d, "erase")
	require.True(t, slot.IsTerminal())
	eraseID := MakeWordID(erase, letter('e'))

	eaten, _ := walk(t, d, "eaten")
	eatenID := MakeWordID(eaten, letter('n'))

	tests := []struct {
		name   string
		id     WordID
		letter byte
		count  int
		exact  bool
		want   bool
	}{
		{"erase has two e", eraseID, 'e', 2, true, true},
		{"erase has at least one e", eraseID, 'e', 1, false, true},
		{"erase not exactly one e", eraseID, 'e', 1, true, false},
		{"eaten has two e too", eatenID, 'e', 2, true, true},
		{"eaten at least one t", eatenID, 't', 1, false, true},
		{"eaten not three e", eatenID, 'e', 3, false, false},
		{"eaten no z", eatenID, 'z', 1, false, false},
		{"eaten exactly zero z", eatenID, 'z', 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.WordContains(tt.id, letter(tt.letter), tt.count, tt.exact))
		})
	}
}

func TestDictionary_Duplicate(t *testing.T) {
	d := New()
	require.NoError(t, d.Insert("stare"))
	err := d.Insert("stare")

	var dup *DuplicateWordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "stare", dup.Word)
	assert.ErrorIs(t, err, ErrDuplicateWord)
	assert.Equal(t, 1, d.WordCount())

	// A prefix of an existing word is not a duplicate.
	require.NoError(t, d.Insert("star"))
}

func TestDictionary_InsertRejectsBadInput(t *testing.T) {
	d := New()
	assert.Error(t, d.Insert(""))
	assert.Error(t, d.Insert("Stare"))
	assert.Error(t, d.Insert("st-re"))
	assert.Equal(t, 1, d.NodeCount(), "rejected words must not allocate nodes")
}

func TestBuild_Counters(t *testing.T) {
	input := "stare\nStore\nst\nstorey\ncrane\n\nslate\r\nsl8te\n"
	d, stats, err := LoadString(input, Exact(5))
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Lines:       8,
		Words:       3,
		WrongLength: 3,
		WrongCase:   2,
		Nodes:       d.NodeCount(),
		MemUsed:     d.MemUsage(),
		MemAlloc:    d.MemAlloc(),
	}, stats)
	assert.Equal(t, 3, d.WordCount())
	assert.GreaterOrEqual(t, stats.MemAlloc, stats.MemUsed)
}

func TestBuild_OverlongLine(t *testing.T) {
	input := "stare\n" + strings.Repeat("a", 70000) + "\ncrane\n"

	for name, data := range map[string][]byte{
		"plain": []byte(input),
		"gzip":  gzDict(t, input),
	} {
		t.Run(name, func(t *testing.T) {
			d, stats, err := LoadBytes(data, Exact(5))
			require.NoError(t, err)
			assert.Equal(t, 3, stats.Lines)
			assert.Equal(t, 2, stats.Words)
			assert.Equal(t, 1, stats.WrongLength)
			assert.Equal(t, 2, d.WordCount())
		})
	}
}

func TestBuild_Duplicates(t *testing.T) {
	input := "stare\ncrane\nstare\n"

	_, _, err := LoadString(input, WordSizeConstraint{})
	var dup *DuplicateWordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 3, dup.Line)

	d, stats, err := LoadString(input, WordSizeConstraint{}, WithDuplicates(DuplicatesSkip))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 2, d.WordCount())
}

func TestBuild_GzipMatchesPlain(t *testing.T) {
	words := "cigar\nrebut\nsissy\nhumph\nawake\nblush\nfocal\nevade\nnaval\nserve\n"
	plain, plainStats, err := LoadString(words, Exact(5))
	require.NoError(t, err)
	zipped, zipStats, err := LoadBytes(gzDict(t, words), Exact(5))
	require.NoError(t, err)

	assert.Equal(t, plainStats, zipStats)
	assert.Equal(t, plain.nodes, zipped.nodes)
}

func TestBuild_CorruptGzip(t *testing.T) {
	data := gzDict(t, "cigar\nrebut\nsissy\n")
	// Damage the deflate stream and trailer but keep the magic bytes.
	for i := 12; i < len(data); i++ {
		data[i] ^= 0xff
	}
	_, _, err := LoadBytes(data, WordSizeConstraint{})
	assert.Error(t, err)

	_, _, err = LoadBytes([]byte{0x1f, 0x8b}, WordSizeConstraint{})
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestBuild_ReadError(t *testing.T) {
	_, _, err := Load(failingReader{}, WordSizeConstraint{})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestSliceSource(t *testing.T) {
	d, stats, err := Build(NewSliceSource([]string{"ab", "abc", "b"}), WordSizeConstraint{Min: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 1, stats.WrongLength)
	assert.Equal(t, 2, d.WordCount())

	src := NewSliceSource(nil)
	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt.gz")
	require.NoError(t, os.WriteFile(path, gzDict(t, "stare\nstore\n"), 0o644))
	link := filepath.Join(dir, "words")
	require.NoError(t, os.Symlink(path, link))

	spec, err := FileSpec(link)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s -> %s", link, path), spec)

	d, _, err := LoadFile(link, Exact(5))
	require.NoError(t, err)
	assert.Equal(t, 2, d.WordCount())

	_, _, err = LoadFile(filepath.Join(dir, "missing.txt"), Exact(5))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWordSizeConstraint(t *testing.T) {
	tests := []struct {
		c    WordSizeConstraint
		n    int
		want bool
	}{
		{WordSizeConstraint{}, 1, true},
		{WordSizeConstraint{}, 40, true},
		{WordSizeConstraint{Min: 3}, 2, false},
		{WordSizeConstraint{Min: 3}, 3, true},
		{WordSizeConstraint{Max: 4}, 5, false},
		{Exact(5), 5, true},
		{Exact(5), 4, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%+v/%d", tt.c, tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Admits(tt.n))
		})
	}
}

func TestSlot(t *testing.T) {
	var empty Slot
	assert.Equal(t, SlotEmpty, empty.Kind())
	_, ok := empty.Next()
	assert.False(t, ok)

	c := continues(0)
	assert.Equal(t, SlotContinues, c.Kind())
	next, ok := c.Next()
	assert.True(t, ok)
	assert.Equal(t, NodeID(0), next)

	assert.Equal(t, SlotTerminal, empty.withTerminal().Kind())
	assert.Equal(t, SlotTerminalContinues, continues(7).withTerminal().Kind())
	assert.Equal(t, "TerminalContinues(7)", continues(7).withTerminal().String())
	assert.Equal(t, "Terminal", empty.withTerminal().String())
}

func BenchmarkLoad(b *testing.B) {
	data, err := os.ReadFile("../../testdata/words.txt")
	if err != nil {
		b.Skipf("no word list: %v", err)
	}
	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := LoadBytes(data, Exact(5)); err != nil {
			b.Fatal(err)
		}
	}
}
