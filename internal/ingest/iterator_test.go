package ingest

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorNextTracksLineNumbers(t *testing.T) {
	it := NewIterator(strings.NewReader("a\nb\nc\n"), nil)
	for i, want := range []string{"a", "b", "c"} {
		line, ok, err := it.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, line.Text)
		assert.Equal(t, i+1, line.Num)
	}
	_, ok, err := it.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIteratorPeekThenNextReplaysSameLines(t *testing.T) {
	it := NewIterator(strings.NewReader("a\nb\nc\n"), nil)
	peeked, err := it.Peek(2, func(string) bool { return true }, nil)
	require.NoError(t, err)
	require.Len(t, peeked, 2)
	assert.Equal(t, "a", peeked[0].Text)
	assert.Equal(t, "b", peeked[1].Text)

	// The iterator must resume from "a" again, not "c".
	first, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", first.Text)
}

func TestIteratorPeekStopsAtStopPredicate(t *testing.T) {
	it := NewIterator(strings.NewReader("a\nb\n##FASTA\nc\n"), nil)
	peeked, err := it.Peek(0, func(string) bool { return true }, func(s string) bool { return s == "##FASTA" })
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, textsOf(peeked))
}

func TestIteratorPeekSkipsNonCandidates(t *testing.T) {
	it := NewIterator(strings.NewReader("#comment\na\nb\n"), nil)
	isCandidate := func(s string) bool { return !strings.HasPrefix(s, "#") }
	peeked, err := it.Peek(2, isCandidate, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, textsOf(peeked))
}

func TestOpenPathTransparentGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.gff3.gz")

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte("chr1\tFlyBase\tgene\t1\t10\t.\t+\t.\tID=gene0001\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	it, err := OpenPath(path)
	require.NoError(t, err)
	t.Cleanup(func() { it.Close() })

	line, ok, err := it.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, line.Text, "gene0001")
}

func textsOf(lines []RawLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
