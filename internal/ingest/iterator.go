package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// RawLine is one line of raw input, still unparsed, with its 1-based
// file order.
type RawLine struct {
	Text string
	Num  int
}

// Iterator is C4, the Data Iterator: a lazy, pull-based sequence of raw
// lines from a file, URL, or arbitrary reader. Gzip-suffixed sources
// are transparently decompressed. Peek buffers consumed lines into an
// internal replay queue so the same Iterator can be "rewound" for
// dialect inference without a second pass over the underlying reader.
type Iterator struct {
	scanner *bufio.Scanner
	closer  io.Closer
	lineNum int
	replay  []RawLine
	done    bool
}

// NewIterator wraps r as a raw-line source. closer may be nil.
func NewIterator(r io.Reader, closer io.Closer) *Iterator {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 32*1024*1024)
	return &Iterator{scanner: scanner, closer: closer}
}

// OpenPath opens a local file, transparently decompressing if path ends
// in ".gz".
func OpenPath(path string) (*Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, closer, err := maybeGunzip(path, f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return NewIterator(r, closer), nil
}

// OpenURL streams a remote source over HTTP(S), transparently
// decompressing if the URL path ends in ".gz" (spec.md 4.4: "remote
// URLs are streamed through a decompressing reader").
func OpenURL(ctx context.Context, url string) (*Iterator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	r, closer, err := maybeGunzip(url, resp.Body, resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	return NewIterator(r, closer), nil
}

// maybeGunzip wraps base in a gzip reader when name looks gzipped,
// composing its Close with underlying's Close so both are released.
func maybeGunzip(name string, base io.Reader, underlying io.Closer) (io.Reader, io.Closer, error) {
	if !strings.HasSuffix(strings.ToLower(name), ".gz") {
		return base, underlying, nil
	}
	gz, err := gzip.NewReader(base)
	if err != nil {
		return nil, nil, fmt.Errorf("open gzip reader for %s: %w", name, err)
	}
	return gz, closerFunc(func() error {
		gzErr := gz.Close()
		if underlying != nil {
			if err := underlying.Close(); err != nil && gzErr == nil {
				gzErr = err
			}
		}
		return gzErr
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Next returns the next raw line, replaying any buffered lines from a
// prior Peek before resuming the underlying scanner. ok is false at
// end of input.
func (it *Iterator) Next() (RawLine, bool, error) {
	if len(it.replay) > 0 {
		line := it.replay[0]
		it.replay = it.replay[1:]
		return line, true, nil
	}
	if it.done {
		return RawLine{}, false, nil
	}
	if !it.scanner.Scan() {
		it.done = true
		if err := it.scanner.Err(); err != nil {
			return RawLine{}, false, err
		}
		return RawLine{}, false, nil
	}
	it.lineNum++
	return RawLine{Text: it.scanner.Text(), Num: it.lineNum}, true, nil
}

// Peek collects raw lines until it has seen n candidate lines, hits
// EOF, or hits a line for which stop returns true (the FASTA
// terminator). n <= 0 means "all" (stop only at EOF/stop). isCandidate
// decides which lines count toward n; comments and directives are
// consumed but don't count. Every line consumed, candidate or not, is
// pushed back onto the replay queue so the same Iterator continues
// from the very start on the next Next() call.
func (it *Iterator) Peek(n int, isCandidate, stop func(string) bool) ([]RawLine, error) {
	var candidates []RawLine
	var consumed []RawLine
	for {
		if n > 0 && len(candidates) >= n {
			break
		}
		line, ok, err := it.Next()
		if err != nil {
			it.replay = append(consumed, it.replay...)
			return candidates, err
		}
		if !ok {
			break
		}
		consumed = append(consumed, line)
		if stop != nil && stop(line.Text) {
			break
		}
		if isCandidate(line.Text) {
			candidates = append(candidates, line)
		}
	}
	it.replay = append(consumed, it.replay...)
	return candidates, nil
}

// Close releases the underlying resource, if any.
func (it *Iterator) Close() error {
	if it.closer != nil {
		return it.closer.Close()
	}
	return nil
}
