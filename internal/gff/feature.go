// Package gff holds the data model shared by the whole ingest pipeline
// (spec.md 3): Feature, Directive, and the C3 line parser that turns a
// single tab-delimited record into a Feature.
package gff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gffbase/gffbase/internal/attrs"
	"github.com/gffbase/gffbase/internal/bins"
	"github.com/gffbase/gffbase/internal/dialect"
)

// None is the GFF placeholder for a missing scalar field.
const None = "."

// Feature is one annotated interval: a row in the features table.
type Feature struct {
	ID          string
	Seqid       string
	Source      string
	Featuretype string

	// Start and End are nil when the coordinate is the "." placeholder.
	// Invariant: if both are non-nil, Start <= End (see spec.md 4.3 and
	// the NormalizeCoordinates ingest option in SPEC_FULL.md).
	Start *int64
	End   *int64

	Score  string
	Strand string
	Frame  string

	Attributes *attrs.Attributes
	Extra      []string

	// Bin is the UCSC genomic bin for (Start, End), or nil if either
	// coordinate is missing.
	Bin *int64

	Dialect dialect.Dialect

	// FileOrder is the 0-based order this feature was read from its
	// source; used to keep insertion-order semantics stable (spec.md 5).
	FileOrder int
}

// computeBin fills in f.Bin from f.Start/f.End, or leaves it nil.
func (f *Feature) computeBin() {
	if f.Start == nil || f.End == nil {
		f.Bin = nil
		return
	}
	b := bins.Bin(*f.Start, *f.End)
	f.Bin = &b
}

// SetCoordinates sets Start/End, recomputing Bin, and validates the
// start <= end invariant unless normalize swaps them.
func (f *Feature) SetCoordinates(start, end *int64, normalize bool) error {
	if start != nil && end != nil && *start > *end {
		if !normalize {
			return &CoordinateError{Reason: fmt.Sprintf("start %d > end %d", *start, *end)}
		}
		start, end = end, start
	}
	f.Start, f.End = start, end
	f.computeBin()
	return nil
}

// StartString returns Start rendered as "." or a decimal string.
func (f *Feature) StartString() string {
	if f.Start == nil {
		return None
	}
	return strconv.FormatInt(*f.Start, 10)
}

// EndString returns End rendered as "." or a decimal string.
func (f *Feature) EndString() string {
	if f.End == nil {
		return None
	}
	return strconv.FormatInt(*f.End, 10)
}

// String reconstructs the original 9-tab-field line (plus extras) as
// faithfully as the Dialect and encoding policy allow (spec.md 8's
// round-trip property).
func (f *Feature) String(policy dialect.EncodingPolicy) string {
	fields := []string{
		f.Seqid, f.Source, f.Featuretype, f.StartString(), f.EndString(),
		f.Score, f.Strand, f.Frame,
		attrs.Render(f.Attributes, f.Dialect, policy),
	}
	line := strings.Join(fields, "\t")
	if len(f.Extra) > 0 {
		line += "\t" + strings.Join(f.Extra, "\t")
	}
	return line
}

// Len returns the interval length; zero-length intervals are rejected
// at parse time so this is always >= 1 for features with coordinates.
func (f *Feature) Len() int64 {
	if f.Start == nil || f.End == nil {
		return 0
	}
	return *f.End - *f.Start + 1
}

// Clone returns a deep copy safe to mutate independently (used by
// merge/create_unique handling and by the GTF inference builder when
// extending a synthesized feature's coordinates).
func (f *Feature) Clone() *Feature {
	out := *f
	if f.Start != nil {
		s := *f.Start
		out.Start = &s
	}
	if f.End != nil {
		e := *f.End
		out.End = &e
	}
	if f.Bin != nil {
		b := *f.Bin
		out.Bin = &b
	}
	if f.Attributes != nil {
		out.Attributes = f.Attributes.Clone()
	}
	if f.Extra != nil {
		out.Extra = append([]string(nil), f.Extra...)
	}
	out.Dialect = f.Dialect.Clone()
	return &out
}

// Directive is a "##"-prefixed header line preserved verbatim.
type Directive struct {
	Text string
}
