// Package bins implements the UCSC genomic binning scheme used to index
// feature intervals for fast overlap lookups, ported from gffutils'
// bins.py (itself ported from UCSC kent/src binRange.c). See
// http://genome.cshlp.org/content/12/6/996.abstract Fig 7.
package bins

// nextShift is how much to shift to reach the next larger bin: each
// level splits 8-fold.
const nextShift = 3

// firstShift is how much to shift to reach the finest bin; 2^firstShift
// is the size of the smallest bin.
const firstShift = 17

// offsets are the bin numbers at the start of each level, from smallest
// bin size to largest (chromosome-wide) bin.
var offsets = [5]int64{
	4096 + 512 + 64 + 8 + 1,
	512 + 64 + 8 + 1,
	64 + 8 + 1,
	8 + 1,
	1,
}

// maxChromSize bounds coordinates; beyond it every feature is placed in
// bin 1 ("somewhere on the chromosome").
const maxChromSize = 1 << 29

// gffCoordOffset accounts for GFF's 1-based inclusive start, matching
// bins.py's COORD_OFFSETS['gff'].
const gffCoordOffset = 1

// Bin returns the smallest UCSC bin that completely contains the
// 1-based inclusive interval [start, end]. Coordinates outside the
// representable range, or negative, collapse to bin 1.
func Bin(start, end int64) int64 {
	if start >= maxChromSize || end >= maxChromSize {
		return 1
	}
	if start < 0 || end < 0 {
		return 1
	}

	s := (start - gffCoordOffset) >> firstShift
	e := end >> firstShift

	for _, offset := range offsets {
		if s == e {
			return offset + s
		}
		s >>= nextShift
		e >>= nextShift
	}
	return 1
}

// Range returns the set of all bins overlapping [start, end] — every
// bin a query for this interval would need to scan, not just the
// smallest containing one.
func Range(start, end int64) map[int64]struct{} {
	result := map[int64]struct{}{1: {}}
	if start >= maxChromSize || end >= maxChromSize || start < 0 || end < 0 {
		return result
	}

	s := (start - gffCoordOffset) >> firstShift
	e := end >> firstShift

	for _, offset := range offsets {
		for b := offset + s; b <= offset+e; b++ {
			result[b] = struct{}{}
		}
		s >>= nextShift
		e >>= nextShift
	}
	return result
}
