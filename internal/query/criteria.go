package query

import "github.com/gffbase/gffbase/internal/gff"

// Criterion decides whether two features are candidates for merging in
// a caller-driven merge-all pass over query results. Ported from
// gffutils' merge_criteria predicates (create.py _do_merge helpers),
// exposed here rather than baked into the ingest Merge Controller so
// callers can build their own post-ingest reconciliation passes over
// query results.
type Criterion func(a, b *gff.Feature) bool

// SameSeqid reports whether a and b are on the same sequence.
func SameSeqid(a, b *gff.Feature) bool { return a.Seqid == b.Seqid }

// SameStrand reports whether a and b share a strand.
func SameStrand(a, b *gff.Feature) bool { return a.Strand == b.Strand }

// SameFeatureType reports whether a and b share a featuretype.
func SameFeatureType(a, b *gff.Feature) bool { return a.Featuretype == b.Featuretype }

// ExactCoordinates reports whether a and b span the identical interval.
func ExactCoordinates(a, b *gff.Feature) bool {
	return a.StartString() == b.StartString() && a.EndString() == b.EndString()
}

// OverlapAnyInclusive reports whether a and b's intervals overlap by at
// least one base, inclusive of shared endpoints.
func OverlapAnyInclusive(a, b *gff.Feature) bool {
	if a.Start == nil || a.End == nil || b.Start == nil || b.End == nil {
		return false
	}
	return *a.Start <= *b.End && *b.Start <= *a.End
}

// OverlapEndInclusive reports whether b's start falls within a's
// interval (inclusive), named to match gffutils' merge_criteria
// convention (overlap_end_inclusive checks the candidate's start
// against the accumulator's interval).
func OverlapEndInclusive(a, b *gff.Feature) bool {
	if a.Start == nil || a.End == nil || b.Start == nil {
		return false
	}
	return *b.Start >= *a.Start && *b.Start <= *a.End
}

// OverlapStartInclusive reports whether b's end falls within a's
// interval (inclusive), named to match gffutils' merge_criteria
// convention (overlap_start_inclusive checks the candidate's end
// against the accumulator's interval).
func OverlapStartInclusive(a, b *gff.Feature) bool {
	if a.Start == nil || a.End == nil || b.End == nil {
		return false
	}
	return *b.End >= *a.Start && *b.End <= *a.End
}

// All combines criteria with logical AND.
func All(criteria ...Criterion) Criterion {
	return func(a, b *gff.Feature) bool {
		for _, c := range criteria {
			if !c(a, b) {
				return false
			}
		}
		return true
	}
}
