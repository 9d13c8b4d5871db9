package ingest

import (
	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

// TransformFunc is applied to every parsed Feature (explicit or
// synthesized) before ID resolution, with read/write access to the
// Feature-in-progress. Returning nil drops the feature (spec.md
// "Failure semantics summary": "transform returning a falsy value").
type TransformFunc func(f *gff.Feature) *gff.Feature

// IngestOptions is the ingest surface's public configuration (spec.md
// 6.3/6.4), plus the supplemented options SPEC_FULL.md adds.
type IngestOptions struct {
	IDSpec        IDSpec
	MergeOptions  MergeOptions
	Transform     TransformFunc
	Checklines    int
	ForceDialectCheck bool
	ForceGFF      bool
	ExplicitDialect *dialect.Dialect
	GTFOptions    GTFInferenceOptions
	Policy        dialect.EncodingPolicy

	// NormalizeCoordinates swaps a start > end pair instead of failing
	// with a CoordinateError (SPEC_FULL.md's decision for that open
	// question).
	NormalizeCoordinates bool

	// DeferRelationClose, when true, makes Run skip CloseRelations: no
	// edges and no GTF-synthesized features are written, and Run still
	// finalizes and commits the sink. A later CloseRelations call writes
	// to that already-committed sink, which internal/store's Writer
	// rejects. Ported from gffutils' infer_gene_extent toggle, kept
	// distinct from DisableInferGenes/DisableInferTranscripts, which each
	// turn off synthesis of one row kind only.
	DeferRelationClose bool

	// IgnoreMalformedLines skips a MalformedLine instead of failing the
	// whole ingest.
	IgnoreMalformedLines bool
}
