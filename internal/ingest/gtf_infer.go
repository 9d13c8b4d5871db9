package ingest

import (
	"sort"

	"github.com/gffbase/gffbase/internal/attrs"
	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

// derivedSource marks a feature as synthesized rather than read from
// the input, per spec.md 4.9 and the GLOSSARY's "Inferred feature".
const derivedSource = "gffutils_derived"

// groupState is the per-transcript-group state machine spec.md 4.9
// names: EMPTY -> ACCUMULATING -> FINALIZED.
type groupState int

const (
	stateEmpty groupState = iota
	stateAccumulating
	stateFinalized
)

// GTFInferenceOptions configures C9.
type GTFInferenceOptions struct {
	TranscriptKey            string // default "transcript_id"
	GeneKey                  string // default "gene_id"
	Subfeature               string // default "exon"
	DisableInferGenes        bool
	DisableInferTranscripts  bool
	// IDSpec, when non-nil, overrides the default "id = grouping key
	// value" naming for synthesized features (spec.md 4.9 point 6).
	IDSpec *IDSpec
}

func (o GTFInferenceOptions) transcriptKey() string {
	if o.TranscriptKey != "" {
		return o.TranscriptKey
	}
	return "transcript_id"
}

func (o GTFInferenceOptions) geneKey() string {
	if o.GeneKey != "" {
		return o.GeneKey
	}
	return "gene_id"
}

func (o GTFInferenceOptions) subfeature() string {
	if o.Subfeature != "" {
		return o.Subfeature
	}
	return "exon"
}

type transcriptGroup struct {
	state       groupState
	transcriptID string
	geneID      string
	seqid       string
	strand      string
	start, end  *int64
	children    []string
}

// GTFInferenceBuilder is C9: it accumulates component features grouped
// by transcript_key/gene_key and, at end of stream, synthesizes
// transcript and gene Features plus the edges linking them.
type GTFInferenceBuilder struct {
	opts    GTFInferenceOptions
	groups  map[string]*transcriptGroup // by transcriptID
	orphans int
}

// NewGTFInferenceBuilder returns a builder for opts.
func NewGTFInferenceBuilder(opts GTFInferenceOptions) *GTFInferenceBuilder {
	return &GTFInferenceBuilder{opts: opts, groups: make(map[string]*transcriptGroup)}
}

// Observe feeds one already-parsed component Feature into the builder.
// Only featuretype == opts.Subfeature rows drive grouping; everything
// else is ignored here (it is still stored as an ordinary feature by
// the caller).
func (b *GTFInferenceBuilder) Observe(f *gff.Feature) {
	if f.Featuretype != b.opts.subfeature() {
		return
	}
	transcriptID := f.Attributes.First(b.opts.transcriptKey())
	if transcriptID == "" {
		b.orphans++
		return
	}

	g, ok := b.groups[transcriptID]
	if !ok {
		g = &transcriptGroup{state: stateEmpty, transcriptID: transcriptID}
		b.groups[transcriptID] = g
	}
	g.state = stateAccumulating
	g.geneID = f.Attributes.First(b.opts.geneKey())
	g.seqid = f.Seqid
	g.strand = f.Strand
	g.children = append(g.children, f.ID)

	if f.Start != nil && (g.start == nil || *f.Start < *g.start) {
		s := *f.Start
		g.start = &s
	}
	if f.End != nil && (g.end == nil || *f.End > *g.end) {
		e := *f.End
		g.end = &e
	}
}

// OrphanCount returns how many subfeature rows had no transcript key
// and so were excluded from inference (spec.md 4.9's orphan edge case).
func (b *GTFInferenceBuilder) OrphanCount() int { return b.orphans }

// Finalize transitions every group to FINALIZED and returns the
// synthesized transcript and gene Features plus the edges linking
// gene->transcript and transcript->child. Synthesized features are not
// deduplicated here: callers route them through the same ID Resolver
// and Merge Controller as explicit rows, so an explicit gene or
// transcript already present collides and is reconciled by C7 exactly
// as point 4 requires.
func (b *GTFInferenceBuilder) Finalize() (features []*gff.Feature, edges []Edge) {
	geneExtent := make(map[string]*transcriptGroup)

	transcriptIDs := make([]string, 0, len(b.groups))
	for id := range b.groups {
		transcriptIDs = append(transcriptIDs, id)
	}
	sort.Strings(transcriptIDs)

	for _, transcriptID := range transcriptIDs {
		g := b.groups[transcriptID]
		g.state = stateFinalized

		if !b.opts.DisableInferTranscripts {
			t := b.synthesize(g.transcriptID, "transcript", g.seqid, g.strand, g.start, g.end)
			t.Attributes.Set(b.opts.transcriptKey(), []string{g.transcriptID})
			if g.geneID != "" {
				t.Attributes.Set(b.opts.geneKey(), []string{g.geneID})
			}
			features = append(features, t)
			for _, child := range g.children {
				edges = append(edges, Edge{Parent: g.transcriptID, Child: child, Level: 1})
			}
		}

		if g.geneID == "" {
			continue
		}
		ge, ok := geneExtent[g.geneID]
		if !ok {
			ge = &transcriptGroup{transcriptID: g.geneID, seqid: g.seqid, strand: g.strand}
			geneExtent[g.geneID] = ge
		}
		if g.start != nil && (ge.start == nil || *g.start < *ge.start) {
			s := *g.start
			ge.start = &s
		}
		if g.end != nil && (ge.end == nil || *g.end > *ge.end) {
			e := *g.end
			ge.end = &e
		}
		ge.children = append(ge.children, g.transcriptID)
	}

	if !b.opts.DisableInferGenes {
		geneIDs := make([]string, 0, len(geneExtent))
		for id := range geneExtent {
			geneIDs = append(geneIDs, id)
		}
		sort.Strings(geneIDs)

		for _, geneID := range geneIDs {
			ge := geneExtent[geneID]
			gf := b.synthesize(geneID, "gene", ge.seqid, ge.strand, ge.start, ge.end)
			gf.Attributes.Set(b.opts.geneKey(), []string{geneID})
			features = append(features, gf)
			for _, transcriptID := range ge.children {
				edges = append(edges, Edge{Parent: geneID, Child: transcriptID, Level: 1})
			}
		}
	}

	return features, edges
}

func (b *GTFInferenceBuilder) synthesize(id, featuretype, seqid, strand string, start, end *int64) *gff.Feature {
	f := &gff.Feature{
		ID:          id,
		Seqid:       seqid,
		Source:      derivedSource,
		Featuretype: featuretype,
		Strand:      strand,
		Score:       gff.None,
		Frame:       gff.None,
		Attributes:  attrs.New(),
		Dialect:     dialect.Default(),
	}
	_ = f.SetCoordinates(start, end, false) // min/max construction guarantees start <= end
	if b.opts.IDSpec != nil {
		r := NewResolver()
		if resolved := r.Resolve(f, *b.opts.IDSpec); resolved != "" {
			f.ID = resolved
		}
	}
	return f
}
