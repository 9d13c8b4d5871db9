package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gffbase/gffbase/internal/attrs"
	"github.com/gffbase/gffbase/internal/gff"
)

func featureWith(featuretype string, attrPairs map[string][]string) *gff.Feature {
	a := attrs.New()
	for k, v := range attrPairs {
		a.Set(k, v)
	}
	return &gff.Feature{Featuretype: featuretype, Attributes: a}
}

func TestResolveKeySpec(t *testing.T) {
	r := NewResolver()
	f := featureWith("gene", map[string][]string{"ID": {"gene0001"}})
	assert.Equal(t, "gene0001", r.Resolve(f, KeySpec("ID")))
}

func TestResolveKeyListSpecFallsThroughInOrder(t *testing.T) {
	r := NewResolver()
	f := featureWith("gene", map[string][]string{"Name": {"eve"}})
	assert.Equal(t, "eve", r.Resolve(f, KeyListSpec("ID", "Name")))
}

func TestResolveNoneFallsBackToAutoincrement(t *testing.T) {
	r := NewResolver()
	f1 := featureWith("gene", nil)
	f2 := featureWith("gene", nil)
	id1 := r.Resolve(f1, IDSpec{})
	id2 := r.Resolve(f2, IDSpec{})
	assert.Equal(t, "gene_1", id1)
	assert.Equal(t, "gene_2", id2)
}

func TestResolveFeatureTypeMap(t *testing.T) {
	r := NewResolver()
	spec := FeatureTypeMapSpec(map[string]IDSpec{
		"gene": KeySpec("ID"),
		"exon": FieldSpec("start"),
	})
	gene := featureWith("gene", map[string][]string{"ID": {"gene0001"}})
	assert.Equal(t, "gene0001", r.Resolve(gene, spec))

	exon := featureWith("exon", nil)
	start := int64(42)
	exon.Start = &start
	assert.Equal(t, "42", r.Resolve(exon, spec))
}

func TestResolveFieldSpec(t *testing.T) {
	r := NewResolver()
	f := featureWith("gene", nil)
	f.Seqid = "chr1"
	assert.Equal(t, "chr1", r.Resolve(f, FieldSpec("seqid")))
}

func TestResolveCallableSpecLiteral(t *testing.T) {
	r := NewResolver()
	spec := CallableSpec(func(f *gff.Feature) string { return "custom-" + f.Featuretype })
	f := featureWith("gene", nil)
	assert.Equal(t, "custom-gene", r.Resolve(f, spec))
}

func TestResolveCallableSpecAutoincrementSentinel(t *testing.T) {
	r := NewResolver()
	spec := CallableSpec(func(f *gff.Feature) string { return "autoincrement:special" })
	f := featureWith("gene", nil)
	assert.Equal(t, "special_1", r.Resolve(f, spec))
}
