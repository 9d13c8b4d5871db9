package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func edgeSet(edges []Edge) map[Edge]bool {
	out := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		out[e] = true
	}
	return out
}

func TestRelationBuilderLevel1FromParents(t *testing.T) {
	b := NewRelationBuilder()
	b.AddParents("mRNA0001", []string{"gene0001"})
	edges := b.Close()
	assert.True(t, edgeSet(edges)[Edge{Parent: "gene0001", Child: "mRNA0001", Level: 1}])
}

func TestRelationBuilderTransitiveClosure(t *testing.T) {
	b := NewRelationBuilder()
	b.AddParents("mRNA0001", []string{"gene0001"})
	b.AddParents("exon0001", []string{"mRNA0001"})
	edges := edgeSet(b.Close())

	assert.True(t, edges[Edge{Parent: "gene0001", Child: "mRNA0001", Level: 1}])
	assert.True(t, edges[Edge{Parent: "mRNA0001", Child: "exon0001", Level: 1}])
	assert.True(t, edges[Edge{Parent: "gene0001", Child: "exon0001", Level: 2}])
}

func TestRelationBuilderNeverEmitsSelfEdge(t *testing.T) {
	b := NewRelationBuilder()
	b.AddParents("gene0001", []string{"gene0001"})
	assert.Empty(t, b.Close())
}

func TestRelationBuilderMultipleParents(t *testing.T) {
	b := NewRelationBuilder()
	b.AddParents("exon0001", []string{"mRNA0001", "mRNA0002"})
	edges := edgeSet(b.Close())
	assert.True(t, edges[Edge{Parent: "mRNA0001", Child: "exon0001", Level: 1}])
	assert.True(t, edges[Edge{Parent: "mRNA0002", Child: "exon0001", Level: 1}])
}

func TestRelationBuilderRespectsMaxLevel(t *testing.T) {
	b := NewRelationBuilder()
	b.MaxLevel = 1
	b.AddParents("mRNA0001", []string{"gene0001"})
	b.AddParents("exon0001", []string{"mRNA0001"})
	edges := b.Close()
	for _, e := range edges {
		assert.LessOrEqual(t, e.Level, 1)
	}
}
