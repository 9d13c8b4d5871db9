package query

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/ingest"
	"github.com/gffbase/gffbase/internal/store"
)

func openDBWith(t *testing.T, content string, opts ingest.IngestOptions) (*store.Store, *DB) {
	t.Helper()
	s, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	w, err := s.BeginIngest()
	require.NoError(t, err)
	p, err := ingest.NewPipeline(opts, w)
	require.NoError(t, err)
	it := ingest.NewIterator(strings.NewReader(content), nil)
	require.NoError(t, p.Run(context.Background(), ingest.Input{Reader: it}))

	return s, Open(s)
}

const flybaseLike = "" +
	"chr2L\tFlyBase\tgene\t7529\t9484\t.\t+\t.\tID=FBgn0031208;Name=Cyp6d5\n" +
	"chr2L\tFlyBase\tmRNA\t7529\t9484\t.\t+\t.\tID=FBtr0300689;Parent=FBgn0031208\n" +
	"chr2L\tFlyBase\texon\t7529\t8116\t.\t+\t.\tID=exon1;Parent=FBtr0300689\n" +
	"chr2L\tFlyBase\texon\t8117\t9484\t.\t+\t.\tID=exon2;Parent=FBtr0300689\n"

func TestFeatureLooksUpByID(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	f, err := db.Feature("FBgn0031208")
	require.NoError(t, err)
	assert.Equal(t, "gene", f.Featuretype)
	assert.Equal(t, "Cyp6d5", f.Attributes.First("Name"))
}

func TestChildrenReturnsFileOrderedDirectChildren(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	children, err := db.Children("FBtr0300689", 1, "")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "exon1", children[0].ID)
	assert.Equal(t, "exon2", children[1].ID)
}

func TestChildrenAtLevelTwoSkipsIntermediate(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	grandchildren, err := db.Children("FBgn0031208", 2, "")
	require.NoError(t, err)
	require.Len(t, grandchildren, 2)

	directChildren, err := db.Children("FBgn0031208", 1, "")
	require.NoError(t, err)
	require.Len(t, directChildren, 1)
	assert.Equal(t, "FBtr0300689", directChildren[0].ID)
}

func TestChildrenFilteredByFeaturetype(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	exons, err := db.Children("FBgn0031208", 2, "exon")
	require.NoError(t, err)
	assert.Len(t, exons, 2)

	none, err := db.Children("FBgn0031208", 2, "CDS")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestParentsReturnsAncestorsAtLevel(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	parents, err := db.Parents("exon1", 2, "")
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "FBgn0031208", parents[0].ID)
}

func TestRegionOverlapVsCompletelyWithin(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})

	overlapping, err := db.Region("chr2L", 8000, 8200, false)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(overlapping), 2)

	within, err := db.Region("chr2L", 7529, 8116, true)
	require.NoError(t, err)
	for _, f := range within {
		assert.GreaterOrEqual(t, *f.Start, int64(7529))
		assert.LessOrEqual(t, *f.End, int64(8116))
	}
}

func TestRegionExcludesOtherSeqids(t *testing.T) {
	_, db := openDBWith(t, flybaseLike, ingest.IngestOptions{Policy: dialect.DefaultPolicy()})
	none, err := db.Region("chr3R", 1, 1000, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}
