package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

func rawLines(lines ...string) []RawLine {
	out := make([]RawLine, len(lines))
	for i, l := range lines {
		out[i] = RawLine{Text: l, Num: i + 1}
	}
	return out
}

func TestInferDialectGFF3Majority(t *testing.T) {
	lines := rawLines(
		"chr1\tFlyBase\tgene\t1\t10\t.\t+\t.\tID=gene0001;Name=eve",
		"chr1\tFlyBase\tmRNA\t1\t10\t.\t+\t.\tID=mRNA0001;Parent=gene0001",
	)
	d, err := InferDialect(lines)
	require.NoError(t, err)
	assert.Equal(t, dialect.GFF3, d.Fmt)
}

func TestInferDialectGTFMajority(t *testing.T) {
	lines := rawLines(
		"chr1\tEnsembl\texon\t1\t10\t.\t+\t.\tgene_id \"ENSG001\"; transcript_id \"ENST001\";",
	)
	d, err := InferDialect(lines)
	require.NoError(t, err)
	assert.Equal(t, dialect.GTF, d.Fmt)
}

func TestInferDialectTieBreaksToGFF3(t *testing.T) {
	gff3Line := "chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene0001"
	gtfLine := "chr1\tsrc\texon\t1\t10\t.\t+\t.\tgene_id \"g1\";"
	d, err := InferDialect(rawLines(gff3Line, gtfLine))
	require.NoError(t, err)
	assert.Equal(t, dialect.GFF3, d.Fmt)
}

func TestInferDialectNoCandidatesErrors(t *testing.T) {
	_, err := InferDialect(rawLines("chr1\tsrc\tgene\t1\t10\t.\t+\t.\t"))
	require.Error(t, err)
	var unknown *gff.UnknownDialectFeatureError
	require.ErrorAs(t, err, &unknown)
}

func TestInferDialectDetectsTrailingSemicolon(t *testing.T) {
	lines := rawLines("chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene0001;Name=eve;")
	d, err := InferDialect(lines)
	require.NoError(t, err)
	assert.True(t, d.TrailingSemicolon)
}
