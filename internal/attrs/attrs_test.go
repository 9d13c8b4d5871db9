package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gffbase/gffbase/internal/dialect"
)

func TestParseGFF3MultiValue(t *testing.T) {
	a, err := Parse("ID=exon00001;Parent=mRNA00001,mRNA00002", dialect.Default(), dialect.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "exon00001", a.First("ID"))
	parents, ok := a.Get("Parent")
	require.True(t, ok)
	assert.Equal(t, []string{"mRNA00001", "mRNA00002"}, parents)
}

func TestParseAlwaysReturnsAList(t *testing.T) {
	a, err := Parse("ID=gene0001", dialect.Default(), dialect.DefaultPolicy())
	require.NoError(t, err)
	vals, ok := a.Get("ID")
	require.True(t, ok)
	assert.IsType(t, []string{}, vals)
	assert.Len(t, vals, 1)
}

func TestParseBareKeyToken(t *testing.T) {
	d := dialect.Default()
	a, err := Parse("Complete;ID=gene0001", d, dialect.DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, a.Has("Complete"))
	vals, _ := a.Get("Complete")
	assert.Empty(t, vals)
}

func TestParseInvalidTokenNoKey(t *testing.T) {
	d := dialect.Default()
	_, err := Parse("=novalue", d, dialect.DefaultPolicy())
	require.Error(t, err)
	var tokErr *InvalidAttributeTokenError
	require.ErrorAs(t, err, &tokErr)
}

func TestParseGTFQuotedValues(t *testing.T) {
	d := dialect.GTFDefault()
	a, err := Parse(`gene_id "WBGene00001"; transcript_id "WBTranscript00001";`, d, dialect.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "WBGene00001", a.First("gene_id"))
	assert.Equal(t, "WBTranscript00001", a.First("transcript_id"))
}

func TestParsePercentDecoding(t *testing.T) {
	a, err := Parse("Name=chr1%2C region", dialect.Default(), dialect.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "chr1, region", a.First("Name"))
}

func TestRenderRoundTripsGFF3(t *testing.T) {
	original := "ID=exon00001;Parent=mRNA00001,mRNA00002"
	a, err := Parse(original, dialect.Default(), dialect.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, original, Render(a, dialect.Default(), dialect.DefaultPolicy()))
}

func TestRenderRepeatedKeys(t *testing.T) {
	d := dialect.GTFDefault()
	d.RepeatedKeys = true
	a := New()
	a.Set("tag", []string{"Ensembl_canonical", "MANE_Select"})
	rendered := Render(a, d, dialect.DefaultPolicy())
	assert.Equal(t, `tag "Ensembl_canonical"; tag "MANE_Select";`, rendered)
}

func TestRenderKeepOrderFollowsInsertion(t *testing.T) {
	a := New()
	a.Set("Note", []string{"z"})
	a.Set("ID", []string{"gene0001"})
	policy := dialect.EncodingPolicy{PercentEncode: true, KeepOrder: true}
	d := dialect.Default()
	d.OrderOfAttributeKeys = nil
	rendered := Render(a, d, policy)
	assert.Equal(t, "Note=z;ID=gene0001", rendered)
}

func TestUnionAppendsNewValuesOnly(t *testing.T) {
	a := New()
	a.Set("Note", []string{"a", "b"})
	other := New()
	other.Set("Note", []string{"b", "c"})
	a.Union(other)
	vals, _ := a.Get("Note")
	assert.Equal(t, []string{"a", "b", "c"}, vals)
}

func TestPercentEncodeNeverReencodesSpace(t *testing.T) {
	a, err := Parse("Name=a%20b", dialect.Default(), dialect.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "a b", a.First("Name"))
	rendered := Render(a, dialect.Default(), dialect.DefaultPolicy())
	assert.Equal(t, "Name=a b", rendered)
}
