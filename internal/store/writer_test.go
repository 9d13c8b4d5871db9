package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
	"github.com/gffbase/gffbase/internal/ingest"
)

func ingestString(t *testing.T, s *Store, opts ingest.IngestOptions, content string) {
	t.Helper()
	w, err := s.BeginIngest()
	require.NoError(t, err)
	p, err := ingest.NewPipeline(opts, w)
	require.NoError(t, err)
	it := ingest.NewIterator(strings.NewReader(content), nil)
	require.NoError(t, p.Run(context.Background(), ingest.Input{Reader: it}))
}

func TestWriterRoundTripsAFeature(t *testing.T) {
	s := openInMemory(t)
	content := "chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=gene0001;Name=abc\n"
	ingestString(t, s, ingest.IngestOptions{Policy: dialect.DefaultPolicy()}, content)

	var seqid, featuretype string
	var start, end int64
	row := s.db.QueryRow(`SELECT seqid, featuretype, start, "end" FROM features WHERE id = ?`, "gene0001")
	require.NoError(t, row.Scan(&seqid, &featuretype, &start, &end))
	assert.Equal(t, "chr1", seqid)
	assert.Equal(t, "gene", featuretype)
	assert.Equal(t, int64(1), start)
	assert.Equal(t, int64(100), end)
}

func TestWriterPersistsRelations(t *testing.T) {
	s := openInMemory(t)
	content := "" +
		"chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=gene0001\n" +
		"chr1\tsrc\tmRNA\t1\t100\t.\t+\t.\tID=mrna0001;Parent=gene0001\n"
	ingestString(t, s, ingest.IngestOptions{Policy: dialect.DefaultPolicy()}, content)

	var n int
	row := s.db.QueryRow(`SELECT count(*) FROM relations WHERE parent = ? AND child = ? AND level = 1`, "gene0001", "mrna0001")
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWriterMetaRecordsResolvedDialect(t *testing.T) {
	s := openInMemory(t)
	content := "chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=gene0001\n"
	ingestString(t, s, ingest.IngestOptions{Policy: dialect.DefaultPolicy()}, content)

	d, version, err := s.Meta()
	require.NoError(t, err)
	assert.Equal(t, dialect.GFF3, d.Fmt)
	assert.Equal(t, schemaVersion, version)
}

func TestWriterRollbackLeavesStoreUntouched(t *testing.T) {
	s := openInMemory(t)
	w, err := s.BeginIngest()
	require.NoError(t, err)
	p, err := ingest.NewPipeline(ingest.IngestOptions{Policy: dialect.DefaultPolicy()}, w)
	require.NoError(t, err)

	it := ingest.NewIterator(strings.NewReader(""), nil)
	err = p.Run(context.Background(), ingest.Input{Reader: it})
	require.Error(t, err)

	var n int
	row := s.db.QueryRow(`SELECT count(*) FROM features`)
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 0, n)
}

func TestWriterIndexesExistAfterCommit(t *testing.T) {
	s := openInMemory(t)
	content := "chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=gene0001\n"
	ingestString(t, s, ingest.IngestOptions{Policy: dialect.DefaultPolicy()}, content)

	rows, err := s.db.Query(`SELECT index_name FROM duckdb_indexes()`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	assert.Contains(t, names, "idx_features_featuretype")
}

func TestWriterPersistsUnionedAttributesAfterSuccessfulMerge(t *testing.T) {
	s := openInMemory(t)
	content := "" +
		"chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene0001;Note=a\n" +
		"chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene0001;Note=b\n"
	ingestString(t, s, ingest.IngestOptions{
		Policy:       dialect.DefaultPolicy(),
		MergeOptions: ingest.MergeOptions{Strategy: ingest.MergeMerge},
	}, content)

	var attrJSON string
	row := s.db.QueryRow(`SELECT attributes FROM features WHERE id = ?`, "gene0001")
	require.NoError(t, row.Scan(&attrJSON))

	attributes, err := gff.UnmarshalAttributes([]byte(attrJSON))
	require.NoError(t, err)
	vals, ok := attributes.Get("Note")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, vals)

	var n int
	row = s.db.QueryRow(`SELECT count(*) FROM features`)
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWriterDuplicatesAndAutoincrementsPersisted(t *testing.T) {
	s := openInMemory(t)
	content := "" +
		"chr1\tsrc\tgene\t1\t10\t.\t+\t.\tID=gene0001\n" +
		"chr1\tsrc\tgene\t20\t30\t.\t+\t.\tID=gene0001\n"
	ingestString(t, s, ingest.IngestOptions{
		Policy:       dialect.DefaultPolicy(),
		MergeOptions: ingest.MergeOptions{Strategy: ingest.MergeCreateUnique},
	}, content)

	var newID string
	row := s.db.QueryRow(`SELECT newid FROM duplicates WHERE idspecid = ?`, "gene0001")
	require.NoError(t, row.Scan(&newID))
	assert.Equal(t, "gene0001_1", newID)

	var n int
	row = s.db.QueryRow(`SELECT n FROM autoincrements WHERE base = ?`, "gene0001")
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)
}
