package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInMemoryCreatesSchema(t *testing.T) {
	s := openInMemory(t)
	for _, table := range []string{"features", "relations", "meta", "directives", "autoincrements", "duplicates"} {
		row := s.db.QueryRow(`SELECT count(*) FROM ` + table)
		var n int
		require.NoError(t, row.Scan(&n))
		require.Equal(t, 0, n)
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.ensureSchema())
}

func TestPathReturnsEmptyForInMemory(t *testing.T) {
	s := openInMemory(t)
	require.Equal(t, "", s.Path())
}
