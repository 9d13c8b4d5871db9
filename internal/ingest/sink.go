package ingest

import (
	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
)

// Sink is the write side of C10, the Store Writer, as seen by the
// Pipeline. internal/store implements this against DuckDB; tests can
// substitute an in-memory fake. The Pipeline opens no transaction of
// its own: it ends an ingest with exactly one Commit or Rollback.
type Sink interface {
	// SetDialect records the resolved dialect for the meta row; the
	// Pipeline calls it once, after C5 has run, before the first write.
	SetDialect(d dialect.Dialect)

	WriteFeature(f *gff.Feature) error
	WriteEdges(edges []Edge) error
	WriteDirective(d gff.Directive) error
	WriteDuplicates(mapping map[string][]string) error
	WriteAutoincrements(counters map[string]int) error
	Commit() error
	Rollback() error
}
