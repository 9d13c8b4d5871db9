package store

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gffbase/gffbase/internal/dialect"
	"github.com/gffbase/gffbase/internal/gff"
	"github.com/gffbase/gffbase/internal/ingest"
)

// Writer implements ingest.Sink against one write transaction. The
// Pipeline gets exclusive write access to the store for the whole
// ingest (spec.md 5): no other Writer may be opened concurrently
// against the same Store.
type Writer struct {
	store  *Store
	tx     *sql.Tx
	dialect dialect.Dialect
}

var _ ingest.Sink = (*Writer)(nil)

// BeginIngest opens the single write transaction for one ingest. The
// dialect for the meta table is supplied later via SetDialect, once C5
// has resolved it.
func (s *Store) BeginIngest() (*Writer, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin ingest transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM meta`); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Writer{store: s, tx: tx}, nil
}

// SetDialect records the resolved dialect for the meta row.
func (w *Writer) SetDialect(d dialect.Dialect) {
	w.dialect = d
}

// WriteFeature inserts or upserts one feature row.
func (w *Writer) WriteFeature(f *gff.Feature) error {
	attrJSON, err := gff.MarshalAttributes(f)
	if err != nil {
		return fmt.Errorf("marshal attributes for %s: %w", f.ID, err)
	}
	extraJSON, err := gff.MarshalExtra(f.Extra)
	if err != nil {
		return fmt.Errorf("marshal extra for %s: %w", f.ID, err)
	}

	var bin any
	if f.Bin != nil {
		bin = *f.Bin
	}
	var start, end any
	if f.Start != nil {
		start = *f.Start
	}
	if f.End != nil {
		end = *f.End
	}

	_, err = w.tx.Exec(`
		INSERT INTO features (id, seqid, source, featuretype, start, "end", score, strand, frame, attributes, extra, bin, file_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			seqid=excluded.seqid, source=excluded.source, featuretype=excluded.featuretype,
			start=excluded.start, "end"=excluded."end", score=excluded.score, strand=excluded.strand,
			frame=excluded.frame, attributes=excluded.attributes, extra=excluded.extra, bin=excluded.bin,
			file_order=excluded.file_order
	`, f.ID, f.Seqid, f.Source, f.Featuretype, start, end, f.Score, f.Strand, f.Frame,
		string(attrJSON), string(extraJSON), bin, f.FileOrder)
	if err != nil {
		return fmt.Errorf("insert feature %s: %w", f.ID, err)
	}
	return nil
}

// WriteEdges bulk-inserts relation rows, ignoring an edge already
// present at that exact (parent, child, level) key.
func (w *Writer) WriteEdges(edges []ingest.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	stmt, err := w.tx.Prepare(`INSERT INTO relations (parent, child, level) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range edges {
		if _, err := stmt.Exec(e.Parent, e.Child, e.Level); err != nil {
			return fmt.Errorf("insert relation (%s,%s,%d): %w", e.Parent, e.Child, e.Level, err)
		}
	}
	return nil
}

// WriteDirective appends one directive's verbatim text.
func (w *Writer) WriteDirective(d gff.Directive) error {
	_, err := w.tx.Exec(`INSERT INTO directives (directive) VALUES (?)`, d.Text)
	return err
}

// WriteDuplicates persists the original -> new-id mappings the Merge
// Controller accumulated under create_unique.
func (w *Writer) WriteDuplicates(mapping map[string][]string) error {
	if len(mapping) == 0 {
		return nil
	}
	stmt, err := w.tx.Prepare(`INSERT INTO duplicates (idspecid, newid) VALUES (?, ?) ON CONFLICT (newid) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for original, newIDs := range mapping {
		for _, n := range newIDs {
			if _, err := stmt.Exec(original, n); err != nil {
				return fmt.Errorf("insert duplicate %s -> %s: %w", original, n, err)
			}
		}
	}
	return nil
}

// WriteAutoincrements persists the final counter state.
func (w *Writer) WriteAutoincrements(counters map[string]int) error {
	if len(counters) == 0 {
		return nil
	}
	stmt, err := w.tx.Prepare(`
		INSERT INTO autoincrements (base, n) VALUES (?, ?)
		ON CONFLICT (base) DO UPDATE SET n=excluded.n
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for base, n := range counters {
		if _, err := stmt.Exec(base, n); err != nil {
			return fmt.Errorf("insert autoincrement %s: %w", base, err)
		}
	}
	return nil
}

// Commit writes the meta row, commits the transaction, then builds
// indexes and refreshes statistics outside it (spec.md 4.10:
// "post-commit, builds indexes ... after index build, runs table
// statistics").
func (w *Writer) Commit() error {
	dialectJSON, err := marshalDialect(w.dialect)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("marshal dialect: %w", err)
	}
	if _, err := w.tx.Exec(`INSERT INTO meta (dialect, version) VALUES (?, ?)`, string(dialectJSON), schemaVersion); err != nil {
		w.tx.Rollback()
		return fmt.Errorf("insert meta: %w", err)
	}

	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest: %w", err)
	}

	w.store.logger.Info("ingest committed, building indexes")
	if err := w.store.buildIndexes(); err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}
	if err := w.store.analyze(); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	w.store.logger.Info("index build complete", zap.String("path", w.store.path))
	return nil
}

// Rollback aborts the ingest transaction; the store is left exactly as
// it was before Run was called.
func (w *Writer) Rollback() error {
	return w.tx.Rollback()
}

const schemaVersion = "1"
