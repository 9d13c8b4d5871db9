// Package query is the minimal read surface spec.md's ingest surface
// pairs with a store: lookups by id, parent/child traversal at a given
// relation level, and region queries — deliberately not a general SQL
// surface (SPEC_FULL.md's MODULE MAP).
package query

import (
	"database/sql"
	"fmt"

	"github.com/gffbase/gffbase/internal/gff"
	"github.com/gffbase/gffbase/internal/store"
)

// DB is a read handle over a committed store, returned by open_db in
// spec.md 6.3.
type DB struct {
	db *sql.DB
}

// Open returns a read handle over an already-ingested store.
func Open(s *store.Store) *DB {
	return &DB{db: s.DB()}
}

const featureColumns = `id, seqid, source, featuretype, start, "end", score, strand, frame, attributes, extra, bin, file_order`

// Feature looks up one feature by id.
func (d *DB) Feature(id string) (*gff.Feature, error) {
	row := d.db.QueryRow(`SELECT `+featureColumns+` FROM features WHERE id = ?`, id)
	return scanFeature(row)
}

// Children returns the features related to id as a child at exactly
// level, in file order, optionally filtered to featuretype (empty
// string means "any").
func (d *DB) Children(id string, level int, featuretype string) ([]*gff.Feature, error) {
	return d.related(`
		SELECT f.id, f.seqid, f.source, f.featuretype, f.start, f."end", f.score, f.strand, f.frame, f.attributes, f.extra, f.bin, f.file_order
		FROM relations r JOIN features f ON f.id = r.child
		WHERE r.parent = ? AND r.level = ?`, id, level, featuretype)
}

// Parents returns the features related to id as a parent at exactly
// level, in file order, optionally filtered to featuretype.
func (d *DB) Parents(id string, level int, featuretype string) ([]*gff.Feature, error) {
	return d.related(`
		SELECT f.id, f.seqid, f.source, f.featuretype, f.start, f."end", f.score, f.strand, f.frame, f.attributes, f.extra, f.bin, f.file_order
		FROM relations r JOIN features f ON f.id = r.parent
		WHERE r.child = ? AND r.level = ?`, id, level, featuretype)
}

func (d *DB) related(baseQuery, id string, level int, featuretype string) ([]*gff.Feature, error) {
	query := baseQuery
	args := []any{id, level}
	if featuretype != "" {
		query += ` AND f.featuretype = ?`
		args = append(args, featuretype)
	}
	query += ` ORDER BY f.file_order`
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()
	return scanFeatures(rows)
}

// Region returns every feature on seqid overlapping [start, end], in
// file order. When completelyWithin is true, only features fully
// contained in the interval are returned.
func (d *DB) Region(seqid string, start, end int64, completelyWithin bool) ([]*gff.Feature, error) {
	q := `SELECT ` + featureColumns + `
		FROM features
		WHERE seqid = ? AND start IS NOT NULL AND "end" IS NOT NULL`
	args := []any{seqid}
	if completelyWithin {
		q += ` AND start >= ? AND "end" <= ?`
		args = append(args, start, end)
	} else {
		q += ` AND start <= ? AND "end" >= ?`
		args = append(args, end, start)
	}
	q += ` ORDER BY file_order`
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()
	return scanFeatures(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeature(row scanner) (*gff.Feature, error) {
	var (
		id, seqid, source, featuretype, score, strand, frame string
		start, end, bin                                      sql.NullInt64
		attrJSON, extraJSON                                  string
		fileOrder                                            int
	)
	if err := row.Scan(&id, &seqid, &source, &featuretype, &start, &end, &score, &strand, &frame, &attrJSON, &extraJSON, &bin, &fileOrder); err != nil {
		return nil, err
	}

	attrs, err := gff.UnmarshalAttributes([]byte(attrJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal attributes for %s: %w", id, err)
	}
	extra, err := gff.UnmarshalExtra([]byte(extraJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal extra for %s: %w", id, err)
	}

	f := &gff.Feature{
		ID: id, Seqid: seqid, Source: source, Featuretype: featuretype,
		Score: score, Strand: strand, Frame: frame,
		Attributes: attrs, Extra: extra, FileOrder: fileOrder,
	}
	if start.Valid {
		v := start.Int64
		f.Start = &v
	}
	if end.Valid {
		v := end.Int64
		f.End = &v
	}
	if bin.Valid {
		v := bin.Int64
		f.Bin = &v
	}
	return f, nil
}

func scanFeatures(rows *sql.Rows) ([]*gff.Feature, error) {
	var out []*gff.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
