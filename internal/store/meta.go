package store

import (
	json "github.com/goccy/go-json"

	"github.com/gffbase/gffbase/internal/dialect"
)

// marshalDialect serializes d for the meta table's dialect column.
func marshalDialect(d dialect.Dialect) ([]byte, error) {
	return json.Marshal(d)
}

// unmarshalDialect restores a Dialect from the meta table.
func unmarshalDialect(data []byte) (dialect.Dialect, error) {
	var d dialect.Dialect
	if len(data) == 0 {
		return dialect.Default(), nil
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return dialect.Dialect{}, err
	}
	return d, nil
}

// Meta reads the single meta row: the dialect the store was ingested
// under, and the schema version.
func (s *Store) Meta() (dialect.Dialect, string, error) {
	var dialectJSON, version string
	err := s.db.QueryRow(`SELECT dialect, version FROM meta LIMIT 1`).Scan(&dialectJSON, &version)
	if err != nil {
		return dialect.Dialect{}, "", err
	}
	d, err := unmarshalDialect([]byte(dialectJSON))
	return d, version, err
}
