package store

// ensureSchema creates the six tables the persisted contract names
// (spec.md 6.2) if they don't already exist. attributes/extra are
// stored as JSON text (rather than DuckDB's native JSON type) so the
// schema only depends on the documented database/sql surface, not on
// the DuckDB JSON extension being autoloaded by the driver.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS features (
			id VARCHAR PRIMARY KEY,
			seqid VARCHAR,
			source VARCHAR,
			featuretype VARCHAR,
			start BIGINT,
			"end" BIGINT,
			score VARCHAR,
			strand VARCHAR,
			frame VARCHAR,
			attributes VARCHAR,
			extra VARCHAR,
			bin BIGINT,
			file_order INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS relations (
			parent VARCHAR,
			child VARCHAR,
			level INTEGER,
			PRIMARY KEY (parent, child, level)
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			dialect VARCHAR,
			version VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS directives (
			directive VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS autoincrements (
			base VARCHAR PRIMARY KEY,
			n INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS duplicates (
			idspecid VARCHAR,
			newid VARCHAR PRIMARY KEY
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// buildIndexes creates the post-commit indexes spec.md 4.10 names:
// featuretype, the genomic (seqid, bin) pair, and both relation
// endpoints.
func (s *Store) buildIndexes() error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_features_featuretype ON features (featuretype)`,
		`CREATE INDEX IF NOT EXISTS idx_features_region ON features (seqid, bin, start, "end")`,
		`CREATE INDEX IF NOT EXISTS idx_relations_parent ON relations (parent)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_child ON relations (child)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// analyze refreshes table statistics so the query planner can use the
// indexes just built.
func (s *Store) analyze() error {
	_, err := s.db.Exec(`ANALYZE`)
	return err
}
