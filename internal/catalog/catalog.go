// Package catalog maintains a derived, rebuildable-from-scratch SQLite
// rollup of every database/table/record count, used only by `objdb status`
// and the MCP admin surface — never the source of truth; the on-disk parts
// remain authoritative per spec.md §6. Grounded on the teacher's
// internal/storage/chunk_writer.go and chunk_reader.go, which use the same
// squirrel-over-go-sqlite3 pattern for a derived SQLite index.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/corentin-rs/objdb/internal/objdb"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS tables_catalog (
	database_name TEXT NOT NULL,
	table_name    TEXT NOT NULL,
	auto_increment INTEGER NOT NULL,
	column_count  INTEGER NOT NULL,
	record_count  INTEGER NOT NULL,
	part_count    INTEGER NOT NULL,
	PRIMARY KEY (database_name, table_name)
);
`

// Catalog wraps a SQLite database holding the derived rollup.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path, creating its parent
// directory and schema if needed.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("objdb: catalog: creating %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("objdb: catalog: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("objdb: catalog: creating schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying SQLite connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// TableStat is one row of the derived rollup.
type TableStat struct {
	Database      string
	Table         string
	AutoIncrement bool
	ColumnCount   int
	RecordCount   int
	PartCount     int
}

// Rebuild replaces the entire catalog with a fresh rollup computed by
// walking reg's in-memory state. Always a full replace, never an
// incremental update — the catalog has no durability requirement of its
// own, since spec.md mandates the parts on disk remain authoritative.
func (c *Catalog) Rebuild(reg *objdb.Registry) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("objdb: catalog: beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := sq.Delete("tables_catalog").RunWith(tx).Exec(); err != nil {
		return fmt.Errorf("objdb: catalog: clearing rollup: %w", err)
	}

	for dbName, db := range reg.Databases {
		for tableName, table := range db.Tables {
			recs, err := table.QuerySearchColumns(nil)
			if err != nil {
				return fmt.Errorf("objdb: catalog: counting %s/%s: %w", dbName, tableName, err)
			}
			autoInc := 0
			if table.AutoIncrement {
				autoInc = 1
			}
			_, err = sq.Insert("tables_catalog").
				Columns("database_name", "table_name", "auto_increment", "column_count", "record_count", "part_count").
				Values(dbName, tableName, autoInc, len(table.Columns), len(recs), len(table.Parts)).
				RunWith(tx).Exec()
			if err != nil {
				return fmt.Errorf("objdb: catalog: inserting %s/%s: %w", dbName, tableName, err)
			}
		}
	}

	return tx.Commit()
}

// Stats returns every row of the rollup, ordered by database then table.
func (c *Catalog) Stats() ([]TableStat, error) {
	rows, err := sq.Select("database_name", "table_name", "auto_increment", "column_count", "record_count", "part_count").
		From("tables_catalog").
		OrderBy("database_name", "table_name").
		RunWith(c.db).Query()
	if err != nil {
		return nil, fmt.Errorf("objdb: catalog: querying rollup: %w", err)
	}
	defer rows.Close()

	var out []TableStat
	for rows.Next() {
		var s TableStat
		var autoInc int
		if err := rows.Scan(&s.Database, &s.Table, &autoInc, &s.ColumnCount, &s.RecordCount, &s.PartCount); err != nil {
			return nil, fmt.Errorf("objdb: catalog: scanning row: %w", err)
		}
		s.AutoIncrement = autoInc != 0
		out = append(out, s)
	}
	return out, rows.Err()
}
