package objdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// databaseDefFileName is the text definition file a database directory
// carries, holding the JSON object {"role": "<role>"} (spec.md §3, §4.4).
const databaseDefFileName = ".def"

// databaseLogFileName is the empty, reserved log file every database
// directory carries alongside its .def file (spec.md §3, §4.4).
const databaseLogFileName = ".log"

// databaseDef is the JSON shape of a database's .def file.
type databaseDef struct {
	Role string `json:"role"`
}

// Database is a named collection of tables plus the endpoints attached to
// each, and the directory that backs them on disk. Grounded on
// original_source/obj_db/src/database.rs.
type Database struct {
	lock *Lock

	dir   string
	Name  string
	Role  string
	InDev bool

	Tables    map[string]*Table
	Endpoints map[string]*Endpoint

	mode LockMode
}

func databaseDir(root, name string) string {
	return filepath.Join(root, name)
}

// NewDatabase creates a new, empty database directory, writing its .def
// file (JSON `{"role": "<role>"}`) and an empty .log file, per spec.md §3
// and §4.4's init_dir.
func NewDatabase(root, name, role string, mode LockMode) (*Database, error) {
	dir := databaseDir(root, name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("objdb: %w: database %q already exists", ErrSchema, name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objdb: %w: creating database dir %s: %v", ErrIO, dir, err)
	}
	db := &Database{
		lock:      NewLock(mode),
		dir:       dir,
		Name:      name,
		Role:      role,
		Tables:    make(map[string]*Table),
		Endpoints: make(map[string]*Endpoint),
		mode:      mode,
	}
	if err := db.writeDef(); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, databaseLogFileName), nil, 0o644); err != nil {
		return nil, fmt.Errorf("objdb: %w: creating %s: %v", ErrIO, databaseLogFileName, err)
	}
	return db, nil
}

func (db *Database) writeDef() error {
	data, err := json.Marshal(databaseDef{Role: db.Role})
	if err != nil {
		return fmt.Errorf("objdb: %w: encoding database def for %s: %v", ErrIO, db.Name, err)
	}
	if err := os.WriteFile(filepath.Join(db.dir, databaseDefFileName), data, 0o644); err != nil {
		return fmt.Errorf("objdb: %w: writing database def for %s: %v", ErrIO, db.Name, err)
	}
	return nil
}

// BuildDatabaseFromDir rebuilds a database by reading its .def file back
// for its role and scanning its directory for table subdirectories, the
// startup rebuild spec.md §3 describes. A missing or corrupt .def is
// tolerated by substituting an empty role, the same way BuildTableFromDir
// tolerates a missing table.def.
func BuildDatabaseFromDir(root, name string, mode LockMode) (*Database, error) {
	dir := databaseDir(root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("objdb: %w: scanning database dir %s: %v", ErrIO, dir, err)
	}
	db := &Database{
		lock:      NewLock(mode),
		dir:       dir,
		Name:      name,
		Tables:    make(map[string]*Table),
		Endpoints: make(map[string]*Endpoint),
		mode:      mode,
	}
	if defData, err := os.ReadFile(filepath.Join(dir, databaseDefFileName)); err == nil {
		var def databaseDef
		if json.Unmarshal(defData, &def) == nil {
			db.Role = def.Role
		}
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		table, err := BuildTableFromDir(dir, e.Name(), mode)
		if err != nil {
			return nil, err
		}
		db.Tables[e.Name()] = table
		db.Endpoints[e.Name()] = &Endpoint{Table: table}
	}
	return db, nil
}

// BuildTable creates a new table in the database from its inbound column
// specs, registers its endpoint, and fails with ErrSchema if a table of
// that name already exists (spec.md §4.4, the duplicate-create-table
// testable property).
func (db *Database) BuildTable(name string, autoIncrement bool, specs []ColumnSpec, partSize int) (*Table, error) {
	if err := db.lock.Acquire(); err != nil {
		return nil, err
	}
	defer db.lock.Release()

	if _, exists := db.Tables[name]; exists {
		return nil, fmt.Errorf("objdb: %w: table %q already exists", ErrSchema, name)
	}
	columns := make([]CellDef, len(specs))
	for i, spec := range specs {
		columns[i] = NewCellDef(uint16(i), spec)
	}
	table, err := NewTable(db.dir, name, autoIncrement, columns, partSize, db.mode)
	if err != nil {
		return nil, err
	}
	db.Tables[name] = table
	db.Endpoints[name] = &Endpoint{Table: table}
	return table, nil
}

// DeleteTable removes a table and its endpoint (DESIGN.md Open Question 6).
// If other tables in the database declare a foreign key referencing it,
// the returned string carries an informational, non-blocking warning
// listing them; referential-integrity enforcement remains a non-goal.
func (db *Database) DeleteTable(name string) (warning string, err error) {
	if err := db.lock.Acquire(); err != nil {
		return "", err
	}
	defer db.lock.Release()

	table, ok := db.Tables[name]
	if !ok {
		return "", fmt.Errorf("objdb: %w: table %q", ErrNotFound, name)
	}
	dependents := db.referencingTables(name)
	if err := table.QueryDeleteTable(); err != nil {
		return "", err
	}
	delete(db.Tables, name)
	delete(db.Endpoints, name)
	if len(dependents) > 0 {
		warning = fmt.Sprintf("table(s) %v declare a foreign key into %q that no longer resolves", dependents, name)
	}
	return warning, nil
}

// referencingTables lists every other table in db whose schema declares a
// foreign key pointing at target, in the table map's iteration order (not
// sorted). Backs DeleteTable's cascade warning and is grounded on the same
// (table, column) pair the original's CellDef carries as unenforced
// metadata; internal/fkgraph derives the same relation for status reports.
func (db *Database) referencingTables(target string) []string {
	var out []string
	for name, table := range db.Tables {
		if name == target {
			continue
		}
		for _, fk := range table.ForeignKeys() {
			if fk.ForeignKey.Table == target {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Table returns the named table, if it exists.
func (db *Database) Table(name string) (*Table, bool) {
	t, ok := db.Tables[name]
	return t, ok
}
