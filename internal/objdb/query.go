package objdb

import "fmt"

// CreateDatabaseQuery creates a new, empty database. Dispatched at the
// server level (spec.md §4.8's server endpoint), since no database name has
// been resolved yet.
type CreateDatabaseQuery struct {
	Name string
	Role string
}

func (q CreateDatabaseQuery) Run(reg *Registry) (Response, error) {
	if _, err := reg.CreateDatabase(q.Name, q.Role); err != nil {
		return Response{}, err
	}
	return Response{OK: true, Message: fmt.Sprintf("database %q created", q.Name)}, nil
}

// CreateTableQuery creates a table within a resolved database.
type CreateTableQuery struct {
	Table         string
	AutoIncrement bool
	Columns       []ColumnSpec
	PartSize      int
}

func (q CreateTableQuery) RunOnDatabase(db *Database) (Response, error) {
	if _, err := db.BuildTable(q.Table, q.AutoIncrement, q.Columns, q.PartSize); err != nil {
		return Response{}, err
	}
	return Response{OK: true, Message: fmt.Sprintf("table %q created", q.Table)}, nil
}

// UpdateTableQuery is declared by spec.md §4.7 but never implemented,
// matching the original's own stub behavior.
type UpdateTableQuery struct {
	Table string
}

func (q UpdateTableQuery) RunOnDatabase(db *Database) (Response, error) {
	return Response{}, fmt.Errorf("%w: update_table", ErrNotImplemented)
}

// DeleteTableQuery removes a table from a resolved database, along with its
// attached endpoints (DESIGN.md Open Question 6), appending to its message
// the informational foreign-key cascade warning Database.DeleteTable
// returns, if any.
type DeleteTableQuery struct {
	Table string
}

func (q DeleteTableQuery) RunOnDatabase(db *Database) (Response, error) {
	warning, err := db.DeleteTable(q.Table)
	if err != nil {
		return Response{}, err
	}
	msg := fmt.Sprintf("table %q deleted", q.Table)
	if warning != "" {
		msg = msg + "; " + warning
	}
	return Response{OK: true, Message: msg}, nil
}

// ToggleIndevQuery flips a database's development flag, per spec.md §4.6.
type ToggleIndevQuery struct{}

func (q ToggleIndevQuery) RunOnDatabase(db *Database) (Response, error) {
	db.InDev = !db.InDev
	return Response{OK: true, Message: fmt.Sprintf("indev now %v", db.InDev)}, nil
}

// CreateRecordQuery inserts one record into a resolved table. Values carries
// the raw text supplied for each named column; columns omitted fall back to
// their default, or fail with ErrSchema if not-null and default-less.
type CreateRecordQuery struct {
	Values map[string]string
}

func (q CreateRecordQuery) RunOnTable(db *Database, table *Table) (Response, error) {
	rec, err := table.buildRecord(q.Values)
	if err != nil {
		return Response{}, err
	}
	if err := table.checkUnique(rec); err != nil {
		return Response{}, err
	}
	if err := table.QueryCreate(rec); err != nil {
		return Response{}, err
	}
	return Response{OK: true, Message: "record created", Count: 1}, nil
}

// ReadRecordQuery returns every record in a resolved table matching
// Conditions, each a 3- or 4-element token array per spec.md §4.5.
type ReadRecordQuery struct {
	Conditions [][]string
}

func (q ReadRecordQuery) RunOnTable(db *Database, table *Table) (Response, error) {
	conds, err := table.parseConditions(q.Conditions)
	if err != nil {
		return Response{}, err
	}
	recs, err := table.QuerySearchColumns(conds)
	if err != nil {
		return Response{}, err
	}
	return Response{OK: true, Records: recs, Count: len(recs)}, nil
}

// UpdateRecordQuery is declared by spec.md §4.7 but never implemented,
// matching the original's own stub behavior.
type UpdateRecordQuery struct {
	Conditions [][]string
	Values     map[string]string
}

func (q UpdateRecordQuery) RunOnTable(db *Database, table *Table) (Response, error) {
	return Response{}, fmt.Errorf("%w: update_record", ErrNotImplemented)
}

// DeleteRecordQuery removes every record in a resolved table matching
// Conditions.
type DeleteRecordQuery struct {
	Conditions [][]string
}

func (q DeleteRecordQuery) RunOnTable(db *Database, table *Table) (Response, error) {
	conds, err := table.parseConditions(q.Conditions)
	if err != nil {
		return Response{}, err
	}
	n, err := table.QueryDeleteRecords(conds)
	if err != nil {
		return Response{}, err
	}
	return Response{OK: true, Message: fmt.Sprintf("%d record(s) deleted", n), Count: n}, nil
}
