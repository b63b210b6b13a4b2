package objdb

// Response is the result of running a Query: a status plus whatever payload
// the query kind produces. This is the Go interface-based stand-in for the
// original's per-query-kind virtual dispatch (see
// original_source/obj_db/src/endpoint/runnable.rs): instead of an enum
// match, every concrete query type implements one of the three interfaces
// below at the level its endpoint operates at.
type Response struct {
	OK      bool
	Message string
	Records []Record
	Count   int
}

// Runnable is implemented by queries dispatched at the server level, before
// any database has been resolved (spec.md §4.8's server endpoint).
type Runnable interface {
	Run(reg *Registry) (Response, error)
}

// DatabaseRunnable is implemented by queries dispatched once a database has
// been resolved by name but before any table (the indev/prod/admin-db
// endpoints of spec.md §4.8).
type DatabaseRunnable interface {
	RunOnDatabase(db *Database) (Response, error)
}

// TableRunnable is implemented by queries dispatched once both a database
// and a table have been resolved (the per-table endpoint of spec.md §4.8).
type TableRunnable interface {
	RunOnTable(db *Database, table *Table) (Response, error)
}
