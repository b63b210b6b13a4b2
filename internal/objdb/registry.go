package objdb

import (
	"fmt"
	"os"
)

// adminDatabaseName is the bootstrap database every registry guarantees
// exists, the admin-db endpoint level of spec.md §4.8.
const adminDatabaseName = "admin"

// Registry is the process-wide collection of every database, rebuilt from
// the data root's directory tree at startup and consulted by Dispatch for
// every request. Grounded on original_source/api/src/main.rs's
// match_endpoint, expressed here as a type switch over the Runnable
// interfaces instead of an enum match (see runnable.go).
type Registry struct {
	lock *Lock

	Root      string
	Mode      LockMode
	PartSize  int
	Databases map[string]*Database
}

// NewRegistry creates a registry over an empty data root, bootstrapping the
// admin database.
func NewRegistry(root string, mode LockMode, partSize int) (*Registry, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("objdb: %w: creating data root %s: %v", ErrIO, root, err)
	}
	r := &Registry{
		lock:      NewLock(mode),
		Root:      root,
		Mode:      mode,
		PartSize:  partSize,
		Databases: make(map[string]*Database),
	}
	if _, err := r.CreateDatabase(adminDatabaseName, "ADMIN"); err != nil {
		return nil, err
	}
	return r, nil
}

// BuildRegistryFromDir rebuilds the registry by scanning root for database
// subdirectories, the directory-scan rebuild spec.md §3 mandates at boot.
// The admin database is created if the data root is fresh.
func BuildRegistryFromDir(root string, mode LockMode, partSize int) (*Registry, error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return NewRegistry(root, mode, partSize)
	}
	if err != nil {
		return nil, fmt.Errorf("objdb: %w: scanning data root %s: %v", ErrIO, root, err)
	}
	r := &Registry{
		lock:      NewLock(mode),
		Root:      root,
		Mode:      mode,
		PartSize:  partSize,
		Databases: make(map[string]*Database),
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		db, err := BuildDatabaseFromDir(root, e.Name(), mode)
		if err != nil {
			return nil, err
		}
		r.Databases[e.Name()] = db
	}
	if _, ok := r.Databases[adminDatabaseName]; !ok {
		if _, err := r.CreateDatabase(adminDatabaseName, "ADMIN"); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// CreateDatabase creates and registers a new database with the given role
// label (spec.md §3, §4.4 — informational only, per spec.md §9's "role
// field is carried but not enforced"), failing with ErrSchema if one of
// that name already exists.
func (r *Registry) CreateDatabase(name, role string) (*Database, error) {
	if err := r.lock.Acquire(); err != nil {
		return nil, err
	}
	defer r.lock.Release()

	if _, exists := r.Databases[name]; exists {
		return nil, fmt.Errorf("objdb: %w: database %q already exists", ErrSchema, name)
	}
	db, err := NewDatabase(r.Root, name, role, r.Mode)
	if err != nil {
		return nil, err
	}
	r.Databases[name] = db
	return db, nil
}

// Database returns the named database, if it's registered.
func (r *Registry) Database(name string) (*Database, bool) {
	db, ok := r.Databases[name]
	return db, ok
}

// Admin returns the bootstrap admin database every registry guarantees.
func (r *Registry) Admin() *Database {
	return r.Databases[adminDatabaseName]
}

// DispatchRequest names the database/table a query resolves against, if
// any, and carries the query itself. Database and Table are empty for
// queries resolved at a level that doesn't need them.
type DispatchRequest struct {
	Database string
	Table    string
	Query    any
}

// Dispatch resolves req against the registry and runs its query at
// whichever of the three Runnable levels it implements, per spec.md §4.8.
func (r *Registry) Dispatch(req DispatchRequest) (Response, error) {
	switch q := req.Query.(type) {
	case Runnable:
		return q.Run(r)
	case DatabaseRunnable:
		db, ok := r.Database(req.Database)
		if !ok {
			return Response{}, fmt.Errorf("objdb: %w: database %q", ErrNotFound, req.Database)
		}
		return q.RunOnDatabase(db)
	case TableRunnable:
		db, ok := r.Database(req.Database)
		if !ok {
			return Response{}, fmt.Errorf("objdb: %w: database %q", ErrNotFound, req.Database)
		}
		table, ok := db.Table(req.Table)
		if !ok {
			return Response{}, fmt.Errorf("objdb: %w: table %q", ErrNotFound, req.Table)
		}
		return q.RunOnTable(db, table)
	default:
		return Response{}, fmt.Errorf("objdb: %w: unrecognized query type %T", ErrParse, req.Query)
	}
}
