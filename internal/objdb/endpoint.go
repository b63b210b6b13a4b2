package objdb

// Endpoint is a resolved dispatch target for a single table within a
// database. spec.md §4.8 describes four endpoint levels — server,
// indev-database, prod-database, admin-database — plus one per table;
// everything above the table level is resolved directly by Registry.Dispatch
// against its Databases map, so the only endpoint value this package needs
// to carry is the per-table one, grounded on
// original_source/obj_db/src/endpoint.rs's table endpoint variant.
type Endpoint struct {
	Table *Table
}
