package objdb

// Record is an ordered list of cells, one per column of the table it
// belongs to, in the table's column order. Mirrors
// original_source/obj_db/src/database/record.rs.
type Record struct {
	Columns []CellValue
}

// Get returns the cell bound to name and whether it was found.
func (r Record) Get(name string) (CellValue, bool) {
	for _, c := range r.Columns {
		if c.CompName(name) {
			return c, true
		}
	}
	return CellValue{}, false
}

// QueryCheck reports whether the record satisfies cond: the named column's
// cell, compared against cond.Value using cond.Operator. A missing column
// never satisfies the condition.
func (r Record) QueryCheck(cond Condition) bool {
	cell, ok := r.Get(cond.Column)
	if !ok {
		return false
	}
	return cond.Operator.Evaluate(cell, cond.Value)
}

// QueryCheckAll reports whether the record satisfies every condition in
// conds. Connectors are parsed but never consulted here — Table/Part query
// evaluation is a hard conjunction regardless of the parsed connector, per
// the documented behavior this repository preserves.
func (r Record) QueryCheckAll(conds []Condition) bool {
	for _, c := range conds {
		if !r.QueryCheck(c) {
			return false
		}
	}
	return true
}
