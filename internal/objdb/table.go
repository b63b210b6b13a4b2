package objdb

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// defFileName is the table definition file written alongside a table's part
// files, holding the encoded (auto_increment, columns) tuple.
const defFileName = "table.def"

var partGlob = glob.MustCompile("p*")

// Table is an ordered sequence of parts plus the schema shared by every
// record in them. Grounded on
// original_source/obj_db/src/database/table.rs.
type Table struct {
	lock *Lock

	dir           string
	Name          string
	Columns       []CellDef
	AutoIncrement bool
	PartSize      int

	Parts     []*Part
	nextIndex uint32
	nextKey   uint64
}

func tableDir(dbDir, name string) string {
	return filepath.Join(dbDir, name)
}

// NewTable creates a table's directory, writes its definition file, and
// seeds it with one empty part.
func NewTable(dbDir, name string, autoIncrement bool, columns []CellDef, partSize int, mode LockMode) (*Table, error) {
	dir := tableDir(dbDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objdb: %w: creating table dir %s: %v", ErrIO, dir, err)
	}
	t := &Table{
		lock:          NewLock(mode),
		dir:           dir,
		Name:          name,
		Columns:       columns,
		AutoIncrement: autoIncrement,
		PartSize:      partSize,
	}
	if err := t.writeDef(); err != nil {
		return nil, err
	}
	t.Parts = append(t.Parts, NewPart(dir, 0, t.PartSize, mode))
	t.nextIndex = 1
	return t, nil
}

func (t *Table) writeDef() error {
	data, err := EncodeTableDef(t.AutoIncrement, t.Columns)
	if err != nil {
		return fmt.Errorf("objdb: %w: encoding table def for %s: %v", ErrIO, t.Name, err)
	}
	if err := os.WriteFile(filepath.Join(t.dir, defFileName), data, 0o644); err != nil {
		return fmt.Errorf("objdb: %w: writing table def for %s: %v", ErrIO, t.Name, err)
	}
	return nil
}

// BuildTableFromDir rebuilds a table by reading its definition file and
// scanning its directory for part files, the startup rebuild spec.md §3
// describes. A corrupt or missing definition file is tolerated by
// substituting an empty schema rather than failing the whole rebuild
// (DESIGN.md / spec.md §3, §9).
func BuildTableFromDir(dbDir, name string, mode LockMode) (*Table, error) {
	dir := tableDir(dbDir, name)
	t := &Table{lock: NewLock(mode), dir: dir, Name: name, PartSize: DefaultPartSize}

	defData, err := os.ReadFile(filepath.Join(dir, defFileName))
	if err != nil {
		t.AutoIncrement = false
		t.Columns = nil
	} else if autoInc, columns, decodeErr := DecodeTableDef(defData); decodeErr != nil {
		t.AutoIncrement = false
		t.Columns = nil
	} else {
		t.AutoIncrement = autoInc
		t.Columns = columns
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("objdb: %w: scanning table dir %s: %v", ErrIO, dir, err)
	}
	var indices []uint32
	for _, e := range entries {
		if e.IsDir() || !partGlob.Match(e.Name()) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(e.Name(), "p"), 16, 32)
		if err != nil {
			continue
		}
		indices = append(indices, uint32(n))
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	var maxKey uint64
	for _, idx := range indices {
		part, err := LoadPartFromDir(dir, idx, t.PartSize, mode)
		if err != nil {
			return nil, err
		}
		t.Parts = append(t.Parts, part)
		if idx >= t.nextIndex {
			t.nextIndex = idx + 1
		}
		if t.AutoIncrement && part.MaxKey.Present && part.MaxKey.Kind == KindULong && part.MaxKey.ULong != nil {
			if v := part.MaxKey.ULong.Uint64(); v > maxKey {
				maxKey = v
			}
		}
	}
	if len(t.Parts) == 0 {
		t.Parts = append(t.Parts, NewPart(dir, 0, t.PartSize, mode))
		t.nextIndex = 1
	}
	t.nextKey = maxKey
	return t, nil
}

// activePart returns the part new inserts should go to: the last one, so
// long as it isn't marked Full, else a freshly created next part.
func (t *Table) activePart() *Part {
	last := t.Parts[len(t.Parts)-1]
	if !last.Full {
		return last
	}
	next := NewPart(t.dir, t.nextIndex, t.PartSize, t.lock.mode)
	t.nextIndex++
	t.Parts = append(t.Parts, next)
	return next
}

// QueryCreate inserts rec into the table's active part. If the table is
// auto-increment, the primary-key cell of rec is overwritten with the next
// ULong key regardless of what the caller supplied, per spec.md §4.3.
func (t *Table) QueryCreate(rec Record) error {
	if err := t.lock.Acquire(); err != nil {
		return err
	}
	defer t.lock.Release()

	if t.AutoIncrement {
		t.nextKey++
		if len(rec.Columns) == 0 {
			return fmt.Errorf("objdb: %w: record has no primary key column", ErrSchema)
		}
		rec.Columns[0] = CellValue{
			Name:    rec.Columns[0].Name,
			Kind:    KindULong,
			Present: true,
			ULong:   new(big.Int).SetUint64(t.nextKey),
		}
	}

	if len(t.Columns) == 0 {
		return fmt.Errorf("objdb: %w: table has no columns to index by", ErrSchema)
	}

	part := t.activePart()
	_, err := part.QueryCreateRecord(rec, t.Columns[0])
	return err
}

// QuerySearchColumns scans every part in order and returns every record
// satisfying conds.
func (t *Table) QuerySearchColumns(conds []Condition) ([]Record, error) {
	var out []Record
	for _, part := range t.Parts {
		recs, err := part.QuerySearchColumns(conds)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// QueryDeleteRecords deletes every matching record across every part and
// returns the total count removed.
func (t *Table) QueryDeleteRecords(conds []Condition) (int, error) {
	total := 0
	for _, part := range t.Parts {
		n, err := part.QueryDeleteRecords(conds)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// QueryDeleteTable removes the table's directory and every part file in it.
func (t *Table) QueryDeleteTable() error {
	if err := t.lock.Acquire(); err != nil {
		return err
	}
	defer t.lock.Release()

	if err := os.RemoveAll(t.dir); err != nil {
		return fmt.Errorf("objdb: %w: deleting table %s: %v", ErrIO, t.Name, err)
	}
	return nil
}

// ColumnByName returns the CellDef for name, if the table declares it.
func (t *Table) ColumnByName(name string) (CellDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return CellDef{}, false
}

// ForeignKeys returns every column in the table that declares a foreign
// key, used by internal/fkgraph to build the cross-table reference graph.
func (t *Table) ForeignKeys() []CellDef {
	var out []CellDef
	for _, c := range t.Columns {
		if c.ForeignKey != nil {
			out = append(out, c)
		}
	}
	return out
}

// buildRecord assembles a Record from raw column text, in schema order:
// a supplied value is parsed against the column's kind, a missing value
// falls back to the column's default, and a missing not-null, default-less
// value fails with ErrSchema. A missing primary-key value (index 0) with no
// declared default is accepted on an auto-increment table, since
// Table.QueryCreate overwrites it; on any other table it fails with
// ErrSchema.
func (t *Table) buildRecord(values map[string]string) (Record, error) {
	cols := make([]CellValue, len(t.Columns))
	for i, def := range t.Columns {
		raw, supplied := values[def.Name]
		switch {
		case supplied:
			v, err := ParseCellValue(def.Name, def.Type.Kind, raw)
			if err != nil {
				return Record{}, err
			}
			cols[i] = v
		case def.Default:
			cols[i] = def.Type
		case def.PrimaryKey && t.AutoIncrement:
			cols[i] = def.ZeroValue()
		case def.PrimaryKey:
			return Record{}, fmt.Errorf("objdb: %w: primary key column %q requires a value on a non-auto-increment table", ErrSchema, def.Name)
		case def.NotNull:
			return Record{}, fmt.Errorf("objdb: %w: column %q is not-null and has no default", ErrSchema, def.Name)
		default:
			cols[i] = def.ZeroValue()
		}
	}
	return Record{Columns: cols}, nil
}

// checkUnique scans every existing record for a column-value collision
// against any column rec declares unique, returning ErrSchema on the first
// one found.
func (t *Table) checkUnique(rec Record) error {
	for i, def := range t.Columns {
		if !def.Unique || i >= len(rec.Columns) || !rec.Columns[i].Present {
			continue
		}
		cond := Condition{Column: def.Name, Operator: OpEqual, Value: rec.Columns[i]}
		existing, err := t.QuerySearchColumns([]Condition{cond})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("objdb: %w: column %q must be unique, value %q already present", ErrSchema, def.Name, rec.Columns[i].DataStr())
		}
	}
	return nil
}

// parseConditions parses a request's raw condition token arrays against
// this table's schema, resolving each condition's literal to the named
// column's declared kind (or to a wildcard match with no kind resolution
// needed when the operator is "*").
func (t *Table) parseConditions(raw [][]string) ([]Condition, error) {
	conds := make([]Condition, 0, len(raw))
	for _, parts := range raw {
		cond, err := ParseCondition(parts, t.conditionValue)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func (t *Table) conditionValue(column, rawValue string) (CellValue, error) {
	def, ok := t.ColumnByName(column)
	if !ok {
		return CellValue{}, fmt.Errorf("objdb: %w: no column %q", ErrNotFound, column)
	}
	return ParseCellValue(column, def.Type.Kind, rawValue)
}
