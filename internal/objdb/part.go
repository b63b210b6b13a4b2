package objdb

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPartSize is the approximate serialized byte budget before a part
// is marked Full and a table spills inserts into the next part. Resolves
// the "full flag never set" open question (DESIGN.md Open Question 1):
// spec.md documents Full but the original never sets it.
const DefaultPartSize = 4096

// Part is one on-disk shard: a single file under a table's directory
// holding a contiguous run of records, mirrored in memory, plus the key
// range it currently covers. Grounded on
// original_source/obj_db/src/database/part.rs.
type Part struct {
	lock *Lock

	dir     string
	Index   uint32
	MaxSize int

	Records []Record
	MinKey  CellValue
	MaxKey  CellValue
	size    int
	Full    bool
}

// partFileName names a part file "p" followed by its index in uppercase
// hex, matching spec.md §3/§6 and
// original_source/obj_db/src/database/part.rs's format!("{}/p{:X}", …).
func partFileName(index uint32) string {
	return fmt.Sprintf("p%X", index)
}

func (p *Part) path() string {
	return filepath.Join(p.dir, partFileName(p.Index))
}

// NewPart creates a fresh, empty part at index in dir. It is not written to
// disk until the first record is saved.
func NewPart(dir string, index uint32, maxSize int, mode LockMode) *Part {
	if maxSize <= 0 {
		maxSize = DefaultPartSize
	}
	return &Part{
		lock:    NewLock(mode),
		dir:     dir,
		Index:   index,
		MaxSize: maxSize,
	}
}

// LoadPartFromDir rebuilds a Part by reading its file back from dir, the
// directory-scan rebuild spec.md §3 requires at startup.
func LoadPartFromDir(dir string, index uint32, maxSize int, mode LockMode) (*Part, error) {
	p := NewPart(dir, index, maxSize, mode)
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads the part's records from disk, discarding the in-memory
// mirror. Spec.md mandates every query re-read from disk rather than trust
// an in-memory cache.
func (p *Part) Reload() error {
	data, err := os.ReadFile(p.path())
	if err != nil {
		if os.IsNotExist(err) {
			p.Records = nil
			p.size = 0
			p.recomputeKeyRange()
			return nil
		}
		return fmt.Errorf("objdb: %w: reading part %s: %v", ErrIO, p.path(), err)
	}
	records, err := DecodeRecords(data)
	if err != nil {
		return fmt.Errorf("objdb: %w: decoding part %s: %v", ErrIO, p.path(), err)
	}
	p.Records = records
	p.size = len(data)
	p.Full = p.size >= p.MaxSize
	p.recomputeKeyRange()
	return nil
}

func (p *Part) recomputeKeyRange() {
	if len(p.Records) == 0 {
		p.MinKey = CellValue{}
		p.MaxKey = CellValue{}
		return
	}
	p.MinKey = primaryKey(p.Records[0])
	p.MaxKey = primaryKey(p.Records[0])
	for _, rec := range p.Records[1:] {
		key := primaryKey(rec)
		if cmp, ok := key.Compare(p.MinKey); ok && cmp < 0 {
			p.MinKey = key
		}
		if cmp, ok := key.Compare(p.MaxKey); ok && cmp > 0 {
			p.MaxKey = key
		}
	}
}

func primaryKey(rec Record) CellValue {
	if len(rec.Columns) == 0 {
		return CellValue{}
	}
	return rec.Columns[0]
}

// Save re-serializes every in-memory record to disk and updates the size
// and Full bookkeeping.
func (p *Part) Save() error {
	data, err := EncodeRecords(p.Records)
	if err != nil {
		return fmt.Errorf("objdb: %w: encoding part %s: %v", ErrIO, p.path(), err)
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("objdb: %w: creating %s: %v", ErrIO, p.dir, err)
	}
	if err := os.WriteFile(p.path(), data, 0o644); err != nil {
		return fmt.Errorf("objdb: %w: writing part %s: %v", ErrIO, p.path(), err)
	}
	p.size = len(data)
	p.Full = p.size >= p.MaxSize
	p.recomputeKeyRange()
	return nil
}

// Delete removes the part's file from disk.
func (p *Part) Delete() error {
	if err := os.Remove(p.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("objdb: %w: deleting part %s: %v", ErrIO, p.path(), err)
	}
	return nil
}

// Empty reports whether the part holds no records.
func (p *Part) Empty() bool {
	return len(p.Records) == 0
}

// QueryCreateRecord validates rec's primary-key cell against indexerDef (the
// table's first CellDef) before appending and persisting it: the column
// named by indexerDef must be present on rec and of kind ULong with a
// non-nil payload. On any mismatch the part is left untouched — matches
// original_source/obj_db/src/database/part.rs's query_create_record, which
// performs this same check before pushing to records/key_range. Reports
// whether the part is now Full, so the caller (Table.QueryCreate) knows to
// start a new part for the next insert.
func (p *Part) QueryCreateRecord(rec Record, indexerDef CellDef) (full bool, err error) {
	found := false
	for _, col := range rec.Columns {
		if col.Name != indexerDef.Name {
			continue
		}
		found = true
		if col.Kind != KindULong {
			return false, fmt.Errorf("objdb: %w: table indexer %q was not of type ULong", ErrSchema, indexerDef.Name)
		}
		if !col.Present || col.ULong == nil {
			return false, fmt.Errorf("objdb: %w: table indexer %q submitted no value", ErrSchema, indexerDef.Name)
		}
		break
	}
	if !found {
		return false, fmt.Errorf("objdb: %w: table indexer %q not found on record", ErrSchema, indexerDef.Name)
	}

	if err := p.lock.Acquire(); err != nil {
		return false, err
	}
	defer p.lock.Release()

	if err := p.Reload(); err != nil {
		return false, err
	}
	p.Records = append(p.Records, rec)
	if err := p.Save(); err != nil {
		return false, err
	}
	return p.Full, nil
}

// QuerySearchColumns reloads from disk and returns every record satisfying
// every condition in conds (conjunction, connectors notwithstanding — see
// DESIGN.md Open Question 2).
func (p *Part) QuerySearchColumns(conds []Condition) ([]Record, error) {
	if err := p.lock.Acquire(); err != nil {
		return nil, err
	}
	defer p.lock.Release()

	if err := p.Reload(); err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range p.Records {
		if rec.QueryCheckAll(conds) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// QueryDeleteRecords reloads from disk, removes every record satisfying
// every condition in conds, persists the remainder, and returns the count
// removed.
func (p *Part) QueryDeleteRecords(conds []Condition) (int, error) {
	if err := p.lock.Acquire(); err != nil {
		return 0, err
	}
	defer p.lock.Release()

	if err := p.Reload(); err != nil {
		return 0, err
	}
	kept := p.Records[:0:0]
	removed := 0
	for _, rec := range p.Records {
		if rec.QueryCheckAll(conds) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return 0, nil
	}
	p.Records = kept
	if err := p.Save(); err != nil {
		return 0, err
	}
	return removed, nil
}
