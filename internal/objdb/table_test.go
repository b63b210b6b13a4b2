package objdb

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, autoIncrement bool) *Table {
	t.Helper()
	dir := t.TempDir()
	columns := []CellDef{
		NewCellDef(0, ColumnSpec{Name: "id", Type: "ULong"}),
		NewCellDef(1, ColumnSpec{Name: "name", Type: "String"}),
	}
	table, err := NewTable(dir, "widgets", autoIncrement, columns, DefaultPartSize, LockWait)
	require.NoError(t, err)
	return table
}

func TestTableQueryCreateAssignsAutoIncrementKey(t *testing.T) {
	table := newTestTable(t, true)
	require.NoError(t, table.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindULong}, // caller-supplied value is overwritten
		{Name: "name", Kind: KindString, Present: true, Str: "first"},
	}}))
	require.NoError(t, table.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindULong},
		{Name: "name", Kind: KindString, Present: true, Str: "second"},
	}}))

	recs, err := table.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "1", recs[0].Columns[0].DataStr())
	require.Equal(t, "2", recs[1].Columns[0].DataStr())
}

func TestTableQueryCreateAcceptsExplicitULongPrimaryKey(t *testing.T) {
	table := newTestTable(t, false)
	require.NoError(t, table.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindULong, Present: true, ULong: big.NewInt(7)},
		{Name: "name", Kind: KindString, Present: true, Str: "first"},
	}}))

	recs, err := table.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "7", recs[0].Columns[0].DataStr())
}

func TestTableQueryCreateRejectsNonULongPrimaryKeyOnNonAutoIncrementTable(t *testing.T) {
	table := newTestTable(t, false)
	err := table.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindUInt, Present: true, UInt: 1},
		{Name: "name", Kind: KindString, Present: true, Str: "first"},
	}})
	require.ErrorIs(t, err, ErrSchema)

	recs, err := table.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Empty(t, recs, "rejected insert must leave the part unchanged")
}

func TestTableQueryCreateRejectsMissingPrimaryKeyOnNonAutoIncrementTable(t *testing.T) {
	table := newTestTable(t, false)
	err := table.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindULong, Present: false},
		{Name: "name", Kind: KindString, Present: true, Str: "first"},
	}})
	require.ErrorIs(t, err, ErrSchema)

	recs, err := table.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Empty(t, recs, "rejected insert must leave the part unchanged")
}

func TestBuildTableFromDirRebuildsPartsAndSchema(t *testing.T) {
	dir := t.TempDir()
	columns := []CellDef{
		NewCellDef(0, ColumnSpec{Name: "id", Type: "ULong"}),
		NewCellDef(1, ColumnSpec{Name: "name", Type: "String"}),
	}
	original, err := NewTable(dir, "widgets", true, columns, DefaultPartSize, LockWait)
	require.NoError(t, err)
	require.NoError(t, original.QueryCreate(Record{Columns: []CellValue{
		{Name: "id", Kind: KindULong},
		{Name: "name", Kind: KindString, Present: true, Str: "first"},
	}}))

	rebuilt, err := BuildTableFromDir(dir, "widgets", LockWait)
	require.NoError(t, err)
	require.Len(t, rebuilt.Columns, 2)
	recs, err := rebuilt.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "first", recs[0].Columns[1].Str)
}

func TestBuildTableFromDirToleratesCorruptDef(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nope"), 0o755))
	// One byte decodes the auto_increment flag, then the column count read hits EOF.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nope", defFileName), []byte{0x01}, 0o644))

	rebuilt, err := BuildTableFromDir(dir, "nope", LockWait)
	require.NoError(t, err)
	require.Empty(t, rebuilt.Columns)
}

func TestTableQueryDeleteRecordsWildcardDeletesAll(t *testing.T) {
	table := newTestTable(t, true)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, table.QueryCreate(Record{Columns: []CellValue{
			{Name: "id", Kind: KindULong},
			{Name: "name", Kind: KindString, Present: true, Str: name},
		}}))
	}
	n, err := table.QueryDeleteRecords([]Condition{{Column: "name", Operator: OpWildcard}})
	require.NoError(t, err)
	require.Equal(t, 3, n)

	recs, err := table.QuerySearchColumns(nil)
	require.NoError(t, err)
	require.Empty(t, recs)
}
