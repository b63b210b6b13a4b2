package catalog

import (
	"path/filepath"
	"testing"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildAndStats(t *testing.T) {
	reg, err := objdb.NewRegistry(t.TempDir(), objdb.LockWait, objdb.DefaultPartSize)
	require.NoError(t, err)
	db, err := reg.CreateDatabase("shop", "")
	require.NoError(t, err)
	_, err = db.BuildTable("orders", true, []objdb.ColumnSpec{
		{Name: "id", Type: "ULong"},
		{Name: "item", Type: "String"},
	}, objdb.DefaultPartSize)
	require.NoError(t, err)
	require.NoError(t, db.Tables["orders"].QueryCreate(objdb.Record{Columns: []objdb.CellValue{
		{Name: "id", Kind: objdb.KindULong},
		{Name: "item", Kind: objdb.KindString, Present: true, Str: "widget"},
	}}))

	cat, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.Rebuild(reg))

	stats, err := cat.Stats()
	require.NoError(t, err)

	var found bool
	for _, s := range stats {
		if s.Database == "shop" && s.Table == "orders" {
			found = true
			assert.Equal(t, 1, s.RecordCount)
			assert.True(t, s.AutoIncrement)
		}
	}
	assert.True(t, found, "expected shop/orders in catalog stats")
}
