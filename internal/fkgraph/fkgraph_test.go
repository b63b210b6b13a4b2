package fkgraph

import (
	"testing"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependentsFindsReferencingTables(t *testing.T) {
	root := t.TempDir()
	db, err := objdb.NewDatabase(root, "shop", "", objdb.LockWait)
	require.NoError(t, err)

	_, err = db.BuildTable("customers", true, []objdb.ColumnSpec{{Name: "id", Type: "ULong"}}, objdb.DefaultPartSize)
	require.NoError(t, err)
	_, err = db.BuildTable("orders", true, []objdb.ColumnSpec{
		{Name: "id", Type: "ULong"},
		{Name: "customer_id", Type: "ULong", ForeignKey: &objdb.ForeignKey{Table: "customers", Column: "id"}},
	}, objdb.DefaultPartSize)
	require.NoError(t, err)

	g, err := Build(db)
	require.NoError(t, err)

	dependents, err := g.Dependents("customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"orders"}, dependents)
}

func TestDependentsEmptyForLeafTable(t *testing.T) {
	root := t.TempDir()
	db, err := objdb.NewDatabase(root, "shop", "", objdb.LockWait)
	require.NoError(t, err)
	_, err = db.BuildTable("customers", true, []objdb.ColumnSpec{{Name: "id", Type: "ULong"}}, objdb.DefaultPartSize)
	require.NoError(t, err)

	g, err := Build(db)
	require.NoError(t, err)
	dependents, err := g.Dependents("customers")
	require.NoError(t, err)
	assert.Empty(t, dependents)
}
