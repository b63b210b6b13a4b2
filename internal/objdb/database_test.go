package objdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDatabaseWritesDefAndLog(t *testing.T) {
	root := t.TempDir()
	_, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)

	defData, err := os.ReadFile(filepath.Join(root, "shop", databaseDefFileName))
	require.NoError(t, err)
	require.JSONEq(t, `{"role":"ADMIN"}`, string(defData))

	_, err = os.Stat(filepath.Join(root, "shop", databaseLogFileName))
	require.NoError(t, err)
}

func TestBuildDatabaseFromDirRecoversRole(t *testing.T) {
	root := t.TempDir()
	_, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)

	rebuilt, err := BuildDatabaseFromDir(root, "shop", LockWait)
	require.NoError(t, err)
	require.Equal(t, "ADMIN", rebuilt.Role)
}

func TestBuildDatabaseFromDirToleratesCorruptDef(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shop", databaseDefFileName), []byte("not json"), 0o644))

	rebuilt, err := BuildDatabaseFromDir(root, "shop", LockWait)
	require.NoError(t, err)
	require.Empty(t, rebuilt.Role)
}

func TestDatabaseBuildTableRejectsDuplicateName(t *testing.T) {
	root := t.TempDir()
	db, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)

	_, err = db.BuildTable("orders", true, []ColumnSpec{{Name: "id", Type: "ULong"}}, DefaultPartSize)
	require.NoError(t, err)

	_, err = db.BuildTable("orders", true, []ColumnSpec{{Name: "id", Type: "ULong"}}, DefaultPartSize)
	require.ErrorIs(t, err, ErrSchema)
}

func TestDatabaseDeleteTablePrunesEndpoint(t *testing.T) {
	root := t.TempDir()
	db, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)
	_, err = db.BuildTable("orders", true, []ColumnSpec{{Name: "id", Type: "ULong"}}, DefaultPartSize)
	require.NoError(t, err)

	_, err = db.DeleteTable("orders")
	require.NoError(t, err)

	_, tableExists := db.Table("orders")
	require.False(t, tableExists)
	_, endpointExists := db.Endpoints["orders"]
	require.False(t, endpointExists)
}

func TestDatabaseDeleteTableWarnsOnDependents(t *testing.T) {
	root := t.TempDir()
	db, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)
	_, err = db.BuildTable("customers", true, []ColumnSpec{{Name: "id", Type: "ULong"}}, DefaultPartSize)
	require.NoError(t, err)
	_, err = db.BuildTable("orders", true, []ColumnSpec{
		{Name: "id", Type: "ULong"},
		{Name: "customer_id", Type: "ULong", ForeignKey: &ForeignKey{Table: "customers", Column: "id"}},
	}, DefaultPartSize)
	require.NoError(t, err)

	warning, err := db.DeleteTable("customers")
	require.NoError(t, err)
	require.Contains(t, warning, "orders")
}

func TestBuildDatabaseFromDirRebuildsTables(t *testing.T) {
	root := t.TempDir()
	db, err := NewDatabase(root, "shop", "ADMIN", LockWait)
	require.NoError(t, err)
	_, err = db.BuildTable("orders", true, []ColumnSpec{{Name: "id", Type: "ULong"}}, DefaultPartSize)
	require.NoError(t, err)

	rebuilt, err := BuildDatabaseFromDir(root, "shop", LockWait)
	require.NoError(t, err)
	_, ok := rebuilt.Table("orders")
	require.True(t, ok)
}
