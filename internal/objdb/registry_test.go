package objdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBootstrapsAdminDatabase(t *testing.T) {
	reg, err := NewRegistry(t.TempDir(), LockWait, DefaultPartSize)
	require.NoError(t, err)
	require.NotNil(t, reg.Admin())
}

func TestDispatchLifecycleCreateTableCreateRecordReadDelete(t *testing.T) {
	reg, err := NewRegistry(t.TempDir(), LockWait, DefaultPartSize)
	require.NoError(t, err)

	resp, err := reg.Dispatch(DispatchRequest{Query: CreateDatabaseQuery{Name: "shop"}})
	require.NoError(t, err)
	require.True(t, resp.OK)

	resp, err = reg.Dispatch(DispatchRequest{
		Database: "shop",
		Query: CreateTableQuery{
			Table:         "orders",
			AutoIncrement: true,
			Columns: []ColumnSpec{
				{Name: "id", Type: "ULong"},
				{Name: "item", Type: "String"},
			},
			PartSize: DefaultPartSize,
		},
	})
	require.NoError(t, err)
	require.True(t, resp.OK)

	resp, err = reg.Dispatch(DispatchRequest{
		Database: "shop", Table: "orders",
		Query: CreateRecordQuery{Values: map[string]string{"item": "widget"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)

	resp, err = reg.Dispatch(DispatchRequest{
		Database: "shop", Table: "orders",
		Query: ReadRecordQuery{Conditions: [][]string{{"item", "==", "widget"}}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)

	resp, err = reg.Dispatch(DispatchRequest{
		Database: "shop", Table: "orders",
		Query: DeleteRecordQuery{Conditions: [][]string{{"item", "==", "widget"}}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)

	resp, err = reg.Dispatch(DispatchRequest{
		Database: "shop", Table: "orders",
		Query: ReadRecordQuery{Conditions: nil},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Records)
}

func TestDispatchUnknownDatabaseIsNotFound(t *testing.T) {
	reg, err := NewRegistry(t.TempDir(), LockWait, DefaultPartSize)
	require.NoError(t, err)

	_, err = reg.Dispatch(DispatchRequest{
		Database: "nope",
		Query:    ToggleIndevQuery{},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQueriesAreNotImplemented(t *testing.T) {
	reg, err := NewRegistry(t.TempDir(), LockWait, DefaultPartSize)
	require.NoError(t, err)
	_, err = reg.Dispatch(DispatchRequest{Query: CreateDatabaseQuery{Name: "shop"}})
	require.NoError(t, err)
	_, err = reg.Dispatch(DispatchRequest{
		Database: "shop",
		Query:    UpdateTableQuery{Table: "x"},
	})
	require.ErrorIs(t, err, ErrNotImplemented)
}
