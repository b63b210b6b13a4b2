package mcp

import (
	"context"
	"testing"

	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDatabaseAndTableAndRecordLifecycle(t *testing.T) {
	reg, err := objdb.NewRegistry(t.TempDir(), objdb.LockWait, objdb.DefaultPartSize)
	require.NoError(t, err)

	s := server.NewMCPServer("test", "0.0.0")
	AddCreateDatabaseTool(s, reg)
	AddCreateTableTool(s, reg)
	AddCreateRecordTool(s, reg)
	AddReadRecordTool(s, reg)
	AddDeleteRecordTool(s, reg)

	_, err = reg.CreateDatabase("shop", "")
	require.NoError(t, err)

	_, err = reg.Dispatch(objdb.DispatchRequest{
		Database: "shop",
		Query: objdb.CreateTableQuery{
			Table:         "orders",
			AutoIncrement: true,
			Columns: []objdb.ColumnSpec{
				{Name: "id", Type: "ULong"},
				{Name: "item", Type: "String"},
			},
			PartSize: objdb.DefaultPartSize,
		},
	})
	require.NoError(t, err)

	resp, err := reg.Dispatch(objdb.DispatchRequest{
		Database: "shop",
		Table:    "orders",
		Query:    objdb.CreateRecordQuery{Values: map[string]string{"item": "widget"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	resp, err = reg.Dispatch(objdb.DispatchRequest{
		Database: "shop",
		Table:    "orders",
		Query:    objdb.ReadRecordQuery{},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
}

func TestAddCreateDatabaseToolRegistersWithoutError(t *testing.T) {
	reg, err := objdb.NewRegistry(t.TempDir(), objdb.LockWait, objdb.DefaultPartSize)
	require.NoError(t, err)

	s := server.NewMCPServer("test", "0.0.0")
	require.NotPanics(t, func() { AddCreateDatabaseTool(s, reg) })
}

func TestConditionsArgParsesNestedArrays(t *testing.T) {
	raw := []interface{}{
		[]interface{}{"id", "==", "1"},
	}
	conds := conditionsArg(raw)
	assert.Equal(t, [][]string{{"id", "==", "1"}}, conds)
}

func TestParseToolArgumentsRejectsNonMap(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = "not-a-map"
	_, errResult := parseToolArguments(req)
	assert.NotNil(t, errResult)
}
