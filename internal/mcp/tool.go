package mcp

// Implementation Plan:
// 1. AddObjdbXTool - composable tool registration function per operation
// 2. Bind request args into a typed struct via mcputils.CoerceBindArguments
// 3. Route to objdb.Registry.Dispatch
// 4. Return the dispatch Response as JSON text (mcp-go convention)

import (
	"context"
	"fmt"

	"github.com/corentin-rs/objdb/internal/catalog"
	"github.com/corentin-rs/objdb/internal/fkgraph"
	mcputils "github.com/corentin-rs/objdb/internal/mcp-utils"
	"github.com/corentin-rs/objdb/internal/objdb"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// argGetter adapts a parsed MCP argument map to mcputils.ArgumentGetter.
type argGetter map[string]interface{}

func (g argGetter) GetArguments() map[string]interface{} { return g }

// bindArguments extracts and coerce-binds a tool call's arguments into dst,
// handling MCP clients (notably Claude Desktop) that stringify arrays and
// objects before sending them.
func bindArguments(request mcp.CallToolRequest, dst interface{}) *mcp.CallToolResult {
	argsMap, errResult := parseToolArguments(request)
	if errResult != nil {
		return errResult
	}
	if err := mcputils.CoerceBindArguments(argGetter(argsMap), dst); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// AddCreateDatabaseTool registers the objdb_create_database tool.
func AddCreateDatabaseTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_create_database",
		mcp.WithDescription("Create a new, empty database."),
		mcp.WithString("database", mcp.Required(), mcp.Description("Name of the database to create")),
		mcp.WithString("role", mcp.Description("Informational role label written to the database's .def file, not enforced")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateDatabaseRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" {
			return mcp.NewToolResultError("database parameter is required"), nil
		}
		resp, err := reg.Dispatch(objdb.DispatchRequest{Query: objdb.CreateDatabaseQuery{Name: args.Database, Role: args.Role}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddCreateTableTool registers the objdb_create_table tool.
func AddCreateTableTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_create_table",
		mcp.WithDescription("Create a table within an existing database. Column 0 is always treated as the primary key."),
		mcp.WithString("database", mcp.Required(), mcp.Description("Database the table belongs to")),
		mcp.WithString("table", mcp.Required(), mcp.Description("Name of the table to create")),
		mcp.WithBoolean("auto_increment", mcp.Description("Assign the primary key automatically on insert")),
		mcp.WithArray("columns", mcp.Required(), mcp.Description("Column definitions: [{name, type, default, not_null, unique, foreign_key:{table,column}}]")),
		mcp.WithNumber("part_size", mcp.Description("Byte threshold before a part is rolled over, defaults to the registry's configured size")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateTableRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" || args.Table == "" {
			return mcp.NewToolResultError("database and table parameters are required"), nil
		}
		if len(args.Columns) == 0 {
			return mcp.NewToolResultError("columns parameter is required"), nil
		}
		partSize := reg.PartSize
		if argsMap, ok := request.Params.Arguments.(map[string]interface{}); ok {
			if v, ok := argsMap["part_size"].(float64); ok && v > 0 {
				partSize = int(v)
			}
		}

		specs := make([]objdb.ColumnSpec, 0, len(args.Columns))
		for _, c := range args.Columns {
			spec := objdb.ColumnSpec{Name: c.Name, Type: c.Type, NotNull: c.NotNull, Unique: c.Unique}
			if c.Default != "" {
				def := c.Default
				spec.Default = &def
			}
			if c.ForeignKey != nil {
				spec.ForeignKey = &objdb.ForeignKey{Table: c.ForeignKey["table"], Column: c.ForeignKey["column"]}
			}
			specs = append(specs, spec)
		}

		resp, err := reg.Dispatch(objdb.DispatchRequest{
			Database: args.Database,
			Query: objdb.CreateTableQuery{
				Table:         args.Table,
				AutoIncrement: args.AutoIncrement,
				Columns:       specs,
				PartSize:      partSize,
			},
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddDeleteTableTool registers the objdb_delete_table tool.
func AddDeleteTableTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_delete_table",
		mcp.WithDescription("Delete a table. Returns an informational warning if other tables declare a foreign key into it; the delete still proceeds."),
		mcp.WithString("database", mcp.Required()),
		mcp.WithString("table", mcp.Required()),
		mcp.WithDestructiveHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DeleteTableRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" || args.Table == "" {
			return mcp.NewToolResultError("database and table parameters are required"), nil
		}
		resp, err := reg.Dispatch(objdb.DispatchRequest{Database: args.Database, Query: objdb.DeleteTableQuery{Table: args.Table}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddCreateRecordTool registers the objdb_create_record tool.
func AddCreateRecordTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_create_record",
		mcp.WithDescription("Insert one record into a table. Columns omitted from values fall back to their declared default, or fail if not-null and default-less."),
		mcp.WithString("database", mcp.Required()),
		mcp.WithString("table", mcp.Required()),
		mcp.WithObject("values", mcp.Required(), mcp.Description("column name to literal text value")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args CreateRecordRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" || args.Table == "" {
			return mcp.NewToolResultError("database and table parameters are required"), nil
		}
		resp, err := reg.Dispatch(objdb.DispatchRequest{Database: args.Database, Table: args.Table, Query: objdb.CreateRecordQuery{Values: args.Values}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddReadRecordTool registers the objdb_read_record tool.
func AddReadRecordTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_read_record",
		mcp.WithDescription("Search a table for records matching every supplied condition (hard AND — connector tokens are parsed but not consulted). Omit conditions to return the whole table."),
		mcp.WithString("database", mcp.Required()),
		mcp.WithString("table", mcp.Required()),
		mcp.WithArray("conditions", mcp.Description("[[column, op, value]] or [[column, op, value, connector]]; op is one of == != > >= < <= *")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ReadRecordRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" || args.Table == "" {
			return mcp.NewToolResultError("database and table parameters are required"), nil
		}
		resp, err := reg.Dispatch(objdb.DispatchRequest{Database: args.Database, Table: args.Table, Query: objdb.ReadRecordQuery{Conditions: args.Conditions}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddDeleteRecordTool registers the objdb_delete_record tool.
func AddDeleteRecordTool(s *server.MCPServer, reg *objdb.Registry) {
	tool := mcp.NewTool(
		"objdb_delete_record",
		mcp.WithDescription("Delete every record in a table matching every supplied condition. Idempotent: matching zero records is not an error."),
		mcp.WithString("database", mcp.Required()),
		mcp.WithString("table", mcp.Required()),
		mcp.WithArray("conditions", mcp.Description("[[column, op, value]] or [[column, op, value, connector]]")),
		mcp.WithDestructiveHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args DeleteRecordRequest
		if errResult := bindArguments(request, &args); errResult != nil {
			return errResult, nil
		}
		if args.Database == "" || args.Table == "" {
			return mcp.NewToolResultError("database and table parameters are required"), nil
		}
		resp, err := reg.Dispatch(objdb.DispatchRequest{Database: args.Database, Table: args.Table, Query: objdb.DeleteRecordQuery{Conditions: args.Conditions}})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return marshalToolResponse(resp)
	})
}

// AddStatusTool registers the objdb_status tool, reporting the derived
// catalog rollup enriched with fkgraph's dependents for each table.
func AddStatusTool(s *server.MCPServer, reg *objdb.Registry, cat *catalog.Catalog) {
	tool := mcp.NewTool(
		"objdb_status",
		mcp.WithDescription("Report every database/table currently on disk, with record and part counts and foreign-key dependents."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := cat.Rebuild(reg); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("rebuilding catalog: %v", err)), nil
		}
		stats, err := cat.Stats()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading catalog: %v", err)), nil
		}

		out := StatusResponse{Tables: make([]StatusTable, 0, len(stats))}
		for _, stat := range stats {
			row := StatusTable{
				Database:      stat.Database,
				Table:         stat.Table,
				AutoIncrement: stat.AutoIncrement,
				Columns:       stat.ColumnCount,
				Records:       stat.RecordCount,
				Parts:         stat.PartCount,
			}
			if db, ok := reg.Database(stat.Database); ok {
				if g, err := fkgraph.Build(db); err == nil {
					row.Dependents, _ = g.Dependents(stat.Table)
				}
			}
			out.Tables = append(out.Tables, row)
		}
		return marshalToolResponse(out)
	})
}
