// Implementation Plan:
// 1. MCPServerConfig - configuration for MCP server
// 2. Request/Response types for each registered tool

package mcp

// MCPServerConfig contains configuration for the MCP server.
type MCPServerConfig struct {
	// DataDir is the registry root, matching config.StorageConfig.DataDir.
	DataDir string
	// PartSize is the part-file split threshold for newly created tables.
	PartSize int
	// LockWait, when true, blocks for a table/part lock instead of failing fast.
	LockWait bool
	// CatalogPath is where the derived SQLite rollup used by objdb_status lives.
	CatalogPath string
}

// DefaultMCPServerConfig returns default MCP server configuration.
func DefaultMCPServerConfig() *MCPServerConfig {
	return &MCPServerConfig{
		DataDir:     "databases",
		PartSize:    4096,
		LockWait:    false,
		CatalogPath: ".objdb/catalog.db",
	}
}

// CreateDatabaseRequest is the JSON request schema for objdb_create_database.
type CreateDatabaseRequest struct {
	Database string `json:"database" jsonschema:"required,description=Name of the database to create"`
	Role     string `json:"role,omitempty" jsonschema:"description=Informational role label written to the database's .def file, not enforced"`
}

// CreateTableColumn describes one column in an objdb_create_table request.
// Column 0 is always the primary key, matching objdb's CellDef convention.
type CreateTableColumn struct {
	Name       string            `json:"name" jsonschema:"required"`
	Type       string            `json:"type" jsonschema:"required,description=String|Bool|UInt|ULong|IInt|ILong|Float|Bytes"`
	Default    string            `json:"default,omitempty"`
	NotNull    bool              `json:"not_null,omitempty"`
	Unique     bool              `json:"unique,omitempty"`
	ForeignKey map[string]string `json:"foreign_key,omitempty" jsonschema:"description=table and column keys"`
}

// CreateTableRequest is the JSON request schema for objdb_create_table.
type CreateTableRequest struct {
	Database      string              `json:"database" jsonschema:"required"`
	Table         string              `json:"table" jsonschema:"required"`
	AutoIncrement bool                `json:"auto_increment,omitempty"`
	Columns       []CreateTableColumn `json:"columns" jsonschema:"required"`
}

// DeleteTableRequest is the JSON request schema for objdb_delete_table.
type DeleteTableRequest struct {
	Database string `json:"database" jsonschema:"required"`
	Table    string `json:"table" jsonschema:"required"`
}

// DeleteTableResponse carries the foreign-key cascade warning, if any.
type DeleteTableResponse struct {
	OK      bool   `json:"ok"`
	Warning string `json:"warning,omitempty"`
}

// CreateRecordRequest is the JSON request schema for objdb_create_record.
type CreateRecordRequest struct {
	Database string            `json:"database" jsonschema:"required"`
	Table    string            `json:"table" jsonschema:"required"`
	Values   map[string]string `json:"values" jsonschema:"required,description=column name to literal value"`
}

// ReadRecordRequest is the JSON request schema for objdb_read_record.
type ReadRecordRequest struct {
	Database   string     `json:"database" jsonschema:"required"`
	Table      string     `json:"table" jsonschema:"required"`
	Conditions [][]string `json:"conditions,omitempty" jsonschema:"description=[[column,op,value]] or [[column,op,value,connector]]; empty matches every record"`
}

// DeleteRecordRequest is the JSON request schema for objdb_delete_record.
type DeleteRecordRequest struct {
	Database   string     `json:"database" jsonschema:"required"`
	Table      string     `json:"table" jsonschema:"required"`
	Conditions [][]string `json:"conditions,omitempty"`
}

// DeleteRecordResponse reports how many records matched and were removed.
type DeleteRecordResponse struct {
	OK      bool `json:"ok"`
	Deleted int  `json:"deleted"`
}

// StatusResponse is the JSON response schema for objdb_status: the derived
// catalog rollup of every database/table currently on disk.
type StatusResponse struct {
	Tables []StatusTable `json:"tables"`
}

// StatusTable is one row of the objdb_status rollup, enriched with the
// foreign-key dependents fkgraph reports for that table.
type StatusTable struct {
	Database      string   `json:"database"`
	Table         string   `json:"table"`
	AutoIncrement bool     `json:"auto_increment"`
	Columns       int      `json:"columns"`
	Records       int      `json:"records"`
	Parts         int      `json:"parts"`
	Dependents    []string `json:"dependents,omitempty"`
}
