package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corentin-rs/objdb/internal/objdb"
)

// columnSpecBody is the inbound JSON shape for one column of a
// create_table request body.
type columnSpecBody struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Default    *string `json:"default,omitempty"`
	NotNull    bool    `json:"not_null,omitempty"`
	Unique     bool    `json:"unique,omitempty"`
	ForeignKey *struct {
		Table  string `json:"table"`
		Column string `json:"column"`
	} `json:"foreign_key,omitempty"`
}

type createDatabaseBody struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type createTableBody struct {
	Name          string           `json:"name"`
	AutoIncrement bool             `json:"auto_increment"`
	Columns       []columnSpecBody `json:"columns"`
	PartSize      int              `json:"part_size,omitempty"`
}

type recordBody struct {
	Values map[string]string `json:"values"`
}

type conditionsBody struct {
	Conditions [][]string `json:"conditions"`
}

// Route translates a parsed Request into a DispatchRequest the registry can
// run, resolving the server/database/table endpoint levels spec.md §4.8
// describes from the request path's slash segments.
//
// Path shapes:
//
//	POST   /databases                                    create_database
//	POST   /databases/{db}/tables                         create_table
//	PATCH  /databases/{db}/tables/{table}                 update_table (stub)
//	DELETE /databases/{db}/tables/{table}                 delete_table
//	POST   /databases/{db}/indev                          toggle_indev
//	POST   /databases/{db}/tables/{table}/records          create_record
//	GET    /databases/{db}/tables/{table}/records          read_record
//	PATCH  /databases/{db}/tables/{table}/records          update_record (stub)
//	DELETE /databases/{db}/tables/{table}/records          delete_record
func Route(req *Request) (objdb.DispatchRequest, error) {
	segments := strings.Split(strings.Trim(req.Path, "/"), "/")
	if len(segments) == 0 || segments[0] != "databases" {
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: unrecognized path %q", req.Path)
	}

	switch len(segments) {
	case 1:
		return routeServer(req)
	case 2:
		return routeDatabase(req, segments[1])
	case 3:
		return routeDatabaseSub(req, segments[1], segments[2])
	case 4:
		return routeTable(req, segments[1], segments[3])
	case 5:
		return routeTableSub(req, segments[1], segments[3], segments[4])
	default:
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: unrecognized path %q", req.Path)
	}
}

func routeServer(req *Request) (objdb.DispatchRequest, error) {
	if req.Method != "POST" {
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s /databases not supported", req.Method)
	}
	var body createDatabaseBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
	}
	return objdb.DispatchRequest{Query: objdb.CreateDatabaseQuery{Name: body.Name, Role: body.Role}}, nil
}

// routeDatabase handles /databases/{db} — currently no verb is defined
// directly at this level, so only validates the segment shape.
func routeDatabase(req *Request, db string) (objdb.DispatchRequest, error) {
	return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s /databases/%s not supported", req.Method, db)
}

func routeDatabaseSub(req *Request, db, sub string) (objdb.DispatchRequest, error) {
	switch sub {
	case "tables":
		if req.Method != "POST" {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s not supported on /tables", req.Method)
		}
		var body createTableBody
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
		}
		specs := make([]objdb.ColumnSpec, len(body.Columns))
		for i, c := range body.Columns {
			spec := objdb.ColumnSpec{Name: c.Name, Type: c.Type, Default: c.Default, NotNull: c.NotNull, Unique: c.Unique}
			if c.ForeignKey != nil {
				spec.ForeignKey = &objdb.ForeignKey{Table: c.ForeignKey.Table, Column: c.ForeignKey.Column}
			}
			specs[i] = spec
		}
		return objdb.DispatchRequest{
			Database: db,
			Query: objdb.CreateTableQuery{
				Table:         body.Name,
				AutoIncrement: body.AutoIncrement,
				Columns:       specs,
				PartSize:      body.PartSize,
			},
		}, nil
	case "indev":
		if req.Method != "POST" {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s not supported on /indev", req.Method)
		}
		return objdb.DispatchRequest{Database: db, Query: objdb.ToggleIndevQuery{}}, nil
	default:
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: unrecognized segment %q", sub)
	}
}

func routeTable(req *Request, db, table string) (objdb.DispatchRequest, error) {
	switch req.Method {
	case "PATCH":
		return objdb.DispatchRequest{Database: db, Query: objdb.UpdateTableQuery{Table: table}}, nil
	case "DELETE":
		return objdb.DispatchRequest{Database: db, Query: objdb.DeleteTableQuery{Table: table}}, nil
	default:
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s not supported on /tables/%s", req.Method, table)
	}
}

func routeTableSub(req *Request, db, table, sub string) (objdb.DispatchRequest, error) {
	if sub != "records" {
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: unrecognized segment %q", sub)
	}
	switch req.Method {
	case "POST":
		var body recordBody
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
		}
		return objdb.DispatchRequest{Database: db, Table: table, Query: objdb.CreateRecordQuery{Values: body.Values}}, nil
	case "GET":
		var body conditionsBody
		if len(req.Body) > 0 {
			if err := json.Unmarshal(req.Body, &body); err != nil {
				return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
			}
		}
		return objdb.DispatchRequest{Database: db, Table: table, Query: objdb.ReadRecordQuery{Conditions: body.Conditions}}, nil
	case "PATCH":
		var body conditionsBody
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
		}
		return objdb.DispatchRequest{Database: db, Table: table, Query: objdb.UpdateRecordQuery{Conditions: body.Conditions}}, nil
	case "DELETE":
		var body conditionsBody
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return objdb.DispatchRequest{}, fmt.Errorf("objdb: %w: %v", objdb.ErrParse, err)
		}
		return objdb.DispatchRequest{Database: db, Table: table, Query: objdb.DeleteRecordQuery{Conditions: body.Conditions}}, nil
	default:
		return objdb.DispatchRequest{}, fmt.Errorf("objdb: request: %s not supported on /records", req.Method)
	}
}
