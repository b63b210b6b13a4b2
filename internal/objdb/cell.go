// Package objdb implements the core of the partitioned, request-driven
// object database engine: the typed cell/record model, on-disk parts and
// tables, databases, and the endpoint/query dispatch layer.
package objdb

import (
	"fmt"
	"math/big"
)

// CellKind is the discriminant of a CellValue, one of eight primitive
// variants carried over from the original's CellValue enum.
type CellKind uint32

const (
	KindString CellKind = iota
	KindBool
	KindUInt
	KindULong
	KindIInt
	KindILong
	KindFloat
	KindBytes
)

func (k CellKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindUInt:
		return "UInt"
	case KindULong:
		return "ULong"
	case KindIInt:
		return "IInt"
	case KindILong:
		return "ILong"
	case KindFloat:
		return "Float"
	case KindBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}

// cellKindByToken maps a column type token from a request body or table
// definition to a CellKind. Unknown tokens fall back to String, per spec.md
// §6/§7 ("unrecognised column type token (silently coerced to String...)").
func cellKindByToken(token string) CellKind {
	switch token {
	case "String":
		return KindString
	case "Bool":
		return KindBool
	case "UInt":
		return KindUInt
	case "ULong":
		return KindULong
	case "IInt":
		return KindIInt
	case "ILong":
		return KindILong
	case "Float":
		return KindFloat
	case "Bytes":
		return KindBytes
	default:
		return KindString
	}
}

// CellValue is a single typed value bound to a column name. Present
// distinguishes a supplied payload from an absent one (the Option<T> of the
// original); an absent payload renders as "null" and compares as neither
// equal nor ordered against anything.
type CellValue struct {
	Name    string
	Kind    CellKind
	Present bool

	Str   string
	Bool  bool
	UInt  uint32
	ULong *big.Int
	IInt  int32
	ILong *big.Int
	Float float64
	Bytes []byte
}

// hexDigits used for the Bytes variant's uppercase hex rendering.
const hexDigits = "0123456789ABCDEF"

// DataStr renders the payload as text. Absent payloads render as "null";
// Bytes render as uppercase hex with no separator between bytes.
func (c CellValue) DataStr() string {
	if !c.Present {
		return "null"
	}
	switch c.Kind {
	case KindString:
		return c.Str
	case KindBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case KindUInt:
		return fmt.Sprintf("%d", c.UInt)
	case KindULong:
		if c.ULong == nil {
			return "null"
		}
		return c.ULong.String()
	case KindIInt:
		return fmt.Sprintf("%d", c.IInt)
	case KindILong:
		if c.ILong == nil {
			return "null"
		}
		return c.ILong.String()
	case KindFloat:
		return fmt.Sprintf("%v", c.Float)
	case KindBytes:
		out := make([]byte, 0, len(c.Bytes)*2)
		for _, b := range c.Bytes {
			out = append(out, hexDigits[b>>4], hexDigits[b&0x0F])
		}
		return string(out)
	default:
		return "null"
	}
}

// String renders the cell as "{name, data}", matching the original's
// Display impl for CellValue.
func (c CellValue) String() string {
	return fmt.Sprintf("{%s, %s}", c.Name, c.DataStr())
}

// CompName reports whether the cell's column name matches compName.
func (c CellValue) CompName(compName string) bool {
	return c.Name == compName
}

// Equal reports value equality. A variant mismatch or a pair where either
// side is absent is "not equal" — matching the original's PartialEq which
// is only defined between matching variants with both payloads present.
func (a CellValue) Equal(b CellValue) bool {
	if a.Kind != b.Kind || !a.Present || !b.Present {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.Str == b.Str
	case KindBool:
		return a.Bool == b.Bool
	case KindUInt:
		return a.UInt == b.UInt
	case KindULong:
		return bigEqual(a.ULong, b.ULong)
	case KindIInt:
		return a.IInt == b.IInt
	case KindILong:
		return bigEqual(a.ILong, b.ILong)
	case KindFloat:
		return a.Float == b.Float
	case KindBytes:
		return bytesEqual(a.Bytes, b.Bytes)
	default:
		return false
	}
}

// Compare returns -1/0/1 for a<b/a==b/a>b, and ok=false when the variants
// don't match or either payload is absent (no ordering is defined).
func (a CellValue) Compare(b CellValue) (cmp int, ok bool) {
	if a.Kind != b.Kind || !a.Present || !b.Present {
		return 0, false
	}
	switch a.Kind {
	case KindString:
		return stringCompare(a.Str, b.Str), true
	case KindBool:
		return boolCompare(a.Bool, b.Bool), true
	case KindUInt:
		return intCompareFn(int64(a.UInt), int64(b.UInt)), true
	case KindULong:
		if a.ULong == nil || b.ULong == nil {
			return 0, false
		}
		return a.ULong.Cmp(b.ULong), true
	case KindIInt:
		return intCompareFn(int64(a.IInt), int64(b.IInt)), true
	case KindILong:
		if a.ILong == nil || b.ILong == nil {
			return 0, false
		}
		return a.ILong.Cmp(b.ILong), true
	case KindFloat:
		return floatCompare(a.Float, b.Float), true
	case KindBytes:
		return bytesCompare(a.Bytes, b.Bytes), true
	default:
		return 0, false
	}
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Cmp(b) == 0
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func bytesCompare(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func intCompareFn(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ForeignKey is the (table, column) pair a CellDef's foreign_key attribute
// carries. Never enforced — referential integrity is an explicit non-goal.
type ForeignKey struct {
	Table  string
	Column string
}

// CellDef carries the schema attributes for one column of a table: its
// type template, position, and the default/not-null/unique/primary-key/
// foreign-key attributes. Index 0 is always the primary key.
type CellDef struct {
	Name       string
	Index      uint16
	Type       CellValue
	Default    bool
	NotNull    bool
	Unique     bool
	PrimaryKey bool
	ForeignKey *ForeignKey
}

// ColumnSpec is the inbound column tuple a create_table request supplies:
// (name, type token, default text, not_null, unique, foreign key token).
type ColumnSpec struct {
	Name       string
	Type       string
	Default    *string
	NotNull    bool
	Unique     bool
	ForeignKey *ForeignKey
}

// decodeBytesDefault decodes a hex-pair default string for a Bytes column,
// preserving the original's nibble decode: 'A'-'F' map to 10-15, but any
// other byte (including ASCII digits) passes through as its raw value
// rather than being interpreted numerically. See DESIGN.md Open Question 3
// — kept deliberately, spec.md §9 flags it as a known quirk.
func decodeBytesDefault(s string) []byte {
	b := []byte(s)
	out := make([]byte, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		hi := nibble(b[i])
		lo := nibble(b[i+1])
		out = append(out, hi<<4|lo)
	}
	return out
}

func nibble(b byte) byte {
	if b >= 'A' && b <= 'F' {
		return b - 'A' + 10
	}
	return b
}

// NewCellDef builds the CellDef for one column position from its inbound
// spec, matching Table::new in the original: the type token selects the
// variant, the default text is parsed into that variant's payload, and
// index 0 is always the primary key.
func NewCellDef(index uint16, spec ColumnSpec) CellDef {
	kind := cellKindByToken(spec.Type)
	def := CellDef{
		Name:       spec.Name,
		Index:      index,
		NotNull:    spec.NotNull,
		Unique:     spec.Unique,
		PrimaryKey: index == 0,
		ForeignKey: spec.ForeignKey,
	}
	tmpl := CellValue{Name: spec.Name, Kind: kind}
	if spec.Default != nil {
		def.Default = true
		tmpl.Present = true
		switch kind {
		case KindString:
			tmpl.Str = *spec.Default
		case KindBool:
			tmpl.Bool = *spec.Default == "true" || *spec.Default == "True" || *spec.Default == "TRUE" || *spec.Default == "1"
		case KindUInt:
			var v uint32
			if _, err := fmt.Sscanf(*spec.Default, "%d", &v); err == nil {
				tmpl.UInt = v
			} else {
				tmpl.Present = false
			}
		case KindULong:
			v, ok := new(big.Int).SetString(*spec.Default, 10)
			if ok {
				tmpl.ULong = v
			} else {
				tmpl.Present = false
			}
		case KindIInt:
			var v int32
			if _, err := fmt.Sscanf(*spec.Default, "%d", &v); err == nil {
				tmpl.IInt = v
			} else {
				tmpl.Present = false
			}
		case KindILong:
			v, ok := new(big.Int).SetString(*spec.Default, 10)
			if ok {
				tmpl.ILong = v
			} else {
				tmpl.Present = false
			}
		case KindFloat:
			var v float64
			if _, err := fmt.Sscanf(*spec.Default, "%g", &v); err == nil {
				tmpl.Float = v
			} else {
				tmpl.Present = false
			}
		case KindBytes:
			tmpl.Bytes = decodeBytesDefault(*spec.Default)
		}
	}
	def.Type = tmpl
	return def
}

// ZeroValue returns an absent CellValue of the definition's kind. Table's
// buildRecord stores it for an omitted column that is nullable and has no
// default, and for an omitted auto-increment primary key, which QueryCreate
// then overwrites.
func (d CellDef) ZeroValue() CellValue {
	return CellValue{Name: d.Name, Kind: d.Type.Kind}
}

// ParseCellValue parses raw text into a present CellValue of kind, bound to
// name. Used both for record field values on create and for condition
// literals on read/delete, so a malformed value is reported the same way in
// either path.
func ParseCellValue(name string, kind CellKind, raw string) (CellValue, error) {
	v := CellValue{Name: name, Kind: kind, Present: true}
	switch kind {
	case KindString:
		v.Str = raw
	case KindBool:
		v.Bool = raw == "true" || raw == "True" || raw == "TRUE" || raw == "1"
	case KindUInt:
		var u uint32
		if _, err := fmt.Sscanf(raw, "%d", &u); err != nil {
			return CellValue{}, fmt.Errorf("objdb: %w: %q is not a UInt", ErrParse, raw)
		}
		v.UInt = u
	case KindULong:
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok || n.Sign() < 0 {
			return CellValue{}, fmt.Errorf("objdb: %w: %q is not a ULong", ErrParse, raw)
		}
		v.ULong = n
	case KindIInt:
		var n int32
		if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
			return CellValue{}, fmt.Errorf("objdb: %w: %q is not an IInt", ErrParse, raw)
		}
		v.IInt = n
	case KindILong:
		n, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return CellValue{}, fmt.Errorf("objdb: %w: %q is not an ILong", ErrParse, raw)
		}
		v.ILong = n
	case KindFloat:
		var f float64
		if _, err := fmt.Sscanf(raw, "%g", &f); err != nil {
			return CellValue{}, fmt.Errorf("objdb: %w: %q is not a Float", ErrParse, raw)
		}
		v.Float = f
	case KindBytes:
		v.Bytes = decodeBytesDefault(raw)
	default:
		return CellValue{}, fmt.Errorf("objdb: %w: unknown cell kind %d", ErrParse, kind)
	}
	return v, nil
}
