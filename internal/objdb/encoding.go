package objdb

// Binary encoding for records and column definitions persisted to part and
// .def files. The format is little-endian, length-prefixed, with tagged
// unions emitted as a uint32 discriminant followed by the variant payload —
// the canonical shape spec.md §6 calls for. Mirrors the teacher's
// internal/storage/encoding.go (encoding/binary, little-endian, explicit
// byte-length errors) rather than reaching for a generic codec, since this
// format has to match spec.md's own description exactly.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"
)

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func writeBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func writeString(w io.Writer, s string) error {
	return writeBytes(w, []byte(s))
}

func readString(r io.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// big128 is serialized as a 1-byte sign flag (0 = non-negative, only ever
// set for ILong) followed by 16 magnitude bytes, big-endian.
func writeBig(w io.Writer, v *big.Int, signed bool) error {
	if signed {
		sign := byte(0)
		if v.Sign() < 0 {
			sign = 1
		}
		if err := writeBool(w, sign == 1); err != nil {
			return err
		}
	}
	mag := new(big.Int).Abs(v)
	buf := make([]byte, 16)
	mag.FillBytes(buf)
	_, err := w.Write(buf)
	return err
}

func readBig(r io.Reader, signed bool) (*big.Int, error) {
	neg := false
	if signed {
		var err error
		neg, err = readBool(r)
		if err != nil {
			return nil, err
		}
	}
	buf := make([]byte, 16)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(buf)
	if neg {
		v.Neg(v)
	}
	return v, nil
}

func writeFloat(w io.Writer, v float64) error {
	bits := math.Float64bits(v)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], bits)
	_, err := w.Write(buf[:])
	return err
}

func readFloat(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// encodeCellValue writes the discriminant, name, presence flag and payload.
func encodeCellValue(w io.Writer, v CellValue) error {
	if err := writeUint32(w, uint32(v.Kind)); err != nil {
		return err
	}
	if err := writeString(w, v.Name); err != nil {
		return err
	}
	if err := writeBool(w, v.Present); err != nil {
		return err
	}
	if !v.Present {
		return nil
	}
	switch v.Kind {
	case KindString:
		return writeString(w, v.Str)
	case KindBool:
		return writeBool(w, v.Bool)
	case KindUInt:
		return writeUint32(w, v.UInt)
	case KindULong:
		return writeBig(w, v.ULong, false)
	case KindIInt:
		return writeUint32(w, uint32(v.IInt))
	case KindILong:
		return writeBig(w, v.ILong, true)
	case KindFloat:
		return writeFloat(w, v.Float)
	case KindBytes:
		return writeBytes(w, v.Bytes)
	default:
		return fmt.Errorf("objdb: unknown cell kind %d", v.Kind)
	}
}

func decodeCellValue(r io.Reader) (CellValue, error) {
	kindRaw, err := readUint32(r)
	if err != nil {
		return CellValue{}, err
	}
	kind := CellKind(kindRaw)
	name, err := readString(r)
	if err != nil {
		return CellValue{}, err
	}
	present, err := readBool(r)
	if err != nil {
		return CellValue{}, err
	}
	v := CellValue{Kind: kind, Name: name, Present: present}
	if !present {
		return v, nil
	}
	switch kind {
	case KindString:
		v.Str, err = readString(r)
	case KindBool:
		v.Bool, err = readBool(r)
	case KindUInt:
		v.UInt, err = readUint32(r)
	case KindULong:
		v.ULong, err = readBig(r, false)
	case KindIInt:
		var raw uint32
		raw, err = readUint32(r)
		v.IInt = int32(raw)
	case KindILong:
		v.ILong, err = readBig(r, true)
	case KindFloat:
		v.Float, err = readFloat(r)
	case KindBytes:
		v.Bytes, err = readBytes(r)
	default:
		return CellValue{}, fmt.Errorf("objdb: unknown cell kind %d", kind)
	}
	if err != nil {
		return CellValue{}, err
	}
	return v, nil
}

func encodeRecord(w io.Writer, rec Record) error {
	if err := writeUint32(w, uint32(len(rec.Columns))); err != nil {
		return err
	}
	for _, col := range rec.Columns {
		if err := encodeCellValue(w, col); err != nil {
			return err
		}
	}
	return nil
}

func decodeRecord(r io.Reader) (Record, error) {
	n, err := readUint32(r)
	if err != nil {
		return Record{}, err
	}
	cols := make([]CellValue, 0, n)
	for i := uint32(0); i < n; i++ {
		cv, err := decodeCellValue(r)
		if err != nil {
			return Record{}, err
		}
		cols = append(cols, cv)
	}
	return Record{Columns: cols}, nil
}

// EncodeRecords serializes an ordered list of records, the format written to
// and read from every part file.
func EncodeRecords(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeUint32(&buf, uint32(len(records))); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := encodeRecord(&buf, rec); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeRecords is the inverse of EncodeRecords.
func DecodeRecords(data []byte) ([]Record, error) {
	r := bytes.NewReader(data)
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, n)
	for i := uint32(0); i < n; i++ {
		rec, err := decodeRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func encodeCellDef(w io.Writer, def CellDef) error {
	if err := writeString(w, def.Name); err != nil {
		return err
	}
	if err := writeUint16(w, def.Index); err != nil {
		return err
	}
	if err := encodeCellValue(w, def.Type); err != nil {
		return err
	}
	if err := writeBool(w, def.Default); err != nil {
		return err
	}
	if err := writeBool(w, def.NotNull); err != nil {
		return err
	}
	if err := writeBool(w, def.Unique); err != nil {
		return err
	}
	if err := writeBool(w, def.PrimaryKey); err != nil {
		return err
	}
	hasFK := def.ForeignKey != nil
	if err := writeBool(w, hasFK); err != nil {
		return err
	}
	if hasFK {
		if err := writeString(w, def.ForeignKey.Table); err != nil {
			return err
		}
		if err := writeString(w, def.ForeignKey.Column); err != nil {
			return err
		}
	}
	return nil
}

func decodeCellDef(r io.Reader) (CellDef, error) {
	var def CellDef
	var err error
	if def.Name, err = readString(r); err != nil {
		return def, err
	}
	if def.Index, err = readUint16(r); err != nil {
		return def, err
	}
	if def.Type, err = decodeCellValue(r); err != nil {
		return def, err
	}
	if def.Default, err = readBool(r); err != nil {
		return def, err
	}
	if def.NotNull, err = readBool(r); err != nil {
		return def, err
	}
	if def.Unique, err = readBool(r); err != nil {
		return def, err
	}
	if def.PrimaryKey, err = readBool(r); err != nil {
		return def, err
	}
	hasFK, err := readBool(r)
	if err != nil {
		return def, err
	}
	if hasFK {
		fk := &ForeignKey{}
		if fk.Table, err = readString(r); err != nil {
			return def, err
		}
		if fk.Column, err = readString(r); err != nil {
			return def, err
		}
		def.ForeignKey = fk
	}
	return def, nil
}

// EncodeTableDef serializes the (auto_increment, column_definition) tuple
// stored in every table's .def file.
func EncodeTableDef(autoIncrement bool, columns []CellDef) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeBool(&buf, autoIncrement); err != nil {
		return nil, err
	}
	if err := writeUint32(&buf, uint32(len(columns))); err != nil {
		return nil, err
	}
	for _, c := range columns {
		if err := encodeCellDef(&buf, c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeTableDef is the inverse of EncodeTableDef. Per spec.md §3/§9,
// callers tolerate a decode failure by substituting an empty schema rather
// than treating it as fatal.
func DecodeTableDef(data []byte) (autoIncrement bool, columns []CellDef, err error) {
	r := bytes.NewReader(data)
	if autoIncrement, err = readBool(r); err != nil {
		return false, nil, err
	}
	n, err := readUint32(r)
	if err != nil {
		return false, nil, err
	}
	columns = make([]CellDef, 0, n)
	for i := uint32(0); i < n; i++ {
		c, err := decodeCellDef(r)
		if err != nil {
			return false, nil, err
		}
		columns = append(columns, c)
	}
	return autoIncrement, columns, nil
}
