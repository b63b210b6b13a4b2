package objdb

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellValueEqualRequiresMatchingPresentVariant(t *testing.T) {
	a := CellValue{Name: "x", Kind: KindUInt, Present: true, UInt: 7}
	b := CellValue{Name: "x", Kind: KindUInt, Present: true, UInt: 7}
	assert.True(t, a.Equal(b))

	absent := CellValue{Name: "x", Kind: KindUInt}
	assert.False(t, a.Equal(absent))
	assert.False(t, absent.Equal(absent))

	mismatched := CellValue{Name: "x", Kind: KindString, Present: true, Str: "7"}
	assert.False(t, a.Equal(mismatched))
}

func TestCellValueCompareULong(t *testing.T) {
	small := CellValue{Kind: KindULong, Present: true, ULong: big.NewInt(1)}
	big1 := CellValue{Kind: KindULong, Present: true, ULong: big.NewInt(1000000)}
	cmp, ok := small.Compare(big1)
	require.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestDataStrBytesIsUppercaseHex(t *testing.T) {
	v := CellValue{Kind: KindBytes, Present: true, Bytes: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	assert.Equal(t, "DEADBEEF", v.DataStr())
}

func TestDataStrAbsentIsNull(t *testing.T) {
	v := CellValue{Kind: KindString}
	assert.Equal(t, "null", v.DataStr())
}

func TestDecodeBytesDefaultQuirkPreserved(t *testing.T) {
	// '0'-'9' pass through as their raw ASCII byte, not byte-'0': this is
	// the documented quirk (DESIGN.md Open Question 3), kept deliberately.
	got := decodeBytesDefault("09")
	hi, lo := byte('0'), byte('9')
	want := []byte{hi<<4 | lo}
	assert.Equal(t, want, got)
}

func TestNewCellDefPrimaryKeyIsAlwaysIndexZero(t *testing.T) {
	def := NewCellDef(0, ColumnSpec{Name: "id", Type: "ULong"})
	assert.True(t, def.PrimaryKey)

	other := NewCellDef(1, ColumnSpec{Name: "name", Type: "String"})
	assert.False(t, other.PrimaryKey)
}

func TestParseCellValueRejectsMalformedUInt(t *testing.T) {
	_, err := ParseCellValue("n", KindUInt, "not-a-number")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestUnknownTypeTokenCoercesToString(t *testing.T) {
	assert.Equal(t, KindString, cellKindByToken("Wat"))
}
