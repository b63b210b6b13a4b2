package objdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringValueOf(column, raw string) (CellValue, error) {
	return CellValue{Name: column, Kind: KindString, Present: true, Str: raw}, nil
}

func TestParseConditionThreeElementUsesIndexTwoForValue(t *testing.T) {
	cond, err := ParseCondition([]string{"name", "==", "alice"}, stringValueOf)
	require.NoError(t, err)
	assert.Equal(t, "name", cond.Column)
	assert.Equal(t, OpEqual, cond.Operator)
	assert.Equal(t, "alice", cond.Value.Str)
	assert.Equal(t, ConnectorAnd, cond.Connector)
}

func TestParseConditionFourElementCarriesConnector(t *testing.T) {
	cond, err := ParseCondition([]string{"name", "!=", "bob", "OR"}, stringValueOf)
	require.NoError(t, err)
	assert.Equal(t, "name", cond.Column)
	assert.Equal(t, ConnectorOr, cond.Connector)
	assert.Equal(t, OpNotEqual, cond.Operator)
}

func TestParseConditionRejectsWrongLength(t *testing.T) {
	_, err := ParseCondition([]string{"name", "=="}, stringValueOf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestOperatorConventionalMeaning(t *testing.T) {
	a := CellValue{Kind: KindUInt, Present: true, UInt: 5}
	b := CellValue{Kind: KindUInt, Present: true, UInt: 3}

	assert.True(t, OpGreater.Evaluate(a, b))
	assert.False(t, OpGreater.Evaluate(b, a))
	assert.True(t, OpGreaterOrEqual.Evaluate(a, a))
	assert.True(t, OpLess.Evaluate(b, a))
	assert.True(t, OpLessOrEqual.Evaluate(b, b))
}

func TestWildcardAlwaysMatches(t *testing.T) {
	cond, err := ParseCondition([]string{"anything", "*", "ignored"}, stringValueOf)
	require.NoError(t, err)
	rec := Record{Columns: []CellValue{{Name: "anything", Kind: KindString, Present: true, Str: "whatever"}}}
	assert.True(t, rec.QueryCheck(cond))
}

func TestConnectorsParsedButIgnoredDuringEvaluation(t *testing.T) {
	// Two conditions joined by "OR" still both have to hold: Table/Part
	// evaluation is a hard conjunction regardless of the parsed connector.
	rec := Record{Columns: []CellValue{
		{Name: "a", Kind: KindUInt, Present: true, UInt: 1},
		{Name: "b", Kind: KindUInt, Present: true, UInt: 2},
	}}
	condA, err := ParseCondition([]string{"a", "==", "1"}, func(col, raw string) (CellValue, error) {
		return ParseCellValue(col, KindUInt, raw)
	})
	require.NoError(t, err)
	condB, err := ParseCondition([]string{"b", "==", "999", "OR"}, func(col, raw string) (CellValue, error) {
		return ParseCellValue(col, KindUInt, raw)
	})
	require.NoError(t, err)

	assert.False(t, rec.QueryCheckAll([]Condition{condA, condB}))
}
