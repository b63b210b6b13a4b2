package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDirGuardSecondAcquireFails(t *testing.T) {
	dir := t.TempDir()

	first := NewDataDirGuard(dir)
	ok, err := first.Acquire()
	require.NoError(t, err)
	assert.True(t, ok)

	second := NewDataDirGuard(dir)
	ok, err = second.Acquire()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Release())

	third := NewDataDirGuard(dir)
	ok, err = third.Acquire()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, third.Release())
}
