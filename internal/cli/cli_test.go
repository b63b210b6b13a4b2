package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["mcp"])
	assert.True(t, names["serve"])
	assert.True(t, names["status"])
}
