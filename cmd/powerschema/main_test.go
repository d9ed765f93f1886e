package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "powers.json")
	require.NoError(t, writeSchema(out, buildSchema()))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Power Definitions", doc["title"])
	assert.Contains(t, string(raw), "post_effects")
	assert.Contains(t, string(raw), "can_stack")
}
