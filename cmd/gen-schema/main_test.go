// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/cmdbind/internal/script"
)

func TestWriteSchema(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "schemas", "pack.schema.json")

	require.NoError(t, writeSchema(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	want, err := script.GenerateSchema()
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(data))
}

func TestWriteSchema_UnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := writeSchema(filepath.Join(blocker, "pack.schema.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}
