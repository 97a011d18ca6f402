package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/kinship/internal/core/model"
)

const family = `[
  {"id": "p1", "name": "Avi", "gender": "M", "spouse": "p2"},
  {"id": "p2", "name": "Dana", "gender": "F", "spouse": "p1"},
  {"id": "p3", "name": "Noa", "gender": "F", "parents": ["p1", "p2"]},
  {"id": "p4", "name": "Stranger", "gender": "M"}
]`

func TestMain(m *testing.M) {
	registerFlags()
	os.Exit(m.Run())
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.json")
	require.NoError(t, os.WriteFile(path, []byte(family), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestElementsCommand(t *testing.T) {
	out, err := run(t, "elements", writeDataset(t))
	require.NoError(t, err)

	var elements model.ElementSet
	require.NoError(t, json.Unmarshal([]byte(out), &elements))
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4", "u_p1_p2"}, elements.NodeIDs())
	assert.ElementsMatch(t, []string{"u_p1_p2_p1", "u_p1_p2_p2", "u_p1_p2_p3"}, elements.EdgeIDs())
}

func TestElementsCommand_YAML(t *testing.T) {
	out, err := run(t, "elements", writeDataset(t), "-o", "yaml")
	require.NoError(t, err)
	outputFormat = "json"

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc["nodes"], 5)
	assert.Len(t, doc["edges"], 3)
}

func TestPathCommand(t *testing.T) {
	out, err := run(t, "path", writeDataset(t), "p1", "p3")
	require.NoError(t, err)
	assert.Contains(t, out, "Path (2 edges): p1 -> u_p1_p2_p1 -> u_p1_p2 -> u_p1_p2_p3 -> p3")
	assert.Contains(t, out, "Avi — parent of — Noa")
}

func TestPathCommand_NoPath(t *testing.T) {
	out, err := run(t, "path", writeDataset(t), "p1", "p4")
	require.NoError(t, err)
	assert.Contains(t, out, "No path between p1 and p4")
}

func TestBranchesCommand(t *testing.T) {
	out, err := run(t, "branches", writeDataset(t))
	require.NoError(t, err)
	assert.Equal(t, "1: Avi, Dana, Noa\n2: Stranger\n", out)
}

func TestElementsCommand_MissingFile(t *testing.T) {
	_, err := run(t, "elements", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
