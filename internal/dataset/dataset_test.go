package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSONArray(t *testing.T) {
	data := []byte(`[
		{"id": "p1", "name": "Avi", "gender": "M", "spouse": "p2"},
		{"id": "p2", "name": "Dana", "gender": "F", "spouse": "p1"},
		{"id": "p3", "name": "Noa", "gender": "F", "parents": ["p1", null], "children": []}
	]`)

	people, err := Parse(data, ".json")
	require.NoError(t, err)
	require.Len(t, people, 3)

	assert.Equal(t, "p2", people[0].Spouse)
	pa, pb := people[2].ParentPair()
	assert.Equal(t, "p1", pa)
	assert.Equal(t, "", pb)
}

func TestParse_JSONDocument(t *testing.T) {
	people, err := Parse([]byte(`{"people": [{"id": "a", "name": "A"}]}`), ".JSON")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "A", people[0].Name)
}

func TestParse_TOML(t *testing.T) {
	data := []byte(`
[[people]]
id = "p1"
name = "Avi"
gender = "M"
spouse = "p2"

[[people]]
id = "p3"
name = "Noa"
parents = ["p1", "p2"]
children = ["p4"]
`)

	people, err := Parse(data, ".toml")
	require.NoError(t, err)
	require.Len(t, people, 2)
	pa, pb := people[1].ParentPair()
	assert.Equal(t, "p1", pa)
	assert.Equal(t, "p2", pb)
	assert.Equal(t, []string{"p4"}, people[1].Children)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
people:
  - id: p1
    name: Avi
    gender: M
  - id: p3
    name: Noa
    parents: [~, p1]
`)

	people, err := Parse(data, ".yml")
	require.NoError(t, err)
	require.Len(t, people, 2)
	pa, pb := people[1].ParentPair()
	assert.Equal(t, "", pa)
	assert.Equal(t, "p1", pb)
}

func TestParse_SkipsRecordsWithoutID(t *testing.T) {
	people, err := Parse([]byte(`[{"id": " ", "name": "Nobody"}, {"id": "a"}]`), ".json")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "a", people[0].ID)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`[{`), ".json")
	assert.Error(t, err)

	_, err = Parse([]byte(`id: a`), ".csv")
	assert.ErrorContains(t, err, "unsupported dataset format")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "a"}, {"id": "b"}]`), 0o644))

	people, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, people, 2)

	_, err = Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read dataset")
}

func TestIndex(t *testing.T) {
	people, err := Parse([]byte(`[{"id": "a", "name": "First"}, {"id": "a", "name": "Second"}, {"id": "b"}]`), ".json")
	require.NoError(t, err)

	byID := Index(people)
	assert.Len(t, byID, 2)
	assert.Equal(t, "First", byID["a"].Name)
}
