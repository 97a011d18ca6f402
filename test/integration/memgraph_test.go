//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/detail"
	"github.com/agenthands/kinship/internal/core/export"
	"github.com/agenthands/kinship/internal/core/highlight"
	"github.com/agenthands/kinship/internal/dataset"
	"github.com/agenthands/kinship/internal/driver"
)

func connect(t *testing.T) driver.GraphDriver {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	d, err := driver.NewMemgraphDriver(context.Background(), uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })
	require.NoError(t, d.BuildIndices(context.Background()))
	return d
}

func TestExportAndSearch(t *testing.T) {
	d := connect(t)
	ctx := context.Background()

	people, err := dataset.Load("../../data/family.json")
	require.NoError(t, err)

	treeID := "test-" + uuid.New().String()
	tree := core.NewTree(treeID, people, detail.DefaultLabels(), nil)
	t.Cleanup(func() {
		d.ExecuteQuery(context.Background(), driver.DeleteTreeQuery, map[string]any{"tree_id": treeID})
	})

	report, err := export.NewExporter(d).Export(ctx, treeID, tree.Genders(), tree.Elements())
	require.NoError(t, err)
	assert.Equal(t, len(tree.Elements().Nodes), report.Nodes)
	assert.Equal(t, len(tree.Elements().Edges), report.Edges)
	assert.Zero(t, report.Failed)

	finder := highlight.NewCypherFinder(d, treeID)
	for _, pair := range [][2]string{{"p1", "p11"}, {"p8", "p12"}, {"p5", "p6"}} {
		want, err := tree.Index.ShortestPath(ctx, pair[0], pair[1], false)
		require.NoError(t, err)

		got, err := finder.ShortestPath(ctx, pair[0], pair[1], false)
		require.NoError(t, err)

		assert.True(t, got.Found, "%s -> %s", pair[0], pair[1])
		assert.Equal(t, want.Length(), got.Length(), "%s -> %s", pair[0], pair[1])
		assert.Equal(t, pair[0], got.Nodes[0])
		assert.Equal(t, pair[1], got.Nodes[len(got.Nodes)-1])
	}
}

func TestExport_Reexport(t *testing.T) {
	d := connect(t)
	ctx := context.Background()

	people, err := dataset.Load("../../data/family.json")
	require.NoError(t, err)

	treeID := "test-" + uuid.New().String()
	tree := core.NewTree(treeID, people, detail.DefaultLabels(), nil)
	t.Cleanup(func() {
		d.ExecuteQuery(context.Background(), driver.DeleteTreeQuery, map[string]any{"tree_id": treeID})
	})

	exporter := export.NewExporter(d)
	_, err = exporter.Export(ctx, treeID, tree.Genders(), tree.Elements())
	require.NoError(t, err)
	second, err := exporter.Export(ctx, treeID, tree.Genders(), tree.Elements())
	require.NoError(t, err)

	res, err := d.ExecuteQuery(ctx, "MATCH (n:Kin {tree_id: $tree_id}) RETURN count(n) AS n", map[string]any{"tree_id": treeID})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	count, _ := res.Records[0].Get("n")
	assert.EqualValues(t, second.Nodes, count)
}
