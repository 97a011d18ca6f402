package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/kinship/internal/core/builder"
	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/driver"
)

func ptr(s string) *string { return &s }

// Two married grandparents, their son married to an in-law, a grandchild,
// and an unrelated stranger.
func family() []model.Person {
	return []model.Person{
		{ID: "gpa", Name: "Grandpa", Gender: "M", Spouse: "gma"},
		{ID: "gma", Name: "Grandma", Gender: "F", Spouse: "gpa"},
		{ID: "son", Name: "Son", Gender: "M", Spouse: "inlaw", Parents: []*string{ptr("gpa"), ptr("gma")}},
		{ID: "inlaw", Name: "In-law", Gender: "F", Spouse: "son"},
		{ID: "kid", Name: "Kid", Gender: "F", Parents: []*string{ptr("son"), ptr("inlaw")}},
		{ID: "stranger", Name: "Stranger", Gender: "M"},
	}
}

func newTestHighlighter() (*Highlighter, *graph.Graph) {
	g := graph.New(graph.NewIndex(builder.Build(family())))
	return NewHighlighter(g, g.Index), g
}

func TestHighlight_FoundPath(t *testing.T) {
	h, g := newTestHighlighter()

	res := h.Highlight(context.Background(), "gpa", "kid")

	require.True(t, res.Found)
	assert.Equal(t, []string{
		"gpa", "u_gma_gpa_gpa", "u_gma_gpa", "u_gma_gpa_son", "son",
		"u_inlaw_son_son", "u_inlaw_son", "u_inlaw_son_kid", "kid",
	}, res.Path)
	assert.Equal(t, StateHighlighted, h.State())

	assert.ElementsMatch(t, res.Path, g.Marked(ClassHighlight))
	for _, id := range g.ElementIDs() {
		classes := g.Classes(id)
		assert.Len(t, classes, 1, "element %s", id)
	}
	assert.ElementsMatch(t, res.Others, g.Marked(ClassDim))
	assert.Contains(t, res.Others, "stranger")
	assert.Len(t, append(res.Path, res.Others...), len(g.ElementIDs()))
}

func TestHighlight_NoPath(t *testing.T) {
	h, g := newTestHighlighter()

	res := h.Highlight(context.Background(), "gpa", "stranger")

	assert.False(t, res.Found)
	assert.Equal(t, StateCleared, h.State())
	assert.Empty(t, g.Marked(ClassHighlight))
	assert.Empty(t, g.Marked(ClassDim))
}

func TestHighlight_SameOrEmptyEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"same person", "kid", "kid"},
		{"empty start", "", "kid"},
		{"empty end", "kid", ""},
		{"unknown start", "ghost", "kid"},
		{"unknown end", "kid", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.New(graph.NewIndex(builder.Build(family())))
			finder := &MockFinder{Path: model.Path{Found: true, Elements: []string{"gpa"}}}
			h := NewHighlighter(g, finder)

			h.Highlight(context.Background(), "gpa", "son")
			require.NotEmpty(t, g.Marked(ClassHighlight))
			finder.Calls = 0

			res := h.Highlight(context.Background(), tt.start, tt.end)

			assert.False(t, res.Found)
			assert.Zero(t, finder.Calls)
			assert.Equal(t, StateCleared, h.State())
			assert.Empty(t, g.Marked(ClassHighlight))
			assert.Empty(t, g.Marked(ClassDim))
		})
	}
}

func TestHighlight_ReplacesPreviousPath(t *testing.T) {
	h, g := newTestHighlighter()

	first := h.Highlight(context.Background(), "gpa", "kid")
	require.True(t, first.Found)

	second := h.Highlight(context.Background(), "gpa", "gma")
	require.True(t, second.Found)

	assert.ElementsMatch(t, []string{"gpa", "u_gma_gpa_gpa", "u_gma_gpa", "u_gma_gpa_gma", "gma"}, g.Marked(ClassHighlight))
	assert.NotContains(t, g.Marked(ClassHighlight), "kid")
	assert.Contains(t, g.Marked(ClassDim), "kid")
	assert.NotContains(t, g.Marked(ClassDim), "gma")
}

func TestHighlight_FinderError(t *testing.T) {
	g := graph.New(graph.NewIndex(builder.Build(family())))
	h := NewHighlighter(g, &MockFinder{Err: errors.New("boom")})

	res := h.Highlight(context.Background(), "gpa", "kid")

	assert.False(t, res.Found)
	assert.Equal(t, StateCleared, h.State())
	assert.Empty(t, g.Marked(ClassDim))
}

func TestClear(t *testing.T) {
	h, g := newTestHighlighter()
	h.Highlight(context.Background(), "gpa", "kid")

	h.Clear()

	assert.Equal(t, StateCleared, h.State())
	assert.Equal(t, Result{}, h.Last())
	assert.Empty(t, g.Marked(ClassHighlight))
	assert.Empty(t, g.Marked(ClassDim))
}

func TestCypherFinder_ShortestPath(t *testing.T) {
	mockDriver := &MockDriver{
		MockResult: neo4j.EagerResult{
			Records: []*neo4j.Record{
				{
					Keys:   []string{"node_ids", "edge_ids"},
					Values: []any{[]any{"gpa", "u_gma_gpa", "gma"}, []any{"u_gma_gpa_gpa", "u_gma_gpa_gma"}},
				},
			},
		},
	}
	f := NewCypherFinder(mockDriver, "tree-1")

	p, err := f.ShortestPath(context.Background(), "gpa", "gma", false)

	require.NoError(t, err)
	assert.True(t, p.Found)
	assert.Equal(t, []string{"gpa", "u_gma_gpa_gpa", "u_gma_gpa", "u_gma_gpa_gma", "gma"}, p.Elements)
	assert.Equal(t, driver.ShortestPathQuery, mockDriver.QueryExecuted)
	assert.Equal(t, "tree-1", mockDriver.QueryParams["tree_id"])
	assert.Equal(t, "gpa", mockDriver.QueryParams["root"])
}

func TestCypherFinder_NoRecords(t *testing.T) {
	mockDriver := &MockDriver{MockResult: neo4j.EagerResult{}}
	f := NewCypherFinder(mockDriver, "tree-1")

	p, err := f.ShortestPath(context.Background(), "a", "b", true)

	require.NoError(t, err)
	assert.False(t, p.Found)
	assert.Equal(t, driver.ShortestDirectedPathQuery, mockDriver.QueryExecuted)
}

func TestCypherFinder_Errors(t *testing.T) {
	f := NewCypherFinder(&MockDriver{Err: errors.New("down")}, "tree-1")
	_, err := f.ShortestPath(context.Background(), "a", "b", false)
	assert.Error(t, err)

	f = NewCypherFinder(&MockDriver{
		MockResult: neo4j.EagerResult{
			Records: []*neo4j.Record{
				{Keys: []string{"node_ids", "edge_ids"}, Values: []any{[]any{"a", "b"}, []any{}}},
			},
		},
	}, "tree-1")
	_, err = f.ShortestPath(context.Background(), "a", "b", false)
	assert.ErrorContains(t, err, "malformed path")
}
