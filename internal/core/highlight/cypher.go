package highlight

import (
	"context"
	"fmt"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/driver"
)

// CypherFinder searches paths inside a tree exported to Memgraph, using the
// database's breadth-first expansion.
type CypherFinder struct {
	Driver driver.GraphDriver
	TreeID string
}

func NewCypherFinder(d driver.GraphDriver, treeID string) *CypherFinder {
	return &CypherFinder{Driver: d, TreeID: treeID}
}

func (f *CypherFinder) ShortestPath(ctx context.Context, root, goal string, directed bool) (model.Path, error) {
	query := driver.ShortestPathQuery
	if directed {
		query = driver.ShortestDirectedPathQuery
	}

	res, err := f.Driver.ExecuteQuery(ctx, query, map[string]any{
		"root":    root,
		"goal":    goal,
		"tree_id": f.TreeID,
	})
	if err != nil {
		return model.Path{}, fmt.Errorf("shortest path query failed: %w", err)
	}
	if len(res.Records) == 0 {
		return model.Path{}, nil
	}

	rec := res.Records[0]
	rawNodes, _ := rec.Get("node_ids")
	rawEdges, _ := rec.Get("edge_ids")
	nodes, err := toStrings(rawNodes)
	if err != nil {
		return model.Path{}, fmt.Errorf("bad node_ids: %w", err)
	}
	edges, err := toStrings(rawEdges)
	if err != nil {
		return model.Path{}, fmt.Errorf("bad edge_ids: %w", err)
	}
	if len(nodes) == 0 || len(nodes) != len(edges)+1 {
		return model.Path{}, fmt.Errorf("malformed path: %d nodes, %d edges", len(nodes), len(edges))
	}

	p := model.Path{Found: true, Nodes: nodes, Edges: edges}
	for i, n := range nodes {
		p.Elements = append(p.Elements, n)
		if i < len(edges) {
			p.Elements = append(p.Elements, edges[i])
		}
	}
	return p, nil
}

func toStrings(v any) ([]string, error) {
	switch vals := v.(type) {
	case []string:
		return vals, nil
	case []any:
		out := make([]string, 0, len(vals))
		for _, x := range vals {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected element type %T", x)
			}
			out = append(out, s)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
}
