// Package graph is the in-memory view of a built element set. It indexes the
// nodes and edges for lookup and path search, and keeps display classes
// (highlight, dim) per instance without touching the element data.
package graph

import (
	"context"
	"slices"
	"sort"

	"github.com/agenthands/kinship/internal/core/model"
)

type neighbor struct {
	nodeID string
	edgeID string
}

// step records how the search reached a node.
type step struct {
	from string
	edge string
}

// Index is the immutable part of a graph: elements plus adjacency. It is
// safe to share one Index between many Graph instances.
type Index struct {
	elements model.ElementSet
	nodes    map[string]model.Node
	edges    map[string]model.Edge
	out      map[string][]neighbor
	in       map[string][]neighbor
	order    []string
}

func NewIndex(elements model.ElementSet) *Index {
	idx := &Index{
		elements: elements,
		nodes:    make(map[string]model.Node, len(elements.Nodes)),
		edges:    make(map[string]model.Edge, len(elements.Edges)),
		out:      make(map[string][]neighbor),
		in:       make(map[string][]neighbor),
		order:    make([]string, 0, elements.Len()),
	}

	for _, n := range elements.Nodes {
		idx.nodes[n.ID()] = n
		idx.order = append(idx.order, n.ID())
	}

	for _, e := range elements.Edges {
		if _, ok := idx.nodes[e.Data.Source]; !ok {
			continue
		}
		if _, ok := idx.nodes[e.Data.Target]; !ok {
			continue
		}
		idx.edges[e.ID()] = e
		idx.order = append(idx.order, e.ID())
		idx.out[e.Data.Source] = append(idx.out[e.Data.Source], neighbor{nodeID: e.Data.Target, edgeID: e.ID()})
		idx.in[e.Data.Target] = append(idx.in[e.Data.Target], neighbor{nodeID: e.Data.Source, edgeID: e.ID()})
	}

	return idx
}

func (idx *Index) Elements() model.ElementSet { return idx.elements }

func (idx *Index) HasNode(id string) bool {
	_, ok := idx.nodes[id]
	return ok
}

func (idx *Index) Node(id string) (model.Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

func (idx *Index) Edge(id string) (model.Edge, bool) {
	e, ok := idx.edges[id]
	return e, ok
}

// ElementIDs lists node ids followed by edge ids, in build order.
func (idx *Index) ElementIDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// ShortestPath runs a breadth-first search from root to goal. Every edge
// weighs the same and relation types are not distinguished. With directed
// false edges are followed both ways.
func (idx *Index) ShortestPath(ctx context.Context, root, goal string, directed bool) (model.Path, error) {
	if !idx.HasNode(root) || !idx.HasNode(goal) {
		return model.Path{}, nil
	}
	if root == goal {
		return model.Path{Found: true, Elements: []string{root}, Nodes: []string{root}}, nil
	}

	parent := map[string]step{root: {}}
	queue := []string{root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return model.Path{}, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, nb := range idx.neighbors(current, directed) {
			if _, seen := parent[nb.nodeID]; seen {
				continue
			}
			parent[nb.nodeID] = step{from: current, edge: nb.edgeID}
			if nb.nodeID == goal {
				return idx.reconstruct(parent, root, goal), nil
			}
			queue = append(queue, nb.nodeID)
		}
	}

	return model.Path{}, nil
}

func (idx *Index) neighbors(id string, directed bool) []neighbor {
	if directed {
		return idx.out[id]
	}
	all := make([]neighbor, 0, len(idx.out[id])+len(idx.in[id]))
	all = append(all, idx.out[id]...)
	all = append(all, idx.in[id]...)
	return all
}

// reconstruct walks the parent steps back from goal. Nodes and edges are
// collected separately since a node id may equal an edge id.
func (idx *Index) reconstruct(parent map[string]step, root, goal string) model.Path {
	nodes := []string{goal}
	var edges []string
	for cur := goal; cur != root; {
		st := parent[cur]
		edges = append(edges, st.edge)
		nodes = append(nodes, st.from)
		cur = st.from
	}
	slices.Reverse(nodes)
	slices.Reverse(edges)

	p := model.Path{Found: true, Nodes: nodes, Edges: edges, Elements: make([]string, 0, len(nodes)+len(edges))}
	for i, id := range nodes {
		if i > 0 {
			p.Elements = append(p.Elements, edges[i-1])
		}
		p.Elements = append(p.Elements, id)
	}
	return p
}

// Graph is one viewer's display state over a shared Index.
type Graph struct {
	*Index
	classes map[string]map[string]bool
}

func New(idx *Index) *Graph {
	return &Graph{
		Index:   idx,
		classes: make(map[string]map[string]bool),
	}
}

func (g *Graph) AddClass(ids []string, class string) {
	for _, id := range ids {
		set, ok := g.classes[id]
		if !ok {
			set = make(map[string]bool)
			g.classes[id] = set
		}
		set[class] = true
	}
}

// RemoveClass drops class from every element.
func (g *Graph) RemoveClass(class string) {
	for id, set := range g.classes {
		delete(set, class)
		if len(set) == 0 {
			delete(g.classes, id)
		}
	}
}

// Classes returns the sorted display classes of one element.
func (g *Graph) Classes(id string) []string {
	set := g.classes[id]
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Marked returns the ids carrying class, in element order.
func (g *Graph) Marked(class string) []string {
	var out []string
	for _, id := range g.order {
		if g.classes[id][class] {
			out = append(out, id)
		}
	}
	return out
}
