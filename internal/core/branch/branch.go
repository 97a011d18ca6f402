package branch

import (
	"github.com/agenthands/kinship/internal/core/model"
)

// Branch is one connected group of relatives. People keeps element order.
type Branch struct {
	ID     int      `json:"id"`
	People []string `json:"people"`
}

type Detector interface {
	Detect(elements model.ElementSet) []Branch
}

// ComponentDetector groups people by undirected connectivity; union nodes
// join spouses and children but are not listed.
type ComponentDetector struct{}

func NewDetector() Detector {
	return &ComponentDetector{}
}

func (d *ComponentDetector) Detect(elements model.ElementSet) []Branch {
	nodes := make(map[string]model.Node, len(elements.Nodes))
	adj := make(map[string][]string)

	for _, n := range elements.Nodes {
		nodes[n.ID()] = n
	}

	for _, e := range elements.Edges {
		if _, ok := nodes[e.Data.Source]; !ok {
			continue
		}
		if _, ok := nodes[e.Data.Target]; !ok {
			continue
		}
		adj[e.Data.Source] = append(adj[e.Data.Source], e.Data.Target)
		adj[e.Data.Target] = append(adj[e.Data.Target], e.Data.Source)
	}

	visited := make(map[string]bool)
	var branches []Branch

	for _, n := range elements.Nodes {
		if visited[n.ID()] {
			continue
		}
		var component []string
		d.dfs(n.ID(), adj, visited, &component)

		member := make(map[string]bool, len(component))
		for _, id := range component {
			member[id] = true
		}

		var people []string
		for _, m := range elements.Nodes {
			if member[m.ID()] && m.IsPerson() {
				people = append(people, m.ID())
			}
		}
		if len(people) == 0 {
			continue
		}
		branches = append(branches, Branch{ID: len(branches) + 1, People: people})
	}

	return branches
}

func (d *ComponentDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// Of maps every person id to the id of its branch.
func Of(branches []Branch) map[string]int {
	out := make(map[string]int)
	for _, b := range branches {
		for _, id := range b.People {
			out[id] = b.ID
		}
	}
	return out
}
