package model

// Path is the result of a shortest-path search. Elements alternates node and
// edge ids, starting and ending with a node.
type Path struct {
	Found    bool     `json:"found"`
	Elements []string `json:"elements"`
	Nodes    []string `json:"nodes"`
	Edges    []string `json:"edges"`
}

// Length is the number of hops of a found path.
func (p Path) Length() int {
	return len(p.Edges)
}
