package model

type Relation string

const (
	RelationSpouse Relation = "spouse"
	RelationChild  Relation = "child"
)

type EdgeData struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Rel    Relation `json:"rel"`
}

// Edge connects a spouse to its union node, or a union/parent to a child.
type Edge struct {
	Data EdgeData `json:"data"`
}

func (e Edge) ID() string { return e.Data.ID }

// ElementSet is the output of the graph builder.
type ElementSet struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

func (s ElementSet) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		ids = append(ids, n.ID())
	}
	return ids
}

func (s ElementSet) EdgeIDs() []string {
	ids := make([]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		ids = append(ids, e.ID())
	}
	return ids
}

// Len is the total number of elements (nodes and edges).
func (s ElementSet) Len() int {
	return len(s.Nodes) + len(s.Edges)
}
