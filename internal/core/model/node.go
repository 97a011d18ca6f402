package model

type NodeType string

const (
	NodeTypePerson NodeType = "person"
	NodeTypeUnion  NodeType = "union"
)

// NodeData is the payload of a graph node as the browser graph library reads it.
type NodeData struct {
	ID    string   `json:"id"`
	Type  NodeType `json:"type"`
	Label string   `json:"label,omitempty"`
	Photo string   `json:"photo,omitempty"`
}

// Node is either a person or a union (marriage junction).
type Node struct {
	Data    NodeData `json:"data"`
	Classes string   `json:"classes,omitempty"`
}

func (n Node) ID() string { return n.Data.ID }

func (n Node) IsPerson() bool { return n.Data.Type == NodeTypePerson }
