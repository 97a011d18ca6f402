package builder

import (
	"log"
	"sort"
	"strings"

	"github.com/agenthands/kinship/internal/core/model"
)

// PairKey is the order-independent key of a spouse pair.
func PairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}

// UnionID derives the union node id from a pair key.
func UnionID(key string) string {
	return "u_" + strings.Replace(key, "|", "_", 1)
}

func edgeID(source, target string) string {
	return source + "_" + target
}

type builder struct {
	byID   map[string]model.Person
	unions map[string]string // pair key -> union id
	edges  map[string]bool
	set    model.ElementSet
}

// Build turns person records into person nodes, union nodes, spouse edges
// and child edges. Unknown spouse or parent ids are skipped.
func Build(people []model.Person) model.ElementSet {
	b := &builder{
		byID:   make(map[string]model.Person, len(people)),
		unions: make(map[string]string),
		edges:  make(map[string]bool),
		set: model.ElementSet{
			Nodes: make([]model.Node, 0, len(people)),
			Edges: []model.Edge{},
		},
	}

	// 1. Person nodes
	for _, p := range people {
		if _, dup := b.byID[p.ID]; dup {
			log.Printf("Warning: duplicate person id %q, keeping the first record", p.ID)
			continue
		}
		b.byID[p.ID] = p
		b.set.Nodes = append(b.set.Nodes, model.Node{
			Data: model.NodeData{
				ID:    p.ID,
				Type:  model.NodeTypePerson,
				Label: p.Name,
				Photo: p.Photo,
			},
			Classes: string(p.GenderClass()),
		})
	}

	// 2. Union nodes, one per spouse pair
	for _, p := range b.persons(people) {
		if p.Spouse == "" || p.Spouse == p.ID {
			continue
		}
		if _, ok := b.byID[p.Spouse]; !ok {
			continue
		}
		b.union(p.ID, p.Spouse)
	}

	// 3. Parent -> child, through the union when there is one
	for _, child := range b.persons(people) {
		pa, pb := child.ParentPair()
		switch {
		case pa != "" && pb != "":
			if unionID, ok := b.unions[PairKey(pa, pb)]; ok {
				b.edge(unionID, child.ID, model.RelationChild)
				continue
			}
			b.directChild(pa, child.ID)
			b.directChild(pb, child.ID)
		case pa != "":
			b.directChild(pa, child.ID)
		case pb != "":
			b.directChild(pb, child.ID)
		}
	}

	return b.set
}

// persons yields the records that became nodes, in input order.
func (b *builder) persons(people []model.Person) []model.Person {
	out := make([]model.Person, 0, len(b.byID))
	seen := make(map[string]bool, len(b.byID))
	for _, p := range people {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func (b *builder) union(a, c string) {
	key := PairKey(a, c)
	if _, ok := b.unions[key]; ok {
		return
	}
	unionID := UnionID(key)
	if _, clash := b.byID[unionID]; clash {
		log.Printf("Warning: union id %q collides with a person id, skipping the union", unionID)
		return
	}
	b.unions[key] = unionID
	b.set.Nodes = append(b.set.Nodes, model.Node{
		Data: model.NodeData{ID: unionID, Type: model.NodeTypeUnion},
	})
	b.edge(a, unionID, model.RelationSpouse)
	b.edge(c, unionID, model.RelationSpouse)
}

func (b *builder) directChild(parentID, childID string) {
	if _, ok := b.byID[parentID]; !ok {
		return
	}
	b.edge(parentID, childID, model.RelationChild)
}

// edge appends an edge once; spouse edges are keyed on the union side.
func (b *builder) edge(source, target string, rel model.Relation) {
	id := edgeID(source, target)
	if rel == model.RelationSpouse {
		id = edgeID(target, source)
	}
	if b.edges[id] {
		return
	}
	b.edges[id] = true
	b.set.Edges = append(b.set.Edges, model.Edge{
		Data: model.EdgeData{ID: id, Source: source, Target: target, Rel: rel},
	})
}
