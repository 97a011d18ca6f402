package core

import (
	"github.com/agenthands/kinship/internal/core/branch"
	"github.com/agenthands/kinship/internal/core/builder"
	"github.com/agenthands/kinship/internal/core/detail"
	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/highlight"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/core/narrate"
	"github.com/agenthands/kinship/internal/dataset"
	"github.com/agenthands/kinship/internal/metrics"
)

// Tree is the family graph built once at startup and shared read-only by
// every viewer session.
type Tree struct {
	ID       string
	People   []model.Person
	ByID     map[string]model.Person
	Index    *graph.Index
	Labels   detail.Labels
	Narrator *narrate.Narrator
	Branches []branch.Branch
	BranchOf map[string]int

	// Finder overrides the in-memory path search, e.g. with the database.
	Finder highlight.PathFinder
}

type Option struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Branch int    `json:"branch"`
}

func NewTree(id string, people []model.Person, labels detail.Labels, narrator *narrate.Narrator) *Tree {
	elements := builder.Build(people)

	byID := dataset.Index(people)
	unique := make([]model.Person, 0, len(byID))
	seen := make(map[string]bool, len(byID))
	for _, p := range people {
		if !seen[p.ID] {
			seen[p.ID] = true
			unique = append(unique, p)
		}
	}

	var unions int
	for _, n := range elements.Nodes {
		if !n.IsPerson() {
			unions++
		}
	}
	metrics.Elements.WithLabelValues("person").Set(float64(len(elements.Nodes) - unions))
	metrics.Elements.WithLabelValues("union").Set(float64(unions))
	metrics.Elements.WithLabelValues("edge").Set(float64(len(elements.Edges)))

	branches := branch.NewDetector().Detect(elements)
	metrics.Elements.WithLabelValues("branch").Set(float64(len(branches)))

	if narrator == nil {
		narrator = narrate.NewNarrator(nil, "%s")
	}

	return &Tree{
		ID:       id,
		People:   unique,
		ByID:     byID,
		Index:    graph.NewIndex(elements),
		Labels:   labels,
		Narrator: narrator,
		Branches: branches,
		BranchOf: branch.Of(branches),
	}
}

func (t *Tree) Elements() model.ElementSet {
	return t.Index.Elements()
}

// Options lists id/name pairs for the person selectors, in dataset order.
func (t *Tree) Options() []Option {
	out := make([]Option, 0, len(t.People))
	for _, p := range t.People {
		out = append(out, Option{ID: p.ID, Name: p.Name, Branch: t.BranchOf[p.ID]})
	}
	return out
}

// Card renders the detail card of a person; union ids and unknown ids
// report false.
func (t *Tree) Card(id string) (detail.Card, bool) {
	p, ok := t.ByID[id]
	if !ok {
		return detail.Card{}, false
	}
	return detail.NewCard(p, t.ByID, t.Labels), true
}

func (t *Tree) Genders() map[string]model.Gender {
	out := make(map[string]model.Gender, len(t.ByID))
	for id, p := range t.ByID {
		out[id] = p.GenderClass()
	}
	return out
}

// Related reports whether two people share a branch, i.e. whether any path
// can join them.
func (t *Tree) Related(a, b string) bool {
	ba, ok := t.BranchOf[a]
	return ok && ba == t.BranchOf[b]
}

// PathFinder returns the configured search, or the in-memory index.
func (t *Tree) PathFinder() highlight.PathFinder {
	if t.Finder != nil {
		return t.Finder
	}
	return t.Index
}
