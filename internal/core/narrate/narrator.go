package narrate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/agenthands/kinship/internal/core/common"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/llm"
)

type Kinship string

const (
	KinSpouse  Kinship = "spouse of"
	KinParent  Kinship = "parent of"
	KinChild   Kinship = "child of"
	KinSibling Kinship = "sibling of"
)

// Step is one person-to-person hop of a path.
type Step struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Relation Kinship `json:"relation"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s — %s — %s", s.From, s.Relation, s.To)
}

type EdgeLookup interface {
	Edge(id string) (model.Edge, bool)
}

type Explanation struct {
	Steps    []Step `json:"steps"`
	Sentence string `json:"sentence"`
}

type sentenceResponse struct {
	Sentence string `json:"sentence"`
}

// Placeholder marks where the prompt takes the list of steps. Other '%'
// characters in the prompt are sent as written.
const Placeholder = "%s"

type Narrator struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewNarrator(llmClient llm.LLMClient, prompt string) *Narrator {
	return &Narrator{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Explain describes a found path. Without a model, or when the model fails,
// the sentence is the plain list of steps.
func (n *Narrator) Explain(ctx context.Context, byID map[string]model.Person, edges EdgeLookup, path model.Path) Explanation {
	steps := Steps(byID, edges, path)
	if len(steps) == 0 {
		return Explanation{Steps: steps}
	}

	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = s.String()
	}
	plain := strings.Join(lines, "\n")

	exp := Explanation{Steps: steps, Sentence: plain}
	if n.LLM == nil {
		return exp
	}

	prompt := n.prompt(plain) + "\n\nAnswer as JSON: {\"sentence\": \"...\"}"
	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Failed to narrate path: %v", err)
		return exp
	}

	result, err := common.ParseJSON[sentenceResponse](response)
	if err != nil || result.Sentence == "" {
		if trimmed := strings.TrimSpace(response); trimmed != "" {
			exp.Sentence = trimmed
		}
		return exp
	}
	exp.Sentence = result.Sentence
	return exp
}

func (n *Narrator) prompt(plain string) string {
	if !strings.Contains(n.Prompt, Placeholder) {
		return n.Prompt + "\n\n" + plain
	}
	return strings.Replace(n.Prompt, Placeholder, plain, 1)
}

// traversal is one edge crossed while walking the path.
type traversal struct {
	rel     model.Relation
	forward bool
}

// Steps folds the node/edge sequence of a path into person-to-person kinship
// steps. A hop through a union node is two traversals.
func Steps(byID map[string]model.Person, edges EdgeLookup, path model.Path) []Step {
	if !path.Found || len(path.Nodes) < 2 || len(path.Edges) != len(path.Nodes)-1 {
		return nil
	}

	name := func(id string) string {
		if p, ok := byID[id]; ok && p.Name != "" {
			return p.Name
		}
		return id
	}

	var steps []Step
	from := ""
	var pending []traversal

	for i, nodeID := range path.Nodes {
		if i > 0 {
			e, ok := edges.Edge(path.Edges[i-1])
			if !ok {
				return nil
			}
			pending = append(pending, traversal{rel: e.Data.Rel, forward: e.Data.Target == nodeID})
		}

		if _, isPerson := byID[nodeID]; !isPerson {
			continue
		}
		if from != "" {
			if kin, ok := classify(pending); ok {
				steps = append(steps, Step{From: name(from), To: name(nodeID), Relation: kin})
			}
		}
		from = nodeID
		pending = pending[:0]
	}

	return steps
}

func classify(ts []traversal) (Kinship, bool) {
	switch len(ts) {
	case 1:
		if ts[0].rel != model.RelationChild {
			return "", false
		}
		if ts[0].forward {
			return KinParent, true
		}
		return KinChild, true
	case 2:
		a, b := ts[0], ts[1]
		switch {
		case a.rel == model.RelationSpouse && b.rel == model.RelationSpouse:
			return KinSpouse, true
		case a.rel == model.RelationSpouse && b.rel == model.RelationChild && b.forward:
			return KinParent, true
		case a.rel == model.RelationChild && !a.forward && b.rel == model.RelationSpouse:
			return KinChild, true
		case a.rel == model.RelationChild && !a.forward && b.rel == model.RelationChild && b.forward:
			return KinSibling, true
		}
	}
	return "", false
}
