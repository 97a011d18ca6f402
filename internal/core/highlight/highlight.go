package highlight

import (
	"context"
	"log"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/metrics"
)

const (
	ClassHighlight = "highlight"
	ClassDim       = "dim"
)

type State string

const (
	StateCleared     State = "cleared"
	StateSearching   State = "searching"
	StateHighlighted State = "highlighted"
)

// Canvas is the part of the rendered graph the highlighter drives.
type Canvas interface {
	HasNode(id string) bool
	ElementIDs() []string
	AddClass(ids []string, class string)
	RemoveClass(class string)
}

// PathFinder is a generic shortest-path search over the current element set.
type PathFinder interface {
	ShortestPath(ctx context.Context, root, goal string, directed bool) (model.Path, error)
}

type Result struct {
	Found  bool     `json:"found"`
	Path   []string `json:"path"`
	Others []string `json:"others"`
}

type Highlighter struct {
	Canvas   Canvas
	Finder   PathFinder
	Directed bool

	state State
	last  Result
}

func NewHighlighter(canvas Canvas, finder PathFinder) *Highlighter {
	return &Highlighter{
		Canvas: canvas,
		Finder: finder,
		state:  StateCleared,
	}
}

func (h *Highlighter) State() State { return h.state }

// Last is the result of the most recent highlight, empty after a clear.
func (h *Highlighter) Last() Result { return h.last }

// Clear removes every highlight and dim mark.
func (h *Highlighter) Clear() {
	h.Canvas.RemoveClass(ClassHighlight)
	h.Canvas.RemoveClass(ClassDim)
	h.state = StateCleared
	h.last = Result{}
}

// Highlight marks the shortest path between startID and endID and dims the
// rest of the graph. Previous marks are always cleared first. Empty, equal or
// unknown endpoints clear and report not found without searching.
func (h *Highlighter) Highlight(ctx context.Context, startID, endID string) Result {
	h.Clear()

	if startID == "" || endID == "" || startID == endID {
		metrics.PathSearches.WithLabelValues("skipped").Inc()
		return h.last
	}
	if !h.Canvas.HasNode(startID) || !h.Canvas.HasNode(endID) {
		metrics.PathSearches.WithLabelValues("skipped").Inc()
		return h.last
	}

	h.state = StateSearching
	path, err := h.Finder.ShortestPath(ctx, startID, endID, h.Directed)
	if err != nil {
		log.Printf("Path search %s -> %s failed: %v", startID, endID, err)
		metrics.PathSearches.WithLabelValues("error").Inc()
		h.state = StateCleared
		return h.last
	}
	if !path.Found {
		metrics.PathSearches.WithLabelValues("not_found").Inc()
		h.state = StateCleared
		return h.last
	}

	inPath := make(map[string]bool, len(path.Elements))
	for _, id := range path.Elements {
		inPath[id] = true
	}
	var others []string
	for _, id := range h.Canvas.ElementIDs() {
		if !inPath[id] {
			others = append(others, id)
		}
	}

	h.Canvas.AddClass(path.Elements, ClassHighlight)
	h.Canvas.AddClass(others, ClassDim)

	metrics.PathSearches.WithLabelValues("found").Inc()
	metrics.PathLength.Observe(float64(path.Length()))

	h.state = StateHighlighted
	h.last = Result{Found: true, Path: path.Elements, Others: others}
	return h.last
}
