package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/detail"
	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/highlight"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/core/narrate"
	"github.com/agenthands/kinship/internal/metrics"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownAction = errors.New("unknown action")
)

const (
	ActionSelectA     = "select-person-a"
	ActionSelectB     = "select-person-b"
	ActionFindPath    = "find-path"
	ActionClearPath   = "clear-path"
	ActionFitView     = "fit-view"
	ActionZoomIn      = "zoom-in"
	ActionZoomOut     = "zoom-out"
	ActionOpenDetail  = "open-person-detail"
	ActionCloseDetail = "close-detail"
	ActionCenterNode  = "center-node"
	ActionExplainPath = "explain-path"
)

// Action is one user interaction. Zoom, when set, reports the zoom level the
// browser currently shows so that wheel zooming is not lost.
type Action struct {
	Name     string  `json:"action" validate:"required"`
	PersonID string  `json:"person_id"`
	Zoom     float64 `json:"zoom" validate:"gte=0"`
}

// Viewport is the camera the browser should apply. Revision grows with every
// change; Fit lists the elements to frame, empty meaning the whole graph.
type Viewport struct {
	Revision int      `json:"revision"`
	Zoom     float64  `json:"zoom"`
	Fit      []string `json:"fit,omitempty"`
	FitAll   bool     `json:"fit_all"`
	Padding  int      `json:"padding"`
	Center   string   `json:"center,omitempty"`
}

// View is the full state one browser tab renders.
type View struct {
	SessionID   string               `json:"session_id"`
	SelectedA   string               `json:"selected_a"`
	SelectedB   string               `json:"selected_b"`
	State       highlight.State      `json:"state"`
	Found       bool                 `json:"found"`
	Path        []string             `json:"path"`
	Classes     map[string][]string  `json:"classes"`
	Viewport    Viewport             `json:"viewport"`
	Detail      *detail.Card         `json:"detail,omitempty"`
	Explanation *narrate.Explanation `json:"explanation,omitempty"`
}

// Session is the interaction state of one viewer over the shared tree.
type Session struct {
	ID string

	mu          sync.Mutex
	tree        *core.Tree
	graph       *graph.Graph
	highlighter *highlight.Highlighter
	viewport    config.ViewportConfig

	selectedA   string
	selectedB   string
	camera      Viewport
	detail      *detail.Card
	explanation *narrate.Explanation

	// lastSeen is unix nanoseconds, read by the store without taking mu.
	lastSeen atomic.Int64
}

func New(id string, tree *core.Tree, viewport config.ViewportConfig, directed bool) *Session {
	g := graph.New(tree.Index)
	h := highlight.NewHighlighter(g, tree.PathFinder())
	h.Directed = directed

	s := &Session{
		ID:          id,
		tree:        tree,
		graph:       g,
		highlighter: h,
		viewport:    viewport,
		camera: Viewport{
			Zoom:    1,
			FitAll:  true,
			Padding: viewport.FitPadding,
		},
	}
	s.touch(time.Now())
	return s
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Dispatch applies one action and returns the resulting view.
func (s *Session) Dispatch(ctx context.Context, action Action) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(time.Now())
	if action.Zoom > 0 {
		s.camera.Zoom = s.clampZoom(action.Zoom)
	}

	if err := s.apply(ctx, action); err != nil {
		return s.view(), err
	}
	metrics.Actions.WithLabelValues(action.Name).Inc()
	return s.view(), nil
}

func (s *Session) apply(ctx context.Context, action Action) error {
	switch action.Name {
	case ActionSelectA, ActionSelectB:
		_, known := s.tree.ByID[action.PersonID]
		id := action.PersonID
		if !known {
			id = ""
		}
		if action.Name == ActionSelectA {
			s.selectedA = id
		} else {
			s.selectedB = id
		}
		s.explanation = nil
		if !known && action.PersonID != "" {
			s.highlighter.Clear()
			return fmt.Errorf("person %s: %w", action.PersonID, ErrNotFound)
		}
		if s.selectedA != "" && s.selectedB != "" {
			s.highlight(ctx)
		} else {
			s.highlighter.Clear()
		}

	case ActionFindPath:
		s.explanation = nil
		s.highlight(ctx)

	case ActionClearPath:
		s.selectedA, s.selectedB = "", ""
		s.explanation = nil
		s.highlighter.Clear()
		s.fitAll()

	case ActionFitView:
		s.fitAll()

	case ActionZoomIn:
		s.zoom(s.camera.Zoom * s.viewport.ZoomStep)

	case ActionZoomOut:
		s.zoom(s.camera.Zoom / s.viewport.ZoomStep)

	case ActionOpenDetail:
		card, ok := s.tree.Card(action.PersonID)
		if !ok {
			return fmt.Errorf("person %s: %w", action.PersonID, ErrNotFound)
		}
		s.detail = &card

	case ActionCloseDetail:
		s.detail = nil

	case ActionCenterNode:
		if !s.tree.Index.HasNode(action.PersonID) {
			return fmt.Errorf("node %s: %w", action.PersonID, ErrNotFound)
		}
		s.camera = Viewport{
			Revision: s.camera.Revision + 1,
			Zoom:     s.clampZoom(s.viewport.CenterZoom),
			Center:   action.PersonID,
		}

	case ActionExplainPath:
		s.explain(ctx)

	default:
		return fmt.Errorf("%q: %w", action.Name, ErrUnknownAction)
	}
	return nil
}

// highlight searches the selected pair; a found path is framed with the
// path padding.
func (s *Session) highlight(ctx context.Context) {
	result := s.highlighter.Highlight(ctx, s.selectedA, s.selectedB)
	if !result.Found {
		return
	}
	s.camera = Viewport{
		Revision: s.camera.Revision + 1,
		Zoom:     s.camera.Zoom,
		Fit:      result.Path,
		Padding:  s.viewport.PathPadding,
	}
}

func (s *Session) explain(ctx context.Context) {
	last := s.highlighter.Last()
	if !last.Found {
		s.explanation = nil
		return
	}

	// Paths alternate node, edge, node; ids alone cannot tell them apart.
	path := model.Path{Found: true, Elements: last.Path}
	for i, id := range last.Path {
		if i%2 == 0 {
			path.Nodes = append(path.Nodes, id)
		} else {
			path.Edges = append(path.Edges, id)
		}
	}

	exp := s.tree.Narrator.Explain(ctx, s.tree.ByID, s.tree.Index, path)
	s.explanation = &exp
}

func (s *Session) fitAll() {
	s.camera = Viewport{
		Revision: s.camera.Revision + 1,
		Zoom:     s.camera.Zoom,
		FitAll:   true,
		Padding:  s.viewport.FitPadding,
	}
}

func (s *Session) zoom(level float64) {
	s.camera = Viewport{
		Revision: s.camera.Revision + 1,
		Zoom:     s.clampZoom(level),
	}
}

func (s *Session) clampZoom(level float64) float64 {
	return math.Max(s.viewport.MinZoom, math.Min(s.viewport.MaxZoom, level))
}

func (s *Session) view() View {
	last := s.highlighter.Last()

	classes := make(map[string][]string)
	for _, class := range []string{highlight.ClassHighlight, highlight.ClassDim} {
		for _, id := range s.graph.Marked(class) {
			classes[id] = s.graph.Classes(id)
		}
	}

	return View{
		SessionID:   s.ID,
		SelectedA:   s.selectedA,
		SelectedB:   s.selectedB,
		State:       s.highlighter.State(),
		Found:       last.Found,
		Path:        last.Path,
		Classes:     classes,
		Viewport:    s.camera,
		Detail:      s.detail,
		Explanation: s.explanation,
	}
}

func (s *Session) touch(t time.Time) {
	s.lastSeen.Store(t.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}
