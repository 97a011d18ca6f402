package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/export"
	"github.com/agenthands/kinship/internal/core/highlight"
	"github.com/agenthands/kinship/internal/core/narrate"
	"github.com/agenthands/kinship/internal/dataset"
	"github.com/agenthands/kinship/internal/driver"
	"github.com/agenthands/kinship/internal/llm"
	"github.com/agenthands/kinship/internal/session"
	"github.com/agenthands/kinship/web"
)

type Server struct {
	Config   *config.Config
	Tree     *core.Tree
	Sessions *session.Store
	Driver   driver.GraphDriver
	Static   fs.FS
}

var validate = validator.New()

func New(cfg *config.Config, tree *core.Tree) *Server {
	return &Server{
		Config:   cfg,
		Tree:     tree,
		Sessions: session.NewStore(tree, cfg.Viewport, cfg.Path.Directed),
		Static:   web.Files,
	}
}

// NewServer loads the dataset and wires the optional database and model
// clients described by cfg.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	people, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	narrator := narrate.NewNarrator(llmClient, cfg.Narration.Prompt)

	tree := core.NewTree(cfg.Dataset.TreeID, people, cfg.DetailLabels(), narrator)
	log.Printf("Loaded %d people from %s", len(tree.People), cfg.Dataset.Path)

	var d driver.GraphDriver
	if cfg.UsesMemgraph() {
		d, err = driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			log.Printf("Warning: failed to build indices: %v", err)
		}
		if cfg.Memgraph.ExportOnStart {
			if _, err := export.NewExporter(d).Export(ctx, tree.ID, tree.Genders(), tree.Elements()); err != nil {
				d.Close(ctx)
				return nil, err
			}
		}
		if cfg.Path.Engine == "memgraph" {
			if !cfg.Memgraph.ExportOnStart {
				checkStoredTree(ctx, export.NewExporter(d), tree.ID)
			}
			tree.Finder = highlight.NewCypherFinder(d, tree.ID)
		}
	}

	s := New(cfg, tree)
	s.Driver = d
	if cfg.Server.StaticDir != "" {
		s.Static = nil
	}
	return s, nil
}

// checkStoredTree warns when path search will go to a database that holds no
// copy of the tree, since every search would then report no path.
func checkStoredTree(ctx context.Context, x *export.Exporter, treeID string) bool {
	n, err := x.Stored(ctx, treeID)
	if err != nil {
		log.Printf("Warning: could not check tree %s in Memgraph: %v", treeID, err)
		return false
	}
	if n == 0 {
		log.Printf("Warning: tree %s is not in Memgraph; path search will find nothing until it is exported (kinctl export or memgraph.export_on_start)", treeID)
		return false
	}
	return true
}

func (s *Server) Close(ctx context.Context) error {
	if s.Driver == nil {
		return nil
	}
	return s.Driver.Close(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	if s.Static != nil {
		r.GET("/", s.Index)
		r.StaticFS("/static", http.FS(s.Static))
	} else {
		dir := s.Config.Server.StaticDir
		r.StaticFile("/", filepath.Join(dir, "index.html"))
		r.Static("/static", dir)
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/config", s.GetConfig)
	api.GET("/elements", s.GetElements)
	api.GET("/people", s.GetPeople)
	api.GET("/branches", s.GetBranches)
	api.POST("/sessions", s.CreateSession)
	api.GET("/sessions/:id", s.GetSession)
	api.POST("/sessions/:id/actions", s.Dispatch)
	api.DELETE("/sessions/:id", s.DeleteSession)

	return r
}

func (s *Server) Index(c *gin.Context) {
	page, err := fs.ReadFile(s.Static, "index.html")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"layout":   s.Config.Layout,
		"viewport": s.Config.Viewport,
		"labels":   s.Tree.Labels,
	})
}

func (s *Server) GetElements(c *gin.Context) {
	c.JSON(http.StatusOK, s.Tree.Elements())
}

func (s *Server) GetPeople(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"people": s.Tree.Options()})
}

func (s *Server) GetBranches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"branches": s.Tree.Branches})
}

func (s *Server) CreateSession(c *gin.Context) {
	sess := s.Sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"session_id": sess.ID, "view": sess.View()})
}

func (s *Server) GetSession(c *gin.Context) {
	sess, ok := s.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": sess.View()})
}

func (s *Server) Dispatch(c *gin.Context) {
	sess, ok := s.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var action session.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := validate.Struct(action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := sess.Dispatch(c.Request.Context(), action)
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "view": view})
	case errors.Is(err, session.ErrUnknownAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "view": view})
	case err != nil:
		log.Printf("Failed to apply %s: %v", action.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply action"})
	default:
		c.JSON(http.StatusOK, gin.H{"view": view})
	}
}

func (s *Server) DeleteSession(c *gin.Context) {
	if !s.Sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
