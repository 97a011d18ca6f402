package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/agenthands/kinship/internal/core/detail"
)

type ServerConfig struct {
	Port      string `toml:"port" validate:"required,numeric"`
	StaticDir string `toml:"static_dir"`
}

type DatasetConfig struct {
	Path   string `toml:"path" validate:"required"`
	TreeID string `toml:"tree_id" validate:"required"`
}

// LayoutConfig is handed to the browser's hierarchical layout as is.
type LayoutConfig struct {
	Name    string `toml:"name" json:"name" validate:"required"`
	RankDir string `toml:"rank_dir" json:"rankDir" validate:"oneof=TB BT LR RL"`
	NodeSep int    `toml:"node_sep" json:"nodeSep" validate:"gte=0"`
	RankSep int    `toml:"rank_sep" json:"rankSep" validate:"gte=0"`
	EdgeSep int    `toml:"edge_sep" json:"edgeSep" validate:"gte=0"`
}

type ViewportConfig struct {
	MinZoom          float64 `toml:"min_zoom" json:"minZoom" validate:"gt=0"`
	MaxZoom          float64 `toml:"max_zoom" json:"maxZoom" validate:"gtfield=MinZoom"`
	ZoomStep         float64 `toml:"zoom_step" json:"zoomStep" validate:"gt=1"`
	CenterZoom       float64 `toml:"center_zoom" json:"centerZoom" validate:"gt=0"`
	WheelSensitivity float64 `toml:"wheel_sensitivity" json:"wheelSensitivity" validate:"gt=0"`
	FitPadding       int     `toml:"fit_padding" json:"fitPadding" validate:"gte=0"`
	PathPadding      int     `toml:"path_padding" json:"pathPadding" validate:"gte=0"`
}

type PathConfig struct {
	Engine   string `toml:"engine" validate:"oneof=memory memgraph"`
	Directed bool   `toml:"directed"`
}

type MemgraphConfig struct {
	URI           string `toml:"uri"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	ExportOnStart bool   `toml:"export_on_start"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider" validate:"omitempty,oneof=openai claude gemini ollama"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	System      string  `toml:"system"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=2"`
}

type NarrationConfig struct {
	Prompt string `toml:"prompt"`
}

type LabelsConfig struct {
	Male             string `toml:"male"`
	Female           string `toml:"female"`
	Children         string `toml:"children"`
	Spouse           string `toml:"spouse"`
	PlaceholderPhoto string `toml:"placeholder_photo"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Dataset   DatasetConfig   `toml:"dataset"`
	Layout    LayoutConfig    `toml:"layout"`
	Viewport  ViewportConfig  `toml:"viewport"`
	Path      PathConfig      `toml:"path"`
	Memgraph  MemgraphConfig  `toml:"memgraph"`
	LLM       LLMConfig       `toml:"llm"`
	Narration NarrationConfig `toml:"narration"`
	Labels    LabelsConfig    `toml:"labels"`
}

const DefaultNarrationPrompt = `You describe family relationships.
Given the chain of relations below, write one short sentence that states how the first person is related to the last one.

%s`

const DefaultLLMSystem = "You explain how people in a family tree are related. Reply with JSON only."

// Default returns the settings used when the config file leaves a key out.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", StaticDir: ""},
		Dataset: DatasetConfig{
			Path:   "data/family.json",
			TreeID: "family",
		},
		Layout: LayoutConfig{
			Name:    "dagre",
			RankDir: "TB",
			NodeSep: 30,
			RankSep: 60,
			EdgeSep: 10,
		},
		Viewport: ViewportConfig{
			MinZoom:          0.2,
			MaxZoom:          2.2,
			ZoomStep:         1.2,
			CenterZoom:       1.1,
			WheelSensitivity: 0.23,
			FitPadding:       30,
			PathPadding:      60,
		},
		Path: PathConfig{Engine: "memory"},
		Memgraph: MemgraphConfig{
			URI: "bolt://localhost:7687",
		},
		LLM: LLMConfig{
			System:      DefaultLLMSystem,
			MaxTokens:   300,
			Temperature: 0.2,
		},
		Narration: NarrationConfig{Prompt: DefaultNarrationPrompt},
	}
}

var validate = validator.New()

// Load reads a TOML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Port, "PORT")
	set(&c.Server.StaticDir, "STATIC_DIR")
	set(&c.Dataset.Path, "DATASET_PATH")
	set(&c.Dataset.TreeID, "TREE_ID")
	set(&c.Path.Engine, "PATH_ENGINE")
	set(&c.Memgraph.URI, "MEMGRAPH_URI")
	set(&c.Memgraph.User, "MEMGRAPH_USER")
	set(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.Model, "LLM_MODEL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	set(&c.LLM.BaseURL, "LLM_BASE_URL")

	if v := getenv("MEMGRAPH_EXPORT_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Memgraph.ExportOnStart = b
		}
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if n := strings.Count(c.Narration.Prompt, "%s"); n != 1 {
		return fmt.Errorf("invalid configuration: narration prompt has %d %%s placeholders, want 1", n)
	}
	return nil
}

// UsesMemgraph reports whether any feature needs the database connection.
func (c *Config) UsesMemgraph() bool {
	return c.Path.Engine == "memgraph" || c.Memgraph.ExportOnStart
}

// DetailLabels fills labels missing from the file with the defaults.
func (c *Config) DetailLabels() detail.Labels {
	labels := detail.DefaultLabels()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&labels.Male, c.Labels.Male)
	set(&labels.Female, c.Labels.Female)
	set(&labels.Children, c.Labels.Children)
	set(&labels.Spouse, c.Labels.Spouse)
	set(&labels.PlaceholderPhoto, c.Labels.PlaceholderPhoto)
	return labels
}
