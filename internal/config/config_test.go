package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[dataset]
path = "people.yaml"

[layout]
rank_dir = "LR"

[viewport]
max_zoom = 3.0

[labels]
male = "Male"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "people.yaml", cfg.Dataset.Path)
	assert.Equal(t, "family", cfg.Dataset.TreeID)
	assert.Equal(t, "LR", cfg.Layout.RankDir)
	assert.Equal(t, 60, cfg.Layout.RankSep)
	assert.Equal(t, 3.0, cfg.Viewport.MaxZoom)
	assert.Equal(t, 0.2, cfg.Viewport.MinZoom)
	assert.Equal(t, "Male", cfg.Labels.Male)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "[layout\nname ="))
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":                     "9090",
		"DATASET_PATH":             "/srv/family.toml",
		"MEMGRAPH_URI":             "bolt://db:7687",
		"LLM_PROVIDER":             "openai",
		"MEMGRAPH_EXPORT_ON_START": "true",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/family.toml", cfg.Dataset.Path)
	assert.Equal(t, "bolt://db:7687", cfg.Memgraph.URI)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.True(t, cfg.Memgraph.ExportOnStart)
	assert.True(t, cfg.UsesMemgraph())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad rank dir", func(c *Config) { c.Layout.RankDir = "UP" }},
		{"inverted zoom bounds", func(c *Config) { c.Viewport.MaxZoom = 0.1 }},
		{"zoom step too small", func(c *Config) { c.Viewport.ZoomStep = 1 }},
		{"unknown engine", func(c *Config) { c.Path.Engine = "neo4j" }},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "parrot" }},
		{"non numeric port", func(c *Config) { c.Server.Port = "http" }},
		{"no dataset", func(c *Config) { c.Dataset.Path = "" }},
		{"prompt without placeholder", func(c *Config) { c.Narration.Prompt = "Describe the family." }},
		{"prompt with two placeholders", func(c *Config) { c.Narration.Prompt = "%s and %s" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), "invalid configuration")
		})
	}
}

func TestValidate_PromptWithPercentSign(t *testing.T) {
	cfg := Default()
	cfg.Narration.Prompt = "Be 100% sure.\n%s"
	assert.NoError(t, cfg.Validate())
}

func TestDetailLabels(t *testing.T) {
	cfg := Default()
	cfg.Labels.Male = "Male"

	labels := cfg.DetailLabels()
	assert.Equal(t, "Male", labels.Male)
	assert.Equal(t, "נקבה", labels.Female)
	assert.Equal(t, "https://via.placeholder.com/300x300?text=Photo", labels.PlaceholderPhoto)
}
