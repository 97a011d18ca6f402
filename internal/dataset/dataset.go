// Package dataset reads the hand-curated family records from disk.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/kinship/internal/core/model"
)

// document is the wrapped form of a dataset file: {"people": [...]}.
type document struct {
	People []model.Person `json:"people" toml:"people" yaml:"people"`
}

// Load reads a .json, .toml, .yaml or .yml dataset. JSON files may hold a
// bare array of people or a {"people": [...]} document. Records without an id
// are dropped.
func Load(path string) ([]model.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset '%s': %w", path, err)
	}

	people, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset '%s': %w", path, err)
	}
	return people, nil
}

// Parse decodes a dataset in the format named by ext (".json", ".toml", ...).
func Parse(data []byte, ext string) ([]model.Person, error) {
	var people []model.Person

	switch strings.ToLower(ext) {
	case ".json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &people); err != nil {
				return nil, err
			}
		} else {
			var doc document
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, err
			}
			people = doc.People
		}
	case ".toml":
		var doc document
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		people = doc.People
	case ".yaml", ".yml":
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		people = doc.People
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}

	kept := people[:0]
	for i, p := range people {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			log.Printf("Warning: dataset record #%d (%q) has no id, skipping", i, p.Name)
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

// Index maps person ids to records. The first record of a duplicated id wins.
func Index(people []model.Person) map[string]model.Person {
	byID := make(map[string]model.Person, len(people))
	for _, p := range people {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}
	return byID
}
