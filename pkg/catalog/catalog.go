// Package catalog loads decision graphs from YAML or JSON documents and ships
// the default HackHope quiz.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/quizflow/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

//go:embed hackhope.yaml
var defaultGraph []byte

// File is the on-disk representation of a decision graph.
type File struct {
	Start     string            `yaml:"start" json:"start"`
	Questions []domain.Question `yaml:"questions" json:"questions"`
	Results   []domain.Result   `yaml:"results" json:"results"`
}

// Default returns the embedded HackHope quiz.
func Default() (*domain.Graph, error) {
	return Parse(defaultGraph, FormatYAML)
}

// MustDefault is like Default but panics if the embedded data is invalid.
func MustDefault() *domain.Graph {
	g, err := Default()
	if err != nil {
		panic(err)
	}
	return g
}

// Load reads a graph file. Files ending in .json are parsed as JSON, everything else as YAML.
func Load(path string) (*domain.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	format := FormatYAML
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = FormatJSON
	}

	g, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes and validates a graph document.
func Parse(data []byte, format Format) (*domain.Graph, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse graph json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse graph yaml: %w", err)
		}
	}
	return domain.NewGraph(f.Start, f.Questions, f.Results)
}

// Encode renders a graph back into the document format.
func Encode(g *domain.Graph, format Format) ([]byte, error) {
	f := File{
		Start:     g.Start(),
		Questions: g.Questions(),
		Results:   g.Results(),
	}
	if format == FormatJSON {
		return json.MarshalIndent(f, "", "  ")
	}
	return yaml.Marshal(f)
}
