package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/stackgraph/assert"
	"github.com/viant/stackgraph/graph"
)

// assertionFile is the on-disk YAML shape for a run's expectations, the
// CLI's own format rather than part of the core assert package (spec.md
// §1: the core does not parse source, and that includes assertion files).
type assertionFile struct {
	Assertions []assertionSpec `yaml:"assertions"`
}

type assertionSpec struct {
	Kind    string       `yaml:"kind"`
	File    string       `yaml:"file"`
	Line    int          `yaml:"line"`
	Column  int          `yaml:"column"`
	Targets []targetSpec `yaml:"targets,omitempty"`
	Symbols []string     `yaml:"symbols,omitempty"`
}

type targetSpec struct {
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

func loadAssertions(path string, g *graph.StackGraph) ([]assert.Assertion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assertions file %s: %w", path, err)
	}

	var file assertionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse assertions file %s: %w", path, err)
	}

	assertions := make([]assert.Assertion, 0, len(file.Assertions))
	for i, spec := range file.Assertions {
		a, err := spec.toAssertion(g)
		if err != nil {
			return nil, fmt.Errorf("assertions[%d]: %w", i, err)
		}
		assertions = append(assertions, a)
	}
	return assertions, nil
}

func (s assertionSpec) toAssertion(g *graph.StackGraph) (assert.Assertion, error) {
	kind, err := parseKind(s.Kind)
	if err != nil {
		return assert.Assertion{}, err
	}

	source := assert.Source{
		File: g.GetOrCreateFile(s.File),
		Position: graph.Position{
			Line:       s.Line - 1,
			Utf8Column: s.Column - 1,
		},
	}

	a := assert.Assertion{Kind: kind, Source: source}

	switch kind {
	case assert.Defined:
		for _, t := range s.Targets {
			a.Targets = append(a.Targets, assert.Target{
				File: g.GetOrCreateFile(t.File),
				Line: t.Line - 1,
			})
		}
	case assert.Defines, assert.Refers:
		for _, name := range s.Symbols {
			a.Symbols = append(a.Symbols, g.AddSymbol(name))
		}
	}

	return a, nil
}

func parseKind(s string) (assert.Kind, error) {
	switch s {
	case "defined":
		return assert.Defined, nil
	case "defines":
		return assert.Defines, nil
	case "refers":
		return assert.Refers, nil
	default:
		return 0, fmt.Errorf("unknown assertion kind %q (want defined, defines, or refers)", s)
	}
}
