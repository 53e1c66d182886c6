// Package testutil provides shared test helpers for calc tests.
package testutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of inputs fed to one interpreter, with the
// expected outcome of each and of the final global state.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`

	// Globals maps names to the printed value they must have after the
	// last step.
	Globals map[string]string `yaml:"globals,omitempty"`

	// Undefined lists names that must not be bound globally after the
	// last step.
	Undefined []string `yaml:"undefined,omitempty"`

	// MaxCallDepth overrides the interpreter's call depth limit when set.
	MaxCallDepth int `yaml:"max_call_depth,omitempty"`
}

// Step is one input line.
type Step struct {
	Input string `yaml:"input"`

	// Want is the printed value of the input; empty means no value.
	Want string `yaml:"want,omitempty"`

	// Error is the kind of error the input must fail with, for example
	// "UndefinedSymbolError". Empty means the input must succeed.
	Error string `yaml:"error,omitempty"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads all scenarios from a YAML file. Unknown fields are
// rejected so that a misspelled key does not silently weaken a test.
func LoadScenarios(path string) ([]Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var doc scenarioFile
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for i, s := range doc.Scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("%s: scenario %d has no name", path, i)
		}
		if len(s.Steps) == 0 {
			return nil, fmt.Errorf("%s: scenario %q has no steps", path, s.Name)
		}
	}
	return doc.Scenarios, nil
}
