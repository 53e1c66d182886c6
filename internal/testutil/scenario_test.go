package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenarios(t *testing.T) {
	path := writeFile(t, `
scenarios:
  - name: read back
    steps:
      - input: x = 5
      - input: x + 1
        want: "6"
      - input: y
        error: UndefinedSymbolError
    globals:
      x: "5"
    undefined: [y]
`)

	scenarios, err := LoadScenarios(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(scenarios))
	}

	s := scenarios[0]
	if s.Name != "read back" || len(s.Steps) != 3 {
		t.Errorf("unexpected scenario %+v", s)
	}
	if s.Steps[1].Want != "6" || s.Steps[2].Error != "UndefinedSymbolError" {
		t.Errorf("unexpected steps %+v", s.Steps)
	}
	if s.Globals["x"] != "5" || len(s.Undefined) != 1 {
		t.Errorf("unexpected final state %v %v", s.Globals, s.Undefined)
	}
}

func TestLoadScenarios_Empty(t *testing.T) {
	scenarios, err := LoadScenarios(writeFile(t, ""))
	if err != nil || scenarios != nil {
		t.Errorf("LoadScenarios(empty) = %v, %v", scenarios, err)
	}
}

func TestLoadScenarios_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "unknown field",
			content: "scenarios:\n  - name: a\n    stepz: []\n",
			errText: "stepz",
		},
		{
			name:    "missing name",
			content: "scenarios:\n  - steps:\n      - input: x\n",
			errText: "no name",
		},
		{
			name:    "no steps",
			content: "scenarios:\n  - name: empty\n",
			errText: "no steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenarios(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not mention %q", err, tt.errText)
			}
		})
	}
}

func TestLoadScenarios_MissingFile(t *testing.T) {
	if _, err := LoadScenarios(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
