package harness

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines one simulator conformance case.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden
	// file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Source is the inline program text.
	Source string `yaml:"source"`

	// Complexity overrides the topology hardening count when positive.
	Complexity int `yaml:"complexity,omitempty"`

	// Shots overrides the topology shot count when positive.
	Shots int `yaml:"shots,omitempty"`

	// Noise is the simulator's uniform scatter fraction.
	Noise float64 `yaml:"noise,omitempty"`

	// Expect validates the decoded result. Nil skips validation.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected decoded outcome. Only set fields
// are checked.
type ExpectClause struct {
	// Values are the expected decoded unit values in allocation order.
	Values []int `yaml:"values,omitempty"`

	// MinConfidence is the lowest acceptable average vote confidence.
	MinConfidence float64 `yaml:"min_confidence,omitempty"`

	// TopState is the expected dominant outcome bitstring.
	TopState string `yaml:"top_state,omitempty"`

	// Marginal, when set, asserts the dominance marginality flag.
	Marginal *bool `yaml:"marginal,omitempty"`

	// Significant, when set, asserts the z-score threshold flag.
	Significant *bool `yaml:"significant,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns every .yaml/.yml file under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if s.Noise < 0 || s.Noise >= 1 {
		return fmt.Errorf("noise %g out of [0,1)", s.Noise)
	}
	if s.Complexity < 0 {
		return fmt.Errorf("complexity must not be negative")
	}
	if s.Shots < 0 {
		return fmt.Errorf("shots must not be negative")
	}
	return nil
}
