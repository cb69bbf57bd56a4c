package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: which definitions to
// compile and what each input must produce.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Defs lists paths to CUE definition files, relative to the
	// scenario file location.
	Defs []string `yaml:"defs"`

	// Cases are evaluated in order against the compiled schema.
	Cases []Case `yaml:"cases"`
}

// Case is one input with its expectation.
type Case struct {
	// Input is the evaluation input. Decoded strictly: floats and
	// null are rejected at run time.
	Input any `yaml:"input"`

	// Expect holds exactly one kind of expectation.
	Expect Expect `yaml:"expect"`
}

// Expect specifies what a case must produce. Exactly one of Record,
// Order, or Error must be set.
type Expect struct {
	// Record is the full expected result record.
	Record map[string]any `yaml:"record,omitempty"`

	// Order is the expected evaluation order (all properties).
	Order []string `yaml:"order,omitempty"`

	// Error expects the evaluation to fail.
	Error *ExpectError `yaml:"error,omitempty"`
}

// ExpectError matches an evaluation failure by code and property.
type ExpectError struct {
	// Code is the expected EvalError code, e.g. "NO_MATCHING_CLAUSE".
	Code string `yaml:"code"`

	// Property is the property the failure must name.
	Property string `yaml:"property"`
}

// LoadScenario reads and parses a scenario YAML file. Definition paths
// are resolved relative to the scenario file. Unknown fields are
// rejected, so a typoed key fails loudly instead of silently passing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, def := range scenario.Defs {
		if !filepath.IsAbs(def) {
			scenario.Defs[i] = filepath.Join(base, def)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and each
// case carries exactly one expectation.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Defs) == 0 {
		return fmt.Errorf("defs list is required and must be non-empty")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for _, def := range s.Defs {
		if _, err := os.Stat(def); os.IsNotExist(err) {
			return fmt.Errorf("definition file not found: %s", def)
		}
	}

	for i, c := range s.Cases {
		if c.Input == nil {
			return fmt.Errorf("cases[%d]: input is required", i)
		}
		set := 0
		if c.Expect.Record != nil {
			set++
		}
		if len(c.Expect.Order) > 0 {
			set++
		}
		if c.Expect.Error != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("cases[%d]: exactly one of expect.record, expect.order, expect.error is required", i)
		}
		if c.Expect.Error != nil {
			if c.Expect.Error.Code == "" {
				return fmt.Errorf("cases[%d].expect.error: code is required", i)
			}
			if c.Expect.Error.Property == "" {
				return fmt.Errorf("cases[%d].expect.error: property is required", i)
			}
		}
	}

	return nil
}
