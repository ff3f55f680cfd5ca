package scenario

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

var validate = validator.New()

// Validate checks the structural tags plus the per-action required fields
// the tags cannot express.
func (sc *Scenario) Validate() error {
	if err := validate.Struct(sc); err != nil {
		return err
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case ActionNavigate:
			if st.URL == "" {
				return fmt.Errorf("step %d: navigate requires url", i)
			}
		case ActionClick, ActionAssertVisible:
			if st.Role == "" || st.Name == "" {
				return fmt.Errorf("step %d: %s requires role and name", i, st.Action)
			}
		case ActionAssertText:
			if st.Text == "" {
				return fmt.Errorf("step %d: assert-text-visible requires text", i)
			}
		}
	}
	return nil
}

// Load reads and validates a scenario definition from a TOML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a TOML scenario definition.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}
