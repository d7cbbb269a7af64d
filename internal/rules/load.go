package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, decodes and validates the rule document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a rule document. YAML is a superset of JSON,
// so rule files in either format decode.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrConfig, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks every collection against the closed vocabulary so that
// bad rule files fail at load time, not halfway through processing.
func (d *Document) Validate() error {
	for i, c := range d.Collections {
		if err := c.validate(); err != nil {
			name := c.Description
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return fmt.Errorf("collection %s: %w", name, err)
		}
	}
	return nil
}

func (c Collection) validate() error {
	switch c.Match {
	case MatchAll, MatchAny:
	default:
		return fmt.Errorf("%w: %q", ErrMatchPolicy, string(c.Match))
	}
	for _, r := range c.Rules {
		if _, ok := columnFor[r.Field]; !ok {
			return fmt.Errorf("%w: %q", ErrField, string(r.Field))
		}
		if _, ok := predicateFor[r.Predicate]; !ok {
			return fmt.Errorf("%w: %q", ErrPredicate, string(r.Predicate))
		}
		if r.Field == FieldReceived {
			if _, err := ParseAge(r.Value); err != nil {
				return err
			}
		}
	}
	for _, a := range c.Actions {
		if _, _, err := a.labels(); err != nil {
			return err
		}
	}
	return nil
}
