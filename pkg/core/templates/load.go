package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// LoadFile reads a YAML list of templates and builds a manager from it.
func LoadFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var list []*Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse templates file %s: %w", path, err)
	}

	for _, t := range list {
		if err := model.ValidateStruct(t); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.ID, err)
		}
		if !t.Type.IsValid() {
			return nil, fmt.Errorf("template %q: unknown type %q", t.ID, t.Type)
		}
	}

	return NewManager(list)
}
