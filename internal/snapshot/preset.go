package snapshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads a YAML mapping of field identifier to value and returns the
// built-in defaults with the preset applied. A missing file yields the
// built-in defaults.
//
// Example:
//
//	priceNormal: 48,800
//	targetPeople: 17
//	ticketMode: exclude
func LoadPreset(path string) (Snapshot, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("read preset: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse preset yaml: %w", err)
	}

	return Merge(Defaults(), fromValues(raw)), nil
}
