package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalJSON returns v as indented JSON.
func MarshalJSON(v any) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("value is required")
	}
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON writes v as JSON to the given path, creating parent
// directories as needed.
func WriteJSON(path string, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	return nil
}
