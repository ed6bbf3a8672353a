package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ReadFile reads an index file.  The encoding is chosen by extension: ".json"
// or ".pb".
func ReadFile(filename string) (*IndexSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var spec IndexSpec
	switch filepath.Ext(filename) {
	case ".json":
		if err := json.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", filename, err)
		}
	case ".pb":
		if err := Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("%s: unknown index file extension (want .json or .pb)", filename)
	}
	return &spec, nil
}

// WriteFile writes an index file.  The encoding is chosen by extension, as
// for ReadFile.
func WriteFile(filename string, spec *IndexSpec) error {
	var data []byte
	switch filepath.Ext(filename) {
	case ".json":
		var err error
		data, err = json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
	case ".pb":
		data = Marshal(spec)
	default:
		return fmt.Errorf("%s: unknown index file extension (want .json or .pb)", filename)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
