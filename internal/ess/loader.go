package ess

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes a v8 stylesheet from raw JSON. Documents declaring any
// other schema version are rejected.
func Parse(data []byte) (*Stylesheet, error) {
	var sheet Stylesheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("decoding stylesheet: %w", err)
	}
	if sheet.Version != 8 {
		return nil, fmt.Errorf("unsupported stylesheet version %d, want 8", sheet.Version)
	}
	return &sheet, nil
}

// Load reads and decodes a stylesheet from a file.
func Load(path string) (*Stylesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet %s: %w", path, err)
	}
	return Parse(data)
}
