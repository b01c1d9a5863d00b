package rules

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parse decodes a rule document from JSON. Validation is intentionally
// minimal: the engine surfaces unknown ops and bad references at
// execution time, with rule ids attached, which is where a document
// author can actually act on them.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule document: %w", err)
	}
	if doc.Actions == nil {
		doc.Actions = map[string]Rule{}
	}
	if doc.Abilities == nil {
		doc.Abilities = map[string]Rule{}
	}
	return &doc, nil
}

// Load reads and parses a rule document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule document %s: %w", path, err)
	}
	return Parse(data)
}
