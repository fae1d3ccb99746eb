package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a problem from a YAML or JSON file, chosen by extension, and
// validates it.
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem: %w", err)
	}

	var p *Problem
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		p, err = DecodeJSON(data)
	case ".yaml", ".yml", "":
		p, err = DecodeYAML(data)
	default:
		return nil, fmt.Errorf("read problem: unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func DecodeYAML(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: parse problem: %v", ErrInvalid, err)
	}
	return &p, nil
}

func DecodeJSON(data []byte) (*Problem, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p Problem
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: parse problem: %v", ErrInvalid, err)
	}
	return &p, nil
}
