package league

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML (or JSON, which YAML accepts) league file.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse league file: %w", err)
	}
	if err := s.index(); err != nil {
		return nil, fmt.Errorf("invalid league file: %w", err)
	}
	return &s, nil
}

// LoadFile reads and indexes a league file from disk.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read league file %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes the snapshot in the league file format.
func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// SaveFile writes the snapshot to path, creating parent directories.
func (s *Snapshot) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode league file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write league file %s: %w", path, err)
	}
	return nil
}
