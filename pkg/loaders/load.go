package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsYAML reports whether path names a YAML scene
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads a scene file, choosing the format from its extension.
// Anything that is not .yaml or .yml is parsed as a world file.
func LoadFile(path string) ([]Descriptor, error) {
	if path == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	var descriptors []Descriptor
	if IsYAML(path) {
		descriptors, err = ParseYAML(file)
	} else {
		descriptors, err = ParseWorld(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descriptors, nil
}
