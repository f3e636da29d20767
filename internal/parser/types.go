package parser

import (
	"errors"
	"strings"
)

// Format represents a supported manifest file format.
type Format string

const (
	// FormatTOML is for TOML manifests (pyproject.toml, Cargo.toml).
	FormatTOML Format = "toml"

	// FormatJSON is for JSON manifests (package.json).
	FormatJSON Format = "json"

	// FormatYAML is for YAML manifests (Chart.yaml).
	FormatYAML Format = "yaml"
)

// ErrFieldNotFound is returned when none of the candidate fields holds a version.
var ErrFieldNotFound = errors.New("version field not found")

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatTOML, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// FormatForFile detects the format from the file extension.
// The second result is false for unsupported extensions.
func FormatForFile(filename string) (Format, bool) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".toml"):
		return FormatTOML, true
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, true
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, true
	default:
		return "", false
	}
}

// FileConfig describes where the version lives in a manifest.
type FileConfig struct {
	// Path is the file path (absolute or relative).
	Path string

	// Format specifies the file format.
	Format Format

	// Fields are candidate dot-notation paths to the version, tried in order.
	// Example: "project.version", "tool.poetry.version"
	Fields []string
}

// Result represents the result of reading a version from a manifest.
type Result struct {
	// Version is the extracted version string.
	Version string

	// Path is the file path that was read (empty for in-memory content).
	Path string

	// Format is the format that was used.
	Format Format

	// Field is the candidate field that matched.
	Field string
}
