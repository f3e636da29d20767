package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/patchbump/internal/core"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// Reader reads manifest versions through a core.FileSystem.
type Reader struct {
	fs core.FileSystem
}

// NewReader creates a new Reader with the given filesystem.
func NewReader(fs core.FileSystem) *Reader {
	return &Reader{fs: fs}
}

// Read reads the version from the file described by cfg.
func (r *Reader) Read(ctx context.Context, cfg FileConfig) (*Result, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file path is required")
	}

	data, err := r.fs.ReadFile(ctx, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", cfg.Path, err)
	}

	result, err := Extract(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("in file %q: %w", cfg.Path, err)
	}
	result.Path = cfg.Path
	return result, nil
}

// ReadVersion is a convenience method that reads and returns just the version string.
func (r *Reader) ReadVersion(ctx context.Context, cfg FileConfig) (string, error) {
	result, err := r.Read(ctx, cfg)
	if err != nil {
		return "", err
	}
	return result.Version, nil
}

// Extract reads the version from manifest content already in memory, such as
// a blob read from git. The first candidate field holding a string wins.
func Extract(data []byte, cfg FileConfig) (*Result, error) {
	if !cfg.Format.IsValid() {
		return nil, fmt.Errorf("invalid format: %q", cfg.Format)
	}
	if len(cfg.Fields) == 0 {
		return nil, fmt.Errorf("at least one field is required for %s format", cfg.Format)
	}

	lookup, err := lookupFor(data, cfg.Format)
	if err != nil {
		return nil, err
	}

	for _, field := range cfg.Fields {
		value, found, err := lookup(field)
		if err != nil {
			return nil, err
		}
		if found {
			return &Result{Version: value, Format: cfg.Format, Field: field}, nil
		}
	}

	return nil, fmt.Errorf("%w: tried %s", ErrFieldNotFound, strings.Join(cfg.Fields, ", "))
}

// lookupFn resolves a dot-notation field to a string value.
type lookupFn func(field string) (value string, found bool, err error)

func lookupFor(data []byte, format Format) (lookupFn, error) {
	switch format {
	case FormatTOML:
		var obj map[string]any
		if err := toml.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		return mapLookup(obj), nil
	case FormatYAML:
		var obj map[string]any
		if err := yaml.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return mapLookup(obj), nil
	case FormatJSON:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("failed to parse JSON: invalid document")
		}
		return func(field string) (string, bool, error) {
			res := gjson.GetBytes(data, field)
			if !res.Exists() {
				return "", false, nil
			}
			if res.Type != gjson.String {
				return "", false, fmt.Errorf("field %q is not a string", field)
			}
			return res.Str, true, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func mapLookup(obj map[string]any) lookupFn {
	return func(field string) (string, bool, error) {
		value, ok := getNestedValue(obj, field)
		if !ok {
			return "", false, nil
		}
		version, isString := value.(string)
		if !isString {
			return "", false, fmt.Errorf("field %q is not a string", field)
		}
		return version, true, nil
	}
}

// getNestedValue retrieves a value from a nested map using dot notation.
// Example: "tool.poetry.version" accesses obj["tool"]["poetry"]["version"]
func getNestedValue(obj map[string]any, field string) (any, bool) {
	if field == "" {
		return nil, false
	}

	current := any(obj)
	for part := range strings.SplitSeq(field, ".") {
		currentMap, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := currentMap[part]
		if !exists {
			return nil, false
		}
		current = value
	}

	return current, true
}
