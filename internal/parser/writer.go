package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/indaco/patchbump/internal/core"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Writer rewrites manifest versions through a core.FileSystem.
type Writer struct {
	fs core.FileSystem
}

// NewWriter creates a new Writer with the given filesystem.
func NewWriter(fs core.FileSystem) *Writer {
	return &Writer{fs: fs}
}

// Write replaces the value of field in the file described by cfg with version.
// The file is left untouched if the field cannot be located.
func (w *Writer) Write(ctx context.Context, cfg FileConfig, field, version string) error {
	if cfg.Path == "" {
		return fmt.Errorf("file path is required")
	}

	data, err := w.fs.ReadFile(ctx, cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", cfg.Path, err)
	}

	updated, err := Rewrite(data, cfg.Format, field, version)
	if err != nil {
		return fmt.Errorf("in file %q: %w", cfg.Path, err)
	}

	if err := w.fs.WriteFile(ctx, cfg.Path, updated, core.PermManifest); err != nil {
		return fmt.Errorf("failed to write file %q: %w", cfg.Path, err)
	}

	return nil
}

// Rewrite returns data with the value at field replaced by version. Only the
// bytes of the old value change. The result is re-read to confirm the edit
// landed on the intended field.
func Rewrite(data []byte, format Format, field, version string) ([]byte, error) {
	if field == "" {
		return nil, fmt.Errorf("field is required for %s format", format)
	}

	var (
		updated []byte
		err     error
	)
	switch format {
	case FormatTOML:
		updated, err = rewriteTOML(data, field, version)
	case FormatJSON:
		updated, err = rewriteJSON(data, field, version)
	case FormatYAML:
		updated, err = rewriteYAML(data, field, version)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	check, err := Extract(updated, FileConfig{Format: format, Fields: []string{field}})
	if err != nil {
		return nil, fmt.Errorf("rewritten %s is unreadable: %w", format, err)
	}
	if check.Version != version {
		return nil, fmt.Errorf("rewrite of %q produced %q, want %q", field, check.Version, version)
	}

	return updated, nil
}

// rewriteJSON uses sjson, which edits the value in place and keeps key order
// and indentation.
func rewriteJSON(data []byte, field, version string) ([]byte, error) {
	existing := gjson.GetBytes(data, field)
	if !existing.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
	if existing.Type != gjson.String {
		return nil, fmt.Errorf("field %q is not a string", field)
	}

	updated, err := sjson.SetBytes(data, field, version)
	if err != nil {
		return nil, fmt.Errorf("failed to set %q: %w", field, err)
	}
	return updated, nil
}

// tomlHeader matches a standard table header, capturing its dotted name.
// Array-of-tables headers ([[...]]) are matched separately.
var (
	tomlHeader      = regexp.MustCompile(`^\s*\[\s*([^\[\]]+?)\s*\]\s*(#.*)?\s*$`)
	tomlArrayHeader = regexp.MustCompile(`^\s*\[\[`)
)

// rewriteTOML walks the document line by line tracking the current table. A
// key is matched either as a plain key inside its own table ([project] then
// version = ...) or as a dotted key relative to an enclosing table
// (project.version = ... at the top level).
func rewriteTOML(data []byte, field, version string) ([]byte, error) {
	lines := strings.SplitAfter(string(data), "\n")
	matcher := matcherFor("", field)
	multiline := ""

	for i, line := range lines {
		if multiline != "" {
			if strings.Count(line, multiline)%2 == 1 {
				multiline = ""
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case tomlArrayHeader.MatchString(line):
			matcher = nil
			continue
		case tomlHeader.MatchString(line):
			table := normalizeTOMLKey(tomlHeader.FindStringSubmatch(line)[1])
			matcher = matcherFor(table, field)
			continue
		}

		if matcher != nil {
			if m := matcher.FindStringSubmatchIndex(line); m != nil {
				start, end := m[2], m[3]
				if start < 0 {
					start, end = m[4], m[5]
				}
				lines[i] = line[:start] + version + line[end:]
				return []byte(strings.Join(lines, "")), nil
			}
		}

		for _, delim := range []string{`"""`, `'''`} {
			if strings.Count(line, delim)%2 == 1 {
				multiline = delim
				break
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
}

// matcherFor returns the key matcher for field while inside table, or nil
// when field cannot appear in that table.
func matcherFor(table, field string) *regexp.Regexp {
	rel, ok := relativeKey(table, field)
	if !ok {
		return nil
	}
	return tomlKeyValue(rel)
}

// relativeKey returns field relative to table when field lives in or below it.
func relativeKey(table, field string) (string, bool) {
	if table == "" {
		return field, true
	}
	if rel, ok := strings.CutPrefix(field, table+"."); ok && rel != "" {
		return rel, true
	}
	return "", false
}

// tomlKeyValue builds a matcher for `key = "value"` where key may be dotted
// and each part may be bare or quoted. Submatch 1 is a basic string body,
// submatch 2 a literal string body.
func tomlKeyValue(dotted string) *regexp.Regexp {
	parts := strings.Split(dotted, ".")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		q := regexp.QuoteMeta(p)
		quoted[i] = `(?:` + q + `|"` + q + `"|'` + q + `')`
	}
	pattern := `^\s*` + strings.Join(quoted, `\s*\.\s*`) + `\s*=\s*(?:"([^"\\\n]*)"|'([^'\n]*)')`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	return re
}

// normalizeTOMLKey strips whitespace and quotes from each part of a dotted key.
func normalizeTOMLKey(key string) string {
	parts := strings.Split(key, ".")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}
	return strings.Join(parts, ".")
}

// yamlKeyLine matches `key: value` lines; the value may be quoted and may be
// followed by a comment.
var yamlKeyLine = regexp.MustCompile(`^(\s*)(["']?)([^"'#:\s][^"'#:]*?)(["']?)\s*:(?:\s+(["']?)([^"'#\s]*)(["']?))?(\s*(?:#.*)?)\r?\n?$`)

// rewriteYAML tracks block-mapping indentation to resolve the dotted field path.
// Flow mappings and sequences are not traversed.
func rewriteYAML(data []byte, field, version string) ([]byte, error) {
	target := strings.Split(field, ".")
	lines := strings.SplitAfter(string(data), "\n")

	type frame struct {
		indent int
		key    string
	}
	var stack []frame

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || trimmed == "---" || strings.HasPrefix(trimmed, "- ") {
			continue
		}

		m := yamlKeyLine.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		indent := m[3] - m[2]
		key := line[m[6]:m[7]]

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, frame{indent: indent, key: key})

		if len(stack) != len(target) || m[12] < 0 || m[12] == m[13] {
			continue
		}
		matched := true
		for j, f := range stack {
			if f.key != target[j] {
				matched = false
				break
			}
		}
		if matched {
			lines[i] = line[:m[12]] + version + line[m[13]:]
			return []byte(strings.Join(lines, "")), nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
}
