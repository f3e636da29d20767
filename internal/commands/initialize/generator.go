package initialize

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/indaco/patchbump/internal/config"
)

const configHeader = `# patchbump configuration file
#
# Staged changes are attributed to packages; every changed package whose
# version was not edited by hand gets its patch version bumped.
# Command-line flags override these values.

`

// GenerateConfigWithComments renders cfg as YAML with a short explanation
// above each key. The output is checked to load back cleanly.
func GenerateConfigWithComments(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	entries := []struct {
		comment string
		key     string
		value   any
		skip    bool
	}{
		{"dirs: packages are one level below package-dirs. walk: nearest manifest.", "mode", cfg.Mode, false},
		{"Parent directories of the packages (dirs mode).", "package-dirs", cfg.PackageDirs, cfg.Mode == "walk"},
		{"Package directory names that are never bumped.", "ignore-packages", cfg.IgnorePackages, len(cfg.IgnorePackages) == 0},
		{"Regular expressions; matching files and package paths are ignored.", "ignore-patterns", cfg.IgnorePatterns, len(cfg.IgnorePatterns) == 0},
		{"Manifest files that mark a package directory.", "manifests", cfg.Manifests, false},
		{"Root manifest bumped after any package bump.", "root-manifest", cfg.RootManifest, false},
		{"Set to false to leave the root manifest alone.", "bump-root", cfg.ShouldBumpRoot(), false},
		{"Set to false to leave bumped manifests unstaged.", "stage", cfg.ShouldStage(), false},
	}

	for _, e := range entries {
		if e.skip {
			continue
		}
		data, err := yaml.Marshal(map[string]any{e.key: e.value})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", e.key, err)
		}
		fmt.Fprintf(&buf, "# %s\n", e.comment)
		buf.Write(data)
		buf.WriteString("\n")
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')

	if _, err := config.Parse(out); err != nil {
		return nil, fmt.Errorf("generated config is invalid: %w", err)
	}
	return out, nil
}

// commentedMarshaler plugs GenerateConfigWithComments into config.ConfigSaver.
type commentedMarshaler struct{}

func (commentedMarshaler) Marshal(v any) ([]byte, error) {
	cfg, ok := v.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", v)
	}
	return GenerateConfigWithComments(cfg)
}
