package discovery

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/indaco/patchbump/internal/parser"
)

// Mode selects how package directories are found.
type Mode string

const (
	// ModeDirs treats every direct subdirectory of the configured parent
	// directories that holds a manifest as a package.
	ModeDirs Mode = "dirs"

	// ModeWalk attributes each changed file to the nearest enclosing
	// directory holding a manifest.
	ModeWalk Mode = "walk"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDirs, ModeWalk:
		return Mode(s), nil
	case "":
		return ModeDirs, nil
	default:
		return "", fmt.Errorf("unknown discovery mode %q (want %q or %q)", s, ModeDirs, ModeWalk)
	}
}

// KnownManifest describes a manifest file type.
type KnownManifest struct {
	// Filename is the expected filename.
	Filename string

	// Format is the file format.
	Format parser.Format

	// Fields are candidate dot-notation paths to the version, tried in order.
	Fields []string

	// Description is a human-readable description.
	Description string
}

// FileConfig returns the parser configuration for a manifest at path.
func (k KnownManifest) FileConfig(path string) parser.FileConfig {
	return parser.FileConfig{
		Path:   path,
		Format: k.Format,
		Fields: k.Fields,
	}
}

// KnownManifests returns the manifest types patchbump can edit.
func KnownManifests() []KnownManifest {
	return []KnownManifest{
		{
			Filename:    "pyproject.toml",
			Format:      parser.FormatTOML,
			Fields:      []string{"project.version", "tool.poetry.version"},
			Description: "Python (pyproject.toml)",
		},
		{
			Filename:    "Cargo.toml",
			Format:      parser.FormatTOML,
			Fields:      []string{"package.version", "workspace.package.version"},
			Description: "Rust (Cargo.toml)",
		},
		{
			Filename:    "package.json",
			Format:      parser.FormatJSON,
			Fields:      []string{"version"},
			Description: "Node.js (package.json)",
		},
		{
			Filename:    "Chart.yaml",
			Format:      parser.FormatYAML,
			Fields:      []string{"version"},
			Description: "Helm (Chart.yaml)",
		},
	}
}

// LookupManifest returns the known manifest type for the base name of p.
func LookupManifest(p string) (KnownManifest, bool) {
	name := filepath.Base(p)
	for _, k := range KnownManifests() {
		if k.Filename == name {
			return k, true
		}
	}
	return KnownManifest{}, false
}

// ManifestNames returns the filenames of all known manifest types.
func ManifestNames() []string {
	known := KnownManifests()
	names := make([]string, len(known))
	for i, k := range known {
		names[i] = k.Filename
	}
	return names
}

// Package is a directory holding a manifest.
type Package struct {
	// Name is the directory name.
	Name string

	// Dir is the repository-relative directory, slash separated.
	Dir string

	// ManifestPath is the repository-relative manifest path, slash separated.
	ManifestPath string

	// Manifest is the manifest type found in Dir.
	Manifest KnownManifest
}

// ManifestFile returns the manifest path on disk below root.
func (p Package) ManifestFile(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.ManifestPath))
}

// Options configures a Service.
type Options struct {
	// Mode selects the attribution strategy.
	Mode Mode

	// PackageDirs are the parent directories scanned in ModeDirs.
	PackageDirs []string

	// IgnorePackages lists package directory names never attributed.
	IgnorePackages []string

	// IgnorePatterns drop changed files and package directories whose
	// repository-relative path matches.
	IgnorePatterns []*regexp.Regexp

	// Manifests are the manifest types recognized, in priority order.
	// Defaults to KnownManifests when empty.
	Manifests []KnownManifest

	// RootManifest is the repository-relative root manifest path. Its
	// directory is never a package.
	RootManifest string
}

// rootDir returns the slash-separated directory of the root manifest.
func (o Options) rootDir() string {
	if o.RootManifest == "" {
		return "."
	}
	return path.Dir(path.Clean(filepath.ToSlash(o.RootManifest)))
}

func (o Options) ignoredName(name string) bool {
	return slices.Contains(o.IgnorePackages, name)
}

func (o Options) ignoredPath(p string) bool {
	for _, re := range o.IgnorePatterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// Result is the outcome of attributing a changeset.
type Result struct {
	// Packages are the changed packages, sorted by Dir.
	Packages []Package

	// Ignored are changed packages dropped by IgnorePackages or IgnorePatterns.
	Ignored []Package

	// Warnings are non-fatal problems such as missing package directories.
	Warnings []string
}

// IsEmpty returns true if no changed package survived filtering.
func (r *Result) IsEmpty() bool {
	return len(r.Packages) == 0
}
