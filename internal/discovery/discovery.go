package discovery

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/indaco/patchbump/internal/core"
)

// DefaultMaxDepth bounds the directory walk performed by List in ModeWalk.
const DefaultMaxDepth = 6

// skipDirs are never scanned by List.
var skipDirs = []string{"node_modules", "vendor", "__pycache__", "target", "dist", "build", "venv"}

// Service attributes changed files to packages.
type Service struct {
	fs   core.FileSystem
	opts Options

	// manifests caches the manifest lookup per repository-relative directory.
	manifests map[string]*KnownManifest
}

// NewService creates a new discovery Service.
func NewService(fs core.FileSystem, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModeDirs
	}
	if len(opts.Manifests) == 0 {
		opts.Manifests = KnownManifests()
	}
	return &Service{
		fs:        fs,
		opts:      opts,
		manifests: make(map[string]*KnownManifest),
	}
}

// Attribute maps each changed file (repository-relative, slash separated) to
// its package below root. Packages are returned once each, sorted by Dir.
func (s *Service) Attribute(ctx context.Context, root string, changed []string) (*Result, error) {
	result := &Result{
		Packages: make([]Package, 0),
		Ignored:  make([]Package, 0),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(changed))
	for _, f := range changed {
		f = path.Clean(filepath.ToSlash(strings.TrimSpace(f)))
		if f == "." || f == "" || s.opts.ignoredPath(f) {
			continue
		}
		files = append(files, f)
	}

	var (
		found []Package
		err   error
	)
	switch s.opts.Mode {
	case ModeDirs:
		found, err = s.attributeDirs(ctx, root, files, result)
	case ModeWalk:
		found, err = s.attributeWalk(ctx, root, files)
	default:
		return nil, fmt.Errorf("unknown discovery mode %q", s.opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, pkg := range found {
		if seen[pkg.Dir] || pkg.Dir == "." || pkg.Dir == s.opts.rootDir() {
			continue
		}
		seen[pkg.Dir] = true

		if s.opts.ignoredName(pkg.Name) || s.opts.ignoredPath(pkg.Dir) {
			result.Ignored = append(result.Ignored, pkg)
			continue
		}
		result.Packages = append(result.Packages, pkg)
	}

	sortPackages(result.Packages)
	sortPackages(result.Ignored)
	return result, nil
}

// attributeDirs catches packages exactly one level below each parent
// directory. Deeper packages must be listed as parents themselves.
func (s *Service) attributeDirs(ctx context.Context, root string, files []string, result *Result) ([]Package, error) {
	var found []Package

	for _, parent := range s.opts.PackageDirs {
		parent = path.Clean(filepath.ToSlash(parent))
		if !s.isDir(ctx, root, parent) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("configured package directory not found: %s", parent))
			continue
		}

		for _, f := range files {
			rel := f
			if parent != "." {
				var ok bool
				if rel, ok = strings.CutPrefix(f, parent+"/"); !ok {
					continue
				}
			}

			name, rest, ok := strings.Cut(rel, "/")
			if !ok || name == "" || rest == "" {
				continue
			}

			dir := path.Join(parent, name)
			manifest, err := s.manifestIn(ctx, root, dir)
			if err != nil {
				return nil, err
			}
			if manifest == nil {
				continue
			}
			found = append(found, newPackage(dir, *manifest))
		}
	}

	return found, nil
}

// attributeWalk climbs from each file's directory to the repository root and
// stops at the first directory holding a manifest.
func (s *Service) attributeWalk(ctx context.Context, root string, files []string) ([]Package, error) {
	var found []Package

	for _, f := range files {
		for dir := path.Dir(f); ; dir = path.Dir(dir) {
			manifest, err := s.manifestIn(ctx, root, dir)
			if err != nil {
				return nil, err
			}
			if manifest != nil {
				found = append(found, newPackage(dir, *manifest))
				break
			}
			if dir == "." || dir == "/" {
				break
			}
		}
	}

	return found, nil
}

// List returns every package below root regardless of changes, sorted by Dir.
// Ignored packages are left out.
func (s *Service) List(ctx context.Context, root string) ([]Package, error) {
	var dirs []string

	switch s.opts.Mode {
	case ModeDirs:
		for _, parent := range s.opts.PackageDirs {
			parent = path.Clean(filepath.ToSlash(parent))
			entries, err := s.fs.ReadDir(ctx, filepath.Join(root, filepath.FromSlash(parent)))
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					dirs = append(dirs, path.Join(parent, entry.Name()))
				}
			}
		}
	case ModeWalk:
		if err := s.walk(ctx, root, ".", 0, &dirs); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown discovery mode %q", s.opts.Mode)
	}

	packages := make([]Package, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "." || dir == s.opts.rootDir() {
			continue
		}
		manifest, err := s.manifestIn(ctx, root, dir)
		if err != nil {
			return nil, err
		}
		if manifest == nil {
			continue
		}
		pkg := newPackage(dir, *manifest)
		if s.opts.ignoredName(pkg.Name) || s.opts.ignoredPath(pkg.Dir) {
			continue
		}
		packages = append(packages, pkg)
	}

	sortPackages(packages)
	return packages, nil
}

// walk collects every directory below dir up to DefaultMaxDepth.
func (s *Service) walk(ctx context.Context, root, dir string, depth int, out *[]string) error {
	if depth > DefaultMaxDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.fs.ReadDir(ctx, filepath.Join(root, filepath.FromSlash(dir)))
	if err != nil {
		// Skip directories we can't read
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name) {
			continue
		}
		child := path.Join(dir, name)
		*out = append(*out, child)
		if err := s.walk(ctx, root, child, depth+1, out); err != nil {
			return err
		}
	}

	return nil
}

// manifestIn returns the first configured manifest present in dir, or nil.
func (s *Service) manifestIn(ctx context.Context, root, dir string) (*KnownManifest, error) {
	if cached, ok := s.manifests[dir]; ok {
		return cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var match *KnownManifest
	for _, known := range s.opts.Manifests {
		p := filepath.Join(root, filepath.FromSlash(dir), known.Filename)
		info, err := s.fs.Stat(ctx, p)
		if err != nil || info.IsDir() {
			continue
		}
		k := known
		match = &k
		break
	}

	s.manifests[dir] = match
	return match, nil
}

func (s *Service) isDir(ctx context.Context, root, dir string) bool {
	info, err := s.fs.Stat(ctx, filepath.Join(root, filepath.FromSlash(dir)))
	return err == nil && info.IsDir()
}

func newPackage(dir string, manifest KnownManifest) Package {
	return Package{
		Name:         path.Base(dir),
		Dir:          dir,
		ManifestPath: path.Join(dir, manifest.Filename),
		Manifest:     manifest,
	}
}

func sortPackages(pkgs []Package) {
	slices.SortFunc(pkgs, func(a, b Package) int {
		return strings.Compare(a.Dir, b.Dir)
	})
}
