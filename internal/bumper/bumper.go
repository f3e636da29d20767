// Package bumper runs the hook: it attributes changed files to packages,
// respects manual version edits and bumps the patch version of every other
// changed package, then propagates the bump to the root manifest.
package bumper

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/discovery"
	"github.com/indaco/patchbump/internal/git"
	"github.com/indaco/patchbump/internal/operations"
	"github.com/indaco/patchbump/internal/parser"
	"github.com/indaco/patchbump/internal/semver"
)

// Bumper processes one changeset.
type Bumper struct {
	fs        core.FileSystem
	git       git.Client
	discovery *discovery.Service
	op        *operations.PatchOperation
	opts      Options
}

// New creates a Bumper.
func New(fs core.FileSystem, gitClient git.Client, disc *discovery.Service, opts Options) *Bumper {
	return &Bumper{
		fs:        fs,
		git:       gitClient,
		discovery: disc,
		op:        operations.NewPatchOperation(fs, opts.DryRun),
		opts:      opts,
	}
}

// Run processes the changeset. Per-package problems are recorded in the
// report; git failures and a missing root manifest abort the run.
func (b *Bumper) Run(ctx context.Context) (*Report, error) {
	report := &Report{Range: b.opts.Range}

	changed, err := b.git.ChangedFiles(ctx, b.opts.Range)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	report.Changed = changed
	if len(changed) == 0 {
		return report, nil
	}

	attributed, err := b.discovery.Attribute(ctx, b.opts.Root, changed)
	if err != nil {
		return nil, fmt.Errorf("attributing changes: %w", err)
	}
	report.Ignored = attributed.Ignored
	report.Warnings = append(report.Warnings, attributed.Warnings...)
	if attributed.IsEmpty() {
		return report, nil
	}

	var root discovery.Package
	if b.opts.BumpRoot {
		root, err = b.rootPackage(ctx)
		if err != nil {
			return nil, err
		}
	}

	for _, pkg := range attributed.Packages {
		result, err := b.Apply(ctx, pkg)
		if err != nil {
			return nil, err
		}
		report.Packages = append(report.Packages, result)
		if result.Message != "" {
			report.Warnings = append(report.Warnings, result.Message)
		}
	}

	if b.opts.BumpRoot && report.Handled() > 0 {
		result, err := b.Apply(ctx, root)
		if err != nil {
			return nil, err
		}
		report.Root = &result
		if result.Message != "" {
			report.Warnings = append(report.Warnings, result.Message)
		}
	}

	return report, nil
}

// rootPackage describes the root manifest, which must exist.
func (b *Bumper) rootPackage(ctx context.Context) (discovery.Package, error) {
	rel := path.Clean(filepath.ToSlash(b.opts.RootManifest))
	known, ok := discovery.LookupManifest(rel)
	if !ok {
		return discovery.Package{}, fmt.Errorf("unsupported root manifest %q", rel)
	}

	pkg := discovery.Package{
		Name:         "root",
		Dir:          path.Dir(rel),
		ManifestPath: rel,
		Manifest:     known,
	}

	info, err := b.fs.Stat(ctx, pkg.ManifestFile(b.opts.Root))
	if err != nil || info.IsDir() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return discovery.Package{}, ctxErr
		}
		return discovery.Package{}, fmt.Errorf("%w: %s", ErrRootManifestMissing, rel)
	}
	return pkg, nil
}

// Apply detects a manual bump for pkg and otherwise bumps its patch version.
// The returned error is non-nil only for git failures.
func (b *Bumper) Apply(ctx context.Context, pkg discovery.Package) (PackageResult, error) {
	result := PackageResult{Package: pkg}

	det, err := b.Detect(ctx, pkg)
	if err != nil {
		return result, err
	}

	switch det.Kind {
	case ManualBump:
		result.Outcome = Manual
		result.Previous = det.Previous
		result.Current = det.Next
		if det.Downgrade {
			result.Message = fmt.Sprintf("%s: version lowered from %s to %s", pkg.ManifestPath, det.Previous, det.Next)
		}
		return result, nil
	case NewManifest:
		result.Outcome = Added
		result.Current = det.Next
		return result, nil
	}

	cfg := pkg.Manifest.FileConfig(pkg.ManifestFile(b.opts.Root))
	previous, next, err := b.op.Execute(ctx, cfg)
	result.Previous = previous
	if err != nil {
		switch {
		case errors.Is(err, operations.ErrWriteFailed):
			result.Outcome = Failed
		case errors.Is(err, operations.ErrUnreadable), errors.Is(err, semver.ErrInvalidVersion):
			result.Outcome = Skipped
		default:
			return result, err
		}
		result.Message = fmt.Sprintf("%s: %v", pkg.ManifestPath, err)
		return result, nil
	}
	result.Current = next

	if b.opts.DryRun {
		result.Outcome = Planned
		return result, nil
	}

	if b.opts.Stage {
		if err := b.git.Add(ctx, pkg.ManifestPath); err != nil {
			return result, fmt.Errorf("staging %s: %w", pkg.ManifestPath, err)
		}
	}

	result.Outcome = Bumped
	return result, nil
}

// Detect compares the manifest version at the previous revision (HEAD, or
// Before in range mode) with the next one (the index, or After).
func (b *Bumper) Detect(ctx context.Context, pkg discovery.Package) (Detection, error) {
	prevRev, nextRev := "HEAD", ""
	if !b.opts.Range.IsZero() {
		prevRev, nextRev = b.opts.Range.Before, b.opts.Range.After
	}

	prevData, prevFound, err := b.git.Show(ctx, prevRev, pkg.ManifestPath)
	if err != nil {
		return Detection{}, fmt.Errorf("reading %s at %s: %w", pkg.ManifestPath, revName(prevRev), err)
	}
	nextData, nextFound, err := b.git.Show(ctx, nextRev, pkg.ManifestPath)
	if err != nil {
		return Detection{}, fmt.Errorf("reading %s at %s: %w", pkg.ManifestPath, revName(nextRev), err)
	}

	if !nextFound {
		return Detection{Kind: Unchanged}, nil
	}

	cfg := pkg.Manifest.FileConfig(pkg.ManifestPath)
	next, err := parser.Extract(nextData, cfg)
	if err != nil {
		return Detection{Kind: Unchanged}, nil
	}

	if !prevFound {
		return Detection{Kind: NewManifest, Next: next.Version}, nil
	}

	prev, err := parser.Extract(prevData, cfg)
	if err != nil || prev.Version == next.Version {
		return Detection{Kind: Unchanged}, nil
	}

	det := Detection{Kind: ManualBump, Previous: prev.Version, Next: next.Version}
	if c, ok := semver.CompareRaw(next.Version, prev.Version); ok && c < 0 {
		det.Downgrade = true
	}
	return det, nil
}

func revName(rev string) string {
	if rev == "" {
		return "index"
	}
	return rev
}
