package bumper

import (
	"errors"

	"github.com/indaco/patchbump/internal/discovery"
	"github.com/indaco/patchbump/internal/git"
)

// ErrRootManifestMissing is returned when root propagation is enabled but the
// root manifest does not exist.
var ErrRootManifestMissing = errors.New("root manifest not found")

// Outcome is what happened to one manifest.
type Outcome string

const (
	// Bumped means the patch version was incremented and written.
	Bumped Outcome = "bumped"
	// Manual means the author already changed the version.
	Manual Outcome = "manual"
	// Added means the manifest did not exist at the previous revision.
	Added Outcome = "new"
	// Skipped means the on-disk manifest or its version could not be read.
	Skipped Outcome = "skipped"
	// Failed means the bumped manifest could not be written.
	Failed Outcome = "failed"
	// Planned means the manifest would be bumped but the run is a dry run.
	Planned Outcome = "planned"
)

// Handled reports whether the outcome counts toward root propagation.
func (o Outcome) Handled() bool {
	switch o {
	case Bumped, Manual, Added, Planned:
		return true
	default:
		return false
	}
}

// PackageResult records the outcome for one package or the root manifest.
type PackageResult struct {
	Package discovery.Package
	Outcome Outcome

	// Previous is the version before this run (HEAD or on-disk).
	Previous string

	// Current is the version after this run.
	Current string

	// Message explains skipped, failed and downgraded outcomes.
	Message string
}

// Report summarizes a run.
type Report struct {
	Range    git.Range
	Changed  []string
	Packages []PackageResult
	Ignored  []discovery.Package
	Root     *PackageResult
	Warnings []string
}

// Handled counts packages that were bumped, acknowledged or planned.
func (r *Report) Handled() int {
	n := 0
	for _, p := range r.Packages {
		if p.Outcome.Handled() {
			n++
		}
	}
	return n
}

// Touched returns the names of handled packages in processing order,
// followed by the root when it was handled.
func (r *Report) Touched() []string {
	var names []string
	for _, p := range r.Packages {
		if p.Outcome.Handled() {
			names = append(names, p.Package.Name)
		}
	}
	if r.Root != nil && r.Root.Outcome.Handled() {
		names = append(names, r.Root.Package.ManifestPath)
	}
	return names
}

// Options configures a Bumper.
type Options struct {
	// Root is the absolute repository root.
	Root string

	// Range selects the changeset. The zero value uses staged changes.
	Range git.Range

	// RootManifest is the repository-relative root manifest path.
	RootManifest string

	// BumpRoot enables root propagation.
	BumpRoot bool

	// Stage re-adds every written manifest to the index.
	Stage bool

	// DryRun computes outcomes without writing or staging.
	DryRun bool
}

// DetectionKind classifies the version history of a manifest.
type DetectionKind int

const (
	// Unchanged means the version must be bumped automatically.
	Unchanged DetectionKind = iota
	// ManualBump means the version differs between the two revisions.
	ManualBump
	// NewManifest means the manifest has no previous version.
	NewManifest
)

// Detection is the result of comparing a manifest across revisions.
type Detection struct {
	Kind     DetectionKind
	Previous string
	Next     string

	// Downgrade is set for a manual bump to a lower version.
	Downgrade bool
}
