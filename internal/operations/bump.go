// Package operations provides the manifest edit performed on each package.
package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/parser"
	"github.com/indaco/patchbump/internal/semver"
)

var (
	// ErrUnreadable is wrapped when the manifest cannot be read or holds no
	// version field.
	ErrUnreadable = errors.New("manifest unreadable")

	// ErrWriteFailed is wrapped when the bumped manifest cannot be written.
	ErrWriteFailed = errors.New("manifest write failed")
)

// PatchOperation reads a manifest version, increments its patch component
// and writes it back in place.
type PatchOperation struct {
	reader *parser.Reader
	writer *parser.Writer
	dryRun bool
}

// NewPatchOperation creates a new patch operation. With dryRun set, Execute
// computes the next version without touching the file.
func NewPatchOperation(fs core.FileSystem, dryRun bool) *PatchOperation {
	return &PatchOperation{
		reader: parser.NewReader(fs),
		writer: parser.NewWriter(fs),
		dryRun: dryRun,
	}
}

// Execute bumps the manifest described by cfg and returns the version found
// on disk and the version written.
//
// Errors wrap ErrUnreadable, semver.ErrInvalidVersion or ErrWriteFailed so
// the caller can tell a skipped package from a failed one.
func (op *PatchOperation) Execute(ctx context.Context, cfg parser.FileConfig) (previous, next string, err error) {
	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	default:
	}

	current, err := op.reader.Read(ctx, cfg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", "", ctxErr
		}
		return "", "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	next, err = semver.BumpPatch(current.Version)
	if err != nil {
		return current.Version, "", fmt.Errorf("in file %q: %w", cfg.Path, err)
	}

	if op.dryRun {
		return current.Version, next, nil
	}

	if err := op.writer.Write(ctx, cfg, current.Field, next); err != nil {
		return current.Version, "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return current.Version, next, nil
}

// Name returns the name of this operation.
func (op *PatchOperation) Name() string {
	if op.dryRun {
		return "bump patch (dry run)"
	}
	return "bump patch"
}
