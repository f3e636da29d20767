// Package cmdutil holds flags and factories shared by the patchbump commands.
package cmdutil

import (
	"context"
	"fmt"
	"os"

	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/console"
	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/git"
	"github.com/urfave/cli/v3"
)

// Factories replaced in tests.
var (
	NewFileSystem = func() core.FileSystem {
		return core.NewOSFileSystem()
	}
	NewGitClient = func(dir string) git.Client {
		return git.NewShellClient(dir, console.Logger())
	}
	Getwd = os.Getwd
)

// DiscoveryFlags returns the flags that override discovery settings from
// the config file.
func DiscoveryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Package discovery mode: dirs (one level below --package-dirs) or walk (nearest manifest)",
		},
		&cli.StringSliceFlag{
			Name:    "package-dirs",
			Aliases: []string{"d"},
			Usage:   "Parent directories whose direct subdirectories are packages (dirs mode)",
		},
		&cli.StringSliceFlag{
			Name:  "ignore-packages",
			Usage: "Package directory names never bumped",
		},
		&cli.StringSliceFlag{
			Name:  "ignore",
			Usage: "Regex; matching changed files and package paths are ignored",
		},
		&cli.StringSliceFlag{
			Name:    "manifest",
			Aliases: []string{"m"},
			Usage:   "Manifest file names recognized as packages (pyproject.toml, Cargo.toml, package.json, Chart.yaml)",
		},
		&cli.StringFlag{
			Name:    "root-manifest",
			Aliases: []string{"root-pyproject-path"},
			Usage:   "Root manifest path, relative to the repository root",
		},
	}
}

// Resolve returns a copy of base with every set discovery flag applied,
// validated.
func Resolve(cmd *cli.Command, base *config.Config) (*config.Config, error) {
	if base == nil {
		base = config.Default()
	}
	cfg := *base

	if cmd.IsSet("mode") {
		cfg.Mode = cmd.String("mode")
	}
	if cmd.IsSet("package-dirs") {
		cfg.PackageDirs = cmd.StringSlice("package-dirs")
	}
	if cmd.IsSet("ignore-packages") {
		cfg.IgnorePackages = cmd.StringSlice("ignore-packages")
	}
	if cmd.IsSet("ignore") {
		cfg.IgnorePatterns = cmd.StringSlice("ignore")
	}
	if cmd.IsSet("manifest") {
		cfg.Manifests = cmd.StringSlice("manifest")
	}
	if cmd.IsSet("root-manifest") {
		cfg.RootManifest = cmd.String("root-manifest")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// RepoRoot returns the repository root containing the working directory and
// a git client bound to it.
func RepoRoot(ctx context.Context) (string, git.Client, error) {
	cwd, err := Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	client := NewGitClient(cwd)
	root, err := client.TopLevel(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("not inside a git repository: %w", err)
	}
	return root, NewGitClient(root), nil
}
