// Package initialize implements the "init" command, which writes a
// commented .patchbump.yaml from a template, flags or an interactive wizard.
package initialize

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/indaco/patchbump/internal/commands/cmdutil"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/discovery"
	"github.com/indaco/patchbump/internal/printer"
	"github.com/indaco/patchbump/internal/tui"
	"github.com/urfave/cli/v3"
)

// ErrConfigExists is returned when the target file exists and --force is not set.
var ErrConfigExists = errors.New("config file already exists")

// Replaced in tests.
var (
	isInteractive = tui.IsInteractive
	newPrompter   = NewPrompter
	newSaver      = func() *config.ConfigSaver {
		return config.NewConfigSaver(commentedMarshaler{}, nil, nil)
	}
)

// Run returns the "init" command.
func Run(cfg *config.Config) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "Start from a preset: " + strings.Join(TemplateNames(), ", "),
		},
		&cli.StringFlag{
			Name:  "path",
			Usage: "Where to write the config file",
			Value: config.DefaultConfigFile,
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite an existing config file",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Skip the wizard and accept defaults",
		},
		&cli.BoolFlag{
			Name:  "no-root-bump",
			Usage: "Write bump-root: false",
		},
		&cli.BoolFlag{
			Name:  "no-stage",
			Usage: "Write stage: false",
		},
	}

	return &cli.Command{
		Name:  "init",
		Usage: "Create a .patchbump.yaml configuration file",
		Flags: append(flags, cmdutil.DiscoveryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(ctx, cmd, cfg)
		},
	}
}

func runInitCmd(ctx context.Context, cmd *cli.Command, base *config.Config) error {
	target := cmd.String("path")
	fs := cmdutil.NewFileSystem()

	if !cmd.Bool("force") {
		if _, err := fs.Stat(ctx, target); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, target)
		}
	}

	start := config.Default()
	if name := cmd.String("template"); name != "" {
		tmpl, err := GetTemplate(name)
		if err != nil {
			return err
		}
		start = tmpl.Config()
	} else if base != nil && base.Source != "" {
		start = base
	}

	cfg, err := cmdutil.Resolve(cmd, start)
	if err != nil {
		return err
	}
	if cmd.Bool("no-root-bump") {
		cfg.BumpRoot = config.BoolPtr(false)
	}
	if cmd.Bool("no-stage") {
		cfg.Stage = config.BoolPtr(false)
	}

	if !cmd.Bool("yes") && isInteractive() {
		cwd, err := cmdutil.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		cfg, err = runWizard(ctx, newPrompter(), fs, cwd, cfg)
		if err != nil {
			return err
		}
	}

	cfg.Source = ""
	if err := newSaver().SaveTo(cfg, target); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Created %s", target))
	printer.PrintFaint(fmt.Sprintf("  mode: %s, manifests: %s, root: %s",
		cfg.Mode, strings.Join(cfg.Manifests, ", "), cfg.RootManifest))
	printer.PrintFaint("Add \"patchbump run\" to your pre-commit hook to start bumping.")
	return nil
}

// runWizard asks for each setting, starting from cfg's values.
func runWizard(ctx context.Context, p Prompter, fs core.FileSystem, dir string, cfg *config.Config) (*config.Config, error) {
	out := *cfg

	mode, err := p.Select("Discovery mode", "How changed files are mapped to packages",
		[]huh.Option[string]{
			huh.NewOption("dirs: packages live one level below a parent directory", string(discovery.ModeDirs)).Selected(cfg.Mode == string(discovery.ModeDirs)),
			huh.NewOption("walk: each file belongs to its nearest manifest", string(discovery.ModeWalk)).Selected(cfg.Mode == string(discovery.ModeWalk)),
		})
	if err != nil {
		return nil, err
	}
	out.Mode = mode

	manifestOpts := make([]huh.Option[string], 0, len(discovery.ManifestNames()))
	for _, name := range discovery.ManifestNames() {
		manifestOpts = append(manifestOpts, huh.NewOption(name, name))
	}
	manifests, err := p.MultiSelect("Manifests", "Files that mark a package and hold its version", manifestOpts, cfg.Manifests)
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, errors.New("select at least one manifest")
	}
	out.Manifests = manifests

	if out.Mode == string(discovery.ModeDirs) {
		dirs, err := askPackageDirs(ctx, p, fs, dir, &out)
		if err != nil {
			return nil, err
		}
		out.PackageDirs = dirs
	}

	rootManifest, err := p.Input("Root manifest", "Bumped after any package bump, relative to the repository root",
		cfg.RootManifest, validateRootManifest)
	if err != nil {
		return nil, err
	}
	out.RootManifest = strings.TrimSpace(rootManifest)

	bumpRoot, err := p.Confirm("Bump the root manifest?", "Propagate every package bump to "+out.RootManifest)
	if err != nil {
		return nil, err
	}
	out.BumpRoot = config.BoolPtr(bumpRoot)

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &out, nil
}

func askPackageDirs(ctx context.Context, p Prompter, fs core.FileSystem, dir string, cfg *config.Config) ([]string, error) {
	candidates := packageDirCandidates(ctx, fs, dir, cfg)
	if len(candidates) == 0 {
		value, err := p.Input("Package directories", "Comma-separated parent directories of your packages",
			strings.Join(cfg.PackageDirs, ", "), validatePackageDirs)
		if err != nil {
			return nil, err
		}
		return splitList(value), nil
	}

	opts := make([]huh.Option[string], 0, len(candidates))
	for _, c := range candidates {
		opts = append(opts, huh.NewOption(c, c))
	}
	selected, err := p.MultiSelect("Package directories", "Parent directories whose subdirectories are packages", opts, cfg.PackageDirs)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.New("select at least one package directory")
	}
	return selected, nil
}

// packageDirCandidates returns the parent directories of every package found
// by a walk over dir.
func packageDirCandidates(ctx context.Context, fs core.FileSystem, dir string, cfg *config.Config) []string {
	probe := *cfg
	probe.Mode = string(discovery.ModeWalk)
	probe.IgnorePatterns = nil
	opts, err := probe.DiscoveryOptions()
	if err != nil {
		return nil
	}

	pkgs, err := discovery.NewService(fs, opts).List(ctx, dir)
	if err != nil {
		return nil
	}

	var parents []string
	for _, pkg := range pkgs {
		parent := path.Dir(pkg.Dir)
		if parent == "." || slices.Contains(parents, parent) {
			continue
		}
		parents = append(parents, parent)
	}
	slices.Sort(parents)
	return parents
}

func validateRootManifest(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("root manifest is required")
	}
	if filepath.IsAbs(s) {
		return errors.New("path must be relative to the repository root")
	}
	if _, ok := discovery.LookupManifest(s); !ok {
		return fmt.Errorf("unsupported manifest (supported: %s)", strings.Join(discovery.ManifestNames(), ", "))
	}
	return nil
}

func validatePackageDirs(s string) error {
	if len(splitList(s)) == 0 {
		return errors.New("at least one directory is required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

