package run

import (
	"context"
	"slices"

	"github.com/indaco/patchbump/internal/bumper"
	"github.com/indaco/patchbump/internal/commands/cmdutil"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/discovery"
	"github.com/indaco/patchbump/internal/git"
	"github.com/urfave/cli/v3"
)

// Run returns the "run" command.
func Run(cfg *config.Config) *cli.Command {
	flags := slices.Concat(cmdutil.DiscoveryFlags(), []cli.Flag{
		&cli.BoolFlag{
			Name:    "no-root-bump",
			Aliases: []string{"dont-bump-root"},
			Usage:   "Do not propagate bumps to the root manifest",
		},
		&cli.StringFlag{
			Name:  "before",
			Usage: "Commit before the change (CI mode, requires --after)",
		},
		&cli.StringFlag{
			Name:  "after",
			Usage: "Commit after the change (CI mode, requires --before)",
		},
		&cli.BoolFlag{
			Name:  "no-stage",
			Usage: "Do not re-stage bumped manifests",
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Aliases: []string{"n"},
			Usage:   "Show what would be bumped without writing or staging",
		},
	})

	return &cli.Command{
		Name:  "run",
		Usage: "Bump the patch version of every changed package",
		UsageText: `patchbump run [options]

Runs as a pre-commit hook by default: staged files are attributed to
packages, and every changed package whose version was not edited by hand
gets its patch version bumped and re-staged. The root manifest follows when
at least one package was bumped or acknowledged.

In CI, pass --before and --after to compare two commits instead.`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runBumpCmd(ctx, cmd, cfg)
		},
	}
}

// runBumpCmd executes the run command.
func runBumpCmd(ctx context.Context, cmd *cli.Command, base *config.Config) error {
	cfg, err := cmdutil.Resolve(cmd, base)
	if err != nil {
		return err
	}

	rng := git.Range{Before: cmd.String("before"), After: cmd.String("after")}
	if err := rng.Validate(); err != nil {
		return err
	}

	opts, err := cfg.DiscoveryOptions()
	if err != nil {
		return err
	}

	root, client, err := cmdutil.RepoRoot(ctx)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	fs := cmdutil.NewFileSystem()
	b := bumper.New(fs, client, discovery.NewService(fs, opts), bumper.Options{
		Root:         root,
		Range:        rng,
		RootManifest: cfg.RootManifest,
		BumpRoot:     cfg.ShouldBumpRoot() && !cmd.Bool("no-root-bump"),
		Stage:        cfg.ShouldStage() && !cmd.Bool("no-stage"),
		DryRun:       dryRun,
	})

	printHeader(rng, dryRun)

	report, err := b.Run(ctx)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}
