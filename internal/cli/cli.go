package cli

import (
	"context"
	"fmt"

	"github.com/indaco/patchbump/internal/commands/initialize"
	"github.com/indaco/patchbump/internal/commands/packages"
	"github.com/indaco/patchbump/internal/commands/run"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/console"
	"github.com/indaco/patchbump/internal/printer"
	"github.com/indaco/patchbump/internal/tui"
	"github.com/indaco/patchbump/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the patchbump cli.
//
// The configuration file is loaded in Before and copied into cfg, so every
// subcommand sees the same values at action time.
func New(cfg *config.Config) *urfavecli.Command {
	var (
		configPath  string
		noColorFlag bool
		verboseFlag bool
	)

	return &urfavecli.Command{
		Name:                  "patchbump",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Bump patch versions of changed monorepo packages before commit",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the config file (default: $" + config.EnvConfigPath + " or " + config.DefaultConfigFile + ")",
				Destination: &configPath,
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
			&urfavecli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"V"},
				Usage:       "Log every git command",
				Destination: &verboseFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			console.SetNoColor(noColorFlag)
			printer.SetNoColor(noColorFlag)
			tui.SetNoColor(noColorFlag)
			console.SetVerbose(verboseFlag)

			loaded, err := config.LoadConfigFn(configPath)
			if err != nil {
				return ctx, err
			}
			*cfg = *loaded
			if cfg.Source != "" {
				console.Logger().WithField("path", cfg.Source).Debug("loaded config")
			}
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			run.Run(cfg),
			packages.Run(cfg),
			initialize.Run(cfg),
		},
	}
}
