package packages

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/indaco/patchbump/internal/commands/cmdutil"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/discovery"
	"github.com/indaco/patchbump/internal/parser"
	"github.com/indaco/patchbump/internal/printer"
	"github.com/indaco/patchbump/internal/tui"
	"github.com/urfave/cli/v3"
)

// OutputFormat controls how the package list is displayed.
type OutputFormat string

const (
	// FormatText outputs human-readable text.
	FormatText OutputFormat = "text"

	// FormatJSON outputs machine-readable JSON.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat converts a string to OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Entry is one listed package.
type Entry struct {
	Name     string `json:"name"`
	Dir      string `json:"dir"`
	Manifest string `json:"manifest"`
	Version  string `json:"version,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Listing is the command output.
type Listing struct {
	Mode     string   `json:"mode"`
	Root     *Entry   `json:"root,omitempty"`
	Packages []Entry  `json:"packages"`
	Warnings []string `json:"warnings,omitempty"`
}

// Run returns the "packages" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "packages",
		Aliases: []string{"ls"},
		Usage:   "List discovered packages and their current versions",
		Flags: append(cmdutil.DiscoveryFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json",
				Value:   "text",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPackagesCmd(ctx, cmd, cfg)
		},
	}
}

func runPackagesCmd(ctx context.Context, cmd *cli.Command, base *config.Config) error {
	format, err := ParseOutputFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	cfg, err := cmdutil.Resolve(cmd, base)
	if err != nil {
		return err
	}

	root, _, err := cmdutil.RepoRoot(ctx)
	if err != nil {
		return err
	}

	fs := cmdutil.NewFileSystem()

	var listing *Listing
	err = tui.WithSpinner(ctx, "Scanning packages...", func(ctx context.Context) error {
		listing, err = Collect(ctx, fs, cfg, root)
		return err
	})
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(listing, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode packages: %w", err)
		}
		printer.Println(string(data))
	default:
		printText(listing)
	}
	return nil
}

// Collect lists every package under root with its on-disk version.
func Collect(ctx context.Context, fs core.FileSystem, cfg *config.Config, root string) (*Listing, error) {
	opts, err := cfg.DiscoveryOptions()
	if err != nil {
		return nil, err
	}

	pkgs, err := discovery.NewService(fs, opts).List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}

	reader := parser.NewReader(fs)
	listing := &Listing{Mode: cfg.Mode, Packages: make([]Entry, 0, len(pkgs))}
	for _, pkg := range pkgs {
		listing.Packages = append(listing.Packages, entryFor(ctx, reader, root, pkg))
	}

	if known, ok := discovery.LookupManifest(cfg.RootManifest); ok {
		rootPkg := discovery.Package{Name: "root", Dir: path.Dir(cfg.RootManifest), ManifestPath: cfg.RootManifest, Manifest: known}
		e := entryFor(ctx, reader, root, rootPkg)
		listing.Root = &e
	}

	results, err := config.NewValidator(fs, cfg, root).Validate(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Warning {
			listing.Warnings = append(listing.Warnings, r.Message)
		}
	}

	return listing, nil
}

func entryFor(ctx context.Context, reader *parser.Reader, root string, pkg discovery.Package) Entry {
	e := Entry{Name: pkg.Name, Dir: pkg.Dir, Manifest: pkg.ManifestPath}
	version, err := reader.ReadVersion(ctx, pkg.Manifest.FileConfig(pkg.ManifestFile(root)))
	if err != nil {
		e.Error = err.Error()
	} else {
		e.Version = version
	}
	return e
}

func printText(listing *Listing) {
	printer.PrintInfo(fmt.Sprintf("Packages (%s mode)", listing.Mode))
	printer.PrintFaint(strings.Repeat("-", 50))

	if len(listing.Packages) == 0 {
		printer.PrintFaint("  no packages found")
	}
	for _, e := range listing.Packages {
		printer.Println(formatEntry(e))
	}

	if listing.Root != nil {
		printer.PrintFaint(strings.Repeat("-", 50))
		printer.Println(formatEntry(*listing.Root))
	}

	for _, w := range listing.Warnings {
		printer.PrintWarning("⚠ " + w)
	}
}

func formatEntry(e Entry) string {
	if e.Error != "" {
		return fmt.Sprintf("  %s %-30s %s", printer.Warning("⚠"), e.Manifest, printer.Faint(e.Error))
	}
	return fmt.Sprintf("  %s %-30s %s", printer.Success("✓"), e.Manifest, printer.Bold(e.Version))
}
