package run

import (
	"fmt"
	"strings"

	"github.com/indaco/patchbump/internal/bumper"
	"github.com/indaco/patchbump/internal/git"
	"github.com/indaco/patchbump/internal/printer"
)

func printHeader(rng git.Range, dryRun bool) {
	title := "Checking " + rng.String() + " for version bumps"
	if dryRun {
		title += " (dry run)"
	}
	printer.PrintInfo(title)
}

// printReport writes one line per package, the warnings and a summary.
func printReport(report *bumper.Report) {
	for _, w := range report.Warnings {
		printer.PrintWarning("⚠ " + w)
	}

	switch {
	case len(report.Changed) == 0:
		printer.PrintFaint("No changed files found.")
		return
	case len(report.Packages) == 0 && len(report.Ignored) == 0:
		printer.PrintFaint("No package changes detected.")
		return
	}

	for _, pkg := range report.Ignored {
		printer.PrintFaint(fmt.Sprintf("  - %s (ignored)", pkg.Dir))
	}
	for _, r := range report.Packages {
		printer.Println(FormatResult(r))
	}
	if report.Root != nil {
		printer.Println(FormatResult(*report.Root))
	}

	if touched := report.Touched(); len(touched) > 0 {
		printer.PrintSuccess("Touched/acknowledged: " + strings.Join(touched, ", "))
	} else {
		printer.PrintFaint("No version bumps were needed.")
	}
}

// FormatResult renders a single package outcome.
func FormatResult(r bumper.PackageResult) string {
	name := r.Package.Dir
	if r.Package.Name == "root" || name == "." {
		name = r.Package.ManifestPath
	}

	switch r.Outcome {
	case bumper.Bumped:
		return fmt.Sprintf("  %s %s %s", printer.Success("✓"), name, printer.Bold(r.Previous+" → "+r.Current))
	case bumper.Planned:
		return fmt.Sprintf("  %s %s %s %s", printer.Info("•"), name, r.Previous+" → "+r.Current, printer.Faint("(dry run)"))
	case bumper.Manual:
		return fmt.Sprintf("  %s %s %s %s", printer.Success("✓"), name, r.Previous+" → "+r.Current, printer.Faint("(manual bump kept)"))
	case bumper.Added:
		return fmt.Sprintf("  %s %s %s %s", printer.Success("✓"), name, r.Current, printer.Faint("(new manifest)"))
	case bumper.Skipped:
		return fmt.Sprintf("  %s %s %s", printer.Warning("⚠"), name, printer.Faint("(skipped)"))
	case bumper.Failed:
		return fmt.Sprintf("  %s %s %s", printer.Error("✗"), name, printer.Faint("(not written)"))
	default:
		return fmt.Sprintf("  ? %s", name)
	}
}
