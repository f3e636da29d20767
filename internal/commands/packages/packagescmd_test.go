package packages

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/indaco/patchbump/internal/commands/cmdutil"
	"github.com/indaco/patchbump/internal/config"
	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/git"
	"github.com/indaco/patchbump/internal/printer"
	"github.com/urfave/cli/v3"
)

type rootOnlyGit struct{ git.Client }

func (rootOnlyGit) TopLevel(context.Context) (string, error) { return "/repo", nil }

func newRepo() *core.MockFileSystem {
	fs := core.NewMockFileSystem()
	fs.SetFile("/repo/pyproject.toml", []byte("[project]\nversion = \"1.0.0\"\n"))
	fs.SetFile("/repo/packages/foo/pyproject.toml", []byte("[project]\nversion = \"0.1.0\"\n"))
	fs.SetFile("/repo/packages/bar/pyproject.toml", []byte("[tool.poetry]\nversion = \"2.0.0\"\n"))
	fs.SetFile("/repo/packages/broken/pyproject.toml", []byte("[project]\nname = \"x\"\n"))
	fs.SetFile("/repo/libs/web/package.json", []byte(`{"version": "3.1.4"}`))
	return fs
}

func setup(t *testing.T, fs *core.MockFileSystem) *bytes.Buffer {
	t.Helper()
	origFS, origGit := cmdutil.NewFileSystem, cmdutil.NewGitClient
	origOut, origErr := printer.Out, printer.ErrOut
	t.Cleanup(func() {
		cmdutil.NewFileSystem, cmdutil.NewGitClient = origFS, origGit
		printer.Out, printer.ErrOut = origOut, origErr
	})

	cmdutil.NewFileSystem = func() core.FileSystem { return fs }
	cmdutil.NewGitClient = func(string) git.Client { return rootOnlyGit{} }

	var out bytes.Buffer
	printer.Out, printer.ErrOut = &out, &out
	return &out
}

func runCmd(args ...string) error {
	app := &cli.Command{Name: "patchbump", Commands: []*cli.Command{Run(config.Default())}}
	return app.Run(context.Background(), append([]string{"patchbump", "packages"}, args...))
}

func TestCollect(t *testing.T) {
	cfg := config.Default()
	cfg.PackageDirs = []string{"packages", "libs", "apps"}
	cfg.Manifests = []string{"pyproject.toml", "package.json"}

	listing, err := Collect(context.Background(), newRepo(), cfg, "/repo")
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	want := map[string]string{
		"packages/bar":    "2.0.0",
		"packages/broken": "",
		"packages/foo":    "0.1.0",
		"libs/web":        "3.1.4",
	}
	if len(listing.Packages) != len(want) {
		t.Fatalf("packages = %+v", listing.Packages)
	}
	for _, e := range listing.Packages {
		v, ok := want[e.Dir]
		if !ok {
			t.Errorf("unexpected package %s", e.Dir)
			continue
		}
		if e.Version != v {
			t.Errorf("%s version = %q, want %q", e.Dir, e.Version, v)
		}
		if v == "" && e.Error == "" {
			t.Errorf("%s should carry an error", e.Dir)
		}
	}

	if listing.Root == nil || listing.Root.Version != "1.0.0" {
		t.Errorf("root = %+v", listing.Root)
	}
	if len(listing.Warnings) != 1 || !strings.Contains(listing.Warnings[0], "apps") {
		t.Errorf("warnings = %v", listing.Warnings)
	}
}

func TestPackagesCmd_JSON(t *testing.T) {
	out := setup(t, newRepo())

	if err := runCmd("--format", "json"); err != nil {
		t.Fatalf("packages failed: %v", err)
	}

	var listing Listing
	if err := json.Unmarshal(out.Bytes(), &listing); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}
	if listing.Mode != "dirs" || len(listing.Packages) != 3 {
		t.Errorf("listing = %+v", listing)
	}
}

func TestPackagesCmd_Text(t *testing.T) {
	out := setup(t, newRepo())
	printer.SetNoColor(true)
	t.Cleanup(func() { printer.SetNoColor(false) })

	if err := runCmd("--mode", "walk", "--manifest", "package.json"); err != nil {
		t.Fatalf("packages failed: %v", err)
	}
	if !strings.Contains(out.String(), "Packages (walk mode)") {
		t.Errorf("missing header:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "libs/web/package.json") || !strings.Contains(out.String(), "3.1.4") {
		t.Errorf("missing libs/web:\n%s", out.String())
	}
}

func TestPackagesCmd_BadFormat(t *testing.T) {
	setup(t, newRepo())
	if err := runCmd("--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format, got nil")
	}
}
