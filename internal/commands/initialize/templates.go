package initialize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/indaco/patchbump/internal/config"
)

// Template is a preset configuration for a common monorepo layout.
type Template struct {
	Name         string
	Description  string
	Mode         string
	PackageDirs  []string
	Manifests    []string
	RootManifest string
}

// AllTemplates returns all available templates.
func AllTemplates() []Template {
	return []Template{
		{
			Name:         "python",
			Description:  "Python packages under packages/ with a root pyproject.toml",
			Mode:         "dirs",
			PackageDirs:  []string{"packages"},
			Manifests:    []string{"pyproject.toml"},
			RootManifest: "pyproject.toml",
		},
		{
			Name:         "rust",
			Description:  "Cargo workspace with crates under crates/",
			Mode:         "dirs",
			PackageDirs:  []string{"crates"},
			Manifests:    []string{"Cargo.toml"},
			RootManifest: "Cargo.toml",
		},
		{
			Name:         "node",
			Description:  "npm/pnpm workspace with packages under packages/",
			Mode:         "dirs",
			PackageDirs:  []string{"packages"},
			Manifests:    []string{"package.json"},
			RootManifest: "package.json",
		},
		{
			Name:         "helm",
			Description:  "Umbrella chart with subcharts under charts/",
			Mode:         "dirs",
			PackageDirs:  []string{"charts"},
			Manifests:    []string{"Chart.yaml"},
			RootManifest: "Chart.yaml",
		},
		{
			Name:         "polyglot",
			Description:  "Any supported manifest, attributed to the nearest package",
			Mode:         "walk",
			Manifests:    []string{"pyproject.toml", "Cargo.toml", "package.json", "Chart.yaml"},
			RootManifest: "pyproject.toml",
		},
	}
}

// TemplateNames returns the names of all available templates.
func TemplateNames() []string {
	templates := AllTemplates()
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return names
}

// GetTemplate returns the template with the given name, or an error if not found.
func GetTemplate(name string) (*Template, error) {
	for _, t := range AllTemplates() {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(TemplateNames(), ", "))
}

// IsValidTemplate checks if the given name is a valid template.
func IsValidTemplate(name string) bool {
	return slices.Contains(TemplateNames(), name)
}

// Config builds a configuration from the template with defaults filled in.
func (t Template) Config() *config.Config {
	cfg := &config.Config{
		Mode:         t.Mode,
		PackageDirs:  slices.Clone(t.PackageDirs),
		Manifests:    slices.Clone(t.Manifests),
		RootManifest: t.RootManifest,
	}
	def := config.Default()
	if len(cfg.PackageDirs) == 0 {
		cfg.PackageDirs = def.PackageDirs
	}
	cfg.BumpRoot = def.BumpRoot
	cfg.Stage = def.Stage
	return cfg
}
