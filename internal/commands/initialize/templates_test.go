package initialize

import (
	"testing"
)

func TestAllTemplates(t *testing.T) {
	for _, tmpl := range AllTemplates() {
		if tmpl.Name == "" {
			t.Error("template has empty name")
		}
		if tmpl.Description == "" {
			t.Errorf("template %q has empty description", tmpl.Name)
		}
		if len(tmpl.Manifests) == 0 {
			t.Errorf("template %q has no manifests", tmpl.Name)
		}
		if err := tmpl.Config().Validate(); err != nil {
			t.Errorf("template %q produces an invalid config: %v", tmpl.Name, err)
		}
	}
}

func TestTemplateNames(t *testing.T) {
	names := TemplateNames()

	expected := []string{"python", "rust", "node", "helm", "polyglot"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d templates, got %d", len(expected), len(names))
	}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("template[%d]: expected %q, got %q", i, want, names[i])
		}
	}
}

func TestGetTemplate(t *testing.T) {
	tests := []struct {
		name         string
		templateName string
		wantRoot     string
		wantMode     string
		expectError  bool
	}{
		{name: "python", templateName: "python", wantRoot: "pyproject.toml", wantMode: "dirs"},
		{name: "rust", templateName: "rust", wantRoot: "Cargo.toml", wantMode: "dirs"},
		{name: "node", templateName: "node", wantRoot: "package.json", wantMode: "dirs"},
		{name: "helm", templateName: "helm", wantRoot: "Chart.yaml", wantMode: "dirs"},
		{name: "polyglot", templateName: "polyglot", wantRoot: "pyproject.toml", wantMode: "walk"},
		{name: "unknown", templateName: "go", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := GetTemplate(tt.templateName)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tmpl.RootManifest != tt.wantRoot {
				t.Errorf("RootManifest = %q, want %q", tmpl.RootManifest, tt.wantRoot)
			}
			if tmpl.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", tmpl.Mode, tt.wantMode)
			}
		})
	}
}

func TestIsValidTemplate(t *testing.T) {
	if !IsValidTemplate("rust") {
		t.Error("rust should be valid")
	}
	if IsValidTemplate("") || IsValidTemplate("Rust") {
		t.Error("empty and mis-cased names should be invalid")
	}
}

func TestTemplate_Config(t *testing.T) {
	tmpl, err := GetTemplate("polyglot")
	if err != nil {
		t.Fatal(err)
	}

	cfg := tmpl.Config()
	if !cfg.ShouldBumpRoot() || !cfg.ShouldStage() {
		t.Error("expected bump-root and stage to default to true")
	}
	if len(cfg.PackageDirs) == 0 {
		t.Error("expected default package dirs to be filled in")
	}

	cfg.Manifests[0] = "changed"
	if tmpl.Manifests[0] == "changed" {
		t.Error("Config must not share slices with the template")
	}
}
