package initialize

import (
	"strings"
	"testing"

	"github.com/indaco/patchbump/internal/config"
)

func TestGenerateConfigWithComments_Default(t *testing.T) {
	data, err := GenerateConfigWithComments(config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(data)
	if !strings.HasPrefix(s, "# patchbump configuration file") {
		t.Error("expected header comment")
	}
	for _, key := range []string{"mode: dirs", "package-dirs:", "manifests:", "root-manifest: pyproject.toml", "bump-root: true", "stage: true"} {
		if !strings.Contains(s, key) {
			t.Errorf("expected %q in output:\n%s", key, s)
		}
	}
	if strings.Contains(s, "ignore-packages") || strings.Contains(s, "ignore-patterns") {
		t.Error("empty ignore lists should be omitted")
	}
	if strings.HasSuffix(s, "\n\n") {
		t.Error("output should end with a single newline")
	}
}

func TestGenerateConfigWithComments_RoundTrip(t *testing.T) {
	in := &config.Config{
		Mode:           "walk",
		IgnorePackages: []string{"legacy"},
		IgnorePatterns: []string{`\.md$`},
		Manifests:      []string{"Cargo.toml", "package.json"},
		RootManifest:   "Cargo.toml",
		BumpRoot:       config.BoolPtr(false),
		Stage:          config.BoolPtr(false),
	}

	data, err := GenerateConfigWithComments(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for line := range strings.Lines(string(data)) {
		if strings.HasPrefix(line, "package-dirs:") {
			t.Errorf("package-dirs should be omitted in walk mode, got line %q", line)
		}
	}

	got, err := config.Parse(data)
	if err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, data)
	}
	if got.Mode != "walk" || got.RootManifest != "Cargo.toml" {
		t.Errorf("got mode=%q root=%q", got.Mode, got.RootManifest)
	}
	if len(got.IgnorePatterns) != 1 || got.IgnorePatterns[0] != `\.md$` {
		t.Errorf("IgnorePatterns = %v", got.IgnorePatterns)
	}
	if len(got.IgnorePackages) != 1 || got.IgnorePackages[0] != "legacy" {
		t.Errorf("IgnorePackages = %v", got.IgnorePackages)
	}
	if got.ShouldBumpRoot() || got.ShouldStage() {
		t.Error("expected bump-root and stage to stay false")
	}
}

func TestGenerateConfigWithComments_Invalid(t *testing.T) {
	cfg := config.Default()
	cfg.Manifests = []string{"setup.py"}

	if _, err := GenerateConfigWithComments(cfg); err == nil {
		t.Fatal("expected error for unsupported manifest")
	}
}

func TestCommentedMarshaler(t *testing.T) {
	var m commentedMarshaler

	if _, err := m.Marshal("not a config"); err == nil {
		t.Error("expected error for wrong type")
	}
	data, err := m.Marshal(config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "# Root manifest bumped after any package bump.") {
		t.Error("expected per-key comments")
	}
}
