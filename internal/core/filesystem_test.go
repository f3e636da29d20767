package core

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_WriteKeepsMode(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "Cargo.toml")
	if err := os.WriteFile(p, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}

	fsys := NewOSFileSystem()
	if err := fsys.WriteFile(ctx, p, []byte("new"), PermManifest); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := fsys.Stat(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
	data, err := fsys.ReadFile(ctx, p)
	if err != nil || string(data) != "new" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}

func TestOSFileSystem_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fsys := NewOSFileSystem()
	dir := t.TempDir()

	if _, err := fsys.ReadFile(ctx, filepath.Join(dir, "x")); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadFile: %v", err)
	}
	if err := fsys.WriteFile(ctx, filepath.Join(dir, "x"), nil, PermManifest); !errors.Is(err, context.Canceled) {
		t.Errorf("WriteFile: %v", err)
	}
	if _, err := fsys.Stat(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("Stat: %v", err)
	}
	if _, err := fsys.ReadDir(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadDir: %v", err)
	}
}

func TestMockFileSystem(t *testing.T) {
	ctx := context.Background()
	m := NewMockFileSystem()
	m.SetFile("/repo/packages/foo/pyproject.toml", []byte("x"))
	m.SetDir("/repo/packages/empty")

	entries, err := m.ReadDir(ctx, "/repo/packages")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name() != "empty" || entries[1].Name() != "foo" {
		t.Errorf("unexpected entries: %v", entries)
	}
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("%s should be a directory", e.Name())
		}
	}

	info, err := m.Stat(ctx, "/repo/packages/foo/pyproject.toml")
	if err != nil || info.IsDir() || info.Size() != 1 {
		t.Errorf("Stat = %v, %v", info, err)
	}
	if _, err := m.Stat(ctx, "/repo/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist, got %v", err)
	}

	data, _ := m.ReadFile(ctx, "/repo/packages/foo/pyproject.toml")
	data[0] = 'y'
	if got, _ := m.File("/repo/packages/foo/pyproject.toml"); string(got) != "x" {
		t.Error("ReadFile must return a copy")
	}

	m.WriteErr = errors.New("disk full")
	if err := m.WriteFile(ctx, "/repo/a", nil, PermManifest); err == nil {
		t.Error("expected WriteErr")
	}
	m.ReadErr = errors.New("io error")
	if _, err := m.ReadFile(ctx, "/repo/packages/foo/pyproject.toml"); err == nil {
		t.Error("expected ReadErr")
	}
}
