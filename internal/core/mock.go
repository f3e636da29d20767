package core

import (
	"context"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests. Paths are cleaned with
// slash semantics; parent directories are created implicitly by SetFile.
type MockFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool

	// ReadErr, when set, is returned by every ReadFile call.
	ReadErr error
	// WriteErr, when set, is returned by every WriteFile call.
	WriteErr error
}

// NewMockFileSystem returns an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true, ".": true},
	}
}

var _ FileSystem = (*MockFileSystem)(nil)

// SetFile stores content at p, creating parent directories.
func (m *MockFileSystem) SetFile(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.files[p] = content
	m.addParents(p)
}

// SetDir registers an empty directory.
func (m *MockFileSystem) SetDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	m.dirs[p] = true
	m.addParents(p)
}

// File returns the stored content and whether it exists.
func (m *MockFileSystem) File(p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(p)]
	return data, ok
}

func (m *MockFileSystem) addParents(p string) {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" || dir == "." {
			return
		}
	}
}

func (m *MockFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, p string, data []byte, _ os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetFile(p, slices.Clone(data))
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, p string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if data, ok := m.files[p]; ok {
		return mockInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	if m.dirs[p] {
		return mockInfo{name: path.Base(p), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) ReadDir(ctx context.Context, p string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = path.Clean(p)
	if !m.dirs[p] {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	var entries []os.DirEntry
	for f, data := range m.files {
		if isDirectChild(p, f) {
			entries = append(entries, fs.FileInfoToDirEntry(mockInfo{name: path.Base(f), size: int64(len(data))}))
		}
	}
	for d := range m.dirs {
		if d != p && isDirectChild(p, d) {
			entries = append(entries, fs.FileInfoToDirEntry(mockInfo{name: path.Base(d), dir: true}))
		}
	}
	slices.SortFunc(entries, func(a, b os.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

func isDirectChild(dir, p string) bool {
	return path.Dir(p) == dir
}

type mockInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockInfo) Name() string       { return i.name }
func (i mockInfo) Size() int64        { return i.size }
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

func (i mockInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return PermManifest
}
