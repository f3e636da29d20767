package bumper

import (
	"context"
	"errors"

	"github.com/indaco/patchbump/internal/core"
	"github.com/indaco/patchbump/internal/git"
)

// fakeGit is an in-memory git.Client. Index reads fall back to the working
// tree held in fs, mirroring a fully staged change.
type fakeGit struct {
	fs      *core.MockFileSystem
	root    string
	changed []string
	revs    map[string]map[string]string

	added []string

	changedErr error
	showErr    error
	addErr     error
}

var _ git.Client = (*fakeGit)(nil)

func newFakeGit(fs *core.MockFileSystem, root string) *fakeGit {
	return &fakeGit{fs: fs, root: root, revs: make(map[string]map[string]string)}
}

// commit records content of p at rev.
func (f *fakeGit) commit(rev, p, content string) {
	if f.revs[rev] == nil {
		f.revs[rev] = make(map[string]string)
	}
	f.revs[rev][p] = content
}

func (f *fakeGit) ChangedFiles(_ context.Context, rng git.Range) ([]string, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return f.changed, f.changedErr
}

func (f *fakeGit) Show(_ context.Context, rev, p string) ([]byte, bool, error) {
	if f.showErr != nil {
		return nil, false, f.showErr
	}
	if files, ok := f.revs[rev]; ok {
		content, found := files[p]
		return []byte(content), found, nil
	}
	if rev == "" {
		data, found := f.fs.File(f.root + "/" + p)
		return data, found, nil
	}
	return nil, false, nil
}

func (f *fakeGit) Add(_ context.Context, paths ...string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, paths...)
	return nil
}

func (f *fakeGit) TopLevel(context.Context) (string, error) {
	return f.root, nil
}

var errGitBroken = &git.CommandError{Args: []string{"show"}, Stderr: "fatal: bad object", Err: errors.New("exit status 128")}
