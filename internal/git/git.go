package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrCommand is wrapped by every CommandError.
var ErrCommand = errors.New("git command failed")

// CommandError describes a git invocation that exited with an error.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmd := "git " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s: %v", cmd, e.Stderr, e.Err)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommand, e.Err}
}

// Range is a commit range. The zero value selects staged mode.
type Range struct {
	Before string
	After  string
}

// IsZero reports whether r selects staged mode.
func (r Range) IsZero() bool {
	return r.Before == "" && r.After == ""
}

// Validate requires both ends or neither.
func (r Range) Validate() error {
	if (r.Before == "") != (r.After == "") {
		return errors.New("commit range needs both before and after")
	}
	return nil
}

func (r Range) String() string {
	if r.IsZero() {
		return "staged changes"
	}
	return r.Before + ".." + r.After
}

// Client is the git surface used by the bumper.
type Client interface {
	// ChangedFiles lists repository-relative paths changed in rng.
	ChangedFiles(ctx context.Context, rng Range) ([]string, error)

	// Show returns the content of path at rev. An empty rev reads the index.
	// found is false when the object does not exist.
	Show(ctx context.Context, rev, path string) (data []byte, found bool, err error)

	// Add stages paths.
	Add(ctx context.Context, paths ...string) error

	// TopLevel returns the absolute repository root.
	TopLevel(ctx context.Context) (string, error)
}

// ShellClient implements Client by running the git binary.
type ShellClient struct {
	dir         string
	log         *logrus.Logger
	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd

	mu sync.Mutex
	// revs holds revisions already verified to name a commit.
	revs map[string]bool
}

// NewShellClient returns a client operating on the repository containing dir.
// A nil logger discards debug output.
func NewShellClient(dir string, log *logrus.Logger) *ShellClient {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &ShellClient{
		dir:         dir,
		log:         log,
		execCommand: exec.CommandContext,
		revs:        make(map[string]bool),
	}
}

// Verify ShellClient implements Client.
var _ Client = (*ShellClient)(nil)

// run executes git with args and returns its stdout.
func (c *ShellClient) run(ctx context.Context, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := append([]string{"-C", c.dir}, args...)
	cmd := c.execCommand(ctx, "git", full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.WithFields(logrus.Fields{"dir": c.dir}).Debugf("git %s", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		cerr := &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
		c.log.WithError(err).Debugf("git %s failed", args[0])
		return nil, cerr
	}
	return stdout.Bytes(), nil
}

// ChangedFiles lists the paths changed in the index, or between the two
// commits of rng. Paths are read NUL-separated so non-ASCII names arrive
// unquoted.
func (c *ShellClient) ChangedFiles(ctx context.Context, rng Range) ([]string, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	args := []string{"diff", "--cached", "--name-only", "-z"}
	if !rng.IsZero() {
		args = []string{"diff", "--name-only", "-z", rng.Before, rng.After}
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitNUL(out), nil
}

// Show reads path at rev, or from the index when rev is empty. A revision
// that does not resolve is an error, except for HEAD in a repository with no
// commits yet, where every path is reported as not found.
func (c *ShellClient) Show(ctx context.Context, rev, path string) ([]byte, bool, error) {
	if rev != "" {
		exists, err := c.resolve(ctx, rev)
		if err != nil {
			return nil, false, err
		}
		if !exists {
			c.log.Debugf("%s has no commits", rev)
			return nil, false, nil
		}
	}

	object := rev + ":" + filepath.ToSlash(path)
	if _, err := c.run(ctx, "cat-file", "-e", object); err != nil {
		if errors.Is(err, ErrCommand) {
			c.log.Debugf("%s does not exist", object)
			return nil, false, nil
		}
		return nil, false, err
	}

	out, err := c.run(ctx, "show", object)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

// resolve reports whether rev names a commit. It returns false without error
// only for an unborn HEAD.
func (c *ShellClient) resolve(ctx context.Context, rev string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.revs[rev] {
		return true, nil
	}

	_, err := c.run(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err == nil {
		c.revs[rev] = true
		return true, nil
	}
	if !errors.Is(err, ErrCommand) {
		return false, err
	}

	if rev == "HEAD" {
		// symbolic-ref succeeds on a branch that has no commits yet.
		if _, symErr := c.run(ctx, "symbolic-ref", "-q", "HEAD"); symErr == nil {
			return false, nil
		}
	}
	return false, fmt.Errorf("revision %q does not resolve to a commit: %w", rev, err)
}

// Add stages paths. It is a no-op without paths.
func (c *ShellClient) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	_, err := c.run(ctx, args...)
	return err
}

// TopLevel returns the absolute path of the working tree root.
func (c *ShellClient) TopLevel(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(strings.TrimSpace(string(out))), nil
}

// splitNUL splits -z output, dropping empty entries.
func splitNUL(out []byte) []string {
	var paths []string
	for p := range strings.SplitSeq(string(out), "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
