// Package git wraps the handful of git plumbing commands patchbump needs:
// listing changed files, reading a file at a revision or from the index,
// staging files and locating the repository root.
//
// Every command runs synchronously through the git binary and any non-zero
// exit is reported as a *CommandError.
package git
