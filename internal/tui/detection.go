package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvVars are set by the CI systems patchbump is commonly run under.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"SEMAPHORE",
	"APPVEYOR",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
}

// isTerminal is replaced in tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}

// IsInteractive reports whether prompts and spinners can be shown.
// Git hooks run with stdin detached, so both stdin and stdout must be
// terminals, and no CI variable may be set.
func IsInteractive() bool {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	return !InCI()
}

// InCI reports whether a known CI environment variable is set.
func InCI() bool {
	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// IsTTY checks if stdout is a terminal.
func IsTTY() bool {
	return isTerminal(os.Stdout)
}
