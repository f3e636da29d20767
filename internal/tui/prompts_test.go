package tui

import (
	"context"
	"errors"
	"testing"
)

// TestWithSpinner_NonInteractive verifies the action runs inline under go test,
// where stdout is never a terminal.
func TestWithSpinner_NonInteractive(t *testing.T) {
	t.Setenv("CI", "true")

	called := false
	err := WithSpinner(context.Background(), "working", func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("WithSpinner() error: %v", err)
	}
	if !called {
		t.Error("action was not called")
	}

	want := errors.New("boom")
	if got := WithSpinner(context.Background(), "working", func(context.Context) error { return want }); !errors.Is(got, want) {
		t.Errorf("WithSpinner() error = %v, want %v", got, want)
	}
}

func TestIsInteractive_CI(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	if IsInteractive() {
		t.Error("IsInteractive() should be false in CI")
	}
}
