package initialize

import (
	"github.com/charmbracelet/huh"
	"github.com/indaco/patchbump/internal/tui"
)

// Prompter abstracts interactive prompts for testability.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error)
	Select(title, description string, options []huh.Option[string]) (string, error)
	Input(title, description, value string, validate func(string) error) (string, error)
}

// TUIPrompter implements Prompter using the tui package.
type TUIPrompter struct{}

// NewPrompter creates a new TUIPrompter.
func NewPrompter() Prompter {
	return &TUIPrompter{}
}

// Confirm shows a yes/no confirmation prompt.
func (p *TUIPrompter) Confirm(title, description string) (bool, error) {
	return tui.Confirm(title, description)
}

// MultiSelect shows a multi-select prompt.
func (p *TUIPrompter) MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error) {
	return tui.MultiSelect(title, description, options, defaults)
}

// Select shows a single-select prompt.
func (p *TUIPrompter) Select(title, description string, options []huh.Option[string]) (string, error) {
	return tui.Select(title, description, options)
}

// Input shows a text prompt.
func (p *TUIPrompter) Input(title, description, value string, validate func(string) error) (string, error) {
	return tui.Input(title, description, value, validate)
}
