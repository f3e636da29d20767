package tui

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Confirm shows a yes/no confirmation prompt.
func Confirm(title, description string) (bool, error) {
	var confirmed bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := run(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

// MultiSelect shows a multi-select prompt with defaults preselected.
func MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error) {
	selected := append([]string(nil), defaults...)
	field := huh.NewMultiSelect[string]().
		Title(title).
		Description(description).
		Options(options...).
		Value(&selected)

	if err := run(field); err != nil {
		return nil, err
	}
	return selected, nil
}

// Select shows a single-select prompt.
func Select(title, description string, options []huh.Option[string]) (string, error) {
	var choice string
	field := huh.NewSelect[string]().
		Title(title).
		Description(description).
		Options(options...).
		Value(&choice)

	if err := run(field); err != nil {
		return "", err
	}
	return choice, nil
}

// Input shows a single-line text prompt prefilled with value.
func Input(title, description, value string, validate func(string) error) (string, error) {
	field := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}

	if err := run(field); err != nil {
		return "", err
	}
	return value, nil
}

func run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).WithTheme(currentTheme()).Run()
}

// WithSpinner runs action while a spinner is shown. Outside an interactive
// terminal action runs directly.
func WithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !IsInteractive() {
		return action(ctx)
	}
	return spinner.New().
		Title(title).
		Context(ctx).
		ActionWithErr(action).
		Run()
}
