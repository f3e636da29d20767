package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette used by the prompts shown by `patchbump init`.
var (
	accentPrimary = lipgloss.AdaptiveColor{Light: "#4338ca", Dark: "#818cf8"}
	accentBright  = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#a5b4fc"}
	textStrong    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	textNormal    = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	textMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	borderFocused = lipgloss.AdaptiveColor{Light: "#6366f1", Dark: "#6366f1"}
	buttonBg      = lipgloss.AdaptiveColor{Light: "#4338ca", Dark: "#6366f1"}
	buttonBlurred = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}
	buttonText    = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}
	errorColor    = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// noColor switches prompts to the uncolored base theme.
var noColor bool

// SetNoColor makes prompts use huh's base theme.
func SetNoColor(v bool) {
	noColor = v
}

// currentTheme returns the theme for interactive prompts.
func currentTheme() *huh.Theme {
	if noColor {
		return huh.ThemeBase()
	}
	return patchbumpTheme()
}

func patchbumpTheme() *huh.Theme {
	t := huh.ThemeBase()

	f := &t.Focused
	f.Base = f.Base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(borderFocused)
	f.Title = f.Title.Foreground(accentPrimary).Bold(true)
	f.Description = f.Description.Foreground(textMuted)
	f.ErrorIndicator = f.ErrorIndicator.Foreground(errorColor)
	f.ErrorMessage = f.ErrorMessage.Foreground(errorColor)
	f.SelectSelector = f.SelectSelector.Foreground(accentBright)
	f.MultiSelectSelector = f.MultiSelectSelector.Foreground(accentBright)
	f.Option = f.Option.Foreground(textNormal)
	f.SelectedOption = f.SelectedOption.Foreground(textStrong)
	f.SelectedPrefix = f.SelectedPrefix.Foreground(accentBright)
	f.UnselectedOption = f.UnselectedOption.Foreground(textNormal)
	f.TextInput.Cursor = f.TextInput.Cursor.Foreground(accentBright)
	f.TextInput.Prompt = f.TextInput.Prompt.Foreground(accentPrimary)
	f.TextInput.Placeholder = f.TextInput.Placeholder.Foreground(textMuted)
	f.FocusedButton = f.FocusedButton.Foreground(buttonText).Background(buttonBg).Bold(true).Padding(0, 1)
	f.BlurredButton = f.BlurredButton.Foreground(textNormal).Background(buttonBlurred).Padding(0, 1)

	t.Blurred = *f
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	t.Help.ShortKey = t.Help.ShortKey.Foreground(textMuted)
	t.Help.ShortDesc = t.Help.ShortDesc.Foreground(textMuted)
	t.Help.ShortSeparator = t.Help.ShortSeparator.Foreground(textMuted)
	t.Help.FullKey = t.Help.FullKey.Foreground(textMuted)
	t.Help.FullDesc = t.Help.FullDesc.Foreground(textMuted)
	t.Help.FullSeparator = t.Help.FullSeparator.Foreground(textMuted)

	return t
}
