package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle   lipgloss.Style
	Modal         lipgloss.Style
	StepIndicator lipgloss.Style

	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	LabelError   lipgloss.Style
	Value        lipgloss.Style
	Placeholder  lipgloss.Style
	ErrorText    lipgloss.Style
	SuccessText  lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	CardSubtitle lipgloss.Style
}
