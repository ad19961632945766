package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Secondary)).
			Padding(1, 2),
		StepIndicator: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
		LabelFocused:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Bold(true),
		LabelError:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
		Value:         lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
		Placeholder:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		ErrorText:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		SuccessText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),

		ButtonNormal: button.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(lipgloss.Color(t.FgMuted)).
			Background(lipgloss.Color(t.BgMantle)),
		ButtonFocused: button.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Secondary)).
			Bold(true),

		HintKey:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
		HintSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BgSurface1)).
			Padding(0, 1),
		CardTitle:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true),
		CardSubtitle: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Tertiary)),
	}
}
