package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mgen/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	ID    string
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
	theme   *theme.Theme
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(t *theme.Theme, buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
		theme:   t,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetLabel changes the caption of the button with id.
func (b *ButtonBar) SetLabel(id, label string) {
	for i := range b.buttons {
		if b.buttons[i].ID == id {
			b.buttons[i].Label = label
		}
	}
}

// Label returns the caption of the button with id.
func (b *ButtonBar) Label(id string) string {
	for _, btn := range b.buttons {
		if btn.ID == id {
			return btn.Label
		}
	}
	return ""
}

// SetState changes the state of the button with id.
func (b *ButtonBar) SetState(id string, state ButtonState) {
	for i := range b.buttons {
		if b.buttons[i].ID == id {
			b.buttons[i].State = state
		}
	}
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := b.theme.S()
	var rendered []string
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}
