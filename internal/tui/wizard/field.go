package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/tui/theme"
)

// fieldView is the on-screen editor of one form field. Text fields use a
// textinput, multiline fields a textarea; bool and choice fields are drawn
// from the form value directly.
type fieldView struct {
	field *form.Field
	input textinput.Model
	area  textarea.Model
}

func newFieldView(t *theme.Theme, f *form.Field, width int) *fieldView {
	fv := &fieldView{field: f}

	switch f.Kind {
	case form.KindText:
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		ti.Prompt = ""
		ti.SetStyles(textinput.Styles{
			Focused: textinput.StyleState{
				Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
				Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
				Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
			},
			Blurred: textinput.StyleState{
				Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
				Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
				Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			},
			Cursor: textinput.CursorStyle{
				Color: lipgloss.Color(t.Primary),
				Shape: tea.CursorBar,
				Blink: true,
			},
		})
		ti.SetWidth(width)
		ti.SetValue(f.Value)
		fv.input = ti

	case form.KindMultiline:
		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.SetWidth(width)
		ta.SetHeight(6)
		styles := textarea.DefaultDarkStyles()
		styles.Cursor.Color = lipgloss.Color(t.Secondary)
		styles.Cursor.Shape = tea.CursorBlock
		styles.Cursor.Blink = true
		ta.SetStyles(styles)
		ta.SetValue(f.Value)
		fv.area = ta
	}
	return fv
}

func (fv *fieldView) focus() tea.Cmd {
	switch fv.field.Kind {
	case form.KindText:
		return fv.input.Focus()
	case form.KindMultiline:
		return fv.area.Focus()
	}
	return nil
}

func (fv *fieldView) blur() {
	switch fv.field.Kind {
	case form.KindText:
		fv.input.Blur()
	case form.KindMultiline:
		fv.area.Blur()
	}
}

// update feeds msg to the underlying input and returns its new value.
func (fv *fieldView) update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	switch fv.field.Kind {
	case form.KindText:
		fv.input, cmd = fv.input.Update(msg)
		return fv.input.Value(), cmd
	case form.KindMultiline:
		fv.area, cmd = fv.area.Update(msg)
		return fv.area.Value(), cmd
	}
	return fv.field.Value, nil
}

// reload copies the form value back into the input after a reset or an
// external edit.
func (fv *fieldView) reload() {
	switch fv.field.Kind {
	case form.KindText:
		fv.input.SetValue(fv.field.Value)
	case form.KindMultiline:
		fv.area.SetValue(fv.field.Value)
	}
}

func (fv *fieldView) setWidth(w int) {
	switch fv.field.Kind {
	case form.KindText:
		fv.input.SetWidth(w)
	case form.KindMultiline:
		fv.area.SetWidth(w)
	}
}

func (fv *fieldView) view(t *theme.Theme, focused bool) string {
	s := t.S()

	labelStyle := s.Label
	switch {
	case fv.field.Errored:
		labelStyle = s.LabelError
	case focused:
		labelStyle = s.LabelFocused
	}

	marker := "  "
	if focused {
		marker = "› "
	}
	label := labelStyle.Render(marker + fv.field.Label)
	if fv.field.Errored {
		label += " " + s.ErrorText.Render("✗ required or invalid")
	}

	var body string
	switch fv.field.Kind {
	case form.KindText:
		body = fv.input.View()
	case form.KindMultiline:
		body = fv.area.View()
	case form.KindBool:
		box := "[ ]"
		if strings.EqualFold(fv.field.Value, "true") {
			box = "[x]"
		}
		body = s.Value.Render(box)
	case form.KindChoice:
		body = s.Value.Render(fmt.Sprintf("‹ %s ›", choiceLabel(fv.field)))
	}
	return label + "\n  " + strings.ReplaceAll(body, "\n", "\n  ")
}

func choiceLabel(f *form.Field) string {
	for _, o := range f.Options {
		if o.Value == f.Value {
			if o.Label != "" {
				return o.Label
			}
			return o.Value
		}
	}
	return "(none)"
}

// nextOption returns the option value delta steps away from the current one.
func nextOption(f *form.Field, delta int) string {
	n := len(f.Options)
	if n == 0 {
		return f.Value
	}
	cur := -1
	for i, o := range f.Options {
		if o.Value == f.Value {
			cur = i
			break
		}
	}
	if cur < 0 {
		return f.Options[0].Value
	}
	return f.Options[((cur+delta)%n+n)%n].Value
}
