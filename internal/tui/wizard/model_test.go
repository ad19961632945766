package wizard

import (
	"bytes"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/mgen/internal/flows"
	"github.com/mark3labs/mgen/internal/model"
	stepwizard "github.com/mark3labs/mgen/internal/wizard"
	"github.com/stretchr/testify/require"
)

// plain strips every escape sequence from rendered output.
func plain(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	w := &colorprofile.Writer{Forward: &buf, Profile: colorprofile.NoTTY}
	_, err := w.WriteString(s)
	require.NoError(t, err)
	return buf.String()
}

func newModel(t *testing.T, name string, deps flows.Deps, animate bool) *Model {
	t.Helper()
	fl, err := flows.New(name, flows.Scope{ProjectID: "p1"}, deps)
	require.NoError(t, err)
	m, err := New(fl, Options{Labels: stepwizard.DefaultLabels(), Animate: animate})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(k)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var (
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyTab   = tea.KeyPressMsg{Code: tea.KeyTab}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyLeft  = tea.KeyPressMsg{Code: tea.KeyLeft}
	keyReset = tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	keyAbort = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

func TestModel_InitialLabelsAndView(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)

	require.Equal(t, "Cancel", m.buttons.Label(stepwizard.ControlBackward))
	require.Equal(t, "Next", m.buttons.Label(stepwizard.ControlForward))

	out := plain(t, m.render())
	require.Contains(t, out, "New project")
	require.Contains(t, out, "Step 1 of 2: Project")
	require.Contains(t, out, "Title")
	require.Contains(t, out, "Public base URI")
}

func TestModel_RejectThenFinish(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)

	press(m, keyEnter)
	require.Equal(t, 0, m.wiz.Index())
	require.True(t, m.flow.Form.Errored("title"))
	require.Contains(t, plain(t, m.render()), "Fix the highlighted fields")
	require.Equal(t, ButtonDisabled, forwardState(m))

	typeText(m, "Blog")
	require.False(t, m.flow.Form.Errored("title"))
	require.True(t, m.flow.Form.Errored("public_base_uri"))
	require.Equal(t, ButtonDisabled, forwardState(m))

	press(m, keyTab)
	typeText(m, "https://blog.example.com")
	require.False(t, m.flow.Form.HasErrors())
	require.Equal(t, ButtonFocused, forwardState(m))
	require.NotContains(t, plain(t, m.render()), "Fix the highlighted fields")
	require.Equal(t, "Blog", m.flow.Form.Value("title"))
	require.Equal(t, "https://blog.example.com", m.flow.Form.Value("public_base_uri"))

	press(m, keyEnter)
	require.Equal(t, 1, m.wiz.Index())
	require.Equal(t, 1, m.visible)
	require.False(t, m.flow.Form.HasErrors())
	require.Equal(t, "Finish", m.buttons.Label(stepwizard.ControlForward))
	require.Equal(t, "Back", m.buttons.Label(stepwizard.ControlBackward))

	// First option on the Options step is enable_robots, on by default.
	press(m, keySpace)
	require.Equal(t, "false", m.flow.Form.Value("enable_robots"))

	press(m, keyEnter)
	require.True(t, m.closed)
	require.Equal(t, stepwizard.Finished, m.Result().Lifecycle)
	require.False(t, m.Result().Aborted)

	p, err := m.flow.Payload()
	require.NoError(t, err)
	require.Equal(t, "Blog", p.(model.Project).Title)
	require.False(t, p.(model.Project).Options.EnableRobots)
}

func TestModel_EscCancelsOnFirstStep(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)

	press(m, keyEsc)
	require.True(t, m.closed)
	require.Equal(t, stepwizard.Canceled, m.Result().Lifecycle)

	// Keys after the wizard closed are ignored by the state machine.
	press(m, keyEnter)
	require.Equal(t, stepwizard.Canceled, m.Result().Lifecycle)
}

func TestModel_ResetRestoresDefaults(t *testing.T) {
	m := newModel(t, "item", flows.Deps{}, false)

	typeText(m, "About")
	press(m, keyEnter)
	require.Equal(t, 1, m.wiz.Index())

	press(m, keyReset)
	require.Equal(t, 0, m.wiz.Index())
	require.Equal(t, "", m.flow.Form.Value("name"))
	require.Equal(t, "", m.views["name"].input.Value())
	require.Equal(t, "markdown", m.views["type"].input.Value())
	require.Equal(t, "Cancel", m.buttons.Label(stepwizard.ControlBackward))
}

func TestModel_ChoiceCycles(t *testing.T) {
	m := newModel(t, "page", flows.Deps{Templates: []model.Template{
		{ID: "t1", Name: "Base"},
		{ID: "t2", Name: "Blog"},
	}}, false)

	require.Contains(t, plain(t, m.render()), "‹ Base ›")
	press(m, keyRight)
	require.Equal(t, "t2", m.flow.Form.Value("template_id"))
	press(m, keyRight)
	require.Equal(t, "t1", m.flow.Form.Value("template_id"))
	press(m, keyLeft)
	require.Equal(t, "t2", m.flow.Form.Value("template_id"))
}

func TestModel_AnimatedTransition(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, true)
	typeText(m, "Blog")
	press(m, keyTab)
	typeText(m, "http://blog.local")

	cmd := press(m, keyEnter)
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.visible)
	require.Equal(t, fadeFrames, m.fade)

	for i := 0; i < fadeFrames; i++ {
		m.Update(fadeMsg{})
	}
	require.Zero(t, m.fade)
	require.Contains(t, plain(t, m.render()), "Step 2 of 2: Options")
}

func TestModel_Abort(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)
	press(m, keyAbort)
	require.True(t, m.Result().Aborted)
	require.Equal(t, stepwizard.Active, m.Result().Lifecycle)
}

func TestModel_PreviewOnLastStep(t *testing.T) {
	m := newModel(t, "page", flows.Deps{Templates: []model.Template{{ID: "t1", Name: "Base"}}}, false)
	press(m, keyTab)
	typeText(m, "about.html")
	press(m, keyEnter)

	require.Equal(t, 1, m.visible)
	require.Contains(t, plain(t, m.render()), "/about.html")
}

func forwardState(m *Model) ButtonState {
	for _, b := range m.buttons.buttons {
		if b.ID == stepwizard.ControlForward {
			return b.State
		}
	}
	return ButtonNormal
}

func TestButtonBar(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)
	bar := NewButtonBar(m.theme, []Button{{ID: "a", Label: "One"}, {ID: "b", Label: "Two", State: ButtonDisabled}})
	bar.SetLabel("a", "Uno")
	bar.SetState("b", ButtonFocused)

	out := plain(t, bar.Render())
	require.Contains(t, out, "Uno")
	require.Contains(t, out, "Two")
	require.Equal(t, "", bar.Label("missing"))
}

func TestRenderHintBar(t *testing.T) {
	m := newModel(t, "project", flows.Deps{}, false)
	require.Equal(t, "enter next • esc back", plain(t, renderHintBar(m.theme, "enter", "next", "esc", "back")))
	require.Equal(t, "", renderHintBar(m.theme, "odd"))
}
