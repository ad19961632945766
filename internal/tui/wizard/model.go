// Package wizard renders a flow as a full screen form and drives its
// StepWizard from keyboard input.
package wizard

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/mgen/internal/flows"
	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/tui/theme"
	stepwizard "github.com/mark3labs/mgen/internal/wizard"
)

const (
	fadeFrames    = 6
	frameInterval = 30 * time.Millisecond
)

// Options configures the screen.
type Options struct {
	Labels  stepwizard.Labels
	Animate bool
	Theme   *theme.Theme
}

// Result is what the user did with the wizard.
type Result struct {
	// Lifecycle is Finished or Canceled, or Active when the user quit with
	// ctrl+c halfway through.
	Lifecycle stepwizard.Lifecycle
	Aborted   bool
}

type fadeMsg struct{}

type editedMsg struct {
	ref   stepwizard.FieldRef
	value string
	err   error
}

// Model is the bubbletea model for one flow. It is also the StepWizard's
// renderer and container: the wizard tells it which step to show and when
// to close.
type Model struct {
	flow    *flows.Flow
	wiz     *stepwizard.StepWizard
	theme   *theme.Theme
	buttons *ButtonBar
	views   map[stepwizard.FieldRef]*fieldView

	visible int
	focus   int
	fade    int
	pending []tea.Cmd

	closed  bool
	aborted bool
	err     error
	status  string

	width, height int
}

var (
	_ stepwizard.Renderer     = (*Model)(nil)
	_ stepwizard.Transitioner = (*Model)(nil)
	_ stepwizard.LabelSetter  = (*Model)(nil)
	_ stepwizard.Container    = (*Model)(nil)
)

// New builds the screen and its StepWizard for fl.
func New(fl *flows.Flow, opts Options) (*Model, error) {
	if opts.Theme == nil {
		opts.Theme = theme.Default
	}

	m := &Model{
		flow:  fl,
		theme: opts.Theme,
		views: make(map[stepwizard.FieldRef]*fieldView),
		width: 80, height: 24,
	}
	m.buttons = NewButtonBar(m.theme, []Button{
		{ID: stepwizard.ControlBackward},
		{ID: stepwizard.ControlForward, State: ButtonFocused},
	})
	for _, f := range fl.Form.Fields() {
		m.views[f.Ref] = newFieldView(m.theme, f, m.inputWidth())
	}

	cfg := fl.WizardConfig(opts.Labels, opts.Animate)
	cfg.Renderer = m
	cfg.Container = m
	w, err := stepwizard.New(fl.Steps, cfg)
	if err != nil {
		return nil, err
	}
	m.wiz = w
	return m, nil
}

// Wizard exposes the underlying StepWizard, for subscribing to its events.
func (m *Model) Wizard() *stepwizard.StepWizard { return m.wiz }

// Show makes step i the visible step.
func (m *Model) Show(i int) {
	m.visible = i
	m.focusField(0)
}

// Hide is a no-op: only the visible step is drawn.
func (m *Model) Hide(int) {}

// Transition switches steps with a short fade of the step title.
func (m *Model) Transition(from, to int, dir stepwizard.Direction) {
	logger.Debug("tui: transition %d -> %d (%s)", from, to, dir)
	m.Show(to)
	m.fade = fadeFrames
	m.pending = append(m.pending, fadeTick())
}

// SetLabel updates a button caption.
func (m *Model) SetLabel(control, text string) {
	m.buttons.SetLabel(control, text)
}

// Close ends the program after the current update.
func (m *Model) Close() { m.closed = true }

// Result reports how the wizard ended.
func (m *Model) Result() Result {
	return Result{Lifecycle: m.wiz.State().Lifecycle, Aborted: m.aborted}
}

// Err returns a validator error that stopped the wizard.
func (m *Model) Err() error { return m.err }

func fadeTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return fadeMsg{} })
}

func (m *Model) inputWidth() int {
	w := m.modalWidth() - 12
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *Model) stepFields() []*form.Field {
	return m.flow.Form.FieldsFor(m.visible)
}

func (m *Model) focused() *fieldView {
	fields := m.stepFields()
	if m.focus < 0 || m.focus >= len(fields) {
		return nil
	}
	return m.views[fields[m.focus].Ref]
}

func (m *Model) focusField(i int) {
	fields := m.stepFields()
	for _, f := range m.flow.Form.Fields() {
		m.views[f.Ref].blur()
	}
	m.focus = 0
	if len(fields) == 0 {
		return
	}
	m.focus = ((i % len(fields)) + len(fields)) % len(fields)
	if cmd := m.views[fields[m.focus].Ref].focus(); cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) focusFirstError() {
	for i, f := range m.stepFields() {
		if f.Errored {
			m.focusField(i)
			return
		}
	}
}

// flush returns the commands queued by wizard callbacks.
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	if m.closed {
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

// Init focuses the first field.
func (m *Model) Init() tea.Cmd {
	return m.flush()
}

// Update handles messages for the wizard screen.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for _, v := range m.views {
			v.setWidth(m.inputWidth())
		}
		m.buttons.SetWidth(m.modalWidth() - 6)
		return m, nil

	case fadeMsg:
		if m.fade > 0 {
			m.fade--
			if m.fade > 0 {
				return m, fadeTick()
			}
		}
		return m, nil

	case editedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Editor failed: %v", msg.err)
			return m, nil
		}
		if err := m.flow.Form.Set(msg.ref, msg.value); err == nil {
			if v, ok := m.views[msg.ref]; ok {
				v.reload()
				m.edited(v.field)
			}
		}
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	fv := m.focused()
	if fv == nil {
		return m, nil
	}
	value, cmd := fv.update(msg)
	if value != fv.field.Value {
		if err := m.flow.Form.Set(fv.field.Ref, value); err != nil {
			logger.Warn("tui: %v", err)
		} else {
			m.edited(fv.field)
		}
	}
	return m, cmd
}

// edited drops the error marker of a field the user changed. Once no marker
// is left the forward button is enabled again.
func (m *Model) edited(f *form.Field) {
	if !f.Errored {
		return
	}
	f.Errored = false
	m.syncButtons()
}

func (m *Model) syncButtons() {
	if m.flow.Form.HasErrors() {
		m.buttons.SetState(stepwizard.ControlForward, ButtonDisabled)
		return
	}
	m.buttons.SetState(stepwizard.ControlForward, ButtonFocused)
	m.status = ""
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	fv := m.focused()
	multiline := fv != nil && fv.field.Kind == form.KindMultiline

	switch msg.String() {
	case "ctrl+c":
		m.aborted = true
		return tea.Quit, true

	case "ctrl+s":
		return m.forward(), true

	case "enter":
		if multiline {
			return nil, false
		}
		return m.forward(), true

	case "esc":
		m.wiz.Back()
		m.syncButtons()
		return m.flush(), true

	case "ctrl+r":
		m.wiz.Reset()
		for _, v := range m.views {
			v.reload()
		}
		m.syncButtons()
		return m.flush(), true

	case "tab", "down":
		if multiline && msg.String() == "down" {
			return nil, false
		}
		m.focusField(m.focus + 1)
		return m.flush(), true

	case "shift+tab", "up":
		if multiline && msg.String() == "up" {
			return nil, false
		}
		m.focusField(m.focus - 1)
		return m.flush(), true

	case "ctrl+e":
		if multiline {
			return m.openEditor(fv), true
		}

	case "space":
		if fv != nil && fv.field.Kind == form.KindBool {
			_ = m.flow.Form.Toggle(fv.field.Ref)
			return nil, true
		}

	case "left", "right":
		if fv != nil && fv.field.Kind == form.KindChoice {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			_ = m.flow.Form.Set(fv.field.Ref, nextOption(fv.field, delta))
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) forward() tea.Cmd {
	out, err := m.wiz.Forward()
	if err != nil {
		m.err = err
		return tea.Quit
	}
	if out == stepwizard.OutcomeRejected {
		m.status = "Fix the highlighted fields to continue."
		m.focusFirstError()
	}
	m.syncButtons()
	return m.flush()
}

// openEditor edits a multiline field in $EDITOR.
func (m *Model) openEditor(fv *fieldView) tea.Cmd {
	ref := fv.field.Ref
	tmp, err := os.CreateTemp("", "mgen_"+string(ref)+"_*.txt")
	if err != nil {
		return func() tea.Msg { return editedMsg{ref: ref, err: err} }
	}
	path := tmp.Name()
	if _, err := tmp.WriteString(fv.field.Value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(path)
		return func() tea.Msg { return editedMsg{ref: ref, err: err} }
	}
	_ = tmp.Close()

	cmd, err := editor.Command("mgen", path)
	if err != nil {
		_ = os.Remove(path)
		return func() tea.Msg { return editedMsg{ref: ref, err: err} }
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return editedMsg{ref: ref, err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return editedMsg{ref: ref, err: err}
		}
		return editedMsg{ref: ref, value: strings.TrimSuffix(string(data), "\n")}
	})
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.render()
	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal without placing it on the screen.
func (m *Model) render() string {
	s := m.theme.S()
	step := m.wiz.Current()

	titleStyle := s.HeaderTitle
	if m.fade > 0 {
		pos := 1 - float64(m.fade)/float64(fadeFrames)
		titleStyle = titleStyle.Foreground(lipgloss.Color(theme.InterpolateColor(m.theme.BgSurface2, m.theme.Primary, pos)))
	}

	var sections []string
	sections = append(sections,
		titleStyle.Render(fmt.Sprintf("New %s", m.flow.Name))+"  "+
			s.StepIndicator.Render(fmt.Sprintf("Step %d of %d: %s", step.Index+1, m.wiz.Len(), step.Title)),
		"",
	)

	fields := m.stepFields()
	for i, f := range fields {
		sections = append(sections, m.views[f.Ref].view(m.theme, i == m.focus), "")
	}

	if m.flow.HasPreview(m.visible) {
		sections = append(sections, m.flow.Preview(m.inputWidth()), "")
	}

	if m.status != "" {
		sections = append(sections, s.ErrorText.Render(m.status), "")
	}

	sections = append(sections, m.buttons.Render(), "", m.hints(fields))

	modal := s.Modal.Width(m.modalWidth()).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) hints(fields []*form.Field) string {
	forward, backward := m.wiz.Labels()
	pairs := []string{"enter", strings.ToLower(forward), "esc", strings.ToLower(backward)}

	if fv := m.focused(); fv != nil {
		switch fv.field.Kind {
		case form.KindBool:
			pairs = append(pairs, "space", "toggle")
		case form.KindChoice:
			pairs = append(pairs, "←→", "choose")
		case form.KindMultiline:
			pairs[0] = "ctrl+s"
			if os.Getenv("EDITOR") != "" {
				pairs = append(pairs, "ctrl+e", "edit")
			}
		}
	}
	if len(fields) > 1 {
		pairs = append(pairs, "tab", "next field")
	}
	pairs = append(pairs, "ctrl+r", "reset")
	return renderHintBar(m.theme, pairs...)
}

// ErrAborted is returned by Run when the user quit with ctrl+c.
var ErrAborted = errors.New("wizard aborted")

// Run shows fl full screen until the wizard finishes or is canceled.
// attach, when set, is called with the StepWizard before the program starts
// and its returned func after it stops.
func Run(fl *flows.Flow, opts Options, attach func(*stepwizard.StepWizard) func()) (Result, error) {
	m, err := New(fl, opts)
	if err != nil {
		return Result{}, err
	}

	if attach != nil {
		if stop := attach(m.wiz); stop != nil {
			defer stop()
		}
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return Result{}, fmt.Errorf("wizard failed: %w", err)
	}
	if m.err != nil {
		return m.Result(), m.err
	}
	res := m.Result()
	if res.Aborted {
		return res, ErrAborted
	}
	return res, nil
}
