package wizard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingRenderer tracks visibility and labels.
type recordingRenderer struct {
	visible     map[int]bool
	labels      map[string]string
	transitions [][2]int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{visible: map[int]bool{}, labels: map[string]string{}}
}

func (r *recordingRenderer) Show(step int)                 { r.visible[step] = true }
func (r *recordingRenderer) Hide(step int)                 { r.visible[step] = false }
func (r *recordingRenderer) SetLabel(control, text string) { r.labels[control] = text }

func (r *recordingRenderer) visibleSteps() []int {
	var out []int
	for i := 0; i < 16; i++ {
		if r.visible[i] {
			out = append(out, i)
		}
	}
	return out
}

// animatedRenderer also implements Transitioner.
type animatedRenderer struct {
	*recordingRenderer
}

func (a animatedRenderer) Transition(from, to int, dir Direction) {
	a.transitions = append(a.transitions, [2]int{from, to})
	a.visible[from] = false
	a.visible[to] = true
}

type fakeForm struct {
	marked  ValidationResult
	resets  int
	cleared int
}

func (f *fakeForm) Reset()                        { f.resets++ }
func (f *fakeForm) MarkErrors(r ValidationResult) { f.marked = append(ValidationResult(nil), r...) }
func (f *fakeForm) ClearErrors()                  { f.cleared++; f.marked = nil }

type fakeContainer struct{ closed int }

func (c *fakeContainer) Close() { c.closed++ }

type harness struct {
	w         *StepWizard
	renderer  *recordingRenderer
	form      *fakeForm
	container *fakeContainer
	events    []Event
	validated []int
}

// newHarness builds an n-step wizard. fail decides, per step, which fields fail.
func newHarness(t *testing.T, n int, fail func(step int) ValidationResult) *harness {
	t.Helper()
	h := &harness{
		renderer:  newRecordingRenderer(),
		form:      &fakeForm{},
		container: &fakeContainer{},
	}

	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Step{Title: "step"}
	}

	cfg := DefaultConfig()
	cfg.Name = "test"
	cfg.Animate = false
	cfg.Renderer = h.renderer
	cfg.Form = h.form
	cfg.Container = h.container
	cfg.Validator = func(step int) (ValidationResult, error) {
		h.validated = append(h.validated, step)
		if fail == nil {
			return nil, nil
		}
		return fail(step), nil
	}

	w, err := New(steps, cfg)
	require.NoError(t, err)
	w.OnAny(func(ev Event) { h.events = append(h.events, ev) })
	h.w = w
	return h
}

func (h *harness) kinds() []EventKind {
	var out []EventKind
	for _, ev := range h.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	r := newRecordingRenderer()

	_, err := New(nil, Config{Renderer: r})
	require.ErrorIs(t, err, ErrNoSteps)

	_, err = New([]Step{{}}, DefaultConfig())
	require.ErrorIs(t, err, ErrNoRenderer)

	cfg := DefaultConfig()
	cfg.Renderer = r
	cfg.BackwardControl = ""
	_, err = New([]Step{{}}, cfg)
	require.ErrorIs(t, err, ErrMissingControl)

	cfg = DefaultConfig()
	cfg.Renderer = r
	cfg.Labels.Finish = ""
	_, err = New([]Step{{}}, cfg)
	require.ErrorIs(t, err, ErrMissingLabel)
	require.Contains(t, err.Error(), "finish")
}

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t, 3, nil)

	require.Equal(t, State{Index: 0, Direction: DirectionIdle, Lifecycle: Active}, h.w.State())
	require.Equal(t, []int{0}, h.renderer.visibleSteps())
	require.True(t, h.w.AtStart())
	require.False(t, h.w.AtEnd())
	require.Equal(t, "Next", h.renderer.labels[ControlForward])
	require.Equal(t, "Cancel", h.renderer.labels[ControlBackward])

	steps := h.w.Steps()
	require.Len(t, steps, 3)
	require.True(t, steps[0].First)
	require.False(t, steps[0].Last)
	require.Equal(t, 1, steps[1].Index)
	require.True(t, steps[2].Last)

	_, ok := h.w.Step(3)
	require.False(t, ok)
}

func TestForward_ThreeStepsAllValid(t *testing.T) {
	h := newHarness(t, 3, nil)

	for i := 0; i < 3; i++ {
		_, err := h.w.Forward()
		require.NoError(t, err)
	}

	require.Equal(t, []EventKind{EventSwitched, EventSwitched, EventFinished}, h.kinds())
	require.Equal(t, 1, h.events[0].Step)
	require.Equal(t, 2, h.events[1].Step)
	require.Equal(t, 2, h.w.Index(), "finishing must not move past the last step")
	require.Equal(t, Finished, h.w.State().Lifecycle)
	require.Equal(t, 1, h.container.closed)
}

func TestForward_AfterFinishedIsIgnored(t *testing.T) {
	h := newHarness(t, 1, nil)

	out, err := h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, out)

	out, err = h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, OutcomeIgnored, out)
	require.Equal(t, OutcomeIgnored, h.w.Back())

	require.Equal(t, []EventKind{EventFinished}, h.kinds())
	require.Equal(t, []int{0}, h.validated, "validator must not run once finished")
	require.Equal(t, 1, h.container.closed)
}

func TestForward_RejectedThenCorrected(t *testing.T) {
	corrected := false
	h := newHarness(t, 2, func(step int) ValidationResult {
		if step == 0 && !corrected {
			return ValidationResult{"name", "type"}
		}
		return nil
	})

	out, err := h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, OutcomeRejected, out)
	require.Equal(t, 0, h.w.Index())
	require.Empty(t, h.events)
	require.Equal(t, ValidationResult{"name", "type"}, h.form.marked)

	corrected = true
	out, err = h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, OutcomeSwitched, out)
	require.Empty(t, h.form.marked, "markers are cleared before validating again")

	out, err = h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, OutcomeFinished, out)

	require.Equal(t, []EventKind{EventSwitched, EventFinished}, h.kinds())
	require.Equal(t, 1, h.events[0].Step)
}

func TestForward_ValidatorErrorPropagates(t *testing.T) {
	boom := errors.New("selector not found")
	r := newRecordingRenderer()
	cfg := DefaultConfig()
	cfg.Renderer = r
	cfg.Validator = func(int) (ValidationResult, error) { return nil, boom }

	w, err := New([]Step{{}, {}}, cfg)
	require.NoError(t, err)

	var events int
	w.OnAny(func(Event) { events++ })

	out, err := w.Forward()
	require.ErrorIs(t, err, boom)
	require.Equal(t, OutcomeIgnored, out)
	require.Equal(t, 0, w.Index())
	require.Zero(t, events)
	require.Equal(t, Active, w.State().Lifecycle)
}

func TestForward_ValidatorPanicPropagates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Renderer = newRecordingRenderer()
	cfg.Validator = func(int) (ValidationResult, error) { panic("broken validator") }

	w, err := New([]Step{{}}, cfg)
	require.NoError(t, err)

	require.PanicsWithValue(t, "broken validator", func() { _, _ = w.Forward() })
}

func TestBack_NeverValidates(t *testing.T) {
	h := newHarness(t, 3, func(int) ValidationResult { return ValidationResult{"always"} })

	out := h.w.Back()
	require.Equal(t, OutcomeCanceled, out)
	require.Empty(t, h.validated)
	require.Equal(t, []EventKind{EventCanceled}, h.kinds())
	require.Equal(t, Canceled, h.w.State().Lifecycle)
	require.Equal(t, 1, h.container.closed)
}

func TestBack_FromMiddle(t *testing.T) {
	h := newHarness(t, 3, nil)

	_, err := h.w.Forward()
	require.NoError(t, err)
	_, err = h.w.Forward()
	require.NoError(t, err)
	require.Equal(t, "Finish", h.renderer.labels[ControlForward])
	require.Equal(t, "Back", h.renderer.labels[ControlBackward])

	validatedBefore := len(h.validated)
	require.Equal(t, OutcomeSwitched, h.w.Back())
	require.Equal(t, 1, h.w.Index())
	require.Equal(t, DirectionBackward, h.w.State().Direction)
	require.Equal(t, []int{1}, h.renderer.visibleSteps())
	require.Equal(t, "Next", h.renderer.labels[ControlForward])
	require.Equal(t, "Back", h.renderer.labels[ControlBackward])
	require.Len(t, h.validated, validatedBefore)

	last := h.events[len(h.events)-1]
	require.Equal(t, Event{Kind: EventSwitched, Wizard: "test", Step: 1, Direction: DirectionBackward}, last)
}

func TestReset_AfterTerminalStates(t *testing.T) {
	t.Run("after canceled", func(t *testing.T) {
		h := newHarness(t, 2, nil)
		require.Equal(t, OutcomeCanceled, h.w.Back())

		h.w.Reset()
		require.Equal(t, State{}, h.w.State())
		require.Equal(t, 1, h.form.resets)
		require.Empty(t, h.form.marked)

		out, err := h.w.Forward()
		require.NoError(t, err)
		require.Equal(t, OutcomeSwitched, out)
		require.Equal(t, []EventKind{EventCanceled, EventSwitched}, h.kinds())
	})

	t.Run("after finished", func(t *testing.T) {
		h := newHarness(t, 2, nil)
		_, _ = h.w.Forward()
		_, _ = h.w.Forward()
		require.Equal(t, Finished, h.w.State().Lifecycle)

		h.w.Reset()
		require.Equal(t, 0, h.w.Index())
		require.Equal(t, Active, h.w.State().Lifecycle)
		require.Equal(t, []int{0}, h.renderer.visibleSteps())
		require.Equal(t, "Cancel", h.renderer.labels[ControlBackward])
	})

	t.Run("clears error markers", func(t *testing.T) {
		h := newHarness(t, 2, func(int) ValidationResult { return ValidationResult{"name"} })
		_, _ = h.w.Forward()
		require.NotEmpty(t, h.form.marked)

		h.w.Reset()
		require.Empty(t, h.form.marked)
	})
}

func TestIndexStaysInRange(t *testing.T) {
	// Fixed walk of forward/back calls with resets at terminal states.
	for n := 1; n <= 5; n++ {
		h := newHarness(t, n, nil)
		seq := []bool{true, true, false, true, false, false, true, true, true, true, false}
		for _, forward := range seq {
			if forward {
				_, err := h.w.Forward()
				require.NoError(t, err)
			} else {
				h.w.Back()
			}
			require.GreaterOrEqual(t, h.w.Index(), 0)
			require.Less(t, h.w.Index(), n)
			require.Len(t, h.renderer.visibleSteps(), 1)
			if h.w.State().Lifecycle != Active {
				h.w.Reset()
			}
		}
	}
}

func TestAnimatedTransition(t *testing.T) {
	r := animatedRenderer{newRecordingRenderer()}
	cfg := DefaultConfig()
	cfg.Renderer = r

	w, err := New([]Step{{}, {}, {}}, cfg)
	require.NoError(t, err)

	_, err = w.Forward()
	require.NoError(t, err)
	w.Back()

	require.Equal(t, [][2]int{{0, 1}, {1, 0}}, r.transitions)
	require.Equal(t, []int{0}, r.visibleSteps())

	// Animation off: plain hide/show even if the renderer can animate.
	r2 := animatedRenderer{newRecordingRenderer()}
	cfg.Renderer = r2
	cfg.Animate = false
	w2, err := New([]Step{{}, {}}, cfg)
	require.NoError(t, err)
	_, err = w2.Forward()
	require.NoError(t, err)
	require.Empty(t, r2.transitions)
	require.Equal(t, []int{1}, r2.visibleSteps())
}

func TestLabelsFor(t *testing.T) {
	l := DefaultLabels()
	tests := []struct {
		name          string
		index, count  int
		wantForward   string
		wantBackwards string
	}{
		{"first of three", 0, 3, "Next", "Cancel"},
		{"middle of three", 1, 3, "Next", "Back"},
		{"last of three", 2, 3, "Finish", "Back"},
		{"single step", 0, 1, "Finish", "Back"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, b := LabelsFor(tt.index, tt.count, l)
			require.Equal(t, tt.wantForward, f)
			require.Equal(t, tt.wantBackwards, b)
		})
	}
}

func TestValidationResult(t *testing.T) {
	var r ValidationResult
	require.True(t, r.Valid())

	r.Add("a", "b", "a")
	require.Equal(t, ValidationResult{"a", "b"}, r)
	require.False(t, r.Valid())
	require.True(t, r.Contains("b"))
	require.False(t, r.Contains("c"))
}
