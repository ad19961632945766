// Package wizard implements StepWizard, a sequencer over a fixed list of
// input steps that gates forward progress on validation.
//
// A StepWizard is driven from a single goroutine (a UI event loop). Forward
// runs the validator, Back never does. Both close the container and emit a
// terminal event at the ends of the sequence; Reset returns to the first step
// from any state.
package wizard

import (
	"fmt"

	"github.com/mark3labs/mgen/internal/logger"
)

// StepWizard sequences steps and emits switched, finished and canceled events.
type StepWizard struct {
	cfg   Config
	steps []Step
	state State

	events emitter
}

// New builds a wizard over steps. It fails fast on an empty step list or an
// incomplete config. Step 0 is the only visible step afterwards.
func New(steps []Step, cfg Config) (*StepWizard, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	own := make([]Step, len(steps))
	for i, s := range steps {
		own[i] = Step{
			Title: s.Title,
			Index: i,
			First: i == 0,
			Last:  i == len(steps)-1,
		}
	}

	w := &StepWizard{
		cfg:   cfg,
		steps: own,
	}
	w.showOnly(0)
	w.updateLabels()

	logger.Debug("wizard %s: created with %d steps", cfg.Name, len(own))
	return w, nil
}

// Name returns the configured wizard name.
func (w *StepWizard) Name() string { return w.cfg.Name }

// Len returns the number of steps.
func (w *StepWizard) Len() int { return len(w.steps) }

// Index returns the current step index.
func (w *StepWizard) Index() int { return w.state.Index }

// State returns a snapshot of the current position.
func (w *StepWizard) State() State { return w.state }

// Steps returns a copy of the step list.
func (w *StepWizard) Steps() []Step {
	return append([]Step(nil), w.steps...)
}

// Step returns the step at index i.
func (w *StepWizard) Step(i int) (Step, bool) {
	if i < 0 || i >= len(w.steps) {
		return Step{}, false
	}
	return w.steps[i], true
}

// Current returns the current step.
func (w *StepWizard) Current() Step { return w.steps[w.state.Index] }

// AtStart reports whether the current step is the first one.
func (w *StepWizard) AtStart() bool { return w.state.Index == 0 }

// AtEnd reports whether the current step is the last one.
func (w *StepWizard) AtEnd() bool { return w.state.Index >= len(w.steps)-1 }

// Labels returns the forward and backward captions for the current step.
func (w *StepWizard) Labels() (forward, backward string) {
	return LabelsFor(w.state.Index, len(w.steps), w.cfg.Labels)
}

// On registers fn for events of kind. The returned func unregisters it.
func (w *StepWizard) On(kind EventKind, fn Listener) func() {
	return w.events.on(kind, fn)
}

// OnAny registers fn for every event.
func (w *StepWizard) OnAny(fn Listener) func() {
	return w.events.on("", fn)
}

// OnSwitched registers fn for switched events with the new step index.
func (w *StepWizard) OnSwitched(fn func(step int)) func() {
	return w.events.on(EventSwitched, func(ev Event) { fn(ev.Step) })
}

// OnFinished registers fn for the finished event.
func (w *StepWizard) OnFinished(fn func()) func() {
	return w.events.on(EventFinished, func(Event) { fn() })
}

// OnCanceled registers fn for the canceled event.
func (w *StepWizard) OnCanceled(fn func()) func() {
	return w.events.on(EventCanceled, func(Event) { fn() })
}

// Subscribe returns a buffered channel receiving every event after the
// listeners ran. A full channel drops events instead of blocking. The returned
// func unsubscribes and closes the channel; it must be called from the
// goroutine driving the wizard or after it stopped.
func (w *StepWizard) Subscribe(buffer int) (<-chan Event, func()) {
	return w.events.subscribe(buffer)
}

// Forward validates the current step and advances, or finishes on the last
// step. Validation failures mark fields and return OutcomeRejected; a
// validator error is returned and leaves the state untouched.
func (w *StepWizard) Forward() (Outcome, error) {
	if w.state.Lifecycle != Active {
		logger.Debug("wizard %s: forward ignored, wizard is %s", w.cfg.Name, w.state.Lifecycle)
		return OutcomeIgnored, nil
	}

	if w.cfg.Form != nil {
		w.cfg.Form.ClearErrors()
	}

	if w.cfg.Validator != nil {
		result, err := w.cfg.Validator(w.state.Index)
		if err != nil {
			return OutcomeIgnored, fmt.Errorf("wizard %s: validating step %d: %w", w.cfg.Name, w.state.Index, err)
		}
		if !result.Valid() {
			logger.Debug("wizard %s: step %d rejected, %d invalid field(s)", w.cfg.Name, w.state.Index, len(result))
			if w.cfg.Form != nil {
				w.cfg.Form.MarkErrors(result)
			}
			return OutcomeRejected, nil
		}
	}

	w.state.Direction = DirectionForward

	if w.AtEnd() {
		w.state.Lifecycle = Finished
		logger.Debug("wizard %s: finished at step %d", w.cfg.Name, w.state.Index)
		w.closeContainer()
		w.emit(EventFinished)
		return OutcomeFinished, nil
	}

	w.switchTo(w.state.Index + 1)
	return OutcomeSwitched, nil
}

// Back moves to the previous step, or cancels on the first step. It never
// runs the validator.
func (w *StepWizard) Back() Outcome {
	if w.state.Lifecycle != Active {
		logger.Debug("wizard %s: back ignored, wizard is %s", w.cfg.Name, w.state.Lifecycle)
		return OutcomeIgnored
	}

	w.state.Direction = DirectionBackward

	if w.AtStart() {
		w.state.Lifecycle = Canceled
		logger.Debug("wizard %s: canceled", w.cfg.Name)
		w.closeContainer()
		w.emit(EventCanceled)
		return OutcomeCanceled
	}

	w.switchTo(w.state.Index - 1)
	return OutcomeSwitched
}

// Reset clears the form and error markers and returns to an active first step.
func (w *StepWizard) Reset() {
	if w.cfg.Form != nil {
		w.cfg.Form.Reset()
		w.cfg.Form.ClearErrors()
	}
	w.state = State{}
	w.showOnly(0)
	w.updateLabels()
	logger.Debug("wizard %s: reset", w.cfg.Name)
}

func (w *StepWizard) switchTo(next int) {
	prev := w.state.Index
	if t, ok := w.cfg.Renderer.(Transitioner); ok && w.cfg.Animate {
		t.Transition(prev, next, w.state.Direction)
	} else {
		w.cfg.Renderer.Hide(prev)
		w.cfg.Renderer.Show(next)
	}
	w.state.Index = next
	w.updateLabels()

	logger.Debug("wizard %s: switched %d -> %d", w.cfg.Name, prev, next)
	w.emit(EventSwitched)
}

func (w *StepWizard) showOnly(index int) {
	for i := range w.steps {
		if i != index {
			w.cfg.Renderer.Hide(i)
		}
	}
	w.cfg.Renderer.Show(index)
}

func (w *StepWizard) updateLabels() {
	ls, ok := w.cfg.Renderer.(LabelSetter)
	if !ok {
		return
	}
	forward, backward := w.Labels()
	ls.SetLabel(w.cfg.ForwardControl, forward)
	ls.SetLabel(w.cfg.BackwardControl, backward)
}

func (w *StepWizard) closeContainer() {
	if w.cfg.Container != nil {
		w.cfg.Container.Close()
	}
}

func (w *StepWizard) emit(kind EventKind) {
	w.events.emit(Event{
		Kind:      kind,
		Wizard:    w.cfg.Name,
		Step:      w.state.Index,
		Direction: w.state.Direction,
	})
}
