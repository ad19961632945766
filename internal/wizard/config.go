package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrNoSteps        = errors.New("wizard: at least one step is required")
	ErrNoRenderer     = errors.New("wizard: renderer is required")
	ErrMissingControl = errors.New("wizard: forward and backward controls are required")
	ErrMissingLabel   = errors.New("wizard: button label is empty")
)

// Default control identifiers, used by renderers to address the two buttons.
const (
	ControlForward  = "wizard-next"
	ControlBackward = "wizard-prev"
)

// ValidatorFunc checks the input of one step. A non-empty result blocks the
// forward transition; a non-nil error is a programming error and is returned
// from Forward unchanged in meaning.
type ValidatorFunc func(step int) (ValidationResult, error)

// Renderer shows and hides steps.
type Renderer interface {
	Show(step int)
	Hide(step int)
}

// Transitioner is implemented by renderers that can animate a step switch.
// It must leave only the to step visible once the animation ends.
type Transitioner interface {
	Transition(from, to int, dir Direction)
}

// LabelSetter is implemented by renderers that display the button captions.
type LabelSetter interface {
	SetLabel(control, text string)
}

// Form is the enclosing form: it owns field values and error decoration.
type Form interface {
	Reset()
	MarkErrors(ValidationResult)
	ClearErrors()
}

// Container is whatever hosts the wizard (a dialog, a program) and must close
// when the wizard finishes or is canceled.
type Container interface {
	Close()
}

// Labels are the button captions.
type Labels struct {
	Next   string
	Finish string
	Back   string
	Cancel string
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		Next:   "Next",
		Finish: "Finish",
		Back:   "Back",
		Cancel: "Cancel",
	}
}

// Config configures a StepWizard. Start from DefaultConfig.
type Config struct {
	Name            string
	Animate         bool
	Validator       ValidatorFunc
	Labels          Labels
	ForwardControl  string
	BackwardControl string

	Renderer  Renderer
	Form      Form
	Container Container
}

// DefaultConfig returns a config with animation on, English labels and the
// default control identifiers. Renderer must still be set.
func DefaultConfig() Config {
	return Config{
		Name:            "wizard",
		Animate:         true,
		Labels:          DefaultLabels(),
		ForwardControl:  ControlForward,
		BackwardControl: ControlBackward,
	}
}

func (c Config) validate() error {
	if c.Renderer == nil {
		return ErrNoRenderer
	}
	if c.ForwardControl == "" || c.BackwardControl == "" {
		return ErrMissingControl
	}
	labels := map[string]string{
		"next":   c.Labels.Next,
		"finish": c.Labels.Finish,
		"back":   c.Labels.Back,
		"cancel": c.Labels.Cancel,
	}
	for name, text := range labels {
		if text == "" {
			return fmt.Errorf("%w: %s", ErrMissingLabel, name)
		}
	}
	return nil
}

// LabelsFor returns the forward and backward captions for a position.
// The last-step rule wins, so a single-step wizard shows Finish/Back.
func LabelsFor(index, count int, l Labels) (forward, backward string) {
	if index >= count-1 {
		return l.Finish, l.Back
	}
	if index == 0 {
		return l.Next, l.Cancel
	}
	return l.Next, l.Back
}
