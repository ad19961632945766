// Package flows defines the entity wizards of the console: the steps, fields,
// per-step validation and the payload sent to the API when a wizard finishes.
package flows

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
)

// ErrNoProject is returned when a project scoped flow is built without one.
var ErrNoProject = errors.New("flow needs a project")

// Scope identifies what a flow creates records for.
type Scope struct {
	ProjectID string
}

// Deps carries data a flow needs up front, fetched by the caller.
type Deps struct {
	Project   *model.Project
	Templates []model.Template
}

// Flow is one entity wizard. The form is owned by the flow and handed to the
// StepWizard as its Form collaborator.
type Flow struct {
	Name       string
	Collection string
	Steps      []wizard.Step
	Form       *form.Form

	scope    Scope
	deps     Deps
	validate func(f *form.Form, step int) (wizard.ValidationResult, error)
	payload  func(f *form.Form, s Scope) (interface{}, error)
	label    func(rec map[string]interface{}) string
	preview  func(f *form.Form, d Deps, width int) string
	// previewStep is the step that shows the preview, -1 for none.
	previewStep int
}

type builder func(Scope, Deps) (*Flow, error)

var registry = map[string]builder{
	"project":  newProjectFlow,
	"item":     newItemFlow,
	"template": newTemplateFlow,
	"page":     newPageFlow,
}

// Names returns the available flow names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds the named flow.
func New(name string, scope Scope, deps Deps) (*Flow, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown wizard %q (want one of %v)", name, Names())
	}
	return b(scope, deps)
}

// Validator adapts the flow's rules to the wizard.
func (fl *Flow) Validator() wizard.ValidatorFunc {
	return func(step int) (wizard.ValidationResult, error) {
		if fl.validate == nil {
			return nil, nil
		}
		return fl.validate(fl.Form, step)
	}
}

// WizardConfig returns a wizard config wired to this flow's form and rules.
// The caller supplies the renderer and container.
func (fl *Flow) WizardConfig(labels wizard.Labels, animate bool) wizard.Config {
	cfg := wizard.DefaultConfig()
	cfg.Name = fl.Name
	cfg.Animate = animate
	cfg.Labels = labels
	cfg.Validator = fl.Validator()
	cfg.Form = fl.Form
	return cfg
}

// Payload builds the request body for the finished wizard.
func (fl *Flow) Payload() (interface{}, error) {
	return fl.payload(fl.Form, fl.scope)
}

// Success returns the banner for a created record.
func (fl *Flow) Success(res *api.Result) (string, error) {
	var rec map[string]interface{}
	if err := res.First(&rec); err != nil {
		return "", fmt.Errorf("reading created %s: %w", fl.Name, err)
	}
	return fmt.Sprintf("New %s %s was created successfully.", fl.Name, fl.label(rec)), nil
}

// RecordID returns the id of the created record, or "".
func RecordID(res *api.Result) string {
	var rec struct {
		ID string `json:"id"`
	}
	if res == nil || res.First(&rec) != nil {
		return ""
	}
	return rec.ID
}

// RecordLabel returns the display label of the created record, or "".
func (fl *Flow) RecordLabel(res *api.Result) string {
	var rec map[string]interface{}
	if res == nil || res.First(&rec) != nil {
		return ""
	}
	return fl.label(rec)
}

// HasPreview reports whether step shows a preview.
func (fl *Flow) HasPreview(step int) bool {
	return fl.preview != nil && step == fl.previewStep
}

// Preview renders the preview for the current form values.
func (fl *Flow) Preview(width int) string {
	if fl.preview == nil {
		return ""
	}
	return fl.preview(fl.Form, fl.deps, width)
}

func steps(titles ...string) []wizard.Step {
	out := make([]wizard.Step, len(titles))
	for i, t := range titles {
		out[i] = wizard.Step{Title: t}
	}
	return out
}

func stringField(rec map[string]interface{}, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}
