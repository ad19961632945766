package flows

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
)

// ErrNoTemplates is returned when a page flow is built for a project without
// templates.
var ErrNoTemplates = errors.New("project has no templates, create one first")

const (
	fieldTemplateID wizard.FieldRef = "template_id"
	fieldPath       wizard.FieldRef = "path"
)

func newPageFlow(scope Scope, deps Deps) (*Flow, error) {
	if scope.ProjectID == "" {
		return nil, ErrNoProject
	}
	if len(deps.Templates) == 0 {
		return nil, ErrNoTemplates
	}

	opts := make([]form.Option, 0, len(deps.Templates))
	for _, t := range deps.Templates {
		opts = append(opts, form.Option{Value: t.ID, Label: t.Name})
	}

	f, err := form.New(
		form.Field{Ref: fieldTemplateID, Label: "Template", Step: 0, Kind: form.KindChoice, Options: opts, Default: opts[0].Value},
		form.Field{Ref: fieldPath, Label: "Path", Step: 0, Placeholder: "/about.html"},
	)
	if err != nil {
		return nil, err
	}

	return &Flow{
		Name:        "page",
		Collection:  model.CollectionPages,
		Steps:       steps("Page", "Preview"),
		Form:        f,
		scope:       scope,
		deps:        deps,
		validate:    validatePage,
		payload:     pagePayload,
		label:       func(rec map[string]interface{}) string { return stringField(rec, "path") },
		preview:     pagePreview,
		previewStep: 1,
	}, nil
}

func validatePage(f *form.Form, step int) (wizard.ValidationResult, error) {
	if step != 0 {
		return nil, nil
	}
	return f.Missing(fieldTemplateID, fieldPath)
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func pagePayload(f *form.Form, s Scope) (interface{}, error) {
	return model.Page{
		ProjectID:  s.ProjectID,
		TemplateID: f.Value(fieldTemplateID),
		Path:       normalizePath(f.Value(fieldPath)),
		Params:     map[string]string{},
	}, nil
}

func pagePreview(f *form.Form, d Deps, width int) string {
	tmpl := f.Value(fieldTemplateID)
	for _, t := range d.Templates {
		if t.ID == tmpl {
			tmpl = t.Name
			break
		}
	}
	path := normalizePath(f.Value(fieldPath))

	md := fmt.Sprintf("| Template | Path |\n| --- | --- |\n| %s | `%s` |\n", tmpl, path)
	if d.Project != nil && d.Project.PublicBaseURI != "" {
		md += fmt.Sprintf("\nPublished at %s%s\n", strings.TrimRight(d.Project.PublicBaseURI, "/"), path)
	}
	return renderMarkdown(md, width)
}
