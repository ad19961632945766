package flows

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
)

const (
	fieldDoImport   wizard.FieldRef = "do_import"
	fieldImportFrom wizard.FieldRef = "import_from"
	fieldData       wizard.FieldRef = "data"
	fieldParams     wizard.FieldRef = "params"
)

func newTemplateFlow(scope Scope, deps Deps) (*Flow, error) {
	if scope.ProjectID == "" {
		return nil, ErrNoProject
	}
	f, err := form.New(
		form.Field{Ref: fieldName, Label: "Name", Step: 0, Placeholder: "base"},
		form.Field{Ref: fieldType, Label: "Type", Step: 0, Default: "html"},
		form.Field{Ref: fieldDoImport, Label: "Import from file", Step: 0, Kind: form.KindBool, Default: "false"},
		form.Field{Ref: fieldImportFrom, Label: "Import path", Step: 0, Placeholder: "templates/base.html"},
		form.Field{Ref: fieldData, Label: "Template", Step: 0, Kind: form.KindMultiline},
		form.Field{Ref: fieldParams, Label: "Parameters", Step: 1, Placeholder: "title, author=anonymous"},
	)
	if err != nil {
		return nil, err
	}

	return &Flow{
		Name:        "template",
		Collection:  model.CollectionTemplates,
		Steps:       steps("Template", "Parameters", "Preview"),
		Form:        f,
		scope:       scope,
		deps:        deps,
		validate:    validateTemplate,
		payload:     templatePayload,
		label:       func(rec map[string]interface{}) string { return stringField(rec, "name") },
		preview:     templatePreview,
		previewStep: 2,
	}, nil
}

func validateTemplate(f *form.Form, step int) (wizard.ValidationResult, error) {
	switch step {
	case 0:
		refs := []wizard.FieldRef{fieldName, fieldType}
		if f.Bool(fieldDoImport) {
			refs = append(refs, fieldImportFrom)
		} else {
			refs = append(refs, fieldData)
		}
		return f.Missing(refs...)
	case 1:
		var res wizard.ValidationResult
		if _, err := parseParams(f.Value(fieldParams)); err != nil {
			res.Add(fieldParams)
		}
		return res, nil
	}
	return nil, nil
}

// parseParams reads "name[=default]" entries. Empty entries and names are
// rejected.
func parseParams(raw string) ([]model.TemplateParam, error) {
	out := []model.TemplateParam{}
	for i, entry := range form.SplitList(raw) {
		name, def, _ := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("parameter %d is empty", i+1)
		}
		out = append(out, model.TemplateParam{
			ID:      uuid.NewString(),
			Name:    name,
			Default: strings.TrimSpace(def),
		})
	}
	return out, nil
}

func templatePayload(f *form.Form, s Scope) (interface{}, error) {
	params, err := parseParams(f.Value(fieldParams))
	if err != nil {
		return nil, err
	}
	t := model.Template{
		ProjectID: s.ProjectID,
		Name:      f.Trimmed(fieldName),
		Type:      f.Trimmed(fieldType),
		DoImport:  f.Bool(fieldDoImport),
		Params:    params,
	}
	if t.DoImport {
		t.ImportFrom = f.Trimmed(fieldImportFrom)
	} else {
		t.Data = f.Value(fieldData)
	}
	return t, nil
}

func templatePreview(f *form.Form, _ Deps, width int) string {
	var b strings.Builder
	if f.Bool(fieldDoImport) {
		fmt.Fprintf(&b, "Imported from %s\n", f.Trimmed(fieldImportFrom))
	} else {
		b.WriteString(highlight(f.Value(fieldData), f.Trimmed(fieldType)))
		b.WriteString("\n")
	}

	params, err := parseParams(f.Value(fieldParams))
	if err == nil && len(params) > 0 {
		b.WriteString("\nParameters:\n")
		for _, p := range params {
			if p.Default != "" {
				fmt.Fprintf(&b, "  %s (default %q)\n", p.Name, p.Default)
			} else {
				fmt.Fprintf(&b, "  %s\n", p.Name)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
