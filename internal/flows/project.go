package flows

import (
	"net/url"

	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
)

const (
	fieldTitle         wizard.FieldRef = "title"
	fieldPublicBaseURI wizard.FieldRef = "public_base_uri"
	fieldEnableRobots  wizard.FieldRef = "enable_robots"
	fieldEnableSitemap wizard.FieldRef = "enable_sitemap"
)

func newProjectFlow(scope Scope, deps Deps) (*Flow, error) {
	f, err := form.New(
		form.Field{Ref: fieldTitle, Label: "Title", Step: 0, Placeholder: "My site"},
		form.Field{Ref: fieldPublicBaseURI, Label: "Public base URI", Step: 0, Placeholder: "https://example.com"},
		form.Field{Ref: fieldEnableRobots, Label: "Generate robots.txt", Step: 1, Kind: form.KindBool, Default: "true"},
		form.Field{Ref: fieldEnableSitemap, Label: "Generate sitemap.xml", Step: 1, Kind: form.KindBool, Default: "true"},
	)
	if err != nil {
		return nil, err
	}

	return &Flow{
		Name:        "project",
		Collection:  model.CollectionProjects,
		Steps:       steps("Project", "Options"),
		Form:        f,
		scope:       scope,
		deps:        deps,
		validate:    validateProject,
		payload:     projectPayload,
		label:       func(rec map[string]interface{}) string { return stringField(rec, "title") },
		previewStep: -1,
	}, nil
}

func validateProject(f *form.Form, step int) (wizard.ValidationResult, error) {
	if step != 0 {
		return nil, nil
	}
	res, err := f.Missing(fieldTitle, fieldPublicBaseURI)
	if err != nil {
		return nil, err
	}
	if !res.Contains(fieldPublicBaseURI) && !absoluteHTTP(f.Trimmed(fieldPublicBaseURI)) {
		res.Add(fieldPublicBaseURI)
	}
	return res, nil
}

func absoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func projectPayload(f *form.Form, _ Scope) (interface{}, error) {
	return model.Project{
		Title:         f.Trimmed(fieldTitle),
		PublicBaseURI: f.Trimmed(fieldPublicBaseURI),
		Options: model.ProjectOptions{
			EnableRobots:  f.Bool(fieldEnableRobots),
			EnableSitemap: f.Bool(fieldEnableSitemap),
		},
	}, nil
}
