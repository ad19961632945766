package flows

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
	"github.com/stretchr/testify/require"
)

var testScope = Scope{ProjectID: "p1"}

func set(t *testing.T, fl *Flow, values map[wizard.FieldRef]string) {
	t.Helper()
	for ref, v := range values {
		require.NoError(t, fl.Form.Set(ref, v))
	}
}

func validate(t *testing.T, fl *Flow, step int) wizard.ValidationResult {
	t.Helper()
	res, err := fl.Validator()(step)
	require.NoError(t, err)
	return res
}

func TestNew(t *testing.T) {
	require.Equal(t, []string{"item", "page", "project", "template"}, Names())

	_, err := New("slug", testScope, Deps{})
	require.ErrorContains(t, err, "unknown wizard")

	for _, name := range []string{"item", "template", "page"} {
		_, err := New(name, Scope{}, Deps{Templates: []model.Template{{ID: "t1"}}})
		require.ErrorIs(t, err, ErrNoProject, name)
	}

	_, err = New("page", testScope, Deps{})
	require.ErrorIs(t, err, ErrNoTemplates)

	fl, err := New("project", Scope{}, Deps{})
	require.NoError(t, err)
	require.Equal(t, model.CollectionProjects, fl.Collection)
}

func TestProjectFlow(t *testing.T) {
	fl, err := New("project", Scope{}, Deps{})
	require.NoError(t, err)
	require.Len(t, fl.Steps, 2)

	require.Equal(t, wizard.ValidationResult{fieldTitle, fieldPublicBaseURI}, validate(t, fl, 0))

	set(t, fl, map[wizard.FieldRef]string{fieldTitle: "Blog", fieldPublicBaseURI: "example.com"})
	require.Equal(t, wizard.ValidationResult{fieldPublicBaseURI}, validate(t, fl, 0))

	set(t, fl, map[wizard.FieldRef]string{fieldPublicBaseURI: "https://example.com", fieldEnableRobots: "false"})
	require.True(t, validate(t, fl, 0).Valid())
	require.True(t, validate(t, fl, 1).Valid())

	p, err := fl.Payload()
	require.NoError(t, err)
	require.Equal(t, model.Project{
		Title:         "Blog",
		PublicBaseURI: "https://example.com",
		Options:       model.ProjectOptions{EnableRobots: false, EnableSitemap: true},
	}, p)
	require.False(t, fl.HasPreview(1))
}

func TestItemFlow(t *testing.T) {
	fl, err := New("item", testScope, Deps{})
	require.NoError(t, err)

	require.Equal(t, wizard.ValidationResult{fieldName}, validate(t, fl, 0))
	set(t, fl, map[wizard.FieldRef]string{fieldName: "About Us", fieldTags: "news, ,blog"})
	require.True(t, validate(t, fl, 0).Valid())

	// publish_on only matters once published is set.
	require.True(t, validate(t, fl, 1).Valid())
	set(t, fl, map[wizard.FieldRef]string{fieldPublished: "true"})
	require.Equal(t, wizard.ValidationResult{fieldPublishOn}, validate(t, fl, 1))
	set(t, fl, map[wizard.FieldRef]string{fieldPublishOn: "2024-05-01"})
	require.Equal(t, wizard.ValidationResult{fieldPublishOn}, validate(t, fl, 1))
	set(t, fl, map[wizard.FieldRef]string{fieldPublishOn: "01-05-2024"})
	require.True(t, validate(t, fl, 1).Valid())

	set(t, fl, map[wizard.FieldRef]string{fieldBody: "# Hello"})
	p, err := fl.Payload()
	require.NoError(t, err)
	it := p.(model.Item)
	require.Equal(t, "p1", it.ProjectID)
	require.Equal(t, "about-us", it.URIPath)
	require.Equal(t, []string{"news", "blog"}, it.Tags)
	require.Equal(t, "01-05-2024", it.PublishOn)
	require.Equal(t, "markdown", it.Type)

	require.True(t, fl.HasPreview(2))
	require.Contains(t, fl.Preview(80), "Hello")
}

func TestItemFlow_ExplicitURIAndNoTags(t *testing.T) {
	fl, err := New("item", testScope, Deps{})
	require.NoError(t, err)
	set(t, fl, map[wizard.FieldRef]string{fieldName: "x", fieldURIPath: " custom/path ", fieldPublishOn: "01-05-2024"})

	p, err := fl.Payload()
	require.NoError(t, err)
	it := p.(model.Item)
	require.Equal(t, "custom/path", it.URIPath)
	require.Equal(t, []string{}, it.Tags)
	require.Empty(t, it.PublishOn, "unpublished items carry no date")
}

func TestTemplateFlow(t *testing.T) {
	fl, err := New("template", testScope, Deps{})
	require.NoError(t, err)

	set(t, fl, map[wizard.FieldRef]string{fieldName: "base"})
	require.Equal(t, wizard.ValidationResult{fieldData}, validate(t, fl, 0))

	set(t, fl, map[wizard.FieldRef]string{fieldDoImport: "true"})
	require.Equal(t, wizard.ValidationResult{fieldImportFrom}, validate(t, fl, 0))

	set(t, fl, map[wizard.FieldRef]string{fieldDoImport: "false", fieldData: "<h1>${title}</h1>"})
	require.True(t, validate(t, fl, 0).Valid())

	set(t, fl, map[wizard.FieldRef]string{fieldParams: "title,,author"})
	require.Equal(t, wizard.ValidationResult{fieldParams}, validate(t, fl, 1))

	set(t, fl, map[wizard.FieldRef]string{fieldParams: "title, author=anonymous"})
	require.True(t, validate(t, fl, 1).Valid())

	p, err := fl.Payload()
	require.NoError(t, err)
	tpl := p.(model.Template)
	require.Equal(t, "<h1>${title}</h1>", tpl.Data)
	require.Empty(t, tpl.ImportFrom)
	require.Len(t, tpl.Params, 2)
	require.Equal(t, "author", tpl.Params[1].Name)
	require.Equal(t, "anonymous", tpl.Params[1].Default)
	require.NotEmpty(t, tpl.Params[0].ID)
	require.NotEqual(t, tpl.Params[0].ID, tpl.Params[1].ID)

	preview := fl.Preview(80)
	require.Contains(t, preview, "h1")
	require.Contains(t, preview, `author (default "anonymous")`)
}

func TestTemplateFlow_Import(t *testing.T) {
	fl, err := New("template", testScope, Deps{})
	require.NoError(t, err)
	set(t, fl, map[wizard.FieldRef]string{
		fieldName: "base", fieldDoImport: "true", fieldImportFrom: "tpl/base.html", fieldData: "ignored",
	})

	p, err := fl.Payload()
	require.NoError(t, err)
	tpl := p.(model.Template)
	require.True(t, tpl.DoImport)
	require.Equal(t, "tpl/base.html", tpl.ImportFrom)
	require.Empty(t, tpl.Data)
	require.Equal(t, []model.TemplateParam{}, tpl.Params)
	require.Equal(t, "Imported from tpl/base.html", fl.Preview(80))
}

func TestPageFlow(t *testing.T) {
	deps := Deps{
		Project:   &model.Project{ID: "p1", PublicBaseURI: "https://example.com/"},
		Templates: []model.Template{{ID: "t1", Name: "Base"}, {ID: "t2", Name: "Blog"}},
	}
	fl, err := New("page", testScope, deps)
	require.NoError(t, err)
	require.Equal(t, "t1", fl.Form.Value(fieldTemplateID))

	require.Equal(t, wizard.ValidationResult{fieldPath}, validate(t, fl, 0))
	require.Error(t, fl.Form.Set(fieldTemplateID, "t9"))
	set(t, fl, map[wizard.FieldRef]string{fieldTemplateID: "t2", fieldPath: "about.html"})
	require.True(t, validate(t, fl, 0).Valid())

	p, err := fl.Payload()
	require.NoError(t, err)
	require.Equal(t, model.Page{ProjectID: "p1", TemplateID: "t2", Path: "/about.html", Params: map[string]string{}}, p)

	preview := fl.Preview(80)
	require.Contains(t, preview, "Blog")
	require.Contains(t, preview, "https://example.com/about.html")
}

func TestSuccess(t *testing.T) {
	fl, err := New("item", testScope, Deps{})
	require.NoError(t, err)

	res := &api.Result{Total: 1, Records: []json.RawMessage{json.RawMessage(`{"id":"i1","name":"About"}`)}}
	msg, err := fl.Success(res)
	require.NoError(t, err)
	require.Equal(t, "New item About was created successfully.", msg)
	require.Equal(t, "i1", RecordID(res))
	require.Equal(t, "About", fl.RecordLabel(res))
	require.Empty(t, fl.RecordLabel(nil))

	_, err = fl.Success(&api.Result{})
	require.ErrorIs(t, err, api.ErrNotFound)
	require.Empty(t, RecordID(nil))
}

func TestFlowDrivesWizard(t *testing.T) {
	fl, err := New("project", Scope{}, Deps{})
	require.NoError(t, err)

	cfg := fl.WizardConfig(wizard.DefaultLabels(), false)
	cfg.Renderer = nopRenderer{}
	w, err := wizard.New(fl.Steps, cfg)
	require.NoError(t, err)
	require.Equal(t, "project", w.Name())

	out, err := w.Forward()
	require.NoError(t, err)
	require.Equal(t, wizard.OutcomeRejected, out)
	require.True(t, fl.Form.Errored(fieldTitle))

	set(t, fl, map[wizard.FieldRef]string{fieldTitle: "Blog", fieldPublicBaseURI: "http://blog.local"})
	out, err = w.Forward()
	require.NoError(t, err)
	require.Equal(t, wizard.OutcomeSwitched, out)
	out, err = w.Forward()
	require.NoError(t, err)
	require.Equal(t, wizard.OutcomeFinished, out)

	w.Reset()
	require.True(t, strings.TrimSpace(fl.Form.Value(fieldTitle)) == "")
}

type nopRenderer struct{}

func (nopRenderer) Show(int) {}
func (nopRenderer) Hide(int) {}
