package flows

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/mgen/internal/form"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/wizard"
)

// PublishDateLayout is the dd-mm-yyyy layout of publish_on.
const PublishDateLayout = "02-01-2006"

const (
	fieldName      wizard.FieldRef = "name"
	fieldURIPath   wizard.FieldRef = "uri_path"
	fieldType      wizard.FieldRef = "type"
	fieldTags      wizard.FieldRef = "tags"
	fieldPublished wizard.FieldRef = "published"
	fieldPublishOn wizard.FieldRef = "publish_on"
	fieldBody      wizard.FieldRef = "body"
)

func newItemFlow(scope Scope, deps Deps) (*Flow, error) {
	if scope.ProjectID == "" {
		return nil, ErrNoProject
	}
	f, err := form.New(
		form.Field{Ref: fieldName, Label: "Name", Step: 0, Placeholder: "About us"},
		form.Field{Ref: fieldURIPath, Label: "URI path", Step: 0, Placeholder: "derived from the name"},
		form.Field{Ref: fieldType, Label: "Type", Step: 0, Default: "markdown"},
		form.Field{Ref: fieldTags, Label: "Tags", Step: 0, Placeholder: "news, blog"},
		form.Field{Ref: fieldPublished, Label: "Published", Step: 1, Kind: form.KindBool, Default: "false"},
		form.Field{Ref: fieldPublishOn, Label: "Publish on", Step: 1, Placeholder: "dd-mm-yyyy"},
		form.Field{Ref: fieldBody, Label: "Body", Step: 2, Kind: form.KindMultiline},
	)
	if err != nil {
		return nil, err
	}

	return &Flow{
		Name:        "item",
		Collection:  model.CollectionItems,
		Steps:       steps("Item", "Publishing", "Body"),
		Form:        f,
		scope:       scope,
		deps:        deps,
		validate:    validateItem,
		payload:     itemPayload,
		label:       func(rec map[string]interface{}) string { return stringField(rec, "name") },
		preview:     itemPreview,
		previewStep: 2,
	}, nil
}

func validateItem(f *form.Form, step int) (wizard.ValidationResult, error) {
	switch step {
	case 0:
		return f.Missing(fieldName, fieldType)
	case 1:
		if !f.Bool(fieldPublished) {
			return nil, nil
		}
		res, err := f.Missing(fieldPublishOn)
		if err != nil || !res.Valid() {
			return res, err
		}
		if _, err := time.Parse(PublishDateLayout, f.Trimmed(fieldPublishOn)); err != nil {
			res.Add(fieldPublishOn)
		}
		return res, nil
	}
	return nil, nil
}

func itemPayload(f *form.Form, s Scope) (interface{}, error) {
	uri := f.Trimmed(fieldURIPath)
	if uri == "" {
		uri = slug.Make(f.Trimmed(fieldName))
	}

	tags := []string{}
	for _, t := range form.SplitList(f.Value(fieldTags)) {
		if t != "" {
			tags = append(tags, t)
		}
	}

	it := model.Item{
		ProjectID: s.ProjectID,
		Name:      f.Trimmed(fieldName),
		URIPath:   uri,
		Type:      f.Trimmed(fieldType),
		Tags:      tags,
		Published: f.Bool(fieldPublished),
		Body:      f.Value(fieldBody),
	}
	if it.Published {
		it.PublishOn = f.Trimmed(fieldPublishOn)
	}
	return it, nil
}

func itemPreview(f *form.Form, _ Deps, width int) string {
	body := f.Value(fieldBody)
	if body == "" {
		return "(empty body)"
	}
	switch strings.ToLower(f.Trimmed(fieldType)) {
	case "markdown", "md":
		return renderMarkdown(body, width)
	}
	return highlight(body, f.Trimmed(fieldType))
}
