package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/tui/listing"
)

// cardsFor turns the records of a collection page into listing cards.
func cardsFor(collection string, res *api.Result) ([]listing.Card, error) {
	switch collection {
	case model.CollectionProjects:
		return mapCards(res, func(p model.Project) listing.Card {
			return listing.Card{Title: p.Title, Subtitle: p.PublicBaseURI, Body: projectSummary(p)}
		})
	case model.CollectionItems:
		return mapCards(res, func(it model.Item) listing.Card {
			body := it.URIPath
			if len(it.Tags) > 0 {
				body += "\n#" + strings.Join(it.Tags, " #")
			}
			return listing.Card{Title: it.Name, Subtitle: itemStatus(it), Body: body}
		})
	case model.CollectionTemplates:
		return mapCards(res, func(tp model.Template) listing.Card {
			return listing.Card{Title: tp.Name, Subtitle: tp.Type, Body: fmt.Sprintf("%d parameters", len(tp.Params))}
		})
	case model.CollectionPages:
		return mapCards(res, func(pg model.Page) listing.Card {
			return listing.Card{Title: pg.Path, Subtitle: "template " + pg.TemplateID}
		})
	case model.CollectionSlugs:
		return mapCards(res, func(sl model.Slug) listing.Card {
			return listing.Card{Title: sl.Created, Subtitle: sl.CreatedBy, Body: fmt.Sprintf("%d bytes", sl.Size)}
		})
	}
	return nil, fmt.Errorf("unknown collection %q (want one of %v)", collection, model.Collections)
}

func mapCards[T any](res *api.Result, fn func(T) listing.Card) ([]listing.Card, error) {
	recs, err := api.Decode[T](res)
	if err != nil {
		return nil, err
	}
	cards := make([]listing.Card, 0, len(recs))
	for _, r := range recs {
		cards = append(cards, fn(r))
	}
	return cards, nil
}

func itemStatus(it model.Item) string {
	switch {
	case it.Published && it.PublishOn != "":
		return it.Type + " · published " + it.PublishOn
	case it.Published:
		return it.Type + " · published"
	}
	return it.Type + " · draft"
}

func projectSummary(p model.Project) string {
	deploy := "not deployable"
	if p.Deployable() {
		deploy = "deployable"
	}
	return fmt.Sprintf("%d items, %d templates, %d pages\n%s", len(p.Items), len(p.Templates), len(p.Pages), deploy)
}

// renderRaw prints every record as indented JSON.
func renderRaw(res *api.Result) string {
	out := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, api.Pretty(r))
	}
	return strings.Join(out, "\n")
}

// parseSort splits "prop:dir" into its parts. The direction defaults to asc.
func parseSort(s string) (string, string, error) {
	prop, dir, found := strings.Cut(s, ":")
	if prop == "" {
		return "", "", fmt.Errorf("invalid sort %q, want property[:asc|desc]", s)
	}
	if !found {
		dir = api.Asc
	}
	return prop, strings.ToLower(dir), nil
}

// parseFilter splits "prop=value" into its parts.
func parseFilter(s string) (string, interface{}, error) {
	prop, raw, found := strings.Cut(s, "=")
	if !found || prop == "" {
		return "", nil, fmt.Errorf("invalid filter %q, want property=value", s)
	}
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		v = raw
	}
	return prop, v, nil
}
