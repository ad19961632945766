package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/state"
	"github.com/mark3labs/mgen/internal/tui/listing"
	"github.com/mark3labs/mgen/internal/tui/theme"
	"github.com/spf13/cobra"
)

var dashboardFlags struct {
	project string
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show a project, or an overview of all projects",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardFlags.project, "project", "p", "", "Project id (default: last used project)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pid := state.Load(cfg.DataDir).ResolveProject(dashboardFlags.project)
	if pid == "" {
		res, err := client.Query(model.CollectionProjects).OrderBy("title", api.Asc).Fetch(ctx)
		if err != nil {
			return err
		}
		cards, err := cardsFor(model.CollectionProjects, res)
		if err != nil {
			return err
		}
		grid := listing.Grid{Theme: theme.Default, PerRow: cfg.ItemsPerRow, EmptyMsg: "No projects yet. Run 'mgen new project'."}
		fmt.Println(grid.Render(cards))
		return nil
	}

	p, err := getProject(ctx, client, pid)
	if err != nil {
		return err
	}
	fmt.Println(renderProject(ctx, client, p))
	return nil
}

func renderProject(ctx context.Context, client *api.Client, p model.Project) string {
	s := theme.Default.S()

	counts := []listing.Card{
		{Title: "Items", Body: fmt.Sprint(len(p.Items))},
		{Title: "Templates", Body: fmt.Sprint(len(p.Templates))},
		{Title: "Pages", Body: fmt.Sprint(len(p.Pages))},
		{Title: "Slugs", Body: fmt.Sprint(len(p.Slugs))},
	}

	var b strings.Builder
	b.WriteString(s.HeaderTitle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(s.CardSubtitle.Render(p.PublicBaseURI))
	b.WriteString("\n\n")
	b.WriteString(listing.Grid{Theme: theme.Default, PerRow: len(counts), Width: 100}.Render(counts))
	b.WriteString("\n")

	if p.Deployable() {
		b.WriteString(s.SuccessText.Render("Deployable"))
		var latest model.Slug
		err := client.Query(model.CollectionSlugs).
			Filter("project_id", p.ID).
			OrderBy("created", api.Desc).
			Page(1, 0, 1).
			One(ctx, &latest)
		if err == nil {
			b.WriteString(s.Placeholder.Render(fmt.Sprintf(" · latest slug %s by %s", latest.Created, latest.CreatedBy)))
		}
	} else {
		b.WriteString(s.Placeholder.Render("Not deployable yet: no slug has been generated"))
	}

	b.WriteString("\n")
	opts := fmt.Sprintf("robots.txt %s · sitemap %s", onOff(p.Options.EnableRobots), onOff(p.Options.EnableSitemap))
	b.WriteString(s.Placeholder.Render(opts))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
