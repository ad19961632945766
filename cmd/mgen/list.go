package main

import (
	"fmt"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/state"
	"github.com/mark3labs/mgen/internal/tui/listing"
	"github.com/mark3labs/mgen/internal/tui/theme"
	"github.com/spf13/cobra"
)

var listFlags struct {
	project string
	page    int
	start   int
	limit   int
	sort    []string
	filter  []string
	perRow  int
	width   int
	raw     bool
}

var listCmd = &cobra.Command{
	Use:       "list <collection>",
	Short:     "List the records of a collection as a grid",
	Args:      cobra.ExactArgs(1),
	ValidArgs: model.Collections,
	RunE:      runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.project, "project", "p", "", "Only records of this project (default: last used project)")
	listCmd.Flags().IntVar(&listFlags.page, "page", api.DefaultPageNo, "Page number")
	listCmd.Flags().IntVar(&listFlags.start, "start", api.DefaultStart, "Offset of the first record")
	listCmd.Flags().IntVar(&listFlags.limit, "limit", api.DefaultLimit, "Records per page")
	listCmd.Flags().StringArrayVar(&listFlags.sort, "sort", nil, "Sort as property[:asc|desc], repeatable")
	listCmd.Flags().StringArrayVar(&listFlags.filter, "filter", nil, "Filter as property=value, repeatable")
	listCmd.Flags().IntVar(&listFlags.perRow, "per-row", 0, "Cards per row (default: items_per_row from config)")
	listCmd.Flags().IntVar(&listFlags.width, "width", 120, "Width of the grid")
	listCmd.Flags().BoolVar(&listFlags.raw, "raw", false, "Print the records as indented JSON instead of cards")
}

func runList(cmd *cobra.Command, args []string) error {
	collection := args[0]
	if !model.KnownCollection(collection) {
		return fmt.Errorf("unknown collection %q (want one of %v)", collection, model.Collections)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	q := client.Query(collection)
	if collection != model.CollectionProjects {
		if pid := state.Load(cfg.DataDir).ResolveProject(listFlags.project); pid != "" {
			q.Filter("project_id", pid)
		}
	}
	for _, f := range listFlags.filter {
		prop, v, err := parseFilter(f)
		if err != nil {
			return err
		}
		q.Filter(prop, v)
	}
	for _, s := range listFlags.sort {
		prop, dir, err := parseSort(s)
		if err != nil {
			return err
		}
		q.OrderBy(prop, dir)
	}
	q.Page(listFlags.page, listFlags.start, listFlags.limit)

	res, err := q.Fetch(cmd.Context())
	if err != nil {
		return err
	}
	if listFlags.raw {
		fmt.Println(renderRaw(res))
		return nil
	}

	cards, err := cardsFor(collection, res)
	if err != nil {
		return err
	}

	perRow := listFlags.perRow
	if perRow <= 0 {
		perRow = cfg.ItemsPerRow
	}
	grid := listing.Grid{
		Theme:    theme.Default,
		PerRow:   perRow,
		Width:    listFlags.width,
		EmptyMsg: fmt.Sprintf("No %s found.", collection),
	}
	fmt.Println(grid.Render(cards))
	if res.Total > len(cards) {
		s := theme.Default.S()
		fmt.Println(s.Placeholder.Render(fmt.Sprintf("Showing %d of %d (page %d)", len(cards), res.Total, res.Page)))
	}
	return nil
}
