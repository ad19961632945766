package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mgen/internal/journal"
	"github.com/mark3labs/mgen/internal/nats"
	"github.com/mark3labs/mgen/internal/tui/theme"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [wizard]",
	Short: "Replay the journal of wizard runs",
	Long: `Replay the journal of wizard runs, oldest first.

Without an argument every wizard is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wizardName := ""
	if len(args) == 1 {
		wizardName = args[0]
	}

	conn, err := nats.Open(filepath.Join(cfg.DataDir, "journal"))
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ctx := cmd.Context()
	store, err := journal.Open(ctx, conn.JS)
	if err != nil {
		return err
	}
	runs, err := store.History(ctx, wizardName)
	if err != nil {
		return err
	}

	fmt.Println(renderRuns(runs))
	return nil
}

func renderRuns(runs []*journal.Run) string {
	s := theme.Default.S()
	if len(runs) == 0 {
		return s.Placeholder.Render("No wizard runs journaled yet.")
	}

	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n")
		}
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		b.WriteString(s.Label.Render(fmt.Sprintf("%s %-8s", id, r.Wizard)))
		b.WriteString(" ")
		b.WriteString(outcomeStyle(r.Outcome).Render(string(r.Outcome)))
		b.WriteString(s.Placeholder.Render(fmt.Sprintf("  %s  steps %s", r.Started.Local().Format("2006-01-02 15:04:05"), stepTrail(r.Steps))))
		if r.RecordID != "" {
			b.WriteString(s.Placeholder.Render("  record " + r.RecordID))
		}
		if r.Outcome == journal.OutcomeFailed && r.Message != "" {
			b.WriteString("\n  ")
			b.WriteString(s.ErrorText.Render(r.Message))
		}
	}
	return b.String()
}

func outcomeStyle(o journal.Outcome) lipgloss.Style {
	s := theme.Default.S()
	switch o {
	case journal.OutcomeCreated, journal.OutcomeFinished:
		return s.SuccessText
	case journal.OutcomeFailed:
		return s.ErrorText
	}
	return s.Value
}

func stepTrail(steps []int) string {
	parts := make([]string, len(steps))
	for i, st := range steps {
		parts[i] = fmt.Sprint(st + 1)
	}
	return strings.Join(parts, "→")
}
