package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▄▀█ █▀▀ █▀▀ █▄ █"
	logoText2 = "█ ▀ █ █▄█ ██▄ █ ▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mgen",
	Short: "Terminal admin console for the mgen static website generator",
}

func renderLogo() string {
	t := theme.Default
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

mgen talks to the REST API of an mgen server. It creates projects, items,
templates and pages through step by step wizards, lists collections and
shows a dashboard of a project. Wizard runs are journaled to an embedded
NATS JetStream store under the data directory.`

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(eventsCmd)
}
