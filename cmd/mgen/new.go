package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/config"
	"github.com/mark3labs/mgen/internal/flows"
	"github.com/mark3labs/mgen/internal/hooks"
	"github.com/mark3labs/mgen/internal/journal"
	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/model"
	"github.com/mark3labs/mgen/internal/nats"
	"github.com/mark3labs/mgen/internal/state"
	"github.com/mark3labs/mgen/internal/tui/theme"
	tuiwizard "github.com/mark3labs/mgen/internal/tui/wizard"
	"github.com/mark3labs/mgen/internal/wizard"
	"github.com/spf13/cobra"
)

var newFlags struct {
	project   string
	noJournal bool
	noAnimate bool
}

var newCmd = &cobra.Command{
	Use:       "new <project|item|template|page>",
	Short:     "Create a record through a step by step wizard",
	Args:      cobra.ExactArgs(1),
	ValidArgs: flows.Names(),
	RunE:      runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newFlags.project, "project", "p", "", "Project id (default: last used project)")
	newCmd.Flags().BoolVar(&newFlags.noJournal, "no-journal", false, "Do not journal the wizard run")
	newCmd.Flags().BoolVar(&newFlags.noAnimate, "no-animate", false, "Switch steps without the fade")
}

func runNew(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	name := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := state.Load(cfg.DataDir)
	projectID := ""
	if name != "project" {
		projectID = st.ResolveProject(newFlags.project)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	deps, err := loadDeps(ctx, client, name, projectID)
	if err != nil {
		return err
	}

	fl, err := flows.New(name, flows.Scope{ProjectID: projectID}, deps)
	if err != nil {
		if errors.Is(err, flows.ErrNoProject) {
			return fmt.Errorf("%w: pass --project or create one with 'mgen new project'", err)
		}
		return err
	}

	var recorder *journal.Recorder
	if cfg.Journal && !newFlags.noJournal {
		conn, rec, err := openJournal(ctx, cfg)
		if err != nil {
			logger.Warn("Journal unavailable, continuing without it: %v", err)
		} else {
			defer func() { _ = conn.Close() }()
			recorder = rec
		}
	}

	var attach func(*wizard.StepWizard) func()
	if recorder != nil {
		attach = func(w *wizard.StepWizard) func() { return recorder.Attach(ctx, w) }
	}

	res, err := tuiwizard.Run(fl, tuiwizard.Options{
		Labels:  wizardLabels(cfg.Labels),
		Animate: cfg.Animate && !newFlags.noAnimate,
		Theme:   theme.Default,
	}, attach)
	if errors.Is(err, tuiwizard.ErrAborted) {
		fmt.Println("Wizard aborted, nothing was created.")
		return nil
	}
	if err != nil {
		return err
	}

	s := theme.Default.S()
	if res.Lifecycle == wizard.Canceled {
		fmt.Println(s.Placeholder.Render(fmt.Sprintf("New %s was canceled, the input was discarded.", fl.Name)))
		return nil
	}

	created, err := submit(ctx, client, fl)
	if err != nil {
		if recorder != nil {
			if rerr := recorder.RecordFailed(ctx, err); rerr != nil {
				logger.Warn("Failed to journal failure: %v", rerr)
			}
		}
		return err
	}

	banner, err := fl.Success(created)
	if err != nil {
		return err
	}
	fmt.Println(s.SuccessText.Render(banner))

	recordID := flows.RecordID(created)
	if recorder != nil {
		if err := recorder.RecordCreated(ctx, recordID, banner); err != nil {
			logger.Warn("Failed to journal created record: %v", err)
		}
	}

	if name == "project" {
		projectID = recordID
	}
	runCreatedHook(ctx, fl, recordID, fl.RecordLabel(created), projectID)

	st.LastWizard = name
	if projectID != "" {
		st.LastProject = projectID
	}
	if err := state.Save(cfg.DataDir, st); err != nil {
		logger.Warn("Failed to save console state: %v", err)
	}
	return nil
}

// loadDeps fetches what a flow needs before it is built.
func loadDeps(ctx context.Context, client *api.Client, name, projectID string) (flows.Deps, error) {
	var deps flows.Deps
	if name != "page" || projectID == "" {
		return deps, nil
	}

	project, err := getProject(ctx, client, projectID)
	if err != nil {
		return deps, err
	}
	deps.Project = &project

	res, err := client.Query(model.CollectionTemplates).
		Filter("project_id", projectID).
		OrderBy("name", api.Asc).
		Fetch(ctx)
	if err != nil {
		return deps, fmt.Errorf("failed to load templates: %w", err)
	}
	deps.Templates, err = api.Decode[model.Template](res)
	if err != nil {
		return deps, err
	}
	return deps, nil
}

func submit(ctx context.Context, client *api.Client, fl *flows.Flow) (*api.Result, error) {
	payload, err := fl.Payload()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", fl.Name, err)
	}
	res, err := client.Create(ctx, fl.Collection, payload)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			s := theme.Default.S()
			fmt.Fprintln(os.Stderr, s.ErrorText.Render(apiErr.Title()))
			fmt.Fprintln(os.Stderr, apiErr.Message())
		}
		return nil, fmt.Errorf("failed to create %s: %w", fl.Name, err)
	}
	return res, nil
}

func openJournal(ctx context.Context, cfg *config.Config) (*nats.Conn, *journal.Recorder, error) {
	conn, err := nats.Open(filepath.Join(cfg.DataDir, "journal"))
	if err != nil {
		return nil, nil, err
	}
	store, err := journal.Open(ctx, conn.JS)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, journal.NewRecorder(store), nil
}

func runCreatedHook(ctx context.Context, fl *flows.Flow, id, label, projectID string) {
	workDir, err := os.Getwd()
	if err != nil {
		logger.Warn("Skipping on_created hook: %v", err)
		return
	}
	out, err := hooks.RunOnCreated(ctx, workDir, hooks.Variables{
		Collection: fl.Collection,
		ID:         id,
		Name:       label,
		Project:    projectID,
	})
	if err != nil {
		logger.Warn("on_created hook failed: %v", err)
		return
	}
	if out != "" {
		fmt.Println(out)
	}
}

func wizardLabels(l config.Labels) wizard.Labels {
	return wizard.Labels{Next: l.Next, Finish: l.Finish, Back: l.Back, Cancel: l.Cancel}
}
