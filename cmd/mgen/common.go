package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mgen/internal/api"
	"github.com/mark3labs/mgen/internal/config"
	"github.com/mark3labs/mgen/internal/logger"
	"github.com/mark3labs/mgen/internal/model"
)

// loadConfig loads the configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return cfg, nil
}

// errProjectNotFound is returned for a project id the server does not know,
// typically a stale last used project.
var errProjectNotFound = errors.New("project not found")

func getProject(ctx context.Context, client *api.Client, id string) (model.Project, error) {
	var p model.Project
	err := client.Get(ctx, model.CollectionProjects, id, &p)
	if api.IsStatus(err, http.StatusNotFound) || errors.Is(err, api.ErrNotFound) {
		return p, fmt.Errorf("%w: %s (pass --project with an existing id)", errProjectNotFound, id)
	}
	if err != nil {
		return p, fmt.Errorf("failed to load project %s: %w", id, err)
	}
	return p, nil
}

func newClient(cfg *config.Config) (*api.Client, error) {
	return api.NewClient(api.Options{
		BaseURL:  cfg.APIURL,
		Token:    cfg.APIToken,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		RetryMax: cfg.RetryMax,
	})
}
