package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agentica-ai/tracelens/internal/braintrust"
	"github.com/agentica-ai/tracelens/internal/config"
	"github.com/agentica-ai/tracelens/internal/judge"
	"github.com/agentica-ai/tracelens/internal/proxy"
	"github.com/agentica-ai/tracelens/internal/session"
)

// app bundles the services commands share: resolved config and the
// session store, plus lazy constructors for the judge side.
type app struct {
	cfg    *config.Config
	store  *session.Store
	apiKey string
}

// newApp loads config, finds the API key, and resolves the project against
// the logging service. Every command that touches the service goes through
// here.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	key, err := config.APIKey()
	if err != nil {
		return nil, err
	}

	bt := braintrust.NewClient(cfg.API.BaseURL, key, logger)
	projectID, err := bt.ResolveProject(ctx, cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("resolve project %q: %w", cfg.Project, err)
	}

	return &app{
		cfg:    cfg,
		store:  session.NewStore(bt, projectID),
		apiKey: key,
	}, nil
}

// newLocalApp loads config and the API key without touching the logging
// service, for commands that only need the judge proxy.
func newLocalApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	key, err := config.APIKey()
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, apiKey: key}, nil
}

func loadConfig() (*config.Config, error) {
	return config.Load(&config.Config{
		Project: flagProject,
		Output:  flagOutput,
		Verbose: flagVerbose,
	})
}

// judge builds the LLM judge over the completion proxy.
func (a *app) judge() *judge.Judge {
	completer := proxy.NewClient(a.cfg.API.ProxyURL, a.apiKey, logger)
	return judge.New(completer, a.cfg.Judge.Model, a.cfg.Judge.MaxTokens, logger)
}

// jsonOut reports whether the command should emit JSON instead of markdown.
func (a *app) jsonOut() bool {
	return a.cfg.Output == "json"
}

// readPlan reads a plan document relative to the project dir.
func readPlan(path string) (string, error) {
	full := config.InProjectDir(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("plan not found: %s", path)
	}
	return string(data), nil
}
