package commands

import (
	"fmt"

	"github.com/planhub/planhub-cli/internal/api"
	"github.com/planhub/planhub-cli/internal/auth"
	"github.com/planhub/planhub-cli/internal/config"
)

// AppVersion is set from main at startup.
var AppVersion = "dev"

// newManager loads the config and builds the session manager over the
// config-file store.
func newManager() (*auth.Manager, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return auth.NewManager(cfg.ServerURL, auth.NewConfigStore()), cfg, nil
}

// newClient builds the API client, requiring a usable session.
func newClient() (*api.Client, *auth.Manager, *config.Config, error) {
	mgr, cfg, err := newManager()
	if err != nil {
		return nil, nil, nil, err
	}
	if mgr.CurrentUser() == nil {
		return nil, nil, nil, fmt.Errorf("not logged in: run 'planhub login' first")
	}
	return api.NewClient(mgr), mgr, cfg, nil
}

// projectIDOrDefault resolves the --project flag against the configured
// default project.
func projectIDOrDefault(flagValue int64, cfg *config.Config) (int64, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	if cfg.DefaultProject > 0 {
		return cfg.DefaultProject, nil
	}
	return 0, fmt.Errorf("no project selected: pass --project or set default_project in %s", config.GetConfigPath())
}
