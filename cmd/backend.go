package cmd

import (
	"fmt"
	"strings"
	"time"

	"obracusto/backend"
	"obracusto/config"
	"obracusto/storage"
	"obracusto/web"
)

const userAgent = "obracusto/1.0"

// resolveTarget picks the expense backend: an explicit flag wins over the
// configured import.target.
func resolveTarget(flagValue, configured string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(flagValue))
	if value == "" {
		value = strings.ToLower(strings.TrimSpace(configured))
	}
	switch value {
	case "", config.TargetSQLite:
		return config.TargetSQLite, nil
	case config.TargetAPI:
		return config.TargetAPI, nil
	default:
		return "", fmt.Errorf("invalid target %q (supported: sqlite|api)", flagValue)
	}
}

// resolveDBPath returns the --db flag or the configured storage.db_path.
func resolveDBPath(flagValue string, cfg *config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return cfg.Storage.DBPath
}

// openBackend connects to the selected target. The returned close func is
// never nil.
func openBackend(cfg *config.Config, target, dbPath string) (web.Backend, func() error, error) {
	switch target {
	case config.TargetAPI:
		if strings.TrimSpace(cfg.Backend.URL) == "" {
			return nil, nil, fmt.Errorf("backend.url is required for target %q", config.TargetAPI)
		}
		client, err := backend.NewClient(backend.ClientConfig{
			BaseURL:   cfg.Backend.URL,
			APIKey:    cfg.Backend.APIKey,
			UserAgent: userAgent,
			Timeout:   time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	default:
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
}
