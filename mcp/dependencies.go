package mcp

import (
	"github.com/ludo-technologies/annforest/internal/config"
	"github.com/ludo-technologies/annforest/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	forestService *service.ForestService
	config        *config.ForestConfig
	configPath    string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.ForestConfig, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		forestService: service.NewForestService(nil, nil),
		config:        cfg,
		configPath:    configPath,
	}
}

// ForestService exposes the shared forest build/query orchestrator.
func (d *Dependencies) ForestService() *service.ForestService {
	return d.forestService
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.ForestConfig {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}
