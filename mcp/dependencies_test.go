package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/annforest/internal/config"
	"github.com/ludo-technologies/annforest/mcp"
)

func TestNewDependencies_DefaultsConfigWhenNil(t *testing.T) {
	deps := mcp.NewDependencies(nil, "")
	assert.NotNil(t, deps.Config())
	assert.Equal(t, config.DefaultConfig().Build, deps.Config().Build)
	assert.NotNil(t, deps.ForestService())
}

func TestNewDependencies_KeepsGivenConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Build.NTrees = 42
	deps := mcp.NewDependencies(cfg, "/tmp/.annforest.toml")
	assert.Equal(t, 42, deps.Config().Build.NTrees)
	assert.Equal(t, "/tmp/.annforest.toml", deps.ConfigPath())
}
