package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/annforest/internal/config"
)

func TestDefaultConfigMatchesBuildDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	bc := cfg.ToBuildConfig()
	assert.Equal(t, 10, bc.NTrees)
	assert.Equal(t, 10, bc.MaxNodesPerLeaf)
	assert.Equal(t, 5, bc.TestHyperplanesPerSplit)
}

func TestLoadConfigWithoutFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	l := config.NewTomlLoader()
	cfg, err := l.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Build, cfg.Build)
}

func TestLoadConfigParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".annforest.toml")
	content := `
[build]
n_trees = 20
seed = 99

[query]
k = 7
metric = "cosine"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l := config.NewTomlLoader()
	cfg, err := l.LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Build.NTrees)
	assert.Equal(t, uint64(99), cfg.Build.Seed)
	assert.Equal(t, 7, cfg.Query.K)
	assert.Equal(t, "cosine", cfg.Query.Metric)
	// Fields untouched by the file keep their defaults.
	assert.Equal(t, config.DefaultConfig().Build.MaxNodesPerLeaf, cfg.Build.MaxNodesPerLeaf)
}

func TestLoadConfigWalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(child, 0o755))

	content := "[query]\nk = 42\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".annforest.toml"), []byte(content), 0o644))

	l := config.NewTomlLoader()
	cfg, err := l.LoadConfig(child)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Query.K)
}

func TestLoadConfigExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[build]\nn_trees = 3\n"), 0o644))

	l := config.NewTomlLoader()
	cfg, err := l.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Build.NTrees)
}
