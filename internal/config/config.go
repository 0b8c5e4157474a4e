// Package config loads and merges annforest's configuration: compiled-in
// defaults, an optional .annforest.toml file discovered by walking up from
// the working directory, and CLI flag/environment overrides bound through
// viper. The merge order (defaults < file < flags/env) matches the
// teacher's own layered configuration loading.
package config

import "github.com/ludo-technologies/annforest/internal/ann"

// ForestConfig is the full configuration for building and serving a
// forest: the build tunables (internal/ann.BuildConfig), default query
// tunables, the distance metric name, and where to persist a built forest.
type ForestConfig struct {
	Build   BuildSection   `mapstructure:"build" toml:"build" yaml:"build"`
	Query   QuerySection   `mapstructure:"query" toml:"query" yaml:"query"`
	Store   StoreSection   `mapstructure:"store" toml:"store" yaml:"store"`
	Logging LoggingSection `mapstructure:"logging" toml:"logging" yaml:"logging"`
}

// BuildSection mirrors internal/ann.BuildConfig, field for field, so a TOML
// [build] table maps onto it directly.
type BuildSection struct {
	NTrees                   int    `mapstructure:"n_trees" toml:"n_trees" yaml:"n_trees"`
	MaxNodesPerLeaf          int    `mapstructure:"max_nodes_per_leaf" toml:"max_nodes_per_leaf" yaml:"max_nodes_per_leaf"`
	TestHyperplanesPerSplit  int    `mapstructure:"test_hyperplanes_per_split" toml:"test_hyperplanes_per_split" yaml:"test_hyperplanes_per_split"`
	NumSampledNodesSplitTest int    `mapstructure:"num_sampled_nodes_split_test" toml:"num_sampled_nodes_split_test" yaml:"num_sampled_nodes_split_test"`
	Seed                     uint64 `mapstructure:"seed" toml:"seed" yaml:"seed"`
}

// QuerySection mirrors internal/ann.PredictConfig plus the metric used to
// build the store the forest is queried against.
type QuerySection struct {
	K              int    `mapstructure:"k" toml:"k" yaml:"k"`
	MinSearchNodes int    `mapstructure:"min_search_nodes" toml:"min_search_nodes" yaml:"min_search_nodes"`
	Metric         string `mapstructure:"metric" toml:"metric" yaml:"metric"`
}

// StoreSection controls where embeddings are read from and where a built
// forest's snapshot is written to/read from.
type StoreSection struct {
	EmbeddingsPath []string `mapstructure:"embeddings_path" toml:"embeddings_path" yaml:"embeddings_path"`
	SnapshotPath   string   `mapstructure:"snapshot_path" toml:"snapshot_path" yaml:"snapshot_path"`
}

// LoggingSection controls the ambient log output the CLI and MCP server
// share.
type LoggingSection struct {
	Verbose bool   `mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
	Format  string `mapstructure:"format" toml:"format" yaml:"format"`
}

// DefaultConfig returns the built-in defaults, equal to
// internal/ann.DefaultBuildConfig()'s tunables plus a sensible query/store
// configuration for local use.
func DefaultConfig() *ForestConfig {
	build := ann.DefaultBuildConfig()
	return &ForestConfig{
		Build: BuildSection{
			NTrees:                   build.NTrees,
			MaxNodesPerLeaf:          build.MaxNodesPerLeaf,
			TestHyperplanesPerSplit:  build.TestHyperplanesPerSplit,
			NumSampledNodesSplitTest: build.NumSampledNodesSplitTest,
			Seed:                     build.Seed,
		},
		Query: QuerySection{
			K:              10,
			MinSearchNodes: 0,
			Metric:         "euclidean",
		},
		Store: StoreSection{
			EmbeddingsPath: []string{"**/*.embeddings.jsonl"},
			SnapshotPath:   "annforest.snapshot",
		},
		Logging: LoggingSection{
			Verbose: false,
			Format:  "text",
		},
	}
}

// ToBuildConfig projects the [build] section into the internal/ann type
// Fit actually takes.
func (c *ForestConfig) ToBuildConfig() ann.BuildConfig {
	return ann.BuildConfig{
		NTrees:                   c.Build.NTrees,
		MaxNodesPerLeaf:          c.Build.MaxNodesPerLeaf,
		TestHyperplanesPerSplit:  c.Build.TestHyperplanesPerSplit,
		NumSampledNodesSplitTest: c.Build.NumSampledNodesSplitTest,
		Seed:                     c.Build.Seed,
	}
}

// ToPredictConfig projects the [query] section into the internal/ann type
// Predict actually takes.
func (c *ForestConfig) ToPredictConfig() ann.PredictConfig {
	return ann.PredictConfig{
		K:              c.Query.K,
		MinSearchNodes: c.Query.MinSearchNodes,
	}
}
