package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment variable annforest reads, so
// ANNFOREST_BUILD_N_TREES overrides build.n_trees.
const envPrefix = "ANNFOREST"

// NewViper returns a viper instance pre-seeded with DefaultConfig()'s
// values as defaults and wired to read ANNFOREST_* environment variables,
// layered on top of the go-toml/v2 file parsing TomlLoader already does.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("build.n_trees", defaults.Build.NTrees)
	v.SetDefault("build.max_nodes_per_leaf", defaults.Build.MaxNodesPerLeaf)
	v.SetDefault("build.test_hyperplanes_per_split", defaults.Build.TestHyperplanesPerSplit)
	v.SetDefault("build.num_sampled_nodes_split_test", defaults.Build.NumSampledNodesSplitTest)
	v.SetDefault("build.seed", defaults.Build.Seed)
	v.SetDefault("query.k", defaults.Query.K)
	v.SetDefault("query.min_search_nodes", defaults.Query.MinSearchNodes)
	v.SetDefault("query.metric", defaults.Query.Metric)
	v.SetDefault("store.embeddings_path", defaults.Store.EmbeddingsPath)
	v.SetDefault("store.snapshot_path", defaults.Store.SnapshotPath)
	v.SetDefault("logging.verbose", defaults.Logging.Verbose)
	v.SetDefault("logging.format", defaults.Logging.Format)
	return v
}

// BindFlags binds a cobra/pflag FlagSet's flags onto their matching config
// keys, so an explicit --flag always wins over both the env var and the
// file/defaults layer beneath it.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"n-trees":            "build.n_trees",
		"max-nodes-per-leaf": "build.max_nodes_per_leaf",
		"seed":               "build.seed",
		"k":                  "query.k",
		"metric":             "query.metric",
		"snapshot":           "store.snapshot_path",
		"verbose":            "logging.verbose",
	}
	for flagName, key := range bindings {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Unmarshal decodes v's merged view (defaults, file, env, flags) into a
// ForestConfig.
func Unmarshal(v *viper.Viper) (*ForestConfig, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyAsDefaults reseeds v's defaults from file, so a later BindFlags/
// AutomaticEnv layer overrides the file the same way it overrides the
// compiled-in defaults.
func applyAsDefaults(v *viper.Viper, file *ForestConfig) {
	v.SetDefault("build.n_trees", file.Build.NTrees)
	v.SetDefault("build.max_nodes_per_leaf", file.Build.MaxNodesPerLeaf)
	v.SetDefault("build.test_hyperplanes_per_split", file.Build.TestHyperplanesPerSplit)
	v.SetDefault("build.num_sampled_nodes_split_test", file.Build.NumSampledNodesSplitTest)
	v.SetDefault("build.seed", file.Build.Seed)
	v.SetDefault("query.k", file.Query.K)
	v.SetDefault("query.min_search_nodes", file.Query.MinSearchNodes)
	v.SetDefault("query.metric", file.Query.Metric)
	v.SetDefault("store.embeddings_path", file.Store.EmbeddingsPath)
	v.SetDefault("store.snapshot_path", file.Store.SnapshotPath)
	v.SetDefault("logging.verbose", file.Logging.Verbose)
	v.SetDefault("logging.format", file.Logging.Format)
}

// Load resolves the fully layered configuration for one CLI invocation:
// compiled-in defaults, overridden by a discovered or explicit
// .annforest.toml, overridden by ANNFOREST_* environment variables,
// overridden by flags explicitly set on flags. flags may be nil to skip
// the flag-binding layer entirely.
func Load(configPath string, flags *pflag.FlagSet) (*ForestConfig, error) {
	fileCfg, err := NewTomlLoader().LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	v := NewViper()
	applyAsDefaults(v, fileCfg)

	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	return Unmarshal(v)
}
