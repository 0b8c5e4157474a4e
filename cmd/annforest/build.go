package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/annforest/service"
)

// BuildCommand fits a forest over a set of embedding files and saves it
// to disk.
type BuildCommand struct {
	configFile string

	embeddingsPaths []string
	recursive       bool
	includePatterns []string
	excludePatterns []string

	nTrees          int
	maxNodesPerLeaf int
	metric          string
	seed            uint64

	outPath string
}

// NewBuildCommand creates a new build command.
func NewBuildCommand() *BuildCommand {
	return &BuildCommand{recursive: true}
}

// CreateCobraCommand creates the cobra command for building a forest.
func (b *BuildCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a random-projection forest index over embedding files",
		Long: `Build parses embeddings from one or more paths, directories, or
doublestar glob patterns (e.g. "data/**/*.jsonl"), fits a random-projection
forest over them, and writes the result as a binary snapshot plus a
human-readable YAML sidecar describing the build parameters.

Examples:
  # Build a forest from every shard under embeddings/
  annforest build --embeddings "embeddings/**/*.jsonl" --out index.bin

  # Build a smaller, faster forest for a quick experiment
  annforest build --embeddings data.csv --n-trees 5 --max-nodes-per-leaf 20 --out index.bin`,
		RunE: b.runBuild,
	}

	cmd.Flags().StringVarP(&b.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringSliceVar(&b.embeddingsPaths, "embeddings", nil, "Embedding file(s), directories, or glob patterns (required)")
	cmd.Flags().BoolVar(&b.recursive, "recursive", true, "Recurse into directories given to --embeddings")
	cmd.Flags().StringSliceVar(&b.includePatterns, "include", nil, "Only collect files matching these glob patterns")
	cmd.Flags().StringSliceVar(&b.excludePatterns, "exclude", nil, "Exclude files matching these glob patterns")
	cmd.Flags().IntVar(&b.nTrees, "n-trees", 0, "Number of trees in the forest (default: from config)")
	cmd.Flags().IntVar(&b.maxNodesPerLeaf, "max-nodes-per-leaf", 0, "Maximum embeddings per leaf before a split stops (default: from config)")
	cmd.Flags().StringVar(&b.metric, "metric", "", "Distance metric: euclidean, dot, or cosine (default: from config)")
	cmd.Flags().Uint64Var(&b.seed, "seed", 0, "Base RNG seed (default: from config)")
	cmd.Flags().StringVar(&b.outPath, "out", "", "Path to write the forest snapshot to (required)")

	_ = cmd.MarkFlagRequired("embeddings")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (b *BuildCommand) runBuild(cmd *cobra.Command, args []string) error {
	// loadConfig layers defaults < .annforest.toml < ANNFOREST_* env vars <
	// any of these flags the caller actually set, via internal/config's
	// viper-backed BindFlags.
	cfg, err := loadConfig(cmd, b.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	buildCfg := cfg.ToBuildConfig()
	metric := cfg.Query.Metric

	progress := service.NewProgressManager()
	progress.Initialize(buildCfg.NTrees)
	defer progress.Close()

	svc := service.NewForestService(service.NewParallelExecutor(), progress)

	es, err := svc.LoadEmbeddings(b.embeddingsPaths, b.recursive, b.includePatterns, b.excludePatterns, metric)
	if err != nil {
		return fmt.Errorf("loading embeddings: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	forest, err := svc.Build(ctx, es, buildCfg)
	if err != nil {
		return fmt.Errorf("building forest: %w", err)
	}

	buildSection := cfg.Build
	buildSection.NTrees = buildCfg.NTrees
	buildSection.MaxNodesPerLeaf = buildCfg.MaxNodesPerLeaf
	buildSection.Seed = buildCfg.Seed

	if err := service.SaveForest(forest, es, buildSection, b.outPath); err != nil {
		return fmt.Errorf("saving forest: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built forest: %d trees, %d embeddings, depths %v\n",
		forest.NumTrees(), es.Len(), forest.Depth())
	fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s (and %s.yaml)\n", b.outPath, b.outPath)

	return nil
}

// NewBuildCmd creates and returns the build cobra command.
func NewBuildCmd() *cobra.Command {
	buildCommand := NewBuildCommand()
	return buildCommand.CreateCobraCommand()
}
