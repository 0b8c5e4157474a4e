package main

import (
	"os"

	"github.com/ludo-technologies/annforest/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "annforest",
	Short: "A random-projection forest approximate nearest neighbor index",
	Long: `annforest builds and queries a random-projection forest: an
approximate nearest neighbor index over fixed-dimension embeddings,
built from a forest of independently-grown binary trees and queried
with a best-first priority search across all of them.

Features:
  • Parallel forest construction over embedding shard files
  • Euclidean, dot-product, and cosine distance metrics
  • A portable on-disk snapshot for predict/leaves/depth across runs
  • An MCP server exposing build/query as tools for AI assistants`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to .annforest.toml (default: discovered by walking up from the working directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Set logging.verbose in the loaded configuration (no command prints extra output for it)")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewPredictCmd())
	rootCmd.AddCommand(NewLeavesCmd())
	rootCmd.AddCommand(NewDepthCmd())
	rootCmd.AddCommand(NewServeMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
