package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/annforest/service"
)

// PredictCommand answers a nearest-neighbor query against a built forest.
type PredictCommand struct {
	configFile string
	indexPath  string
	queryStr   string
	queryFile  string
	k          int
	jsonOutput bool
	yamlOutput bool
}

// NewPredictCommand creates a new predict command.
func NewPredictCommand() *PredictCommand {
	return &PredictCommand{}
}

// CreateCobraCommand creates the cobra command for querying nearest neighbors.
func (p *PredictCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Find the nearest neighbors of a query vector in a built forest",
		Long: `Predict loads a forest snapshot produced by "annforest build" and
returns the k embeddings nearest the given query vector.

Examples:
  annforest predict --index index.bin --query 0.1,0.2,0.3 --k 5
  annforest predict --index index.bin --query-file query.vec --yaml`,
		RunE: p.runPredict,
	}

	cmd.Flags().StringVarP(&p.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&p.indexPath, "index", "", "Path to a forest snapshot produced by build (required)")
	cmd.Flags().StringVar(&p.queryStr, "query", "", "Query embedding as comma-separated floats")
	cmd.Flags().StringVar(&p.queryFile, "query-file", "", "File containing the query embedding (one float per line or comma-separated)")
	cmd.Flags().IntVar(&p.k, "k", 0, "Number of neighbors to return (default: from config)")
	cmd.Flags().BoolVar(&p.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&p.yamlOutput, "yaml", false, "Output as YAML")

	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func (p *PredictCommand) runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, p.configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	query, err := resolveQueryVector(p.queryStr, p.queryFile)
	if err != nil {
		return err
	}

	forest, es, err := service.LoadForest(p.indexPath)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	predictCfg := cfg.ToPredictConfig()
	if p.k > 0 {
		predictCfg.K = p.k
	}
	if predictCfg.K <= 0 {
		predictCfg.K = 10
	}

	resolver := service.NewOutputFormatResolver()
	format, err := resolver.Determine(p.jsonOutput, p.yamlOutput)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc := service.NewForestService(service.NewParallelExecutor(), nil)
	resp, err := svc.Predict(ctx, forest, es, query, predictCfg)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	formatter := service.NewOutputFormatter()
	return formatter.WritePredict(resp, format, cmd.OutOrStdout())
}

// NewPredictCmd creates and returns the predict cobra command.
func NewPredictCmd() *cobra.Command {
	predictCommand := NewPredictCommand()
	return predictCommand.CreateCobraCommand()
}
