package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/annforest/service"
)

// LeavesCommand reports which leaf bucket a query vector settles into for
// each tree in a built forest.
type LeavesCommand struct {
	configFile string
	indexPath  string
	queryStr   string
	queryFile  string
	jsonOutput bool
	yamlOutput bool
}

// NewLeavesCommand creates a new leaves command.
func NewLeavesCommand() *LeavesCommand {
	return &LeavesCommand{}
}

// CreateCobraCommand creates the cobra command for reporting leaf indices.
func (l *LeavesCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaves",
		Short: "Report the leaf bucket a query vector falls into in each tree",
		Long: `Leaves loads a forest snapshot and, for every tree in the forest,
reports the index of the leaf bucket the query vector routes to. This is
useful for inspecting how a forest partitions its embedding space without
running a full nearest-neighbor search.

Example:
  annforest leaves --index index.bin --query 0.1,0.2,0.3`,
		RunE: l.runLeaves,
	}

	cmd.Flags().StringVarP(&l.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&l.indexPath, "index", "", "Path to a forest snapshot produced by build (required)")
	cmd.Flags().StringVar(&l.queryStr, "query", "", "Query embedding as comma-separated floats")
	cmd.Flags().StringVar(&l.queryFile, "query-file", "", "File containing the query embedding")
	cmd.Flags().BoolVar(&l.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&l.yamlOutput, "yaml", false, "Output as YAML")

	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func (l *LeavesCommand) runLeaves(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd, l.configFile); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	query, err := resolveQueryVector(l.queryStr, l.queryFile)
	if err != nil {
		return err
	}

	forest, _, err := service.LoadForest(l.indexPath)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	resolver := service.NewOutputFormatResolver()
	format, err := resolver.Determine(l.jsonOutput, l.yamlOutput)
	if err != nil {
		return err
	}

	svc := service.NewForestService(nil, nil)
	resp, err := svc.Leaves(forest, query)
	if err != nil {
		return fmt.Errorf("leaf lookup failed: %w", err)
	}

	output, err := service.NewOutputFormatter().FormatLeaves(resp, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// NewLeavesCmd creates and returns the leaves cobra command.
func NewLeavesCmd() *cobra.Command {
	leavesCommand := NewLeavesCommand()
	return leavesCommand.CreateCobraCommand()
}
