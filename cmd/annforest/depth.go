package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/annforest/service"
)

// DepthCommand reports the root-to-leaf depth of every tree in a built
// forest.
type DepthCommand struct {
	configFile string
	indexPath  string
	jsonOutput bool
	yamlOutput bool
}

// NewDepthCommand creates a new depth command.
func NewDepthCommand() *DepthCommand {
	return &DepthCommand{}
}

// CreateCobraCommand creates the cobra command for reporting tree depths.
func (d *DepthCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depth",
		Short: "Report the depth of each tree in a built forest",
		Long: `Depth loads a forest snapshot and reports the maximum
root-to-leaf depth of every tree, a quick signal for how balanced the
forest's splits turned out to be.

Example:
  annforest depth --index index.bin`,
		RunE: d.runDepth,
	}

	cmd.Flags().StringVarP(&d.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&d.indexPath, "index", "", "Path to a forest snapshot produced by build (required)")
	cmd.Flags().BoolVar(&d.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&d.yamlOutput, "yaml", false, "Output as YAML")

	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func (d *DepthCommand) runDepth(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd, d.configFile); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	forest, _, err := service.LoadForest(d.indexPath)
	if err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	resolver := service.NewOutputFormatResolver()
	format, err := resolver.Determine(d.jsonOutput, d.yamlOutput)
	if err != nil {
		return err
	}

	svc := service.NewForestService(nil, nil)
	resp, err := svc.Depth(forest)
	if err != nil {
		return fmt.Errorf("depth lookup failed: %w", err)
	}

	output, err := service.NewOutputFormatter().FormatDepth(resp, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// NewDepthCmd creates and returns the depth cobra command.
func NewDepthCmd() *cobra.Command {
	depthCommand := NewDepthCommand()
	return depthCommand.CreateCobraCommand()
}
