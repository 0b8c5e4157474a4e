package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ludo-technologies/annforest/internal/config"
	"github.com/ludo-technologies/annforest/internal/version"
	"github.com/ludo-technologies/annforest/mcp"
)

const mcpServerName = "annforest"

// ServeMCPCommand runs annforest as a Model Context Protocol server over
// stdio, exposing build/predict/leaves/stats as tools an MCP client can
// call directly.
type ServeMCPCommand struct {
	configFile string
}

// NewServeMCPCommand creates a new serve-mcp command.
func NewServeMCPCommand() *ServeMCPCommand {
	return &ServeMCPCommand{}
}

// CreateCobraCommand creates the cobra command for running the MCP server.
func (s *ServeMCPCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Run annforest as a Model Context Protocol server over stdio",
		Long: `Serve-mcp starts an MCP server exposing build_index,
nearest_neighbors, leaf_index, and index_stats as tools, so an MCP client
(an IDE, an agent harness) can build and query forests without shelling
out to the CLI directly. Configuration is read the same way as the other
commands: a config file, then ANNFOREST_* environment variables.`,
		RunE: s.runServe,
	}

	cmd.Flags().StringVarP(&s.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (s *ServeMCPCommand) runServe(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := s.configFile
	if configPath == "" {
		configPath = os.Getenv("ANNFOREST_CONFIG")
	}

	cfg, err := config.Load(configPath, nil)
	if err != nil {
		log.Printf("warning: failed to load config: %v, using defaults", err)
		cfg = config.DefaultConfig()
	}

	srv := mcpserver.NewMCPServer(
		mcpServerName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	deps := mcp.NewDependencies(cfg, configPath)
	mcp.RegisterTools(srv, deps)

	log.Printf("starting %s MCP server %s", mcpServerName, version.Short())
	log.Println("registered tools: build_index, nearest_neighbors, leaf_index, index_stats")
	log.Println("server ready - waiting for MCP client connection")

	if err := mcpserver.ServeStdio(srv); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
	return nil
}

// NewServeMCPCmd creates and returns the serve-mcp cobra command.
func NewServeMCPCmd() *cobra.Command {
	serveCommand := NewServeMCPCommand()
	return serveCommand.CreateCobraCommand()
}
