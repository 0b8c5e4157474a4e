package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/annforest/internal/config"
)

// loadConfig resolves the fully layered configuration for a command
// invocation: compiled-in defaults, an explicit or discovered
// .annforest.toml, ANNFOREST_* environment variables, then flags explicitly
// set on cmd's own flag set, in that priority order.
func loadConfig(cmd *cobra.Command, configPath string) (*config.ForestConfig, error) {
	var flags *pflag.FlagSet
	if cmd != nil {
		flags = cmd.Flags()
	}
	return config.Load(configPath, flags)
}
