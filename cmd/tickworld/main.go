package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tickworld",
		Short:         "Tick-based grid world simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCfg := "config/tickworld.toml"
	if p := os.Getenv("TICKWORLD_CONFIG"); p != "" {
		defaultCfg = p
	}
	root.PersistentFlags().String("config", defaultCfg, "path to the TOML config file (missing file = defaults)")

	root.AddCommand(
		newRunCmd(),
		newSpeciesCmd(),
	)
	return root
}
