package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tickworld/server/internal/data"
)

func newSpeciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "species",
		Short: "List the species table in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := data.LoadSpeciesTable(cfg.Data.Species)
			if err != nil {
				return fmt.Errorf("species: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tNAME\tCATEGORY\tHEALTH\tSTRENGTH\tATTACKS\tFRAMES\tPARTS")
			for _, mt := range table.Types() {
				sp, _ := table.Get(mt)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\t%s\t%d\n",
					sp.Type, sp.Name, sp.Category, sp.Health, sp.Strength, sp.Attacks, sp.Appearance.Frames, len(sp.Parts))
			}
			return tw.Flush()
		},
	}
}
