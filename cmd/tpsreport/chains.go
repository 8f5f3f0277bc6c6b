package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newChainsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List supported blockchain networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := root.registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNETWORK\tTHEORETICAL TPS")
			for _, p := range reg.Profiles() {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", p.ID, p.NetworkLabel, p.TheoreticalTPS)
			}
			return tw.Flush()
		},
	}
}
