package main

import (
	"github.com/spf13/cobra"
)

func newMarkersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "Print the active marker table as YAML",
		Long: `Prints the marker table selected by --marker-table (or the built-in
table). The output is a valid table file and can be edited and passed back
with --marker-table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.markers()
			if err != nil {
				return err
			}
			data, err := table.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
