package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newColumnsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE...",
		Short: "Print the shape and column names of the merged table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows, cols := table.Shape()
			fmt.Fprintf(out, "%s: %d x %d\n", table.Name(), rows, cols)
			for _, name := range table.Columns() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
