package main

import (
	"github.com/spf13/cobra"

	"csvplot/internal/exporter"
)

func newMergeCmd(c *cli) *cobra.Command {
	var (
		columns []string
		out     string
		bom     bool
	)

	cmd := &cobra.Command{
		Use:     "merge FILE...",
		Short:   "Write the column-wise merge of the inputs as one CSV",
		Example: `  csvtool merge a.csv b.csv --out merged.csv --bom`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}

			writer := exporter.NewCSVWriter(c.logger)
			options := exporter.WriteOptions{Columns: columns, BOMPrefix: bom}
			if out != "" && out != "-" {
				return writer.WriteFile(out, table, options)
			}
			return writer.Write(cmd.OutOrStdout(), table, options)
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "columns to keep, in order (default: all)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&bom, "bom", false, "prefix the output with a UTF-8 byte order mark")
	return cmd
}
