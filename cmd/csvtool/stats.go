package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"csvplot/internal/stats"
)

func newStatsCmd(c *cli) *cobra.Command {
	var (
		columns []string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "stats FILE...",
		Short: "Write min, max, mean, median and std per column as CSV",
		Example: `  csvtool stats a.csv b.csv --columns x,z
  csvtool stats a.csv --out stats.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.load(cmd.Context(), args)
			if err != nil {
				return err
			}
			selected, err := selection(table, columns)
			if err != nil {
				return err
			}

			result, err := stats.Compute(table, selected)
			if err != nil {
				return err
			}

			w, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			if err := result.EncodeCSV(w); err != nil {
				w.Close()
				return err
			}
			c.logger.Info("wrote statistics",
				slog.Int("columns", result.Len()),
				slog.String("out", out))
			return w.Close()
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "columns to summarize, in order (default: all)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
