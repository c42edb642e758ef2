package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csvplot/internal/config"
	"csvplot/internal/infrastructure"
	"csvplot/internal/tabular"
	"csvplot/internal/validation"
)

// cli holds state shared by the subcommands of one invocation
type cli struct {
	logLevel  string
	logger    *slog.Logger
	validator *validation.FileValidator
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "csvtool",
		Short:         "Merge CSV files column-wise, summarize and plot them",
		Long:          `csvtool loads one or more CSV files, merges them side by side and either prints their columns, writes summary statistics as CSV, or renders line charts as SVG.`,
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.ParseLevel(c.logLevel); err != nil {
				return err
			}
			c.logger = infrastructure.NewLogger(config.LoggingConfig{
				Level:  c.logLevel,
				Format: "text",
			}, cmd.ErrOrStderr())
			c.validator = validation.NewFileValidator(c.logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newColumnsCmd(c),
		newStatsCmd(c),
		newPlotCmd(c),
		newMergeCmd(c),
	)
	return root
}

// load opens the files and merges them in argument order. Directory
// arguments contribute their CSV files.
func (c *cli) load(ctx context.Context, args []string) (*tabular.Table, error) {
	paths, err := c.validator.ResolveInputs(args)
	if err != nil {
		return nil, err
	}

	sources := make([]tabular.Source, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		defer f.Close()
		sources = append(sources, tabular.Source{Name: filepath.Base(p), Reader: f})
	}

	table, err := tabular.Load(ctx, sources)
	if err != nil {
		return nil, err
	}

	rows, cols := table.Shape()
	c.logger.InfoContext(ctx, "loaded table",
		slog.String("name", table.Name()),
		slog.Int("rows", rows),
		slog.Int("columns", cols))
	return table, nil
}

// selection returns the requested columns, or every column when none
// were given
func selection(table *tabular.Table, columns []string) ([]string, error) {
	if len(columns) == 0 {
		return table.Columns(), nil
	}
	selected, err := table.Select(columns)
	if err != nil {
		return nil, err
	}
	return selected.Columns(), nil
}

// openOutput returns stdout for "" and "-", otherwise creates the file
func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
