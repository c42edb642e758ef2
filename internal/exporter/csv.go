package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"csvplot/internal/tabular"
)

// BOM is the UTF-8 byte order mark
const BOM = "\ufeff"

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	// Columns limits and orders the exported columns. Empty exports all.
	Columns   []string
	BOMPrefix bool
}

// Write writes the header and rows of t to out
func (w *CSVWriter) Write(out io.Writer, t *tabular.Table, options WriteOptions) error {
	if len(options.Columns) > 0 {
		selected, err := t.Select(options.Columns)
		if err != nil {
			return err
		}
		t = selected
	}

	if options.BOMPrefix {
		if _, err := io.WriteString(out, BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes t to path, creating parent directories as needed
func (w *CSVWriter) WriteFile(path string, t *tabular.Table, options WriteOptions) (err error) {
	rows, cols := t.Shape()
	w.logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", rows),
		slog.Int("column_count", cols))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return w.Write(file, t, options)
}
