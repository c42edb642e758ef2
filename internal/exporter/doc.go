// Package exporter writes merged tables back out as CSV.
//
// CSVWriter writes to any io.Writer or to a file path, optionally with a
// UTF-8 byte order mark so spreadsheet tools detect the encoding.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteFile("out/merged.csv", table, exporter.WriteOptions{BOMPrefix: true})
package exporter
