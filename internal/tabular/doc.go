// Package tabular loads uploaded CSV streams into in-memory tables and
// merges them column-wise.
//
// # Model
//
// A Table is an ordered list of named columns. Every column holds the raw
// cell strings of one CSV column, and rows are aligned by position across
// columns. Numeric views are derived on demand with Column.Floats.
//
// # Merging
//
// Merge concatenates tables along the column axis. The first table's
// columns come first and every source keeps its own row and column order.
// Tables with different row counts are rejected with a ShapeMismatchError
// instead of being silently misaligned.
//
// # Errors
//
//   - ParseError: a stream is not valid CSV
//   - ShapeMismatchError: merged tables disagree on row count
//   - LookupError: a column name is not present in the table
//   - NonNumericError: a cell cannot be read as a number
//
// Tables are immutable once built. Callers must not modify the slices
// returned by Column.Cells or Table.Records.
package tabular
