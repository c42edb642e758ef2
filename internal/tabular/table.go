package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingTokens are cell values read as missing rather than non-numeric
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
}

// Column is a named sequence of raw cells
type Column struct {
	name  string
	cells []string
}

// NewColumn creates a column from its cells
func NewColumn(name string, cells ...string) *Column {
	return &Column{name: name, cells: cells}
}

// Name returns the column name
func (c *Column) Name() string {
	return c.name
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.cells)
}

// Cells returns the raw cell values
func (c *Column) Cells() []string {
	return c.cells
}

// IsMissing reports whether a raw cell is treated as a missing value
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// Floats parses every cell as a float64. Missing cells become NaN.
func (c *Column) Floats() ([]float64, error) {
	values := make([]float64, len(c.cells))
	for i, cell := range c.cells {
		if IsMissing(cell) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, &NonNumericError{Column: c.name, Row: i, Value: cell}
		}
		values[i] = v
	}
	return values, nil
}

// Table is an ordered set of equally long columns
type Table struct {
	name    string
	rows    int
	columns []*Column
	index   map[string]int
}

// NewTable builds a table from columns. Duplicate names are made unique
// by appending ".1", ".2", ... to later occurrences.
func NewTable(name string, columns ...*Column) (*Table, error) {
	t := &Table{
		name:    name,
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, &ShapeMismatchError{File: name, Rows: col.Len(), Expected: t.rows}
		}
		t.add(col)
	}
	return t, nil
}

func (t *Table) add(col *Column) {
	name := uniqueName(col.name, t.index)
	if name != col.name {
		col = &Column{name: name, cells: col.cells}
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, col)
}

func uniqueName(name string, taken map[string]int) string {
	if _, ok := taken[name]; !ok {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d", name, n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// Name returns the source name of the table
func (t *Table) Name() string {
	return t.name
}

// Shape returns the row and column counts
func (t *Table) Shape() (rows, cols int) {
	return t.rows, len(t.columns)
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return t.rows
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &LookupError{Column: name}
	}
	return t.columns[i], nil
}

// Select returns a projection of the table in the given column order.
// Each name may appear once, so the projection keeps the requested names.
func (t *Table) Select(names []string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, &DuplicateColumnError{Column: name}
		}
		seen[name] = struct{}{}
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	sel, err := NewTable(t.name, cols...)
	if err != nil {
		return nil, err
	}
	sel.rows = t.rows
	return sel, nil
}

// Records returns the table row-major, without the header
func (t *Table) Records() [][]string {
	records := make([][]string, t.rows)
	for r := 0; r < t.rows; r++ {
		record := make([]string, len(t.columns))
		for c, col := range t.columns {
			record[c] = col.cells[r]
		}
		records[r] = record
	}
	return records
}
