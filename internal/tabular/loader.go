package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

const utf8BOM = "\ufeff"

// Source is one named input stream. Readers that also implement
// io.Seeker are rewound before parsing.
type Source struct {
	Name   string
	Reader io.Reader
}

// Load parses every source and merges the results column-wise, in input
// order. Sources are parsed concurrently.
func Load(ctx context.Context, sources []Source) (*Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	tables := make([]*Table, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if seeker, ok := src.Reader.(io.Seeker); ok {
				if _, err := seeker.Seek(0, io.SeekStart); err != nil {
					return fmt.Errorf("rewind %s: %w", src.Name, err)
				}
			}
			t, err := Parse(src.Name, src.Reader)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Merge(tables...)
}

// Parse reads one CSV stream with a header row
func Parse(name string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{File: name, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, newParseError(name, 1, err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		names[i] = h
	}

	cells := make([][]string, len(names))
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, newParseError(name, line, err)
		}
		for i, v := range record {
			cells[i] = append(cells[i], v)
		}
	}

	cols := make([]*Column, len(names))
	for i, n := range names {
		cols[i] = NewColumn(n, cells[i]...)
	}
	t, err := NewTable(name, cols...)
	if err != nil {
		return nil, err
	}
	t.rows = line - 1
	return t, nil
}

func newParseError(name string, line int, err error) *ParseError {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{File: name, Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{File: name, Line: line, Err: err}
}

// Merge concatenates tables along the column axis. Every table must have
// the same number of rows as the first one.
func Merge(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return NewTable("")
	}

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	merged := &Table{
		name:  strings.Join(names, "+"),
		rows:  tables[0].rows,
		index: make(map[string]int),
	}
	for _, t := range tables {
		if t.rows != merged.rows {
			return nil, &ShapeMismatchError{File: t.name, Rows: t.rows, Expected: merged.rows}
		}
		for _, col := range t.columns {
			merged.add(col)
		}
	}
	return merged, nil
}
