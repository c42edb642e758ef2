package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func src(name, content string) Source {
	return Source{Name: name, Reader: strings.NewReader(content)}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		sources  []Source
		wantCols []string
		wantRows int
		wantErr  func(t *testing.T, err error)
	}{
		{
			name:     "single file",
			sources:  []Source{src("a.csv", "x,y\n1,4\n2,5\n3,6\n")},
			wantCols: []string{"x", "y"},
			wantRows: 3,
		},
		{
			name: "two files merge column-wise",
			sources: []Source{
				src("a.csv", "x,y\n1,4\n2,5\n3,6\n"),
				src("b.csv", "z\n7\n8\n9\n"),
			},
			wantCols: []string{"x", "y", "z"},
			wantRows: 3,
		},
		{
			name: "duplicate names across files",
			sources: []Source{
				src("a.csv", "x\n1\n"),
				src("b.csv", "x\n2\n"),
				src("c.csv", "x\n3\n"),
			},
			wantCols: []string{"x", "x.1", "x.2"},
			wantRows: 1,
		},
		{
			name:     "header only",
			sources:  []Source{src("a.csv", "x,y\n")},
			wantCols: []string{"x", "y"},
			wantRows: 0,
		},
		{
			name:    "no sources",
			sources: nil,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoSources)
			},
		},
		{
			name: "row counts differ",
			sources: []Source{
				src("a.csv", "x\n1\n2\n3\n"),
				src("b.csv", "w\n1\n2\n"),
			},
			wantErr: func(t *testing.T, err error) {
				var shapeErr *ShapeMismatchError
				require.ErrorAs(t, err, &shapeErr)
				assert.Equal(t, "b.csv", shapeErr.File)
				assert.Equal(t, 2, shapeErr.Rows)
				assert.Equal(t, 3, shapeErr.Expected)
			},
		},
		{
			name:    "empty file",
			sources: []Source{src("empty.csv", "")},
			wantErr: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "empty.csv", parseErr.File)
				assert.ErrorIs(t, err, ErrEmptyInput)
			},
		},
		{
			name:    "ragged row",
			sources: []Source{src("bad.csv", "x,y\n1,2\n3\n")},
			wantErr: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 3, parseErr.Line)
				assert.ErrorIs(t, err, csv.ErrFieldCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Load(context.Background(), tt.sources)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, table)
				tt.wantErr(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, table.Columns())
			assert.Equal(t, tt.wantRows, table.Rows())
		})
	}
}

func TestLoadMergedValues(t *testing.T) {
	table, err := Load(context.Background(), []Source{
		src("a.csv", "x,y\n1,4\n2,5\n3,6\n"),
		src("b.csv", "z\n7\n8\n9\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "a.csv+b.csv", table.Name())
	assert.Equal(t, [][]string{
		{"1", "4", "7"},
		{"2", "5", "8"},
		{"3", "6", "9"},
	}, table.Records())
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, []Source{src("a.csv", "x\n1\n")})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSeeker struct {
	io.Reader
}

func (failingSeeker) Seek(int64, int) (int64, error) {
	return 0, errors.New("seek unsupported")
}

func TestLoadRewindsSeekers(t *testing.T) {
	r := strings.NewReader("x\n1\n2\n")
	_, err := io.ReadAll(r)
	require.NoError(t, err)

	table, err := Load(context.Background(), []Source{{Name: "a.csv", Reader: r}})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Rows())

	_, err = Load(context.Background(), []Source{{Name: "b.csv", Reader: failingSeeker{strings.NewReader("x\n")}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewind b.csv")
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"strips BOM", "\ufeffid,value\n1,2\n", []string{"id", "value"}},
		{"trims spaces", " a , b\n1,2\n", []string{"a", "b"}},
		{"names blank headers", "a,,c\n1,2,3\n", []string{"a", "Unnamed: 1", "c"}},
		{"renames duplicates", "a,a,a\n1,2,3\n", []string{"a", "a.1", "a.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse("t.csv", strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Columns())
		})
	}
}

func TestParseMissingValues(t *testing.T) {
	table, err := Parse("gaps.csv", strings.NewReader("a,b\n1,\n,2\nNA,4\n"))
	require.NoError(t, err)

	col, err := table.Column("a")
	require.NoError(t, err)
	values, err := col.Floats()
	require.NoError(t, err)

	require.Len(t, values, 3)
	assert.Equal(t, 1.0, values[0])
	assert.True(t, math.IsNaN(values[1]))
	assert.True(t, math.IsNaN(values[2]))
}

func TestMerge(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		table, err := Merge()
		require.NoError(t, err)
		rows, cols := table.Shape()
		assert.Zero(t, rows)
		assert.Zero(t, cols)
	})

	t.Run("keeps inputs untouched", func(t *testing.T) {
		a, err := Parse("a.csv", strings.NewReader("x\n1\n"))
		require.NoError(t, err)
		b, err := Parse("b.csv", strings.NewReader("x\n2\n"))
		require.NoError(t, err)

		merged, err := Merge(a, b)
		require.NoError(t, err)

		assert.Equal(t, []string{"x", "x.1"}, merged.Columns())
		assert.Equal(t, []string{"x"}, b.Columns())
		col, err := b.Column("x")
		require.NoError(t, err)
		assert.Equal(t, "x", col.Name())
	})
}
