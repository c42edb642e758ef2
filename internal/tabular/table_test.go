package tabular

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnFloats(t *testing.T) {
	tests := []struct {
		name    string
		cells   []string
		want    []float64
		wantErr *NonNumericError
	}{
		{
			name:  "integers and decimals",
			cells: []string{"1", "2.5", "-3", "1e3"},
			want:  []float64{1, 2.5, -3, 1000},
		},
		{
			name:  "surrounding spaces",
			cells: []string{" 4 ", "5"},
			want:  []float64{4, 5},
		},
		{
			name:    "text cell",
			cells:   []string{"1", "abc"},
			wantErr: &NonNumericError{Column: "c", Row: 1, Value: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewColumn("c", tt.cells...).Floats()
			if tt.wantErr != nil {
				var numErr *NonNumericError
				require.ErrorAs(t, err, &numErr)
				assert.Equal(t, tt.wantErr, numErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", " ", "NA", "N/A", "NaN", "nan", "null", "NULL", "None"} {
		assert.True(t, IsMissing(cell), "cell %q", cell)
	}
	for _, cell := range []string{"0", "none", "-", "x"} {
		assert.False(t, IsMissing(cell), "cell %q", cell)
	}

	values, err := NewColumn("c", "NaN", "2").Floats()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(values[0]))
}

func TestNewTable(t *testing.T) {
	t.Run("unequal columns", func(t *testing.T) {
		_, err := NewTable("t", NewColumn("a", "1", "2"), NewColumn("b", "1"))
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, 1, shapeErr.Rows)
		assert.Equal(t, 2, shapeErr.Expected)
	})

	t.Run("shape", func(t *testing.T) {
		table, err := NewTable("t", NewColumn("a", "1", "2"), NewColumn("b", "3", "4"))
		require.NoError(t, err)
		rows, cols := table.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 2, cols)
	})

	t.Run("skips taken suffixes", func(t *testing.T) {
		table, err := NewTable("t", NewColumn("a.1"), NewColumn("a"), NewColumn("a"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a.1", "a", "a.2"}, table.Columns())
	})
}

func TestTableSelect(t *testing.T) {
	table, err := NewTable("t",
		NewColumn("x", "1", "2"),
		NewColumn("y", "3", "4"),
		NewColumn("z", "5", "6"),
	)
	require.NoError(t, err)

	t.Run("keeps requested order", func(t *testing.T) {
		sel, err := table.Select([]string{"z", "x"})
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "x"}, sel.Columns())
		assert.Equal(t, [][]string{{"5", "1"}, {"6", "2"}}, sel.Records())
	})

	t.Run("empty selection keeps rows", func(t *testing.T) {
		sel, err := table.Select(nil)
		require.NoError(t, err)
		rows, cols := sel.Shape()
		assert.Equal(t, 2, rows)
		assert.Zero(t, cols)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := table.Select([]string{"x", "missing"})
		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, "missing", lookupErr.Column)
		assert.EqualError(t, err, `column "missing" not found`)
	})

	t.Run("repeated column", func(t *testing.T) {
		_, err := table.Select([]string{"x", "y", "x"})
		var dupErr *DuplicateColumnError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "x", dupErr.Column)
	})
}
