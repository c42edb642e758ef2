package stats

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/tabular"
)

func loadTable(t *testing.T, content ...string) *tabular.Table {
	t.Helper()

	sources := make([]tabular.Source, len(content))
	for i, c := range content {
		sources[i] = tabular.Source{Name: "f" + strconv.Itoa(i) + ".csv", Reader: strings.NewReader(c)}
	}
	table, err := tabular.Load(context.Background(), sources)
	require.NoError(t, err)
	return table
}

// assertRow compares rows treating NaN as equal to NaN
func assertRow(t *testing.T, want, got Row) {
	t.Helper()

	assert.Equal(t, want.Column, got.Column)
	fields := []struct {
		name      string
		want, got float64
	}{
		{"min", want.Min, got.Min},
		{"max", want.Max, got.Max},
		{"mean", want.Mean, got.Mean},
		{"median", want.Median, got.Median},
		{"std", want.Std, got.Std},
	}
	for _, f := range fields {
		if math.IsNaN(f.want) {
			assert.True(t, math.IsNaN(f.got), "%s: expected NaN, got %v", f.name, f.got)
			continue
		}
		assert.InDelta(t, f.want, f.got, 1e-12, f.name)
	}
}

func TestCompute(t *testing.T) {
	nan := math.NaN()
	table := loadTable(t,
		"x,y\n1,4\n2,5\n3,6\n",
		"z\n7\n8\n9\n",
	)

	t.Run("merged example", func(t *testing.T) {
		result, err := Compute(table, []string{"x", "z"})
		require.NoError(t, err)
		require.Equal(t, 2, result.Len())

		assertRow(t, Row{Column: "x", Min: 1, Max: 3, Mean: 2, Median: 2, Std: 1}, result.Rows[0])
		assertRow(t, Row{Column: "z", Min: 7, Max: 9, Mean: 8, Median: 8, Std: 1}, result.Rows[1])
	})

	t.Run("selection order", func(t *testing.T) {
		result, err := Compute(table, []string{"z", "y", "x"})
		require.NoError(t, err)
		names := make([]string, result.Len())
		for i, r := range result.Rows {
			names[i] = r.Column
		}
		assert.Equal(t, []string{"z", "y", "x"}, names)
	})

	t.Run("empty selection", func(t *testing.T) {
		result, err := Compute(table, nil)
		require.NoError(t, err)
		assert.Zero(t, result.Len())
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Compute(table, []string{"x", "nope"})
		var lookupErr *tabular.LookupError
		assert.ErrorAs(t, err, &lookupErr)
	})

	t.Run("non-numeric column", func(t *testing.T) {
		text := loadTable(t, "label,value\nalpha,1\nbeta,2\n")
		_, err := Compute(text, []string{"label"})
		var numErr *tabular.NonNumericError
		require.ErrorAs(t, err, &numErr)
		assert.Equal(t, "label", numErr.Column)
	})

	t.Run("missing values skipped", func(t *testing.T) {
		gaps := loadTable(t, "a,b,c\n1,,\n,2,\n3,,\n4,,\n")
		result, err := Compute(gaps, []string{"a", "b", "c"})
		require.NoError(t, err)

		assertRow(t, Row{Column: "a", Min: 1, Max: 4, Mean: 8.0 / 3, Median: 3, Std: math.Sqrt(7.0 / 3)}, result.Rows[0])
		assertRow(t, Row{Column: "b", Min: 2, Max: 2, Mean: 2, Median: 2, Std: nan}, result.Rows[1])
		assertRow(t, Row{Column: "c", Min: nan, Max: nan, Mean: nan, Median: nan, Std: nan}, result.Rows[2])
	})
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Row
	}{
		{
			name:   "even count median",
			values: []float64{4, 1, 3, 2},
			want:   Row{Min: 1, Max: 4, Mean: 2.5, Median: 2.5, Std: math.Sqrt(5.0 / 3)},
		},
		{
			name:   "odd count median",
			values: []float64{5, 1, 9},
			want:   Row{Min: 1, Max: 9, Mean: 5, Median: 5, Std: 4},
		},
		{
			name:   "constant",
			values: []float64{2, 2, 2},
			want:   Row{Min: 2, Max: 2, Mean: 2, Median: 2, Std: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRow(t, tt.want, Summarize("", tt.values))
		})
	}
}

func TestSummarizeOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		values := make([]float64, 1+rng.Intn(40))
		for i := range values {
			values[i] = rng.NormFloat64() * 100
		}

		row := Summarize("v", values)
		assert.LessOrEqual(t, row.Min, row.Median)
		assert.LessOrEqual(t, row.Median, row.Max)
		if len(values) > 1 {
			assert.GreaterOrEqual(t, row.Std, 0.0)
		}
	}
}

func TestRowJSON(t *testing.T) {
	row := Row{Column: "b", Min: 2, Max: 2, Mean: 2, Median: 2, Std: math.NaN()}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":"b","min":2,"max":2,"mean":2,"median":2,"std":null}`, string(data))

	var decoded Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assertRow(t, row, decoded)
}
