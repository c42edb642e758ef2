// Package stats computes descriptive statistics over table columns and
// serializes them as stats.csv.
package stats

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"csvplot/internal/tabular"
)

// Row holds the summary of one column. Metrics that cannot be computed
// are NaN.
type Row struct {
	Column string
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
}

// Result is the statistics table in column selection order
type Result struct {
	Rows []Row `json:"rows"`
}

// Len returns the number of summarized columns
func (r *Result) Len() int {
	return len(r.Rows)
}

// Compute summarizes the named columns of t. Missing cells are skipped.
// An empty column list yields an empty result.
func Compute(t *tabular.Table, columns []string) (*Result, error) {
	result := &Result{Rows: make([]Row, 0, len(columns))}
	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		values, err := col.Floats()
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, Summarize(name, values))
	}
	return result, nil
}

// Summarize computes the row for one column of values. NaN values are
// treated as missing.
func Summarize(name string, values []float64) Row {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	row := Row{
		Column: name,
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		Median: math.NaN(),
		Std:    math.NaN(),
	}
	if len(present) == 0 {
		return row
	}

	sort.Float64s(present)
	row.Min = floats.Min(present)
	row.Max = floats.Max(present)
	row.Mean = stat.Mean(present, nil)
	row.Median = median(present)
	if len(present) > 1 {
		row.Std = stat.StdDev(present, nil)
	}
	return row
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

type rowJSON struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
}

// MarshalJSON writes NaN metrics as null
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(rowJSON{
		Column: r.Column,
		Min:    finite(r.Min),
		Max:    finite(r.Max),
		Mean:   finite(r.Mean),
		Median: finite(r.Median),
		Std:    finite(r.Std),
	})
}

// UnmarshalJSON reads null metrics as NaN
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw rowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Row{
		Column: raw.Column,
		Min:    orNaN(raw.Min),
		Max:    orNaN(raw.Max),
		Mean:   orNaN(raw.Mean),
		Median: orNaN(raw.Median),
		Std:    orNaN(raw.Std),
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
