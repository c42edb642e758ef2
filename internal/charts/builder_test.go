package charts

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/tabular"
)

func exampleTable(t *testing.T) *tabular.Table {
	t.Helper()

	table, err := tabular.Load(context.Background(), []tabular.Source{
		{Name: "a.csv", Reader: strings.NewReader("x,y\n1,4\n2,5\n3,6\n")},
		{Name: "b.csv", Reader: strings.NewReader("z\n7\n8\n9\n")},
	})
	require.NoError(t, err)
	return table
}

// sequence returns its values in order, cycling
type sequence struct {
	values []int
	calls  int
}

func (s *sequence) Intn(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

func TestOverlay(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(1)))
	fig, err := b.Overlay(exampleTable(t), []string{"x", "z"})
	require.NoError(t, err)

	assert.Equal(t, KindOverlay, fig.Kind)
	assert.Equal(t, SamplesTitle, fig.XTitle)
	assert.Equal(t, ValuesTitle, fig.YTitle)
	assert.True(t, fig.Legend.Show)
	assert.Equal(t, "h", fig.Legend.Orientation)
	assert.True(t, fig.Grid)
	assert.True(t, fig.Spikes)
	assert.Equal(t, "#FFFFFB", fig.Style.Background)

	require.Len(t, fig.Series, 2)
	assert.Equal(t, "x", fig.Series[0].Name)
	assert.Equal(t, Values{0, 1, 2}, fig.Series[0].X)
	assert.Equal(t, Values{1, 2, 3}, fig.Series[0].Y)
	assert.Equal(t, "z", fig.Series[1].Name)
	assert.Equal(t, Values{7, 8, 9}, fig.Series[1].Y)

	assert.Equal(t, Plotly[0], fig.Series[0].Color)
	assert.Equal(t, Plotly[1], fig.Series[1].Color)
}

func TestSubplotGrid(t *testing.T) {
	b := NewBuilder(nil)
	columns := []string{"z", "x", "y"}

	fig, err := b.SubplotGrid(exampleTable(t), columns)
	require.NoError(t, err)

	assert.Equal(t, KindSubplots, fig.Kind)
	assert.False(t, fig.Legend.Show)
	assert.True(t, fig.SharedX)
	assert.Empty(t, fig.Series)
	require.Len(t, fig.Rows, len(columns))
	for i, name := range columns {
		assert.Equal(t, name, fig.Rows[i].Title)
		assert.Equal(t, ValuesTitle, fig.Rows[i].YTitle)
		require.Len(t, fig.Rows[i].Series, 1)
		assert.Equal(t, name, fig.Rows[i].Series[0].Name)
	}
	assert.Equal(t, 3, fig.SeriesCount())
}

func TestPerColumn(t *testing.T) {
	t.Run("colors follow the random source", func(t *testing.T) {
		b := NewBuilder(&sequence{values: []int{3, 7}})
		figs, err := b.PerColumn(exampleTable(t), []string{"x", "y", "z"})
		require.NoError(t, err)

		require.Len(t, figs, 3)
		assert.Equal(t, Plotly[3], figs[0].Series[0].Color)
		assert.Equal(t, Plotly[7], figs[1].Series[0].Color)
		assert.Equal(t, Plotly[3], figs[2].Series[0].Color)
		for i, name := range []string{"x", "y", "z"} {
			assert.Equal(t, KindPerColumn, figs[i].Kind)
			assert.Equal(t, name, figs[i].Title)
			assert.True(t, figs[i].Legend.Show)
		}
	})

	t.Run("seeded sources agree", func(t *testing.T) {
		table := exampleTable(t)
		a, err := NewBuilder(rand.New(rand.NewSource(99))).PerColumn(table, []string{"x", "y", "z"})
		require.NoError(t, err)
		b, err := NewBuilder(rand.New(rand.NewSource(99))).PerColumn(table, []string{"x", "y", "z"})
		require.NoError(t, err)

		for i := range a {
			assert.Equal(t, a[i].Series[0].Color, b[i].Series[0].Color)
			assert.Contains(t, Plotly, a[i].Series[0].Color)
		}
	})

	t.Run("concurrent use", func(t *testing.T) {
		b := NewBuilder(rand.New(rand.NewSource(5)))
		table := exampleTable(t)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				figs, err := b.PerColumn(table, []string{"x", "y"})
				assert.NoError(t, err)
				assert.Len(t, figs, 2)
			}()
		}
		wg.Wait()
	})
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder(nil)
	table := exampleTable(t)

	text, err := tabular.Parse("t.csv", strings.NewReader("label\nalpha\nbeta\n"))
	require.NoError(t, err)

	builds := map[string]func(*tabular.Table, []string) error{
		"overlay": func(t *tabular.Table, c []string) error {
			_, err := b.Overlay(t, c)
			return err
		},
		"subplots": func(t *tabular.Table, c []string) error {
			_, err := b.SubplotGrid(t, c)
			return err
		},
		"per-column": func(t *tabular.Table, c []string) error {
			_, err := b.PerColumn(t, c)
			return err
		},
	}

	for name, build := range builds {
		t.Run(name+" unknown column", func(t *testing.T) {
			var lookupErr *tabular.LookupError
			assert.ErrorAs(t, build(table, []string{"x", "missing"}), &lookupErr)
		})
		t.Run(name+" non-numeric", func(t *testing.T) {
			var numErr *tabular.NonNumericError
			assert.ErrorAs(t, build(text, []string{"label"}), &numErr)
		})
	}
}

func TestEmptySelection(t *testing.T) {
	b := NewBuilder(nil)
	table := exampleTable(t)

	overlay, err := b.Overlay(table, nil)
	require.NoError(t, err)
	assert.True(t, overlay.Empty())

	grid, err := b.SubplotGrid(table, nil)
	require.NoError(t, err)
	assert.Empty(t, grid.Rows)

	figs, err := b.PerColumn(table, nil)
	require.NoError(t, err)
	assert.Empty(t, figs)
}

func TestValuesJSON(t *testing.T) {
	data, err := json.Marshal(Values{1, math.NaN(), 2.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[1,null,2.5]`, string(data))

	var v Values
	require.NoError(t, json.Unmarshal(data, &v))
	require.Len(t, v, 3)
	assert.Equal(t, 1.0, v[0])
	assert.True(t, math.IsNaN(v[1]))
	assert.Equal(t, 2.5, v[2])
}
