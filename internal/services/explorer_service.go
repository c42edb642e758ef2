package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"csvplot/internal/charts"
	"csvplot/internal/config"
	apierrors "csvplot/internal/errors"
	"csvplot/internal/infrastructure"
	"csvplot/internal/stats"
	"csvplot/internal/tabular"
)

// SelectHint is shown while no column is selected
const SelectHint = "Select parameters to start the analysis"

// ExploreOptions are the page toggles. Subplots and per-column charts
// only apply when ShowPlots is set.
type ExploreOptions struct {
	ShowRaw       bool `json:"show_raw"`
	ShowStats     bool `json:"show_stats"`
	ShowPlots     bool `json:"show_plots"`
	ShowSubplots  bool `json:"show_subplots"`
	ShowPerColumn bool `json:"show_per_column"`
}

// ExploreRequest is one explore run over uploaded files
type ExploreRequest struct {
	Files   []tabular.Source
	Columns []string
	Options ExploreOptions
}

// Shape is the merged table size
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// RawTable is the selected columns as the cells were uploaded
type RawTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// StatsView is the statistics table with its CSV download
type StatsView struct {
	Rows        []stats.Row `json:"rows"`
	DownloadURI string      `json:"download_uri"`
	FileName    string      `json:"file_name"`
}

// ChartView is one rendered chart. Empty charts have no SVG.
type ChartView struct {
	Kind   charts.Kind    `json:"kind"`
	Title  string         `json:"title,omitempty"`
	SVG    string         `json:"svg,omitempty"`
	Empty  bool           `json:"empty,omitempty"`
	Figure *charts.Figure `json:"figure"`
}

// ChartsView groups the charts produced for one run
type ChartsView struct {
	Overlay   *ChartView  `json:"overlay,omitempty"`
	Subplots  *ChartView  `json:"subplots,omitempty"`
	PerColumn []ChartView `json:"per_column,omitempty"`
}

// ExploreResult is the render model for the explorer page
type ExploreResult struct {
	Name     string      `json:"name"`
	Shape    Shape       `json:"shape"`
	Columns  []string    `json:"columns"`
	Selected []string    `json:"selected"`
	Hint     string      `json:"hint,omitempty"`
	Raw      *RawTable   `json:"raw,omitempty"`
	Stats    *StatsView  `json:"stats,omitempty"`
	Charts   *ChartsView `json:"charts,omitempty"`
}

// ExplorerService loads uploaded CSV files and builds the statistics and
// charts for a column selection.
type ExplorerService struct {
	cache   *TableCache
	builder *charts.Builder
	render  charts.RenderOptions
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewExplorerService creates an explorer from its configuration. A nil
// tracer falls back to the global provider; nil metrics disable metrics.
func NewExplorerService(cfg config.ExplorerConfig, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExplorerService {
	var rng charts.RandomSource
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	logger = infrastructure.WithComponent(logger, "explorer")

	logger.Info("ExplorerService initialized",
		slog.Int("cache_entries", cfg.CacheEntries),
		slog.Bool("seeded", cfg.Seed != 0),
	)

	return &ExplorerService{
		cache:   NewTableCache(cfg.CacheEntries),
		builder: charts.NewBuilder(rng),
		render: charts.RenderOptions{
			Width:     cfg.ChartWidth,
			Height:    cfg.ChartHeight,
			RowHeight: cfg.RowHeight,
		},
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Explore merges the uploaded files and produces what the options ask
// for over the selected columns.
func (s *ExplorerService) Explore(ctx context.Context, req ExploreRequest) (result *ExploreResult, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "explorer.explore", trace.WithAttributes(
		attribute.Int("files", len(req.Files)),
		attribute.Int("columns", len(req.Columns)),
	))
	defer span.End()

	var rows int
	defer func() {
		kind := apierrors.Kind(err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.logger.WarnContext(ctx, "explore failed",
				slog.String("error", err.Error()),
				slog.String("kind", kind),
			)
		}
		infrastructure.RecordExplore(ctx, s.metrics, time.Since(start), len(req.Files), rows, kind)
	}()

	table, err := s.loadTable(ctx, req.Files)
	if err != nil {
		return nil, err
	}
	rows = table.Rows()

	selected, err := table.Select(req.Columns)
	if err != nil {
		return nil, err
	}

	r, c := table.Shape()
	result = &ExploreResult{
		Name:     table.Name(),
		Shape:    Shape{Rows: r, Columns: c},
		Columns:  table.Columns(),
		Selected: selected.Columns(),
	}

	if len(req.Columns) == 0 {
		result.Hint = SelectHint
		return result, nil
	}

	opts := req.Options
	if opts.ShowRaw {
		result.Raw = &RawTable{Columns: selected.Columns(), Rows: selected.Records()}
	}

	if opts.ShowStats {
		if result.Stats, err = s.statsView(selected); err != nil {
			return nil, err
		}
	}

	if opts.ShowPlots {
		if result.Charts, err = s.chartsView(ctx, selected, opts); err != nil {
			return nil, err
		}
	}

	s.logger.DebugContext(ctx, "explore completed",
		slog.String("name", result.Name),
		slog.Int("rows", r),
		slog.Int("selected", len(result.Selected)),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// StatsCSV returns the statistics of the selected columns as the
// downloadable CSV file.
func (s *ExplorerService) StatsCSV(ctx context.Context, files []tabular.Source, columns []string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "explorer.stats_csv", trace.WithAttributes(
		attribute.Int("files", len(files)),
		attribute.Int("columns", len(columns)),
	))
	defer span.End()

	table, err := s.loadTable(ctx, files)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	res, err := stats.Compute(table, columns)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}
	return res.Bytes()
}

// CacheLen reports how many merged tables are memoized
func (s *ExplorerService) CacheLen() int {
	return s.cache.Len()
}

func (s *ExplorerService) loadTable(ctx context.Context, files []tabular.Source) (*tabular.Table, error) {
	data, err := readFiles(files)
	if err != nil {
		return nil, err
	}

	table, hit, err := s.cache.Load(ctx, data)
	if err != nil {
		return nil, err
	}
	infrastructure.RecordCacheLookup(ctx, s.metrics, hit)

	r, c := table.Shape()
	infrastructure.AddSpanEvent(ctx, "table.loaded",
		attribute.Bool("cache_hit", hit),
		attribute.Int("rows", r),
		attribute.Int("columns", c),
	)
	return table, nil
}

func (s *ExplorerService) statsView(t *tabular.Table) (*StatsView, error) {
	res, err := stats.Compute(t, t.Columns())
	if err != nil {
		return nil, err
	}
	uri, err := res.DataURI()
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	return &StatsView{Rows: res.Rows, DownloadURI: uri, FileName: stats.FileName}, nil
}

func (s *ExplorerService) chartsView(ctx context.Context, t *tabular.Table, opts ExploreOptions) (*ChartsView, error) {
	columns := t.Columns()
	view := &ChartsView{}

	overlay, err := s.builder.Overlay(t, columns)
	if err != nil {
		return nil, err
	}
	if view.Overlay, err = s.renderView(ctx, overlay); err != nil {
		return nil, err
	}

	if opts.ShowSubplots {
		grid, err := s.builder.SubplotGrid(t, columns)
		if err != nil {
			return nil, err
		}
		if view.Subplots, err = s.renderView(ctx, grid); err != nil {
			return nil, err
		}
	}

	if opts.ShowPerColumn {
		figs, err := s.builder.PerColumn(t, columns)
		if err != nil {
			return nil, err
		}
		view.PerColumn = make([]ChartView, 0, len(figs))
		for _, fig := range figs {
			cv, err := s.renderView(ctx, fig)
			if err != nil {
				return nil, err
			}
			view.PerColumn = append(view.PerColumn, *cv)
		}
	}

	return view, nil
}

func (s *ExplorerService) renderView(ctx context.Context, fig *charts.Figure) (*ChartView, error) {
	view := &ChartView{Kind: fig.Kind, Title: fig.Title, Figure: fig}

	svg, err := charts.RenderString(fig, s.render)
	switch {
	case errors.Is(err, charts.ErrEmptyFigure):
		view.Empty = true
		return view, nil
	case err != nil:
		return nil, fmt.Errorf("render %s chart: %w", fig.Kind, err)
	}

	view.SVG = svg
	infrastructure.RecordChart(ctx, s.metrics, string(fig.Kind))
	return view, nil
}

// readFiles buffers every source so it can be hashed and parsed
func readFiles(files []tabular.Source) ([]FileData, error) {
	data := make([]FileData, len(files))
	for i, f := range files {
		if seeker, ok := f.Reader.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return nil, fmt.Errorf("rewind %s: %w", f.Name, err)
			}
		}
		b, err := io.ReadAll(f.Reader)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		data[i] = FileData{Name: f.Name, Data: b}
	}
	return data, nil
}
