package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"csvplot/internal/config"
	apierrors "csvplot/internal/errors"
	"csvplot/internal/infrastructure"
	"csvplot/internal/middleware"
	"csvplot/internal/services"
	"csvplot/internal/stats"
	"csvplot/internal/tabular"
)

// ExplorerService is the explorer as seen by the HTTP layer
type ExplorerService interface {
	Explore(ctx context.Context, req services.ExploreRequest) (*services.ExploreResult, error)
	StatsCSV(ctx context.Context, files []tabular.Source, columns []string) ([]byte, error)
}

// UploadedFile describes one file part of the explore form
type UploadedFile struct {
	Name string `form:"name" validate:"required,csvfile"`
	Size int64  `form:"size" validate:"gte=0"`
}

// ExploreForm is the validated explore request. Columns keep the order
// they were selected in.
type ExploreForm struct {
	Files         []UploadedFile `form:"files" validate:"required,dive"`
	Columns       []string       `form:"columns" validate:"unique,dive,column"`
	ShowRaw       bool           `form:"show_raw"`
	ShowStats     bool           `form:"show_stats"`
	ShowPlots     bool           `form:"show_plots"`
	ShowSubplots  bool           `form:"show_subplots"`
	ShowPerColumn bool           `form:"show_per_column"`
}

// Options returns the page toggles of the form
func (f *ExploreForm) Options() services.ExploreOptions {
	return services.ExploreOptions{
		ShowRaw:       f.ShowRaw,
		ShowStats:     f.ShowStats,
		ShowPlots:     f.ShowPlots,
		ShowSubplots:  f.ShowSubplots,
		ShowPerColumn: f.ShowPerColumn,
	}
}

// ExploreHandler serves the explore and stats download endpoints
type ExploreHandler struct {
	service         ExplorerService
	validation      *middleware.ValidationMiddleware
	errorHandler    *apierrors.ErrorHandler
	multipartMemory int64
	logger          *slog.Logger
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(service ExplorerService, cfg config.ServerConfig, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ExploreHandler {
	return &ExploreHandler{
		service:         service,
		validation:      middleware.NewValidationMiddleware(logger, errorHandler, cfg.MaxUploadBytes),
		errorHandler:    errorHandler,
		multipartMemory: cfg.MultipartMemory,
		logger:          infrastructure.WithComponent(logger, "explore_handler"),
	}
}

// Routes returns the explore routes. Both take the same multipart form.
func (h *ExploreHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))
	r.Use(h.validation.LimitBody)

	r.Post("/", h.Explore)
	r.Post("/"+stats.FileName, h.StatsCSV)

	return r
}

// Explore handles POST /api/explore
func (h *ExploreHandler) Explore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, files, cleanup, err := h.parseForm(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	h.logger.InfoContext(ctx, "explore request",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.Int("files", len(files)),
		slog.Any("columns", form.Columns),
	)

	result, err := h.service.Explore(ctx, services.ExploreRequest{
		Files:   files,
		Columns: form.Columns,
		Options: form.Options(),
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// StatsCSV handles POST /api/explore/stats.csv
func (h *ExploreHandler) StatsCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, files, cleanup, err := h.parseForm(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	data, err := h.service.StatsCSV(ctx, files, form.Columns)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "stats download",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.Int("columns", len(form.Columns)),
		slog.Int("bytes", len(data)),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stats.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseForm reads and validates the multipart form. The returned cleanup
// closes the opened parts and removes any spooled temp files.
func (h *ExploreHandler) parseForm(r *http.Request) (*ExploreForm, []tabular.Source, func(), error) {
	if err := r.ParseMultipartForm(h.multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, nil, maxErr
		}
		return nil, nil, nil, apierrors.InvalidRequestWithError(err)
	}
	mf := r.MultipartForm

	form := &ExploreForm{Columns: mf.Value[config.FormColumns]}
	headers := mf.File[config.FormFiles]
	for _, fh := range headers {
		form.Files = append(form.Files, UploadedFile{Name: fh.Filename, Size: fh.Size})
	}

	var fieldErrs []apierrors.ValidationError
	toggles := []struct {
		field string
		dst   *bool
	}{
		{config.FormShowRaw, &form.ShowRaw},
		{config.FormShowStats, &form.ShowStats},
		{config.FormShowPlots, &form.ShowPlots},
		{config.FormShowSubplots, &form.ShowSubplots},
		{config.FormShowPerColumn, &form.ShowPerColumn},
	}
	for _, t := range toggles {
		v, err := formBool(mf.Value[t.field])
		if err != nil {
			fieldErrs = append(fieldErrs, apierrors.ValidationError{
				Field:   t.field,
				Message: fmt.Sprintf("%s must be a boolean", t.field),
			})
			continue
		}
		*t.dst = v
	}
	if len(fieldErrs) > 0 {
		mf.RemoveAll()
		return nil, nil, nil, apierrors.NewValidationErrors(fieldErrs)
	}

	if err := h.validation.ValidateStruct(form); err != nil {
		mf.RemoveAll()
		return nil, nil, nil, err
	}

	opened := make([]multipart.File, 0, len(headers))
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		mf.RemoveAll()
	}

	sources := make([]tabular.Source, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		sources = append(sources, tabular.Source{Name: fh.Filename, Reader: f})
	}

	return form, sources, cleanup, nil
}

// formBool reads a checkbox style value. An absent field is false.
func formBool(values []string) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}
	v := strings.TrimSpace(values[len(values)-1])
	switch strings.ToLower(v) {
	case "", "off":
		return false, nil
	case "on":
		return true, nil
	}
	return strconv.ParseBool(v)
}
