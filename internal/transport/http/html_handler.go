package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"csvplot/internal/config"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// pageData is what the explorer page template renders
type pageData struct {
	AppName string
	Version string
	Form    map[string]string
}

// ServeIndex serves the explorer page
func ServeIndex(version string, logger *slog.Logger) http.HandlerFunc {
	data := pageData{
		AppName: config.AppName,
		Version: version,
		Form: map[string]string{
			"Files":         config.FormFiles,
			"Columns":       config.FormColumns,
			"ShowRaw":       config.FormShowRaw,
			"ShowStats":     config.FormShowStats,
			"ShowPlots":     config.FormShowPlots,
			"ShowSubplots":  config.FormShowSubplots,
			"ShowPerColumn": config.FormShowPerColumn,
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := indexTemplate.Execute(&buf, data); err != nil {
			logger.ErrorContext(r.Context(), "failed to render page",
				slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	}
}
