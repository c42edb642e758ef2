package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/config"
	apierrors "csvplot/internal/errors"
	"csvplot/internal/shared/testutil"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Server.OpenBrowser = false
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricExporter = "prometheus"
	cfg.Explorer.Seed = 3
	return cfg
}

func newTestApplication(t *testing.T, cfg *config.Config) *Application {
	t.Helper()

	logger, _ := testutil.NewTestLogger(t)
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func TestNewApplication(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewApplication(nil, nil)
		assert.Error(t, err)
	})

	t.Run("bad exporter", func(t *testing.T) {
		cfg := testConfig()
		cfg.Telemetry.MetricExporter = "carrier-pigeon"
		logger, _ := testutil.NewTestLogger(t)

		_, err := NewApplication(cfg, logger)
		assert.ErrorContains(t, err, "OpenTelemetry")
	})

	t.Run("wired", func(t *testing.T) {
		app := newTestApplication(t, testConfig())

		assert.NotNil(t, app.Router)
		assert.NotNil(t, app.Server)
		assert.NotNil(t, app.Explorer)
		assert.NotNil(t, app.HealthService)
		assert.NotNil(t, app.Metrics)
		assert.Equal(t, "127.0.0.1:0", app.Server.Addr)
	})
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApplication(t, testConfig())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"index", http.MethodGet, "/", http.StatusOK, "<title>" + config.AppName},
		{"health", http.MethodGet, "/api/health", http.StatusOK, `"status":"ok"`},
		{"ready", http.MethodGet, "/api/health/ready", http.StatusOK, `"ready"`},
		{"live", http.MethodGet, "/api/health/live", http.StatusOK, `"alive"`},
		{"version", http.MethodGet, "/api/version", http.StatusOK, `"go_version"`},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "go_goroutines"},
		{"not found", http.MethodGet, "/nope", http.StatusNotFound, apierrors.TypeNotFound},
		{"explore needs multipart", http.MethodPost, "/api/explore", http.StatusBadRequest, apierrors.TypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_SecurityHeaders(t *testing.T) {
	app := newTestApplication(t, testConfig())

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApplication(t, cfg)

	first := httptest.NewRecorder()
	app.Router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	second := httptest.NewRecorder()
	app.Router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestApplication_ExploreRoundTrip(t *testing.T) {
	app := newTestApplication(t, testConfig())

	body, contentType := testutil.MultipartBody(t,
		[]testutil.FormFile{
			{Name: "a.csv", Content: testutil.SampleA},
			{Name: "b.csv", Content: testutil.SampleB},
		},
		map[string][]string{
			config.FormColumns:   {"x", "z"},
			config.FormShowStats: {"true"},
			config.FormShowPlots: {"true"},
		},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/explore", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Shape struct {
				Rows    int `json:"rows"`
				Columns int `json:"columns"`
			} `json:"shape"`
			Stats struct {
				Rows []map[string]interface{} `json:"rows"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.Data.Shape.Rows)
	assert.Equal(t, 3, resp.Data.Shape.Columns)
	require.Len(t, resp.Data.Stats.Rows, 2)
	assert.Equal(t, "z", resp.Data.Stats.Rows[1]["column"])

	metrics := httptest.NewRecorder()
	app.Router.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), "explore_requests_total")
	assert.Contains(t, metrics.Body.String(), "http_requests_total")
}

func TestApplication_StartStop(t *testing.T) {
	app := newTestApplication(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx, cancel))

	assert.True(t, strings.HasPrefix(app.URL(), "http://127.0.0.1:"))
	assert.NotEqual(t, "127.0.0.1:0", app.Addr())

	resp, err := http.Get(app.URL() + "/api/health")
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"ok"`)

	require.NoError(t, app.Stop(context.Background()))

	_, err = http.Get(app.URL() + "/api/health")
	assert.Error(t, err)
}

func TestApplication_StartPortInUse(t *testing.T) {
	first := newTestApplication(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, first.Start(ctx, cancel))
	defer first.Stop(context.Background())

	cfg := testConfig()
	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	cfg.Server.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	second := newTestApplication(t, cfg)
	assert.Error(t, second.Start(ctx, cancel))
}

func TestBrowserOpenMethods(t *testing.T) {
	methods := browserOpenMethods("http://localhost:8080")
	require.NotEmpty(t, methods)
	for _, m := range methods {
		assert.NotEmpty(t, m.cmd)
		assert.Contains(t, m.args, "http://localhost:8080")
	}
}
