package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"csvplot/internal/infrastructure"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	commit    string
	buildTime string
	explorer  *ExplorerService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service reporting on the explorer
func NewHealthService(version, commit, buildTime string, explorer *ExplorerService, logger *slog.Logger) *HealthService {
	logger = infrastructure.WithComponent(logger, "health")

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		commit:    commit,
		buildTime: buildTime,
		explorer:  explorer,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the explorer is wired
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	explorer := hs.checkExplorerHealth()
	status.Services["explorer"] = explorer
	if explorer.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready",
			slog.String("reason", explorer.Message))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":      hs.version,
		"commit":       hs.commit,
		"build_time":   hs.buildTime,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkExplorerHealth() ServiceHealth {
	if hs.explorer == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "explorer not initialized",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "explorer is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}
