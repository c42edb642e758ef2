package services

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	explorer := newTestExplorer(t, nil)
	hs := NewHealthService("1.2.3", "abc123", "2026-01-01", explorer, logger)

	assert.True(t, logs.ContainsMessage("HealthService initialized"))

	t.Run("health", func(t *testing.T) {
		status := hs.HealthCheck(context.Background())
		assert.Equal(t, "ok", status.Status)
		assert.Equal(t, "1.2.3", status.Version)
		assert.False(t, status.Timestamp.IsZero())
	})

	t.Run("ready", func(t *testing.T) {
		status := hs.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)
		require.Contains(t, status.Services, "explorer")
		assert.Equal(t, "ready", status.Services["explorer"].(ServiceHealth).Status)
	})

	t.Run("live", func(t *testing.T) {
		status := hs.LivenessCheck(context.Background())
		assert.Equal(t, "alive", status.Status)
		assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
		assert.Contains(t, status.Runtime, "goroutines")
	})

	t.Run("version", func(t *testing.T) {
		v := hs.Version()
		assert.Equal(t, "1.2.3", v["version"])
		assert.Equal(t, "abc123", v["commit"])
		assert.Equal(t, "2026-01-01", v["build_time"])
		assert.Equal(t, runtime.GOOS, v["os"])
	})
}

func TestHealthServiceNotReady(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("dev", "", "", nil, logger)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "explorer not initialized", status.Services["explorer"].(ServiceHealth).Message)
	assert.True(t, logs.ContainsMessage("ReadinessCheck: not ready"))
}
