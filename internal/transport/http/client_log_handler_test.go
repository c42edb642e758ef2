package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedMsg    string
	}{
		{
			name:           "error entry",
			body:           `{"level":"error","message":"explore request failed","source":"explorer","data":{"error":"boom"}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
			expectedMsg:    "explore request failed",
		},
		{
			name:           "warn entry",
			body:           `{"level":"warn","message":"slow render"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelWarn,
			expectedMsg:    "slow render",
		},
		{
			name:           "unknown level is info",
			body:           `{"level":"fatal","message":"odd level"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "odd level",
		},
		{
			name:           "invalid JSON",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "oversized entry",
			body:           `{"level":"info","message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger)

			req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, false, response["success"])
				assert.Zero(t, logs.Count())
				return
			}

			assert.Equal(t, true, response["success"])
			records := logs.GetRecords()
			require.Len(t, records, 1)
			assert.Equal(t, tt.expectedLevel, records[0].Level)
			assert.Equal(t, tt.expectedMsg, records[0].Message)
			assert.Equal(t, "client", records[0].Attrs["component"])
		})
	}
}
