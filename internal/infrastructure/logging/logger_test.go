package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_AddsServiceAndContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "ticket-sync",
		Environment: "test",
	})

	ctx := WithScope(WithRequestID(context.Background(), "req-1"), "ana@example.com")
	logger.InfoContext(ctx, "hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "ticket-sync", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "ana@example.com", entry["scope"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "sync.log")
	logger := NewLogger(Config{
		Output: &buf,
		File:   FileConfig{Path: path, MaxSizeMB: 1},
	})

	logger.Info("to both sinks")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both sinks")
	assert.Contains(t, buf.String(), "to both sinks")
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Output: &buf})

	assert.Same(t, base, LoggerFromContext(context.Background(), base))

	ctx := WithRequestID(context.Background(), "req-9")
	assert.Equal(t, "req-9", GetRequestID(ctx))
	LoggerFromContext(ctx, base).Info("scoped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-9", entry["request_id"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.name))
		})
	}
}

func TestLogRequest_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "INFO"},
		{404, "WARN"},
		{502, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Output: &buf})

			LogRequest(WithRequestID(context.Background(), "req-2"), logger, RequestRecord{
				Method:     "GET",
				Path:       "/api/v1/dashboard",
				StatusCode: tt.status,
			})

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.want, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status_code"])
			assert.Equal(t, "req-2", entry["request_id"])
		})
	}
}
