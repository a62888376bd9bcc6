package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_ServiceAttrOnEveryLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collector.log")

	err := Initialize(Config{Service: "collector", Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	Get().Info("snapshot stored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"collector"`)
	assert.Contains(t, string(data), `"msg":"snapshot stored"`)
}

func TestContextLoggers_CarryRequestAndSessionIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collector.log")
	require.NoError(t, Initialize(Config{Service: "collector", Format: "json", OutputPath: path}))

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithSessionID(ctx, "session_1700000000000_k2j4h")

	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	FromContext(ctx).Info("fraud report stored")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_id":"req-123"`)
	assert.Contains(t, string(data), `"session_id":"session_1700000000000_k2j4h"`)
}

func TestFromContext_FallsBackToProcessLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestNewRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}
