package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAttributeAccumulates(t *testing.T) {
	ctx := ContextWithSlog(context.Background())

	AddAttribute(ctx, "method", "GET")
	AddAttributes(ctx, map[string]any{"path": "/api/tasks", "status": 200})

	attrs := GetAttributes(ctx)
	assert.Equal(t, "GET", attrs["method"])
	assert.Equal(t, "/api/tasks", attrs["path"])
	assert.Equal(t, 200, attrs["status"])
}

func TestAddAttributeWithoutContextIsNoop(t *testing.T) {
	ctx := context.Background()
	AddAttribute(ctx, "method", "GET")
	assert.Nil(t, GetAttributes(ctx))
}

func TestGetAttributesReturnsCopy(t *testing.T) {
	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "key", "original")

	attrs := GetAttributes(ctx)
	attrs["key"] = "mutated"

	assert.Equal(t, "original", GetAttributes(ctx)["key"])
}

func TestAttributesHandlerIncludesContextAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewAttributesHandler(slog.NewJSONHandler(buf, nil)))

	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "path", "/api/tasks")
	logger.InfoContext(ctx, "OK")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "OK", line["msg"])
	assert.Equal(t, "/api/tasks", line["path"])
}

func TestHTTPStatusToLevel(t *testing.T) {
	tests := []struct {
		status int
		want   slog.Level
	}{
		{200, slog.LevelInfo},
		{204, slog.LevelInfo},
		{301, slog.LevelInfo},
		{400, slog.LevelWarn},
		{404, slog.LevelWarn},
		{499, slog.LevelInfo},
		{500, slog.LevelError},
		{503, slog.LevelError},
		{0, slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusToLevel(tt.status), "status %d", tt.status)
	}
}
