package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSuccess(t *testing.T) {
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "{\"title\": \"x\"}"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	text, err := c.Complete(context.Background(), "parse this")
	require.NoError(t, err)

	assert.Equal(t, `{"title": "x"}`, text)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, maxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "parse this", gotReq.Messages[0].Content)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "slow down"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	_, err := c.Complete(context.Background(), "parse this")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
	assert.Contains(t, err.Error(), "slow down")
}

func TestCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL, "test-model")
	_, err := c.Complete(context.Background(), "parse this")
	assert.Error(t, err)
}

func TestCompleteMissingAPIKey(t *testing.T) {
	c := NewClient("", "http://localhost:1", "test-model")
	_, err := c.Complete(context.Background(), "parse this")
	assert.Error(t, err)
}

func TestCompleteServerUnreachable(t *testing.T) {
	// Port 1 is never listening.
	c := NewClient("test-key", "http://127.0.0.1:1", "test-model")
	_, err := c.Complete(context.Background(), "parse this")
	assert.Error(t, err)
}
