package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestGenerate_SendsVersionedRequest(t *testing.T) {
	var captured messagesRequest
	var apiKey, version string

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		apiKey = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "First part. "},
				{"type": "text", "text": "Second part."},
			},
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	text, err := svc.Generate(context.Background(), "a prompt", driven.GenerateOptions{MaxTokens: 256})

	require.NoError(t, err)
	assert.Equal(t, "First part. Second part.", text, "text blocks are concatenated")
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, anthropicVersion, version)
	assert.Equal(t, 256, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
}

func TestGenerate_DefaultMaxTokens(t *testing.T) {
	var captured messagesRequest

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": "ok"}},
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	// max_tokens is mandatory for this API, so an unset budget gets the
	// default instead of zero.
	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, defaultMaxTokens, captured.MaxTokens)
}

func TestGenerate_APIErrorSurfaced(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		resp := map[string]any{
			"error": map[string]any{"type": "invalid_request_error", "message": "model not found"},
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestPing_UsesMinimalGenerate(t *testing.T) {
	var captured messagesRequest

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := map[string]any{
			"content": []map[string]any{{"type": "text", "text": "pong"}},
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	err := svc.Ping(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, captured.MaxTokens)
}
