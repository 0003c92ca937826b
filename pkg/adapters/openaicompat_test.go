package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chillizu/ai-workflow-studio/pkg/reliability"
)

func testAdapter(t *testing.T, baseURL string) *OpenAICompatAdapter {
	t.Helper()

	limiter := reliability.NewRateLimiter(1000, 1000)
	t.Cleanup(limiter.Stop)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewOpenAICompatAdapter(Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "dall-e-3",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}, limiter, logger)
}

func TestGenerateImage_Success(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a red fox", payload["prompt"])
		assert.Equal(t, float64(1), payload["n"])
		assert.Equal(t, "url", payload["response_format"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1700000000,
			"data": []map[string]any{
				{"url": "https://img.example/fox.png", "revised_prompt": "a detailed red fox"},
			},
		})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	resp, err := adapter.GenerateImage(context.Background(), ImageGenerationRequest{Prompt: "a red fox"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/fox.png", resp.URL)
	assert.Equal(t, "a detailed red fox", resp.RevisedPrompt)
	assert.Equal(t, "dall-e-3", resp.Model)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestGenerateImage_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "slow down"}})

			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"url": "https://img.example/ok.png"}},
		})
	}))
	defer server.Close()

	limiter := reliability.NewRateLimiter(1000, 1000)
	t.Cleanup(limiter.Stop)

	adapter := NewOpenAICompatAdapter(Config{
		BaseURL:    server.URL,
		MaxRetries: 3,
	}, limiter, slog.New(slog.NewTextHandler(io.Discard, nil)))

	resp, err := adapter.GenerateImage(context.Background(), ImageGenerationRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/ok.png", resp.URL)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateImage_AuthErrorNotRetried(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad key"}})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	_, err := adapter.GenerateImage(context.Background(), ImageGenerationRequest{Prompt: "p"})

	require.Error(t, err)

	var adapterErr *Error
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, ErrorTypeAuth, adapterErr.Type)
	assert.Contains(t, adapterErr.Message, "bad key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateImage_EmptyDataIsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	adapter := NewOpenAICompatAdapter(Config{
		BaseURL:    server.URL,
		MaxRetries: 0,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := adapter.GenerateImage(context.Background(), ImageGenerationRequest{Prompt: "p"})

	var adapterErr *Error
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, ErrorTypeAPI, adapterErr.Type)
}

func TestGenerateImage_Base64Fallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"b64_json": "aGVsbG8="}},
		})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	resp, err := adapter.GenerateImage(context.Background(), ImageGenerationRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", resp.URL)
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	assert.NoError(t, adapter.TestConnection(context.Background()))
}

func TestTestConnection_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	err := adapter.TestConnection(context.Background())

	var adapterErr *Error
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, ErrorTypeAuth, adapterErr.Type)
}

func TestAvailableModels_FiltersImageModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "gpt-4"},
				{"id": "dall-e-3"},
				{"id": "stable-diffusion-xl"},
				{"id": "whisper-1"},
			},
		})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	models, err := adapter.AvailableModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"dall-e-3", "stable-diffusion-xl"}, models)
}

func TestAvailableModels_DefaultsWhenNoneListed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "gpt-4"}},
		})
	}))
	defer server.Close()

	adapter := testAdapter(t, server.URL)

	models, err := adapter.AvailableModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"dall-e-3", "dall-e-2"}, models)
}
