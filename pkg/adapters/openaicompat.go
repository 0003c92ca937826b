package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Chillizu/ai-workflow-studio/pkg/reliability"
)

const rateLimitWait = 30 * time.Second

// imageModelMarkers filter a provider's model list down to image models.
var imageModelMarkers = []string{"dall-e", "stable-diffusion", "midjourney", "imagen", "flux", "sdxl"}

// OpenAICompatAdapter speaks the OpenAI images API, which OpenRouter and
// most self-hosted gateways also expose.
type OpenAICompatAdapter struct {
	config  Config
	client  *http.Client
	limiter *reliability.RateLimiter
	logger  *slog.Logger
}

// NewOpenAICompatAdapter builds an adapter for an OpenAI-style endpoint.
// The limiter may be shared across adapters hitting the same provider key.
func NewOpenAICompatAdapter(config Config, limiter *reliability.RateLimiter, logger *slog.Logger) *OpenAICompatAdapter {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	if limiter == nil {
		rpm := config.RateLimitPerMinute
		if rpm <= 0 {
			rpm = 60
		}

		limiter = reliability.PerMinute(rpm)
	}

	return &OpenAICompatAdapter{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: limiter,
		logger:  logger.With("module", "adapters"),
	}
}

type imageGenerationPayload struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
}

type imageGenerationResult struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type modelListResult struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage submits a generation request, waiting for rate limit
// capacity and retrying retryable failures.
func (a *OpenAICompatAdapter) GenerateImage(ctx context.Context, req ImageGenerationRequest) (*ImageGenerationResponse, error) {
	model := req.Model
	if model == "" {
		model = a.config.Model
	}

	prompt := req.Prompt
	if req.NegativePrompt != "" {
		prompt = fmt.Sprintf("%s. Avoid: %s", prompt, req.NegativePrompt)
	}

	payload := imageGenerationPayload{
		Prompt:         prompt,
		Model:          model,
		N:              1,
		Size:           req.Size,
		ResponseFormat: "url",
	}

	if strings.HasPrefix(model, "dall-e-3") {
		payload.Quality = req.Quality
		payload.Style = req.Style
	}

	opts := reliability.DefaultRetryOptions()
	if a.config.MaxRetries > 0 {
		opts.MaxRetries = a.config.MaxRetries
	}

	return reliability.WithRetry(ctx, opts, func() (*ImageGenerationResponse, error) {
		if err := a.limiter.WaitForToken(ctx, 1, rateLimitWait); err != nil {
			return nil, NewError(ErrorTypeRateLimit, "rate limit capacity unavailable", err)
		}

		var result imageGenerationResult
		if err := a.doJSON(ctx, http.MethodPost, "/images/generations", payload, &result); err != nil {
			return nil, err
		}

		if len(result.Data) == 0 {
			return nil, NewError(ErrorTypeAPI, "provider returned no images", nil)
		}

		image := result.Data[0]

		url := image.URL
		if url == "" && image.B64JSON != "" {
			url = "data:image/png;base64," + image.B64JSON
		}

		if url == "" {
			return nil, NewError(ErrorTypeAPI, "provider returned an empty image", nil)
		}

		return &ImageGenerationResponse{
			URL:           url,
			RevisedPrompt: image.RevisedPrompt,
			Model:         model,
			Created:       result.Created,
		}, nil
	})
}

// TestConnection verifies the endpoint and credentials by listing models.
func (a *OpenAICompatAdapter) TestConnection(ctx context.Context) error {
	var result modelListResult

	return a.doJSON(ctx, http.MethodGet, "/models", nil, &result)
}

// AvailableModels lists the provider's image models. When the provider's
// list contains none, a default set for the endpoint is returned.
func (a *OpenAICompatAdapter) AvailableModels(ctx context.Context) ([]string, error) {
	var result modelListResult
	if err := a.doJSON(ctx, http.MethodGet, "/models", nil, &result); err != nil {
		return nil, err
	}

	var models []string

	for _, m := range result.Data {
		if isImageModel(m.ID) {
			models = append(models, m.ID)
		}
	}

	if len(models) == 0 {
		return defaultModels(a.config.BaseURL), nil
	}

	sort.Strings(models)

	return models, nil
}

func (a *OpenAICompatAdapter) Close() error {
	a.client.CloseIdleConnections()

	return nil
}

func (a *OpenAICompatAdapter) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return NewError(ErrorTypeInvalidRequest, "encoding request", err)
		}

		body = bytes.NewReader(encoded)
	}

	url := strings.TrimSuffix(a.config.BaseURL, "/") + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return NewError(ErrorTypeInvalidRequest, "building request", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if a.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return ClassifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return NewError(ErrorTypeNetwork, "reading response", err)
	}

	if apiErr := ClassifyHTTPStatus(resp.StatusCode, upstreamMessage(resp.StatusCode, raw)); apiErr != nil {
		a.logger.Warn("provider request failed",
			"method", method, "path", path,
			"status", resp.StatusCode, "error_type", apiErr.Type)

		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return NewError(ErrorTypeAPI, "decoding response", err)
		}
	}

	return nil
}

func upstreamMessage(status int, raw []byte) string {
	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}

	return fmt.Sprintf("provider returned status %d", status)
}

func isImageModel(id string) bool {
	lowered := strings.ToLower(id)

	for _, marker := range imageModelMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}

func defaultModels(baseURL string) []string {
	if strings.Contains(baseURL, "openrouter") {
		return []string{"openai/dall-e-3", "stabilityai/stable-diffusion-xl"}
	}

	return []string{"dall-e-3", "dall-e-2"}
}
