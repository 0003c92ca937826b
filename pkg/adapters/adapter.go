// Package adapters talks to image generation providers behind a common
// interface, wrapping every call in rate limiting and retry.
package adapters

import (
	"context"
	"time"
)

// ImageGenerationRequest describes a single generation call.
type ImageGenerationRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	Model          string `json:"model,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	Style          string `json:"style,omitempty"`
	ReferenceImage string `json:"referenceImage,omitempty"`
}

// ImageGenerationResponse is the provider's answer, normalized.
type ImageGenerationResponse struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
	Model         string `json:"model,omitempty"`
	Created       int64  `json:"created,omitempty"`
}

// Config is everything an adapter needs to reach a provider.
type Config struct {
	BaseURL            string
	APIKey             string
	Model              string
	Timeout            time.Duration
	MaxRetries         int
	RateLimitPerMinute int
}

// Adapter is a connection to one image generation provider.
type Adapter interface {
	GenerateImage(ctx context.Context, req ImageGenerationRequest) (*ImageGenerationResponse, error)
	TestConnection(ctx context.Context) error
	AvailableModels(ctx context.Context) ([]string, error)
	Close() error
}
