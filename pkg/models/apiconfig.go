package models

import "time"

// APIConfigType identifies the provider family an API configuration targets.
type APIConfigType string

const (
	APIConfigTypeOpenAI     APIConfigType = "openai"
	APIConfigTypeOpenRouter APIConfigType = "openrouter"
	APIConfigTypeCustom     APIConfigType = "custom"
)

// APIConfig holds the adapter settings for one external generation API. The
// engine only reads these per run; CRUD lives in the configuration store.
type APIConfig struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"     validate:"required,min=1"`
	Type               APIConfigType `json:"type"     validate:"required,oneof=openai openrouter custom"`
	APIKey             string        `json:"apiKey,omitempty"`
	Endpoint           string        `json:"endpoint,omitempty"`
	DefaultModel       string        `json:"defaultModel,omitempty"`
	TimeoutMs          int           `json:"timeout,omitempty"    validate:"omitempty,min=0"`
	MaxRetries         int           `json:"maxRetries,omitempty" validate:"omitempty,min=0"`
	RateLimitPerMinute int           `json:"rateLimitPerMinute,omitempty" validate:"omitempty,min=0"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}
