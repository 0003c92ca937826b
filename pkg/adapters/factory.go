package adapters

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/reliability"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3

	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Factory creates and caches one adapter per API config. Rate limiters are
// shared through the manager so reconfigured adapters keep their budget.
type Factory struct {
	mu       sync.Mutex
	adapters map[string]Adapter
	limiters *reliability.LimiterManager
	logger   *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	return &Factory{
		adapters: make(map[string]Adapter),
		limiters: reliability.NewLimiterManager(),
		logger:   logger,
	}
}

// FromAPIConfig returns the adapter for cfg, building it on first use.
func (f *Factory) FromAPIConfig(cfg *models.APIConfig) Adapter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if adapter, ok := f.adapters[cfg.ID]; ok {
		return adapter
	}

	adapter := f.build(cfg)
	f.adapters[cfg.ID] = adapter

	return adapter
}

func (f *Factory) build(cfg *models.APIConfig) Adapter {
	baseURL := cfg.Endpoint
	if baseURL == "" {
		switch cfg.Type {
		case models.APIConfigTypeOpenRouter:
			baseURL = openRouterBaseURL
		default:
			baseURL = openAIBaseURL
		}
	}

	timeout := defaultTimeout
	if cfg.TimeoutMs > 0 {
		timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	rpm := cfg.RateLimitPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	config := Config{
		BaseURL:            baseURL,
		APIKey:             cfg.APIKey,
		Model:              cfg.DefaultModel,
		Timeout:            timeout,
		MaxRetries:         maxRetries,
		RateLimitPerMinute: rpm,
	}

	return NewOpenAICompatAdapter(config, f.limiters.Get(cfg.ID, rpm), f.logger)
}

// Remove drops the adapter and rate limiter for an API config, typically
// after the config was updated or deleted.
func (f *Factory) Remove(configID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if adapter, ok := f.adapters[configID]; ok {
		if err := adapter.Close(); err != nil {
			f.logger.Warn("closing adapter", "config_id", configID, "error", err)
		}

		delete(f.adapters, configID)
	}

	f.limiters.Remove(configID)
}

// CloseAll shuts down every adapter and limiter.
func (f *Factory) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, adapter := range f.adapters {
		if err := adapter.Close(); err != nil {
			f.logger.Warn("closing adapter", "config_id", id, "error", err)
		}

		delete(f.adapters, id)
	}

	f.limiters.Clear()
}
