package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/cache"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// APIConfigService owns provider configuration CRUD, connection testing,
// and the cached model catalog.
type APIConfigService struct {
	configs  persistence.APIConfigRepository
	factory  *adapters.Factory
	models   cache.ModelCache
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAPIConfigService(
	configs persistence.APIConfigRepository,
	factory *adapters.Factory,
	modelCache cache.ModelCache,
	logger *slog.Logger,
) *APIConfigService {
	return &APIConfigService{
		configs:  configs,
		factory:  factory,
		models:   modelCache,
		validate: validator.New(),
		logger:   logger.With("module", "apiconfig_service"),
	}
}

func (s *APIConfigService) List(ctx context.Context) ([]*models.APIConfig, error) {
	return s.configs.List(ctx)
}

func (s *APIConfigService) Get(ctx context.Context, id string) (*models.APIConfig, error) {
	return s.configs.GetByID(ctx, id)
}

func (s *APIConfigService) Create(ctx context.Context, config *models.APIConfig) (*models.APIConfig, error) {
	if err := s.validate.Struct(config); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	config.ID = uuid.New().String()
	config.CreatedAt = now
	config.UpdatedAt = now

	if err := s.configs.Save(ctx, config); err != nil {
		return nil, err
	}

	s.logger.Info("api config created", "config_id", config.ID, "type", config.Type)

	return config, nil
}

// Update replaces a config. The cached adapter, rate limiter, and model
// list for it are invalidated so the new settings take effect.
func (s *APIConfigService) Update(ctx context.Context, id string, config *models.APIConfig) (*models.APIConfig, error) {
	existing, err := s.configs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	config.ID = existing.ID
	config.CreatedAt = existing.CreatedAt
	config.UpdatedAt = time.Now().UTC()

	if err := s.validate.Struct(config); err != nil {
		return nil, err
	}

	if err := s.configs.Save(ctx, config); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	return config, nil
}

func (s *APIConfigService) Delete(ctx context.Context, id string) error {
	if err := s.configs.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info("api config deleted", "config_id", id)

	return nil
}

// TestConnection checks the config's endpoint and credentials.
func (s *APIConfigService) TestConnection(ctx context.Context, id string) error {
	config, err := s.configs.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return s.factory.FromAPIConfig(config).TestConnection(ctx)
}

// Models returns the provider's image models for a config, served from
// cache when fresh.
func (s *APIConfigService) Models(ctx context.Context, id string) ([]string, error) {
	if cached, err := s.models.Get(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("model cache read failed", "config_id", id, "error", err)
	}

	config, err := s.configs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.factory.FromAPIConfig(config).AvailableModels(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.models.Set(ctx, id, list, cache.DefaultTTL); err != nil {
		s.logger.Warn("model cache write failed", "config_id", id, "error", err)
	}

	return list, nil
}

func (s *APIConfigService) invalidate(ctx context.Context, id string) {
	s.factory.Remove(id)

	if err := s.models.Invalidate(ctx, id); err != nil {
		s.logger.Warn("model cache invalidation failed", "config_id", id, "error", err)
	}
}
