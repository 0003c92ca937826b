// Package main provides the Studio API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/cache"
	"github.com/Chillizu/ai-workflow-studio/pkg/cmd"
	"github.com/Chillizu/ai-workflow-studio/pkg/config"
	"github.com/Chillizu/ai-workflow-studio/pkg/engine"
	"github.com/Chillizu/ai-workflow-studio/pkg/eventbus"
	"github.com/Chillizu/ai-workflow-studio/pkg/otelhelper"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
	"github.com/Chillizu/ai-workflow-studio/pkg/services"
	"github.com/Chillizu/ai-workflow-studio/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	handlers    *web.APIHandlers
	factory     *adapters.Factory
	modelCache  cache.ModelCache
	app         *fiber.App
}

func NewAPI(
	logger *slog.Logger,
	cfg config.AppConfig,
	store persistence.Persistence,
	eventBus eventbus.EventBus,
) (*API, error) {
	factory := adapters.NewFactory(logger)

	modelCache, err := cache.New(cfg.CacheURL)
	if err != nil {
		return nil, err
	}

	registry := cmd.NewRegistry(logger, store.APIConfigs(), factory, cfg.UploadDir)

	var tracer trace.Tracer
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		tracer, err = otelhelper.NewTracer(context.Background(), "studio-api")
		if err != nil {
			return nil, err
		}
	} else {
		tracer = otelhelper.NoopTracer()
	}

	eng := engine.New(registry, eventBus, logger, tracer)

	workflowService := services.NewWorkflowService(store.Workflows(), logger)
	executionService := services.NewExecutionService(eng, store.Workflows(), store.Executions(), logger)
	configService := services.NewAPIConfigService(store.APIConfigs(), factory, modelCache, logger)

	return &API{
		logger:      logger,
		persistence: store,
		handlers:    web.NewAPIHandlers(workflowService, executionService, configService, registry),
		factory:     factory,
		modelCache:  modelCache,
	}, nil
}

func (a *API) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Studio API")
	})

	a.handlers.RegisterRoutes(app)

	return app
}

func (a *API) Start(port int) error {
	a.app = a.App()

	return a.app.Listen(":" + strconv.Itoa(port))
}

func (a *API) Shutdown(ctx context.Context) {
	a.factory.CloseAll()

	if err := a.modelCache.Close(); err != nil {
		a.logger.ErrorContext(ctx, "Failed to close model cache", "error", err)
	}
}
