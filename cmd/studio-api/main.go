package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/Chillizu/ai-workflow-studio/pkg/cmd"
	"github.com/Chillizu/ai-workflow-studio/pkg/config"
	"github.com/Chillizu/ai-workflow-studio/pkg/log"
)

const defaultPort = 9090

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "studio-api",
		Usage:                 "Create, manage, and execute image generation workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML configuration file",
				Value:   "./studio.yaml",
				Sources: cli.EnvVars("STUDIO_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Storage URL for workflows, executions, and API configs",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "cache-url",
				Usage:   "Model cache URL (memory or redis://...)",
				Sources: cli.EnvVars("CACHE_URL"),
			},
			&cli.StringFlag{
				Name:    "upload-dir",
				Usage:   "Directory for generated and resized images",
				Sources: cli.EnvVars("UPLOAD_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			cfg, err := config.Load(command.String("config"))
			if err != nil {
				return err
			}

			applyFlags(&cfg, command)
			log.Setup(cfg.LogLevel)

			logger.InfoContext(ctx, "Initializing Studio API")

			persistence := cmd.NewPersistence(cfg.DatabaseURL)
			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(cfg.EventBus, logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			api, err := NewAPI(logger, cfg, persistence, eventBus)
			if err != nil {
				return err
			}
			defer api.Shutdown(ctx)

			return api.Start(cfg.Port)
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func applyFlags(cfg *config.AppConfig, command *cli.Command) {
	if command.IsSet("port") {
		cfg.Port = command.Int("port")
	}

	if command.IsSet("database-url") {
		cfg.DatabaseURL = command.String("database-url")
	}

	if command.IsSet("event-bus") {
		cfg.EventBus = command.String("event-bus")
	}

	if command.IsSet("cache-url") {
		cfg.CacheURL = command.String("cache-url")
	}

	if command.IsSet("upload-dir") {
		cfg.UploadDir = command.String("upload-dir")
	}

	if command.IsSet("log-level") {
		cfg.LogLevel = command.String("log-level")
	}
}
