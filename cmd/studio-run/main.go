// Package main provides a one-shot runner that executes a stored workflow
// from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/cmd"
	"github.com/Chillizu/ai-workflow-studio/pkg/config"
	"github.com/Chillizu/ai-workflow-studio/pkg/engine"
	"github.com/Chillizu/ai-workflow-studio/pkg/log"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/otelhelper"
	"github.com/Chillizu/ai-workflow-studio/pkg/services"
)

func main() {
	logger := log.WithModule("run")

	command := &cli.Command{
		Name:      "studio-run",
		Usage:     "Execute a stored workflow once and print the result",
		ArgsUsage: "<workflow-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML configuration file",
				Value:   "./studio.yaml",
				Sources: cli.EnvVars("STUDIO_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Storage URL for workflows, executions, and API configs",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			workflowID := command.Args().First()
			if workflowID == "" {
				return fmt.Errorf("workflow id is required")
			}

			log.Setup(command.String("log-level"))

			cfg, err := config.Load(command.String("config"))
			if err != nil {
				return err
			}

			if command.IsSet("database-url") {
				cfg.DatabaseURL = command.String("database-url")
			}

			store := cmd.NewPersistence(cfg.DatabaseURL)
			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus("gochannel", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			factory := adapters.NewFactory(logger)
			defer factory.CloseAll()

			registry := cmd.NewRegistry(logger, store.APIConfigs(), factory, cfg.UploadDir)
			eng := engine.New(registry, eventBus, logger, otelhelper.NoopTracer())

			executions := services.NewExecutionService(eng, store.Workflows(), store.Executions(), logger)

			record, err := executions.Run(ctx, workflowID)
			if err != nil {
				return err
			}

			output, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(output))

			if record.Status != models.ExecutionStatusCompleted {
				os.Exit(1)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
