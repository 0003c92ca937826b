package cmd

import (
	"log/slog"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/imaging"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
	"github.com/Chillizu/ai-workflow-studio/pkg/processors/ai"
	imageproc "github.com/Chillizu/ai-workflow-studio/pkg/processors/image"
	"github.com/Chillizu/ai-workflow-studio/pkg/processors/text"
)

// NewRegistry builds the processor registry with every built-in node type.
func NewRegistry(
	logger *slog.Logger,
	configs persistence.APIConfigRepository,
	factory *adapters.Factory,
	uploadDir string,
) *processor.Registry {
	registry := processor.NewRegistry(logger)

	registry.Register(text.NewInputProcessor())
	registry.Register(text.NewOutputProcessor())
	registry.Register(text.NewMergeProcessor())
	registry.Register(text.NewTemplateProcessor())

	resizer := imaging.NewLocalResizer(uploadDir)
	registry.Register(imageproc.NewInputProcessor())
	registry.Register(imageproc.NewOutputProcessor())
	registry.Register(imageproc.NewResizeProcessor(resizer))

	registry.Register(ai.NewGenerateProcessor(configs, factory))

	return registry
}
