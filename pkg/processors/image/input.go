// Package image provides the built-in image node processors.
package image

import (
	"context"
	"fmt"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// InputProcessor emits the configured image source, either an uploaded file
// path or an external URL.
type InputProcessor struct{}

func NewInputProcessor() *InputProcessor {
	return &InputProcessor{}
}

func (*InputProcessor) Type() string {
	return "imageInput"
}

func (*InputProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	source, _ := pc.Config["source"].(string)
	if source == "" {
		return nil, fmt.Errorf("image source not configured")
	}

	return &processor.Result{
		Outputs: map[string]any{"image": source},
	}, nil
}

func (*InputProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{"type": "string"},
		},
		"required": []any{"source"},
	}
}
