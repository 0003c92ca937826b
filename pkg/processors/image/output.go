package image

import (
	"context"
	"fmt"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// OutputProcessor surfaces its image input as the node result.
type OutputProcessor struct{}

func NewOutputProcessor() *OutputProcessor {
	return &OutputProcessor{}
}

func (*OutputProcessor) Type() string {
	return "imageOutput"
}

func (*OutputProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	raw, ok := pc.Inputs["image"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("no image connected")
	}

	return &processor.Result{
		Outputs: map[string]any{"result": fmt.Sprintf("%v", raw)},
	}, nil
}

func (*OutputProcessor) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
