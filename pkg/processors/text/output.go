package text

import (
	"context"
	"fmt"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// OutputProcessor surfaces its text input as the node result.
type OutputProcessor struct{}

func NewOutputProcessor() *OutputProcessor {
	return &OutputProcessor{}
}

func (*OutputProcessor) Type() string {
	return "textOutput"
}

func (*OutputProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	value := ""
	if raw, ok := pc.Inputs["text"]; ok {
		value = fmt.Sprintf("%v", raw)
	}

	return &processor.Result{
		Outputs: map[string]any{"result": value},
	}, nil
}

func (*OutputProcessor) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
