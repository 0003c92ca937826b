// Package text provides the built-in text node processors.
package text

import (
	"context"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// InputProcessor emits the text configured on the node.
type InputProcessor struct{}

func NewInputProcessor() *InputProcessor {
	return &InputProcessor{}
}

func (*InputProcessor) Type() string {
	return "textInput"
}

func (*InputProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	value, _ := pc.Config["value"].(string)

	return &processor.Result{
		Outputs: map[string]any{"text": value},
	}, nil
}

func (*InputProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": "string"},
		},
	}
}
