package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

var mergeInputOrder = []string{"text1", "text2", "text3"}

// MergeProcessor joins up to three text inputs with a separator, or renders
// an optional template over them.
type MergeProcessor struct{}

func NewMergeProcessor() *MergeProcessor {
	return &MergeProcessor{}
}

func (*MergeProcessor) Type() string {
	return "textMerge"
}

func (*MergeProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	separator := " "
	if s, ok := pc.Config["separator"].(string); ok {
		separator = s
	}

	// Connected inputs are collected in slot order. Empty strings count;
	// only an absent input is skipped.
	texts := make([]string, 0, len(mergeInputOrder))

	for _, name := range mergeInputOrder {
		raw, ok := pc.Inputs[name]
		if !ok {
			continue
		}

		text := ""
		if raw != nil {
			text = fmt.Sprintf("%v", raw)
		}

		texts = append(texts, text)
	}

	var merged string

	if template, ok := pc.Config["template"].(string); ok && template != "" {
		// Placeholders are positional against the collected texts, so
		// {text1} is the first connected input even when the text1 slot
		// itself is empty.
		merged = template
		for i, text := range texts {
			merged = strings.ReplaceAll(merged, fmt.Sprintf("{text%d}", i+1), text)
		}

		merged = strings.ReplaceAll(merged, "{separator}", separator)
	} else {
		merged = strings.Join(texts, separator)
	}

	return &processor.Result{
		Outputs: map[string]any{"result": merged},
	}, nil
}

func (*MergeProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"separator": map[string]any{"type": "string"},
			"template":  map[string]any{"type": "string"},
		},
	}
}
