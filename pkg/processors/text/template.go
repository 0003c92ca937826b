package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// TemplateProcessor substitutes {name} placeholders in the configured
// template with the node's inputs. Placeholders with no matching input are
// left untouched.
type TemplateProcessor struct{}

func NewTemplateProcessor() *TemplateProcessor {
	return &TemplateProcessor{}
}

func (*TemplateProcessor) Type() string {
	return "textTemplate"
}

func (*TemplateProcessor) Execute(_ context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	template, _ := pc.Config["template"].(string)

	rendered := template
	for name, raw := range pc.Inputs {
		if raw == nil {
			continue
		}

		rendered = strings.ReplaceAll(rendered, "{"+name+"}", fmt.Sprintf("%v", raw))
	}

	return &processor.Result{
		Outputs: map[string]any{"result": rendered},
	}, nil
}

func (*TemplateProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{"type": "string"},
		},
		"required": []any{"template"},
	}
}
