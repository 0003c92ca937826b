package image

import (
	"context"
	"fmt"

	"github.com/Chillizu/ai-workflow-studio/pkg/imaging"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

const (
	defaultResizeWidth  = 512
	defaultResizeHeight = 512
)

// ResizeProcessor scales its image input to the configured dimensions.
type ResizeProcessor struct {
	resizer imaging.Resizer
}

func NewResizeProcessor(resizer imaging.Resizer) *ResizeProcessor {
	return &ResizeProcessor{resizer: resizer}
}

func (*ResizeProcessor) Type() string {
	return "imageResize"
}

func (p *ResizeProcessor) Execute(ctx context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	raw, ok := pc.Inputs["image"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("no image connected")
	}

	opts := imaging.Options{
		Width:  configInt(pc.Config, "width", defaultResizeWidth),
		Height: configInt(pc.Config, "height", defaultResizeHeight),
		Fit:    imaging.FitCover,
	}

	if fit, ok := pc.Config["fit"].(string); ok && fit != "" {
		opts.Fit = fit
	}

	resized, err := p.resizer.Resize(ctx, fmt.Sprintf("%v", raw), pc.ExecutionID, opts)
	if err != nil {
		return nil, fmt.Errorf("resizing image: %w", err)
	}

	return &processor.Result{
		Outputs: map[string]any{"result": resized},
		Metadata: map[string]any{
			"width":  opts.Width,
			"height": opts.Height,
			"fit":    opts.Fit,
		},
	}, nil
}

func (*ResizeProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"width":  map[string]any{"type": "number", "minimum": 1},
			"height": map[string]any{"type": "number", "minimum": 1},
			"fit":    map[string]any{"type": "string", "enum": []any{"cover", "contain", "fill"}},
		},
	}
}

// configInt reads a numeric config value, tolerating the float64 that JSON
// decoding produces.
func configInt(config map[string]any, key string, fallback int) int {
	switch v := config[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}

	return fallback
}
