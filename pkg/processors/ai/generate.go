// Package ai provides the image generation node processor.
package ai

import (
	"context"
	"fmt"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

// ConfigStore resolves the API config a generation node references.
type ConfigStore interface {
	GetByID(ctx context.Context, id string) (*models.APIConfig, error)
}

// AdapterFactory yields the provider adapter for an API config.
type AdapterFactory interface {
	FromAPIConfig(cfg *models.APIConfig) adapters.Adapter
}

// GenerateProcessor turns a prompt into an image through the provider
// adapter selected by the node's apiConfigId.
type GenerateProcessor struct {
	configs ConfigStore
	factory AdapterFactory
}

func NewGenerateProcessor(configs ConfigStore, factory AdapterFactory) *GenerateProcessor {
	return &GenerateProcessor{configs: configs, factory: factory}
}

func (*GenerateProcessor) Type() string {
	return "aiGenerate"
}

func (p *GenerateProcessor) Execute(ctx context.Context, pc processor.ProcessContext) (*processor.Result, error) {
	prompt, ok := pc.Inputs["prompt"].(string)
	if !ok || prompt == "" {
		return nil, fmt.Errorf("no prompt connected")
	}

	configID, _ := pc.Config["apiConfigId"].(string)
	if configID == "" {
		return nil, fmt.Errorf("no API config selected")
	}

	cfg, err := p.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("loading API config %s: %w", configID, err)
	}

	req := adapters.ImageGenerationRequest{
		Prompt: prompt,
	}

	if negative, ok := pc.Inputs["negativePrompt"].(string); ok {
		req.NegativePrompt = negative
	}

	if reference, ok := pc.Inputs["referenceImage"].(string); ok {
		req.ReferenceImage = reference
	}

	if model, ok := pc.Config["model"].(string); ok && model != "" {
		req.Model = model
	}

	if size, ok := pc.Config["size"].(string); ok {
		req.Size = size
	}

	if quality, ok := pc.Config["quality"].(string); ok {
		req.Quality = quality
	}

	if style, ok := pc.Config["style"].(string); ok {
		req.Style = style
	}

	resp, err := p.factory.FromAPIConfig(cfg).GenerateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}

	return &processor.Result{
		Outputs: map[string]any{"image": resp.URL},
		Metadata: map[string]any{
			"model":         resp.Model,
			"revisedPrompt": resp.RevisedPrompt,
			"apiConfigId":   configID,
		},
	}, nil
}

func (*GenerateProcessor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"apiConfigId": map[string]any{"type": "string", "minLength": 1},
			"model":       map[string]any{"type": "string"},
			"size":        map[string]any{"type": "string"},
			"quality":     map[string]any{"type": "string"},
			"style":       map[string]any{"type": "string"},
		},
		"required": []any{"apiConfigId"},
	}
}
