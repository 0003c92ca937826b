package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chillizu/ai-workflow-studio/pkg/adapters"
	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
	"github.com/Chillizu/ai-workflow-studio/pkg/processor"
)

type fakeConfigStore struct {
	configs map[string]*models.APIConfig
}

func (s *fakeConfigStore) GetByID(_ context.Context, id string) (*models.APIConfig, error) {
	if cfg, ok := s.configs[id]; ok {
		return cfg, nil
	}

	return nil, persistence.ErrAPIConfigNotFound
}

type fakeAdapter struct {
	gotRequest adapters.ImageGenerationRequest
	response   *adapters.ImageGenerationResponse
	err        error
}

func (a *fakeAdapter) GenerateImage(_ context.Context, req adapters.ImageGenerationRequest) (*adapters.ImageGenerationResponse, error) {
	a.gotRequest = req

	if a.err != nil {
		return nil, a.err
	}

	return a.response, nil
}

func (a *fakeAdapter) TestConnection(_ context.Context) error { return nil }

func (a *fakeAdapter) AvailableModels(_ context.Context) ([]string, error) { return nil, nil }

func (a *fakeAdapter) Close() error { return nil }

type fakeFactory struct {
	adapter *fakeAdapter
	gotCfg  *models.APIConfig
}

func (f *fakeFactory) FromAPIConfig(cfg *models.APIConfig) adapters.Adapter {
	f.gotCfg = cfg

	return f.adapter
}

func testSetup(adapter *fakeAdapter) (*GenerateProcessor, *fakeFactory) {
	store := &fakeConfigStore{configs: map[string]*models.APIConfig{
		"cfg-1": {ID: "cfg-1", Type: models.APIConfigTypeOpenAI, DefaultModel: "dall-e-3"},
	}}
	factory := &fakeFactory{adapter: adapter}

	return NewGenerateProcessor(store, factory), factory
}

func TestGenerateProcessor(t *testing.T) {
	adapter := &fakeAdapter{response: &adapters.ImageGenerationResponse{
		URL:           "https://img.example/out.png",
		Model:         "dall-e-3",
		RevisedPrompt: "refined prompt",
	}}

	p, factory := testSetup(adapter)
	assert.Equal(t, "aiGenerate", p.Type())

	result, err := p.Execute(context.Background(), processor.ProcessContext{
		Inputs: map[string]any{
			"prompt":         "a red fox",
			"negativePrompt": "blurry",
		},
		Config: map[string]any{
			"apiConfigId": "cfg-1",
			"size":        "1024x1024",
			"quality":     "hd",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://img.example/out.png", result.Outputs["image"])
	assert.Equal(t, "refined prompt", result.Metadata["revisedPrompt"])
	assert.Equal(t, "cfg-1", result.Metadata["apiConfigId"])

	assert.Equal(t, "cfg-1", factory.gotCfg.ID)
	assert.Equal(t, "a red fox", adapter.gotRequest.Prompt)
	assert.Equal(t, "blurry", adapter.gotRequest.NegativePrompt)
	assert.Equal(t, "1024x1024", adapter.gotRequest.Size)
	assert.Equal(t, "hd", adapter.gotRequest.Quality)
}

func TestGenerateProcessor_MissingPrompt(t *testing.T) {
	p, _ := testSetup(&fakeAdapter{})

	_, err := p.Execute(context.Background(), processor.ProcessContext{
		Config: map[string]any{"apiConfigId": "cfg-1"},
	})

	assert.Error(t, err)
}

func TestGenerateProcessor_MissingConfigID(t *testing.T) {
	p, _ := testSetup(&fakeAdapter{})

	_, err := p.Execute(context.Background(), processor.ProcessContext{
		Inputs: map[string]any{"prompt": "x"},
	})

	assert.Error(t, err)
}

func TestGenerateProcessor_UnknownConfig(t *testing.T) {
	p, _ := testSetup(&fakeAdapter{})

	_, err := p.Execute(context.Background(), processor.ProcessContext{
		Inputs: map[string]any{"prompt": "x"},
		Config: map[string]any{"apiConfigId": "missing"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrAPIConfigNotFound)
}

func TestGenerateProcessor_AdapterFailurePropagates(t *testing.T) {
	p, _ := testSetup(&fakeAdapter{err: errors.New("provider down")})

	_, err := p.Execute(context.Background(), processor.ProcessContext{
		Inputs: map[string]any{"prompt": "x"},
		Config: map[string]any{"apiConfigId": "cfg-1"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}
