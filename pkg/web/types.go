package web

import "github.com/Chillizu/ai-workflow-studio/pkg/models"

// WorkflowRequest is the payload for creating or updating a workflow.
type WorkflowRequest struct {
	Name        string         `json:"name"        validate:"required,min=1,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Nodes       []*models.Node `json:"nodes"`
	Edges       []*models.Edge `json:"edges"`
}

// APIConfigRequest is the payload for creating or updating an API config.
type APIConfigRequest struct {
	Name               string               `json:"name"               validate:"required,min=1,max=200"`
	Type               models.APIConfigType `json:"type"               validate:"required,oneof=openai openrouter custom"`
	APIKey             string               `json:"apiKey"             validate:"required"`
	Endpoint           string               `json:"endpoint"           validate:"omitempty,url"`
	DefaultModel       string               `json:"defaultModel"`
	TimeoutMs          int                  `json:"timeout"            validate:"omitempty,min=1000,max=600000"`
	MaxRetries         int                  `json:"maxRetries"         validate:"omitempty,min=0,max=10"`
	RateLimitPerMinute int                  `json:"rateLimitPerMinute" validate:"omitempty,min=1,max=10000"`
}

// NodeDescriptor describes one processor type in the node catalog.
type NodeDescriptor struct {
	Type   string         `json:"type"`
	Schema map[string]any `json:"schema"`
}

func (r *WorkflowRequest) toModel() *models.Workflow {
	return &models.Workflow{
		Name:        r.Name,
		Description: r.Description,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
	}
}

func (r *APIConfigRequest) toModel() *models.APIConfig {
	return &models.APIConfig{
		Name:               r.Name,
		Type:               r.Type,
		APIKey:             r.APIKey,
		Endpoint:           r.Endpoint,
		DefaultModel:       r.DefaultModel,
		TimeoutMs:          r.TimeoutMs,
		MaxRetries:         r.MaxRetries,
		RateLimitPerMinute: r.RateLimitPerMinute,
	}
}
