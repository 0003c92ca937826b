package file

import (
	"context"
	"sort"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// APIConfigRepository stores API configurations under root/configs.
type APIConfigRepository struct {
	root string
}

func (r *APIConfigRepository) List(ctx context.Context) ([]*models.APIConfig, error) {
	ids, err := listIDs(r.root, configsDir)
	if err != nil {
		return nil, err
	}

	configs := make([]*models.APIConfig, 0, len(ids))

	for _, id := range ids {
		config, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		configs = append(configs, config)
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})

	return configs, nil
}

func (r *APIConfigRepository) GetByID(_ context.Context, id string) (*models.APIConfig, error) {
	var config models.APIConfig
	if err := readDocument(r.root, configsDir, id, &config, persistence.ErrAPIConfigNotFound); err != nil {
		return nil, err
	}

	return &config, nil
}

func (r *APIConfigRepository) Save(_ context.Context, config *models.APIConfig) error {
	return writeDocument(r.root, configsDir, config.ID, config)
}

func (r *APIConfigRepository) Delete(_ context.Context, id string) error {
	return deleteDocument(r.root, configsDir, id, persistence.ErrAPIConfigNotFound)
}
