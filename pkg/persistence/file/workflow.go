package file

import (
	"context"
	"sort"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// WorkflowRepository stores workflow documents under root/workflows.
type WorkflowRepository struct {
	root string
}

func (r *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := listIDs(r.root, workflowsDir)
	if err != nil {
		return nil, err
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	sort.Slice(workflows, func(i, j int) bool {
		return workflows[i].UpdatedAt.After(workflows[j].UpdatedAt)
	})

	return workflows, nil
}

func (r *WorkflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	var workflow models.Workflow
	if err := readDocument(r.root, workflowsDir, id, &workflow, persistence.ErrWorkflowNotFound); err != nil {
		return nil, err
	}

	return &workflow, nil
}

func (r *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	return writeDocument(r.root, workflowsDir, workflow.ID, workflow)
}

func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	return deleteDocument(r.root, workflowsDir, id, persistence.ErrWorkflowNotFound)
}
