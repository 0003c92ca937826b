package file

import (
	"context"
	"sort"

	"github.com/Chillizu/ai-workflow-studio/pkg/models"
	"github.com/Chillizu/ai-workflow-studio/pkg/persistence"
)

// ExecutionRepository stores execution records under root/executions.
type ExecutionRepository struct {
	root string
}

func (r *ExecutionRepository) List(ctx context.Context) ([]*models.ExecutionRecord, error) {
	ids, err := listIDs(r.root, executionsDir)
	if err != nil {
		return nil, err
	}

	records := make([]*models.ExecutionRecord, 0, len(ids))

	for _, id := range ids {
		record, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	sortNewestFirst(records)

	return records, nil
}

func (r *ExecutionRepository) ListByWorkflow(ctx context.Context, workflowID string) ([]*models.ExecutionRecord, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*models.ExecutionRecord, 0, len(all))

	for _, record := range all {
		if record.WorkflowID == workflowID {
			records = append(records, record)
		}
	}

	return records, nil
}

func (r *ExecutionRepository) GetByID(_ context.Context, id string) (*models.ExecutionRecord, error) {
	var record models.ExecutionRecord
	if err := readDocument(r.root, executionsDir, id, &record, persistence.ErrExecutionNotFound); err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *ExecutionRepository) Save(_ context.Context, record *models.ExecutionRecord) error {
	return writeDocument(r.root, executionsDir, record.ID, record)
}

func sortNewestFirst(records []*models.ExecutionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
}
