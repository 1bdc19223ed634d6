package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"

	"task-gateway/domain"
)

// tableClient is the subset of *aztables.Client used by TaskTable.
type tableClient interface {
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
	GetEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey string, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
	NewListEntitiesPager(listOptions *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
}

// TaskTable stores task records keyed by id.
type TaskTable struct {
	client tableClient
}

// NewTaskTable wraps an existing table client.
func NewTaskTable(client tableClient) *TaskTable {
	return &TaskTable{client: client}
}

type taskEntity struct {
	aztables.Entity
	Title       string  `json:"Title"`
	Description string  `json:"Description,omitempty"`
	Completed   bool    `json:"Completed"`
	Priority    string  `json:"Priority"`
	CategoryID  string  `json:"CategoryId"`
	PhotoPaths  string  `json:"PhotoPaths"`
	CreatedAt   string  `json:"CreatedAt"`
	CompletedAt *string `json:"CompletedAt,omitempty"`
	CompletedBy *string `json:"CompletedBy,omitempty"`
}

// Put stores the task, replacing every property of an existing record.
func (t *TaskTable) Put(ctx context.Context, task domain.Task) error {
	payload, err := encodeTask(task)
	if err != nil {
		return err
	}
	_, err = t.client.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

// Get returns the task with the given id or ErrNotFound. A missing table is a
// backend error, not a missing task.
func (t *TaskTable) Get(ctx context.Context, id string) (domain.Task, error) {
	resp, err := t.client.GetEntity(ctx, id, id, nil)
	if err != nil {
		if hasCode(err, entityNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	return decodeTask(resp.Value)
}

// List returns every stored task in backend order.
func (t *TaskTable) List(ctx context.Context) ([]domain.Task, error) {
	pager := t.client.NewListEntitiesPager(nil)
	tasks := []domain.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range resp.Entities {
			task, err := decodeTask(e)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Delete removes the task. Deleting an unknown id is not an error; a missing
// table is.
func (t *TaskTable) Delete(ctx context.Context, id string) error {
	_, err := t.client.DeleteEntity(ctx, id, id, nil)
	if err != nil && !hasCode(err, entityNotFound) {
		return err
	}
	return nil
}

func encodeTask(task domain.Task) ([]byte, error) {
	photos := task.PhotoPaths
	if photos == nil {
		photos = []string{}
	}
	encodedPhotos, err := sonic.MarshalString(photos)
	if err != nil {
		return nil, err
	}
	return sonic.Marshal(taskEntity{
		Entity: aztables.Entity{
			PartitionKey: task.ID,
			RowKey:       task.ID,
		},
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		CategoryID:  task.CategoryID,
		PhotoPaths:  encodedPhotos,
		CreatedAt:   task.CreatedAt,
		CompletedAt: task.CompletedAt,
		CompletedBy: task.CompletedBy,
	})
}

func decodeTask(data []byte) (domain.Task, error) {
	var ent taskEntity
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return domain.Task{}, err
	}
	photos := []string{}
	if ent.PhotoPaths != "" {
		if err := sonic.UnmarshalString(ent.PhotoPaths, &photos); err != nil {
			return domain.Task{}, err
		}
		if photos == nil {
			photos = []string{}
		}
	}
	return domain.Task{
		ID:          ent.RowKey,
		Title:       ent.Title,
		Description: ent.Description,
		Completed:   ent.Completed,
		Priority:    ent.Priority,
		CategoryID:  ent.CategoryID,
		PhotoPaths:  photos,
		CreatedAt:   ent.CreatedAt,
		CompletedAt: ent.CompletedAt,
		CompletedBy: ent.CompletedBy,
	}, nil
}
