package api

import (
	"context"

	"task-gateway/domain"
)

// TaskStore persists task records.
type TaskStore interface {
	Put(ctx context.Context, task domain.Task) error
	// Get returns domain.ErrNotFound when no task has the id.
	Get(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// MessageQueue carries task messages to downstream consumers.
type MessageQueue interface {
	Send(ctx context.Context, msg domain.QueueMessage) error
	Receive(ctx context.Context) ([]domain.ReceivedMessage, error)
	Ack(ctx context.Context, id, receipt string) error
}

// Notifier publishes notifications on a topic.
type Notifier interface {
	Publish(ctx context.Context, action string, payload any) error
}

// ImageStore keeps uploaded task photos.
type ImageStore interface {
	Container() string
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	List(ctx context.Context, prefix string) ([]domain.Image, error)
}

// Backends groups the gateways the handlers forward to.
type Backends struct {
	Tasks  TaskStore
	Queue  MessageQueue
	Topic  Notifier
	Images ImageStore
}
