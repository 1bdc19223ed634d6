package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"task-gateway/domain"
)

const (
	receiveBatchSize         int32 = 10
	visibilityTimeoutSeconds int32 = 30
)

// TaskQueue sends and receives task messages on a named queue.
type TaskQueue struct {
	service *azqueue.ServiceClient
	name    string
}

// NewTaskQueue returns a queue gateway for the named queue.
func NewTaskQueue(service *azqueue.ServiceClient, name string) *TaskQueue {
	return &TaskQueue{service: service, name: name}
}

// resolve looks the queue up on every call; the result is never cached.
func (q *TaskQueue) resolve(ctx context.Context) (*azqueue.QueueClient, error) {
	client := q.service.NewQueueClient(q.name)
	if _, err := client.GetProperties(ctx, nil); err != nil {
		return nil, fmt.Errorf("resolve queue %s: %w", q.name, err)
	}
	return client, nil
}

// Send enqueues msg as JSON.
func (q *TaskQueue) Send(ctx context.Context, msg domain.QueueMessage) error {
	client, err := q.resolve(ctx)
	if err != nil {
		return err
	}
	body, err := sonic.MarshalString(msg)
	if err != nil {
		return err
	}
	_, err = client.EnqueueMessage(ctx, body, nil)
	return err
}

// Receive pulls up to ten messages. Messages are not removed; they become
// visible again once the visibility timeout passes unless acknowledged.
func (q *TaskQueue) Receive(ctx context.Context) ([]domain.ReceivedMessage, error) {
	client, err := q.resolve(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.DequeueMessages(ctx, &azqueue.DequeueMessagesOptions{
		NumberOfMessages:  to.Ptr(receiveBatchSize),
		VisibilityTimeout: to.Ptr(visibilityTimeoutSeconds),
	})
	if err != nil {
		return nil, err
	}
	return decodeMessages(resp.Messages), nil
}

// Ack deletes a received message. It returns ErrNotFound when the message is
// already gone.
func (q *TaskQueue) Ack(ctx context.Context, id, receipt string) error {
	client, err := q.resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := client.DeleteMessage(ctx, id, receipt, nil); err != nil {
		if hasCode(err, messageNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func decodeMessages(msgs []*azqueue.DequeuedMessage) []domain.ReceivedMessage {
	out := make([]domain.ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		if m == nil {
			continue
		}
		text := deref(m.MessageText)
		var body any
		if err := sonic.UnmarshalString(text, &body); err != nil {
			// Bodies written by other producers may not be JSON.
			body = text
		}
		out = append(out, domain.ReceivedMessage{
			ID:            deref(m.MessageID),
			Body:          body,
			ReceiptHandle: deref(m.PopReceipt),
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
