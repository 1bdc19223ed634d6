package domain

// ActionTaskCreated tags messages emitted after a task write.
const ActionTaskCreated = "TASK_CREATED"

// ActionAttribute is the name of the message attribute carrying the action tag.
const ActionAttribute = "Action"

// QueueMessage is the body enqueued for downstream consumers of task writes.
type QueueMessage struct {
	Action     string            `json:"action"`
	Attributes map[string]string `json:"attributes"`
	Task       *Task             `json:"task,omitempty"`
}

// NewQueueMessage wraps task in a message tagged with action.
func NewQueueMessage(action string, task Task) QueueMessage {
	return QueueMessage{
		Action:     action,
		Attributes: map[string]string{ActionAttribute: action},
		Task:       &task,
	}
}

// ReceivedMessage is a message pulled from the queue. It stays on the queue
// until acknowledged with its receipt handle.
type ReceivedMessage struct {
	ID            string `json:"id"`
	Body          any    `json:"body"`
	ReceiptHandle string `json:"receiptHandle"`
}

// TaskNotification is the payload published when a task is written.
type TaskNotification struct {
	Action string `json:"action"`
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

// Notification is the envelope published on the notification topic.
type Notification struct {
	Subject string `json:"subject"`
	Message any    `json:"message"`
}

// SubjectFor derives the notification subject line from an action tag.
func SubjectFor(action string) string {
	if action == "" {
		return "Notification"
	}
	return "Notification: " + action
}
