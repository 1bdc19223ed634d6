package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority labels understood by clients. Other labels are stored verbatim.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultCategory is assigned to tasks written without a category.
const DefaultCategory = "other"

// TimestampLayout renders timestamps in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Task represents a single to-do item and the photos attached to it.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Completed   bool     `json:"completed"`
	Priority    string   `json:"priority"`
	CategoryID  string   `json:"categoryId"`
	PhotoPaths  []string `json:"photoPaths"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt *string  `json:"completedAt"`
	CompletedBy *string  `json:"completedBy"`
}

// TaskInput holds the client supplied fields of a task write. All fields are
// optional; NewTask fills in whatever is missing.
type TaskInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Completed   *bool    `json:"completed"`
	Priority    string   `json:"priority"`
	CategoryID  string   `json:"categoryId"`
	PhotoPaths  []string `json:"photoPaths"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt *string  `json:"completedAt"`
	CompletedBy *string  `json:"completedBy"`
}

// NewTask builds a complete record from the input. The result always replaces
// any stored record with the same id.
func NewTask(in TaskInput, now time.Time) Task {
	t := Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		CategoryID:  in.CategoryID,
		PhotoPaths:  in.PhotoPaths,
		CreatedAt:   in.CreatedAt,
		CompletedAt: nonEmpty(in.CompletedAt),
		CompletedBy: nonEmpty(in.CompletedBy),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.CategoryID == "" {
		t.CategoryID = DefaultCategory
	}
	if t.PhotoPaths == nil {
		t.PhotoPaths = []string{}
	}
	if t.CreatedAt == "" {
		t.CreatedAt = FormatTimestamp(now)
	}
	return t
}

// FormatTimestamp renders t the way task timestamps are stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
