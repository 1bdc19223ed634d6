package api

import "task-gateway/domain"

const (
	maxJSONBodySize   = 50 * 1024 * 1024 // 50 MiB
	maxUploadFileSize = 10 * 1024 * 1024 // 10 MiB
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type taskResponse struct {
	Success bool        `json:"success"`
	Task    domain.Task `json:"task"`
}

type tasksResponse struct {
	Success bool          `json:"success"`
	Tasks   []domain.Task `json:"tasks"`
	Count   int           `json:"count"`
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	ImageKey string `json:"imageKey"`
	Bucket   string `json:"bucket"`
}

type imagesResponse struct {
	Success bool           `json:"success"`
	Images  []domain.Image `json:"images"`
	Count   int            `json:"count"`
}

type queueMessagesResponse struct {
	Success  bool                     `json:"success"`
	Messages []domain.ReceivedMessage `json:"messages"`
	Count    int                      `json:"count"`
}

// /POST /api/upload/base64 request body
type base64UploadRequest struct {
	Image  string `json:"image"`
	TaskID string `json:"taskId"`
}
