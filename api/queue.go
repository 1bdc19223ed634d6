package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-gateway/domain"
)

func receiveMessages(queue MessageQueue, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		msgs, err := queue.Receive(c.Request().Context())
		if err != nil {
			return backendFailure(c, logger, "receive messages failed", err)
		}
		if msgs == nil {
			msgs = []domain.ReceivedMessage{}
		}
		return c.JSON(http.StatusOK, queueMessagesResponse{Success: true, Messages: msgs, Count: len(msgs)})
	}
}

func ackMessage(queue MessageQueue, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		receipt := c.QueryParam("receiptHandle")
		if receipt == "" {
			return fail(c, http.StatusBadRequest, "receiptHandle not provided")
		}
		id := c.Param("id")
		if err := queue.Ack(c.Request().Context(), id, receipt); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fail(c, http.StatusNotFound, "message not found")
			}
			return backendFailure(c, logger, "ack message failed", err)
		}
		logger.WithField("message_id", id).Info("message acknowledged")
		return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "message acknowledged"})
	}
}

// postNotification publishes the request body as is. Publishing is
// best-effort, so the client always gets success once the body parses.
func postNotification(topic Notifier, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]any{}
		if err := decodeJSON(c, &body); err != nil {
			return invalidBody(c, err)
		}
		action, _ := body["action"].(string)
		_ = attempt(c.Request().Context(), logger, stepPublish, func(ctx context.Context) error {
			return topic.Publish(ctx, action, body)
		})
		return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "notification sent"})
	}
}
