package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-gateway/domain"
)

// postTask stores the task, then tells downstream consumers about it. Only the
// store step decides the outcome; enqueue and publish are best-effort.
func postTask(b Backends, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics, ctx := newTaskRequestMetrics(c.Request().Context(), logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		var in domain.TaskInput
		if decodeErr := decodeJSON(c, &in); decodeErr != nil {
			metrics.SetErrorStage(stageDecode)
			err = invalidBody(c, decodeErr)
			return err
		}
		task := domain.NewTask(in, time.Now())
		metrics.SetTaskID(task.ID)

		storeStart := time.Now()
		storeErr := b.Tasks.Put(ctx, task)
		metrics.ObserveStore(time.Since(storeStart))
		if storeErr != nil {
			metrics.SetErrorStage(stageStore)
			err = backendFailure(c, logger, "save task failed", storeErr)
			return err
		}
		logger.WithField("task_id", task.ID).Info("task saved")

		bestEffort := func(step string, fn func(context.Context) error) {
			start := time.Now()
			stepErr := attempt(ctx, logger, step, fn)
			metrics.ObserveStep(step, time.Since(start), stepErr)
		}
		bestEffort(stepEnqueue, func(ctx context.Context) error {
			return b.Queue.Send(ctx, domain.NewQueueMessage(domain.ActionTaskCreated, task))
		})
		bestEffort(stepPublish, func(ctx context.Context) error {
			return b.Topic.Publish(ctx, domain.ActionTaskCreated, domain.TaskNotification{
				Action: domain.ActionTaskCreated,
				TaskID: task.ID,
				Title:  task.Title,
			})
		})

		err = c.JSON(http.StatusOK, taskResponse{Success: true, Task: task})
		return err
	}
}

func listTasks(store TaskStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		tasks, err := store.List(c.Request().Context())
		if err != nil {
			return backendFailure(c, logger, "list tasks failed", err)
		}
		return c.JSON(http.StatusOK, tasksResponse{Success: true, Tasks: tasks, Count: len(tasks)})
	}
}

func getTask(store TaskStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := store.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fail(c, http.StatusNotFound, "task not found")
			}
			return backendFailure(c, logger, "get task failed", err)
		}
		return c.JSON(http.StatusOK, taskResponse{Success: true, Task: task})
	}
}

func deleteTask(store TaskStore, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if err := store.Delete(c.Request().Context(), id); err != nil {
			return backendFailure(c, logger, "delete task failed", err)
		}
		logger.WithField("task_id", id).Info("task deleted")
		return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "task deleted"})
	}
}
